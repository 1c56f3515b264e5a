package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrGenerationUnavailable = errors.New("challenge generation unavailable")
	ErrGenerationBadCount    = fmt.Errorf("generation response must contain exactly %d challenges", ChallengesPerReflection)
	ErrGenerationBadStub     = errors.New("generation stub missing title, description, or points")
)

// GenerationRequest is what the external generator receives: the reflection
// text plus the prompt theme to steer it.
type GenerationRequest struct {
	ReflectionText string `json:"reflection_text"`
	ThemeID        string `json:"theme_id"`
}

// ChallengeStub is one untrusted entry from the generation collaborator.
type ChallengeStub struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Category    string `json:"category"`
}

// ChallengeGenerator is the external collaborator producing challenge stubs
// from a reflection. Implementations talk to whatever model or service is
// configured; the engine only sees validated stubs.
type ChallengeGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) ([]ChallengeStub, error)
}

// stubPolicy strips any markup the generator smuggles into titles and
// descriptions before they reach storage or clients.
var stubPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from untrusted text (reflection bodies,
// generated copy) at the service edge.
func SanitizeText(s string) string {
	return stubPolicy.Sanitize(s)
}

// ValidateStubs checks and sanitizes a generation response. A response with
// the wrong count, or any entry missing title or description, is rejected
// outright: a partial batch is never applied. Points are clamped into range
// and unknown categories fall back to the default, since those are
// recoverable defects rather than structural ones.
func ValidateStubs(stubs []ChallengeStub) ([]ChallengeStub, error) {
	if len(stubs) != ChallengesPerReflection {
		return nil, ErrGenerationBadCount
	}

	clean := make([]ChallengeStub, 0, len(stubs))
	for _, stub := range stubs {
		title := strings.TrimSpace(stubPolicy.Sanitize(stub.Title))
		desc := strings.TrimSpace(stubPolicy.Sanitize(stub.Description))
		if title == "" || desc == "" || stub.Points <= 0 {
			return nil, ErrGenerationBadStub
		}

		clean = append(clean, ChallengeStub{
			Title:       title,
			Description: desc,
			Points:      ClampPoints(stub.Points),
			Category:    NormalizeCategory(stub.Category),
		})
	}

	return clean, nil
}
