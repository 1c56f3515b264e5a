package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

// HTTPGenerator calls the external challenge-generation service. The
// response payload is untrusted: callers validate it through
// domain.ValidateStubs before anything is stored.
type HTTPGenerator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGenerator(baseURL, apiKey string, timeout time.Duration) *HTTPGenerator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateResponse struct {
	Challenges []domain.ChallengeStub `json:"challenges"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.ChallengeStub, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("generation: encode request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/challenges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("generation: build request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrGenerationUnavailable, resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response failed: %v", domain.ErrGenerationUnavailable, err)
	}

	return payload.Challenges, nil
}
