package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrChallengeNotFound         = errors.New("challenge not found")
	ErrChallengeTitleEmpty       = errors.New("challenge title cannot be empty")
	ErrChallengeDescriptionEmpty = errors.New("challenge description cannot be empty")
	ErrChallengeInvalidUserID    = errors.New("invalid user id")
	ErrChallengeAlreadyCompleted = errors.New("challenge already completed")
	ErrChallengeDismissed        = errors.New("challenge has been dismissed")
	ErrChallengeExpired          = errors.New("challenge has expired")
)

const (
	// ChallengeLifetime is the window a challenge stays actionable after creation.
	ChallengeLifetime = 24 * time.Hour

	// StaleGrace is how long past due a pending challenge survives before the
	// cleanup worker may delete it.
	StaleGrace = 24 * time.Hour

	MinChallengePoints = 10
	MaxChallengePoints = 50

	// ChallengesPerReflection is the exact number of challenges generated for
	// every reflection.
	ChallengesPerReflection = 3
)

// The eight fixed life categories. CategoryDefault absorbs anything the
// generation collaborator returns that is not in this set.
const (
	CategoryMindfulness    = "mindfulness"
	CategoryPhysicalHealth = "physical_health"
	CategoryRelationships  = "relationships"
	CategoryCareer         = "career"
	CategoryPersonalGrowth = "personal_growth"
	CategoryCreativity     = "creativity"
	CategoryFinance        = "finance"
	CategorySocial         = "social"

	CategoryDefault = CategoryPersonalGrowth
)

// Categories is the canonical ordering used by every per-category report.
var Categories = []string{
	CategoryMindfulness,
	CategoryPhysicalHealth,
	CategoryRelationships,
	CategoryCareer,
	CategoryPersonalGrowth,
	CategoryCreativity,
	CategoryFinance,
	CategorySocial,
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// NormalizeCategory maps unknown or empty categories to the default bucket.
func NormalizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if !IsValidCategory(category) {
		return CategoryDefault
	}
	return category
}

// ClampPoints forces a point value into the allowed [10,50] range.
func ClampPoints(points int) int {
	if points < MinChallengePoints {
		return MinChallengePoints
	}
	if points > MaxChallengePoints {
		return MaxChallengePoints
	}
	return points
}

type ChallengeState string

const (
	ChallengePending   ChallengeState = "pending"
	ChallengeCompleted ChallengeState = "completed"
	ChallengeDismissed ChallengeState = "dismissed"
	ChallengeExpired   ChallengeState = "expired"
)

// Challenge is a time-boxed, point-valued task generated from a reflection.
// Immutable after creation except for the completed/dismissed transitions.
type Challenge struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	ReflectionID string     `json:"reflection_id" db:"reflection_id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Category     string     `json:"category" db:"category"`
	Points       int        `json:"points" db:"points"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	DueDate      time.Time  `json:"due_date" db:"due_date"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	DismissedAt  *time.Time `json:"dismissed_at,omitempty" db:"dismissed_at"`
}

func NewChallenge(userID, reflectionID, title, description, category string, points int) (*Challenge, error) {
	if userID == "" {
		return nil, ErrChallengeInvalidUserID
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrChallengeTitleEmpty
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrChallengeDescriptionEmpty
	}

	now := time.Now().UTC()

	return &Challenge{
		ID:           uuid.NewString(),
		UserID:       userID,
		ReflectionID: reflectionID,
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		Category:     NormalizeCategory(category),
		Points:       ClampPoints(points),
		CreatedAt:    now,
		DueDate:      now.Add(ChallengeLifetime),
	}, nil
}

// State derives the lifecycle state at a given instant. Expiry is never
// stored: a pending challenge past its due date reads as expired until the
// cleanup worker removes it.
func (c *Challenge) State(now time.Time) ChallengeState {
	switch {
	case c.CompletedAt != nil:
		return ChallengeCompleted
	case c.DismissedAt != nil:
		return ChallengeDismissed
	case now.After(c.DueDate):
		return ChallengeExpired
	default:
		return ChallengePending
	}
}

// Complete marks the challenge completed. Completing an already-completed
// challenge returns ErrChallengeAlreadyCompleted so callers can treat the
// retry as a no-op instead of double-awarding points.
func (c *Challenge) Complete(now time.Time) error {
	if c.CompletedAt != nil {
		return ErrChallengeAlreadyCompleted
	}
	if c.DismissedAt != nil {
		return ErrChallengeDismissed
	}

	ts := now.UTC()
	c.CompletedAt = &ts
	return nil
}

// Dismiss removes the challenge from play with no point award.
func (c *Challenge) Dismiss(now time.Time) error {
	if c.CompletedAt != nil {
		return ErrChallengeAlreadyCompleted
	}
	if c.DismissedAt != nil {
		return ErrChallengeDismissed
	}

	ts := now.UTC()
	c.DismissedAt = &ts
	return nil
}

// Stale reports whether a pending challenge is past due by more than the
// grace window and is therefore eligible for cleanup deletion.
func (c *Challenge) Stale(now time.Time) bool {
	return c.CompletedAt == nil && c.DismissedAt == nil && now.After(c.DueDate.Add(StaleGrace))
}
