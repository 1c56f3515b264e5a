package domain

import (
	"context"
	"errors"
	"time"
)

var ErrUnauthorized = errors.New("unauthorized access")

type UserRepository interface {
	// Create persists a new user. Implementations must surface
	// ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type ReflectionRepository interface {
	// Create persists a new reflection.
	Create(ctx context.Context, reflection *Reflection) error

	// GetByID retrieves a single reflection.
	GetByID(ctx context.Context, id string) (*Reflection, error)

	// ListByUserID retrieves a user's reflections, newest first.
	ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*Reflection, error)

	// ListTimestamps returns every reflection creation instant for a user.
	// Streak math derives ActivityDays from these in the user's timezone.
	ListTimestamps(ctx context.Context, userID string) ([]time.Time, error)

	// Delete permanently removes a reflection.
	Delete(ctx context.Context, id string) error
}

type ChallengeRepository interface {
	// CreateBatch persists the challenges generated for one reflection in a
	// single write. All or nothing: a partial batch is never stored.
	CreateBatch(ctx context.Context, challenges []*Challenge) error

	// GetByID retrieves a single challenge.
	GetByID(ctx context.Context, id string) (*Challenge, error)

	// ListByUserID retrieves all of a user's challenges, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*Challenge, error)

	// ListCompletedByUserID retrieves only completed challenges. This is the
	// source of truth for life-balance aggregation.
	ListCompletedByUserID(ctx context.Context, userID string) ([]*Challenge, error)

	// CompleteAndAward atomically marks a pending challenge completed,
	// appends the points ledger entry, and adds the challenge's points to
	// the user's total. Returns the challenge and the new total.
	// Must be conditional on the challenge still being pending so that
	// concurrent or retried completions can never double-credit:
	// an already-completed challenge yields ErrChallengeAlreadyCompleted
	// with no state change.
	CompleteAndAward(ctx context.Context, challengeID, userID string, completedAt time.Time) (*Challenge, int, error)

	// Dismiss marks a pending challenge dismissed with no point award.
	Dismiss(ctx context.Context, challengeID, userID string, dismissedAt time.Time) error

	// DeleteStale bulk-deletes pending challenges whose due date passed
	// before the cutoff. Idempotent: zero matching rows is not an error.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type ProgressRepository interface {
	// Get retrieves a user's progress, returning a zero-point record if the
	// user has never been awarded points.
	Get(ctx context.Context, userID string) (*UserProgress, error)

	// ListHistory returns ledger entries created at or after since,
	// ascending.
	ListHistory(ctx context.Context, userID string, since time.Time) ([]*PointsHistoryEntry, error)
}

type StreakRepository interface {
	// Get retrieves a user's streak state, returning a zeroed record for
	// users with no activity yet.
	Get(ctx context.Context, userID string) (*StreakState, error)

	// Save upserts the streak state.
	Save(ctx context.Context, state *StreakState) error
}

type MilestoneRepository interface {
	// ListByUserID returns every celebrated milestone for a user.
	ListByUserID(ctx context.Context, userID string) ([]*Milestone, error)

	// Create records a celebration. The (user, threshold) pair is unique;
	// a duplicate yields ErrMilestoneCelebrated so celebration stays
	// one-way.
	Create(ctx context.Context, milestone *Milestone) error
}
