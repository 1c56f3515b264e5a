package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

type PostgresChallengeRepository struct {
	db *sqlx.DB
}

func NewPostgresChallengeRepository(db *sqlx.DB) *PostgresChallengeRepository {
	return &PostgresChallengeRepository{db: db}
}

func (r *PostgresChallengeRepository) CreateBatch(ctx context.Context, challenges []*domain.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin challenge batch failed: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO challenges (
			id, user_id, reflection_id,
			title, description, category, points,
			created_at, due_date, completed_at, dismissed_at
		) VALUES (
			:id, :user_id, :reflection_id,
			:title, :description, :category, :points,
			:created_at, :due_date, :completed_at, :dismissed_at
		)`

	for _, c := range challenges {
		if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23503" {
				return errors.New("referenced reflection or user does not exist")
			}
			return fmt.Errorf("repository: insert challenge failed: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresChallengeRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	var challenge domain.Challenge
	query := `SELECT * FROM challenges WHERE id = $1`

	if err := r.db.GetContext(ctx, &challenge, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("repository: get challenge failed: %w", err)
	}
	return &challenge, nil
}

func (r *PostgresChallengeRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Challenge, error) {
	challenges := []*domain.Challenge{}

	query := `SELECT * FROM challenges WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &challenges, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list challenges failed: %w", err)
	}
	return challenges, nil
}

func (r *PostgresChallengeRepository) ListCompletedByUserID(ctx context.Context, userID string) ([]*domain.Challenge, error) {
	challenges := []*domain.Challenge{}

	query := `SELECT * FROM challenges WHERE user_id = $1 AND completed_at IS NOT NULL ORDER BY completed_at DESC`

	if err := r.db.SelectContext(ctx, &challenges, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list completed challenges failed: %w", err)
	}
	return challenges, nil
}

// CompleteAndAward runs the whole award in one transaction guarded by a
// conditional update, so a concurrent duplicate completion finds zero rows
// and credits nothing.
func (r *PostgresChallengeRepository) CompleteAndAward(ctx context.Context, challengeID, userID string, completedAt time.Time) (*domain.Challenge, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: begin award failed: %w", err)
	}
	defer tx.Rollback()

	var challenge domain.Challenge
	complete := `
		UPDATE challenges
		SET completed_at = $1
		WHERE id = $2
		  AND user_id = $3
		  AND completed_at IS NULL
		  AND dismissed_at IS NULL
		  AND due_date >= $1
		RETURNING *`

	if err := tx.GetContext(ctx, &challenge, complete, completedAt, challengeID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, r.classifyConflict(ctx, challengeID, userID, completedAt)
		}
		return nil, 0, fmt.Errorf("repository: complete challenge failed: %w", err)
	}

	entry := domain.NewPointsHistoryEntry(userID, challengeID, challenge.Points)
	ledger := `
		INSERT INTO points_history (id, user_id, challenge_id, points, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, ledger, entry.ID, entry.UserID, entry.ChallengeID, entry.Points, entry.CreatedAt); err != nil {
		return nil, 0, fmt.Errorf("repository: append points ledger failed: %w", err)
	}

	var total int
	progress := `
		INSERT INTO user_progress (user_id, total_points, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET total_points = user_progress.total_points + EXCLUDED.total_points,
		    updated_at = EXCLUDED.updated_at
		RETURNING total_points`
	if err := tx.GetContext(ctx, &total, progress, userID, challenge.Points, completedAt); err != nil {
		return nil, 0, fmt.Errorf("repository: update progress failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("repository: commit award failed: %w", err)
	}

	return &challenge, total, nil
}

// classifyConflict explains why the conditional completion matched nothing.
func (r *PostgresChallengeRepository) classifyConflict(ctx context.Context, challengeID, userID string, now time.Time) error {
	var challenge domain.Challenge
	err := r.db.GetContext(ctx, &challenge, `SELECT * FROM challenges WHERE id = $1 AND user_id = $2`, challengeID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrChallengeNotFound
		}
		return fmt.Errorf("repository: inspect challenge failed: %w", err)
	}

	switch {
	case challenge.CompletedAt != nil:
		return domain.ErrChallengeAlreadyCompleted
	case challenge.DismissedAt != nil:
		return domain.ErrChallengeDismissed
	case now.After(challenge.DueDate):
		return domain.ErrChallengeExpired
	default:
		return domain.ErrChallengeNotFound
	}
}

func (r *PostgresChallengeRepository) Dismiss(ctx context.Context, challengeID, userID string, dismissedAt time.Time) error {
	query := `
		UPDATE challenges
		SET dismissed_at = $1
		WHERE id = $2
		  AND user_id = $3
		  AND completed_at IS NULL
		  AND dismissed_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, dismissedAt, challengeID, userID)
	if err != nil {
		return fmt.Errorf("repository: dismiss challenge failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return r.classifyConflict(ctx, challengeID, userID, dismissedAt)
	}
	return nil
}

func (r *PostgresChallengeRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM challenges
		WHERE completed_at IS NULL
		  AND dismissed_at IS NULL
		  AND due_date < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("repository: delete stale challenges failed: %w", err)
	}
	return result.RowsAffected()
}
