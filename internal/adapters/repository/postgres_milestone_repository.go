package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

type PostgresMilestoneRepository struct {
	db *sqlx.DB
}

func NewPostgresMilestoneRepository(db *sqlx.DB) *PostgresMilestoneRepository {
	return &PostgresMilestoneRepository{db: db}
}

func (r *PostgresMilestoneRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Milestone, error) {
	milestones := []*domain.Milestone{}

	query := `SELECT * FROM milestones WHERE user_id = $1 ORDER BY threshold_days ASC`

	if err := r.db.SelectContext(ctx, &milestones, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list milestones failed: %w", err)
	}
	return milestones, nil
}

func (r *PostgresMilestoneRepository) Create(ctx context.Context, milestone *domain.Milestone) error {
	query := `
		INSERT INTO milestones (user_id, threshold_days, celebrated_at)
		VALUES (:user_id, :threshold_days, :celebrated_at)`

	_, err := r.db.NamedExecContext(ctx, query, milestone)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Celebration is one-way; the unique index enforces it.
			return domain.ErrMilestoneCelebrated
		}
		return fmt.Errorf("repository: create milestone failed: %w", err)
	}
	return nil
}
