package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

type PostgresProgressRepository struct {
	db *sqlx.DB
}

func NewPostgresProgressRepository(db *sqlx.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

func (r *PostgresProgressRepository) Get(ctx context.Context, userID string) (*domain.UserProgress, error) {
	var progress domain.UserProgress
	query := `SELECT * FROM user_progress WHERE user_id = $1`

	err := r.db.GetContext(ctx, &progress, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No awards yet: level 1 with zero points, not an error.
			return &domain.UserProgress{UserID: userID}, nil
		}
		return nil, fmt.Errorf("repository: get progress failed: %w", err)
	}
	return &progress, nil
}

func (r *PostgresProgressRepository) ListHistory(ctx context.Context, userID string, since time.Time) ([]*domain.PointsHistoryEntry, error) {
	entries := []*domain.PointsHistoryEntry{}

	query := `
		SELECT * FROM points_history
		WHERE user_id = $1
		  AND created_at >= $2
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &entries, query, userID, since); err != nil {
		return nil, fmt.Errorf("repository: list points history failed: %w", err)
	}
	return entries, nil
}
