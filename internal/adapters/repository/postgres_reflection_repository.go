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

type PostgresReflectionRepository struct {
	db *sqlx.DB
}

func NewPostgresReflectionRepository(db *sqlx.DB) *PostgresReflectionRepository {
	return &PostgresReflectionRepository{db: db}
}

func (r *PostgresReflectionRepository) Create(ctx context.Context, reflection *domain.Reflection) error {
	query := `
		INSERT INTO reflections (id, user_id, text, theme_id, mood, created_at)
		VALUES (:id, :user_id, :text, :theme_id, :mood, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, reflection)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrReflectionInvalidUserID
		}
		return fmt.Errorf("repository: create reflection failed: %w", err)
	}
	return nil
}

func (r *PostgresReflectionRepository) GetByID(ctx context.Context, id string) (*domain.Reflection, error) {
	var reflection domain.Reflection
	query := `SELECT * FROM reflections WHERE id = $1`

	if err := r.db.GetContext(ctx, &reflection, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReflectionNotFound
		}
		return nil, fmt.Errorf("repository: get reflection failed: %w", err)
	}
	return &reflection, nil
}

func (r *PostgresReflectionRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.Reflection, error) {
	reflections := []*domain.Reflection{}

	query := `
		SELECT * FROM reflections
		WHERE user_id = $1
		  AND created_at >= $2
		  AND created_at <= $3
		ORDER BY created_at DESC
	`

	if err := r.db.SelectContext(ctx, &reflections, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("repository: list reflections failed: %w", err)
	}
	return reflections, nil
}

func (r *PostgresReflectionRepository) ListTimestamps(ctx context.Context, userID string) ([]time.Time, error) {
	timestamps := []time.Time{}

	query := `SELECT created_at FROM reflections WHERE user_id = $1 ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &timestamps, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list reflection timestamps failed: %w", err)
	}
	return timestamps, nil
}

func (r *PostgresReflectionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reflections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete reflection failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrReflectionNotFound
	}
	return nil
}
