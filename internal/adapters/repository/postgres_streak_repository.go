package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

func (r *PostgresStreakRepository) Get(ctx context.Context, userID string) (*domain.StreakState, error) {
	var state domain.StreakState
	query := `SELECT * FROM streak_states WHERE user_id = $1`

	err := r.db.GetContext(ctx, &state, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.StreakState{UserID: userID}, nil
		}
		return nil, fmt.Errorf("repository: get streak state failed: %w", err)
	}

	bridges := []string{}
	if err := r.db.SelectContext(ctx, &bridges, `SELECT day FROM streak_bridges WHERE user_id = $1 ORDER BY day ASC`, userID); err != nil {
		return nil, fmt.Errorf("repository: get streak bridges failed: %w", err)
	}
	state.BridgedDays = bridges

	return &state, nil
}

func (r *PostgresStreakRepository) Save(ctx context.Context, state *domain.StreakState) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin streak save failed: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO streak_states (
			user_id, current_streak, longest_streak, last_activity_day,
			shield_count, shield_active, gem_count, updated_at
		) VALUES (
			:user_id, :current_streak, :longest_streak, :last_activity_day,
			:shield_count, :shield_active, :gem_count, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE
		SET current_streak = EXCLUDED.current_streak,
		    longest_streak = EXCLUDED.longest_streak,
		    last_activity_day = EXCLUDED.last_activity_day,
		    shield_count = EXCLUDED.shield_count,
		    shield_active = EXCLUDED.shield_active,
		    gem_count = EXCLUDED.gem_count,
		    updated_at = EXCLUDED.updated_at`

	if _, err := tx.NamedExecContext(ctx, upsert, state); err != nil {
		return fmt.Errorf("repository: save streak state failed: %w", err)
	}

	if len(state.BridgedDays) > 0 {
		bridges := `
			INSERT INTO streak_bridges (user_id, day)
			SELECT $1, unnest($2::text[])
			ON CONFLICT (user_id, day) DO NOTHING`
		if _, err := tx.ExecContext(ctx, bridges, state.UserID, pq.Array(state.BridgedDays)); err != nil {
			return fmt.Errorf("repository: save streak bridges failed: %w", err)
		}
	}

	return tx.Commit()
}
