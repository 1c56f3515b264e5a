package domain

import (
	"errors"
	"time"
)

var (
	ErrProgressNotFound = errors.New("user progress not found")
	ErrNegativeAward    = errors.New("point awards must be positive")
)

// UserProgress carries the only stored progression number: cumulative
// points. Level is always derived from it via LevelForPoints and never
// persisted, so the two can never disagree.
type UserProgress struct {
	UserID      string    `json:"user_id" db:"user_id"`
	TotalPoints int       `json:"total_points" db:"total_points"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProgressSnapshot is the client-facing progress view.
type ProgressSnapshot struct {
	TotalPoints int       `json:"total_points"`
	Level       LevelInfo `json:"level"`
}

func (p *UserProgress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		TotalPoints: p.TotalPoints,
		Level:       LevelForPoints(p.TotalPoints),
	}
}
