package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

type ChallengeService struct {
	repo    domain.ChallengeRepository
	balance *BalanceService
	logger  *zap.Logger
}

func NewChallengeService(repo domain.ChallengeRepository, balance *BalanceService, logger *zap.Logger) *ChallengeService {
	return &ChallengeService{
		repo:    repo,
		balance: balance,
		logger:  logger,
	}
}

// ChallengeView pairs a challenge with its derived lifecycle state.
type ChallengeView struct {
	*domain.Challenge
	State domain.ChallengeState `json:"state"`
}

func (s *ChallengeService) List(ctx context.Context, userID string) ([]ChallengeView, error) {
	challenges, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		views = append(views, ChallengeView{Challenge: c, State: c.State(now)})
	}
	return views, nil
}

// CompleteResult reports the outcome of a completion, including everything
// the client needs for the celebration UI.
type CompleteResult struct {
	Challenge   *domain.Challenge `json:"challenge"`
	TotalPoints int               `json:"total_points"`
	Level       domain.LevelInfo  `json:"level"`
	LeveledUp   bool              `json:"leveled_up"`
	// NoOp is true when the challenge was already completed or expired and
	// nothing was awarded.
	NoOp bool `json:"no_op"`
}

// Complete awards a pending challenge. Idempotent: retries and duplicate
// taps on an already-completed (or expired) challenge succeed as no-ops
// without touching the ledger. The award itself is a single conditional
// persistence transaction, so two concurrent completions can never
// double-credit.
func (s *ChallengeService) Complete(ctx context.Context, challengeID, userID string) (*CompleteResult, error) {
	now := time.Now().UTC()

	challenge, newTotal, err := s.repo.CompleteAndAward(ctx, challengeID, userID, now)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChallengeAlreadyCompleted), errors.Is(err, domain.ErrChallengeExpired):
			return s.noOpResult(ctx, challengeID, userID)
		default:
			return nil, err
		}
	}

	s.logger.Info("challenge completed",
		zap.String("challenge_id", challenge.ID),
		zap.String("category", challenge.Category),
		zap.Int("points", challenge.Points),
	)

	// Refresh the category aggregates right away. The award is already
	// durable, so a failed refresh only delays the read model.
	if err := s.balance.Recompute(ctx, userID); err != nil {
		s.logger.Warn("balance recompute failed", zap.String("user_id", userID), zap.Error(err))
	}

	return &CompleteResult{
		Challenge:   challenge,
		TotalPoints: newTotal,
		Level:       domain.LevelForPoints(newTotal),
		LeveledUp:   domain.LeveledUp(newTotal-challenge.Points, newTotal),
	}, nil
}

func (s *ChallengeService) noOpResult(ctx context.Context, challengeID, userID string) (*CompleteResult, error) {
	challenge, err := s.repo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.UserID != userID {
		return nil, domain.ErrChallengeNotFound
	}
	return &CompleteResult{Challenge: challenge, NoOp: true}, nil
}

// Dismiss removes a pending challenge from play without any award.
// Dismissing an already-dismissed challenge is a no-op.
func (s *ChallengeService) Dismiss(ctx context.Context, challengeID, userID string) error {
	err := s.repo.Dismiss(ctx, challengeID, userID, time.Now().UTC())
	if errors.Is(err, domain.ErrChallengeDismissed) {
		return nil
	}
	return err
}

// CleanupStale deletes pending challenges whose due date is more than the
// grace window in the past. Best-effort and idempotent: zero matches is
// fine, and concurrent runs are safe.
func (s *ChallengeService) CleanupStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-domain.StaleGrace)

	deleted, err := s.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.logger.Info("stale challenges removed", zap.Int64("count", deleted))
	}
	return deleted, nil
}
