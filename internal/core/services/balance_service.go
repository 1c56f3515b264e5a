package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

const balanceCacheTTL = 1 * time.Hour

// BalanceService serves per-category life-balance scores. The aggregate is
// always recomputed from the completed challenges themselves, never patched
// incrementally, so concurrent completions can never leave a stale total.
// Redis only caches the result and is safe to lose.
type BalanceService struct {
	repo   domain.ChallengeRepository
	cache  *redis.Client
	logger *zap.Logger
}

func NewBalanceService(repo domain.ChallengeRepository, cache *redis.Client, logger *zap.Logger) *BalanceService {
	return &BalanceService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func balanceCacheKey(userID string, scale domain.BalanceScale) string {
	return fmt.Sprintf("balance:%s:%s", userID, scale)
}

func (s *BalanceService) Get(ctx context.Context, userID string, scale domain.BalanceScale) (domain.LifeBalance, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, balanceCacheKey(userID, scale)).Result()
		if err == nil {
			var balance domain.LifeBalance
			if err := json.Unmarshal([]byte(raw), &balance); err == nil {
				return balance, nil
			}
		}
	}

	return s.recomputeScale(ctx, userID, scale)
}

// Recompute refreshes the cached aggregates for both scales from the
// source-of-truth completed challenges. Called synchronously after every
// completion so readers never see a total that lags the ledger.
func (s *BalanceService) Recompute(ctx context.Context, userID string) error {
	for _, scale := range []domain.BalanceScale{domain.ScaleRelative, domain.ScaleFixed} {
		if _, err := s.recomputeScale(ctx, userID, scale); err != nil {
			return err
		}
	}
	return nil
}

func (s *BalanceService) recomputeScale(ctx context.Context, userID string, scale domain.BalanceScale) (domain.LifeBalance, error) {
	completed, err := s.repo.ListCompletedByUserID(ctx, userID)
	if err != nil {
		return domain.LifeBalance{}, err
	}

	balance := domain.AggregateBalance(completed, scale)

	if s.cache != nil {
		raw, err := json.Marshal(balance)
		if err == nil {
			if err := s.cache.Set(ctx, balanceCacheKey(userID, scale), raw, balanceCacheTTL).Err(); err != nil {
				// Cache loss is harmless; the next read recomputes.
				s.logger.Warn("balance cache write failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}

	return balance, nil
}
