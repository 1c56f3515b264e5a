package services

import (
	"context"
	"time"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

type ProgressService struct {
	repo     domain.ProgressRepository
	userRepo domain.UserRepository
}

func NewProgressService(repo domain.ProgressRepository, userRepo domain.UserRepository) *ProgressService {
	return &ProgressService{
		repo:     repo,
		userRepo: userRepo,
	}
}

func (s *ProgressService) Snapshot(ctx context.Context, userID string) (domain.ProgressSnapshot, error) {
	progress, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.ProgressSnapshot{}, err
	}
	return progress.Snapshot(), nil
}

// History buckets the points ledger into the 7-bucket chart series for the
// given timeframe, using the user's timezone for period boundaries.
func (s *ProgressService) History(ctx context.Context, userID string, timeframe domain.Timeframe) (domain.HistorySeries, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.HistorySeries{}, err
	}
	loc := user.Location()

	now := time.Now()

	// Over-fetch by one period; BucketHistory drops anything outside the
	// window.
	var since time.Time
	switch timeframe {
	case domain.TimeframeWeekly:
		since = now.AddDate(0, 0, -7*(domain.HistoryBucketCount+1))
	case domain.TimeframeMonthly:
		since = now.AddDate(0, -(domain.HistoryBucketCount + 1), 0)
	default:
		since = now.AddDate(0, 0, -(domain.HistoryBucketCount + 1))
	}

	entries, err := s.repo.ListHistory(ctx, userID, since)
	if err != nil {
		return domain.HistorySeries{}, err
	}

	return domain.BucketHistory(entries, timeframe, now, loc), nil
}
