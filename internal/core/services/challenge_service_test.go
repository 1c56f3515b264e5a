package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/repository"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
)

func newChallengeService(t *testing.T) (*services.ChallengeService, *repository.InMemoryChallengeRepository) {
	t.Helper()

	repo := repository.NewInMemoryChallengeRepository()
	balance := services.NewBalanceService(repo, nil, zap.NewNop())
	return services.NewChallengeService(repo, balance, zap.NewNop()), repo
}

func seedChallenge(t *testing.T, repo *repository.InMemoryChallengeRepository, userID string, points int) *domain.Challenge {
	t.Helper()

	c, err := domain.NewChallenge(userID, "r1", "Take a walk", "Ten minutes outside.", domain.CategoryPhysicalHealth, points)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(context.Background(), []*domain.Challenge{c}))
	return c
}

func TestChallengeService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Awards points and reports the new level", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		c := seedChallenge(t, repo, "u1", 30)

		result, err := svc.Complete(ctx, c.ID, "u1")

		require.NoError(t, err)
		assert.False(t, result.NoOp)
		assert.Equal(t, 30, result.TotalPoints)
		assert.Equal(t, 1, result.Level.Level)
		assert.False(t, result.LeveledUp)
		assert.NotNil(t, result.Challenge.CompletedAt)
	})

	t.Run("Success: Crossing a level threshold reports level-up", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		first := seedChallenge(t, repo, "u1", 50)
		second := seedChallenge(t, repo, "u1", 50)

		_, err := svc.Complete(ctx, first.ID, "u1")
		require.NoError(t, err)

		result, err := svc.Complete(ctx, second.ID, "u1")
		require.NoError(t, err)

		assert.Equal(t, 100, result.TotalPoints)
		assert.Equal(t, 2, result.Level.Level)
		assert.True(t, result.LeveledUp)
	})

	t.Run("Success: Repeat completion is a no-op, never a double award", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		c := seedChallenge(t, repo, "u1", 30)

		_, err := svc.Complete(ctx, c.ID, "u1")
		require.NoError(t, err)

		result, err := svc.Complete(ctx, c.ID, "u1")
		require.NoError(t, err)
		assert.True(t, result.NoOp)

		progress, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 30, progress.TotalPoints, "total must reflect exactly one award")
	})

	t.Run("Success: Completing an expired challenge is a no-op", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		c, err := domain.NewChallenge("u1", "r1", "Too late", "Missed it.", domain.CategoryCareer, 30)
		require.NoError(t, err)
		c.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
		c.DueDate = c.CreatedAt.Add(domain.ChallengeLifetime)
		require.NoError(t, repo.CreateBatch(ctx, []*domain.Challenge{c}))

		result, err := svc.Complete(ctx, c.ID, "u1")

		require.NoError(t, err)
		assert.True(t, result.NoOp)

		progress, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, progress.TotalPoints)
	})

	t.Run("Error: Completing a dismissed challenge", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		c := seedChallenge(t, repo, "u1", 30)
		require.NoError(t, svc.Dismiss(ctx, c.ID, "u1"))

		_, err := svc.Complete(ctx, c.ID, "u1")
		assert.ErrorIs(t, err, domain.ErrChallengeDismissed)
	})

	t.Run("Error: Another user's challenge reads as not found", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		c := seedChallenge(t, repo, "u1", 30)

		_, err := svc.Complete(ctx, c.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
	})
}

func TestChallengeService_Dismiss(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Dismiss removes the challenge from play", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		c := seedChallenge(t, repo, "u1", 30)

		require.NoError(t, svc.Dismiss(ctx, c.ID, "u1"))

		views, err := svc.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, domain.ChallengeDismissed, views[0].State)
	})

	t.Run("Success: Dismissing twice is a no-op", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		c := seedChallenge(t, repo, "u1", 30)

		require.NoError(t, svc.Dismiss(ctx, c.ID, "u1"))
		assert.NoError(t, svc.Dismiss(ctx, c.ID, "u1"))
	})

	t.Run("Error: Dismissing a completed challenge", func(t *testing.T) {
		svc, repo := newChallengeService(t)
		c := seedChallenge(t, repo, "u1", 30)
		_, err := svc.Complete(ctx, c.ID, "u1")
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Dismiss(ctx, c.ID, "u1"), domain.ErrChallengeAlreadyCompleted)
	})
}

func TestChallengeService_CleanupStale(t *testing.T) {
	ctx := context.Background()
	svc, repo := newChallengeService(t)

	fresh := seedChallenge(t, repo, "u1", 30)

	stale, err := domain.NewChallenge("u1", "r1", "Old", "Long past due.", domain.CategoryCareer, 30)
	require.NoError(t, err)
	stale.CreatedAt = time.Now().UTC().Add(-72 * time.Hour)
	stale.DueDate = stale.CreatedAt.Add(domain.ChallengeLifetime)
	require.NoError(t, repo.CreateBatch(ctx, []*domain.Challenge{stale}))

	deleted, err := svc.CleanupStale(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByID(ctx, stale.ID)
	assert.ErrorIs(t, err, domain.ErrChallengeNotFound)

	_, err = repo.GetByID(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestChallengeService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo := newChallengeService(t)

	seedChallenge(t, repo, "u1", 30)
	seedChallenge(t, repo, "u2", 30)

	views, err := svc.List(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.ChallengePending, views[0].State)
}
