package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

func completedChallenge(t *testing.T, category string, points int) *domain.Challenge {
	t.Helper()

	c, err := domain.NewChallenge("u1", "r1", "Title", "Description", category, points)
	require.NoError(t, err)
	require.NoError(t, c.Complete(time.Now()))
	return c
}

func scoreFor(balance domain.LifeBalance, category string) domain.CategoryScore {
	for _, s := range balance.Scores {
		if s.Category == category {
			return s
		}
	}
	return domain.CategoryScore{}
}

func TestAggregateBalance_Relative(t *testing.T) {
	t.Run("Success: Strongest category reads 100", func(t *testing.T) {
		completed := []*domain.Challenge{
			completedChallenge(t, domain.CategoryMindfulness, 50),
			completedChallenge(t, domain.CategoryMindfulness, 50),
			completedChallenge(t, domain.CategoryCareer, 50),
		}

		balance := domain.AggregateBalance(completed, domain.ScaleRelative)

		require.Len(t, balance.Scores, len(domain.Categories))
		assert.InDelta(t, 100.0, scoreFor(balance, domain.CategoryMindfulness).Percentage, 0.001)
		assert.InDelta(t, 50.0, scoreFor(balance, domain.CategoryCareer).Percentage, 0.001)
		assert.Equal(t, domain.CategoryMindfulness, balance.Strongest)
		assert.Equal(t, domain.CategoryCareer, balance.Weakest)
	})

	t.Run("Success: Scores follow canonical category order", func(t *testing.T) {
		balance := domain.AggregateBalance(nil, domain.ScaleRelative)

		require.Len(t, balance.Scores, len(domain.Categories))
		for i, cat := range domain.Categories {
			assert.Equal(t, cat, balance.Scores[i].Category)
		}
	})

	t.Run("Success: Single active category has no weakest", func(t *testing.T) {
		completed := []*domain.Challenge{
			completedChallenge(t, domain.CategoryCreativity, 30),
		}

		balance := domain.AggregateBalance(completed, domain.ScaleRelative)

		assert.Equal(t, domain.CategoryCreativity, balance.Strongest)
		assert.Empty(t, balance.Weakest)
		assert.NotEmpty(t, balance.Unexplored)
	})

	t.Run("Success: Empty input yields all-zero report", func(t *testing.T) {
		balance := domain.AggregateBalance(nil, domain.ScaleRelative)

		assert.Empty(t, balance.Strongest)
		assert.Empty(t, balance.Weakest)
		assert.Equal(t, domain.Categories[0], balance.Unexplored)
		for _, s := range balance.Scores {
			assert.Equal(t, 0, s.TotalPoints)
			assert.Equal(t, 0.0, s.Percentage)
		}
	})

	t.Run("Success: Uncompleted challenges contribute nothing", func(t *testing.T) {
		pending, err := domain.NewChallenge("u1", "r1", "Title", "Description", domain.CategoryFinance, 50)
		require.NoError(t, err)

		balance := domain.AggregateBalance([]*domain.Challenge{pending}, domain.ScaleRelative)

		assert.Equal(t, 0, scoreFor(balance, domain.CategoryFinance).TotalPoints)
	})
}

func TestAggregateBalance_Fixed(t *testing.T) {
	t.Run("Success: Percent measured against the fixed ceiling", func(t *testing.T) {
		completed := []*domain.Challenge{
			completedChallenge(t, domain.CategorySocial, 50),
			completedChallenge(t, domain.CategorySocial, 50),
			completedChallenge(t, domain.CategorySocial, 25),
		}

		balance := domain.AggregateBalance(completed, domain.ScaleFixed)

		assert.InDelta(t, 25.0, scoreFor(balance, domain.CategorySocial).Percentage, 0.001)
	})

	t.Run("Success: Percent clamps at 100 above the ceiling", func(t *testing.T) {
		var completed []*domain.Challenge
		for i := 0; i < 12; i++ {
			completed = append(completed, completedChallenge(t, domain.CategorySocial, 50))
		}

		balance := domain.AggregateBalance(completed, domain.ScaleFixed)

		score := scoreFor(balance, domain.CategorySocial)
		assert.Equal(t, 600, score.TotalPoints)
		assert.InDelta(t, 100.0, score.Percentage, 0.001)
	})
}
