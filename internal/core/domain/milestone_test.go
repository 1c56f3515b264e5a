package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

func TestMilestoneFor(t *testing.T) {
	t.Run("Success: Known threshold", func(t *testing.T) {
		def, ok := domain.MilestoneFor(7)

		assert.True(t, ok)
		assert.Equal(t, domain.RewardShield, def.RewardType)
		assert.Equal(t, 1, def.RewardAmount)
		assert.NotEmpty(t, def.Message)
	})

	t.Run("Error: Unknown threshold", func(t *testing.T) {
		_, ok := domain.MilestoneFor(5)
		assert.False(t, ok)
	})
}

func TestMilestoneCatalog(t *testing.T) {
	t.Run("Success: Ascending thresholds with valid rewards", func(t *testing.T) {
		require.NotEmpty(t, domain.MilestoneCatalog)

		prev := 0
		for _, def := range domain.MilestoneCatalog {
			assert.Greater(t, def.ThresholdDays, prev)
			assert.Contains(t, []string{domain.RewardGems, domain.RewardShield}, def.RewardType)
			assert.Greater(t, def.RewardAmount, 0)
			prev = def.ThresholdDays
		}
	})
}

func TestMilestoneStatuses(t *testing.T) {
	celebrated := map[int]bool{3: true}
	statuses := domain.MilestoneStatuses(14, celebrated)

	require.Len(t, statuses, len(domain.MilestoneCatalog))

	byThreshold := make(map[int]domain.MilestoneStatus)
	for _, s := range statuses {
		byThreshold[s.ThresholdDays] = s
	}

	assert.True(t, byThreshold[3].Reached)
	assert.True(t, byThreshold[3].Celebrated)
	assert.True(t, byThreshold[7].Reached)
	assert.False(t, byThreshold[7].Celebrated)
	assert.True(t, byThreshold[14].Reached)
	assert.False(t, byThreshold[30].Reached)
}

func TestUncelebratedMilestones(t *testing.T) {
	t.Run("Success: Reached but not celebrated, ascending", func(t *testing.T) {
		due := domain.UncelebratedMilestones(14, map[int]bool{3: true})

		require.Len(t, due, 2)
		assert.Equal(t, 7, due[0].ThresholdDays)
		assert.Equal(t, 14, due[1].ThresholdDays)
	})

	t.Run("Success: Nothing due on a fresh streak", func(t *testing.T) {
		assert.Empty(t, domain.UncelebratedMilestones(2, nil))
	})
}
