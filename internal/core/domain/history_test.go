package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

func TestParseTimeframe(t *testing.T) {
	t.Run("Success: Valid values", func(t *testing.T) {
		for _, s := range []string{"daily", "weekly", "monthly"} {
			tf, err := domain.ParseTimeframe(s)
			assert.NoError(t, err)
			assert.Equal(t, domain.Timeframe(s), tf)
		}
	})

	t.Run("Success: Empty defaults to daily", func(t *testing.T) {
		tf, err := domain.ParseTimeframe("")
		assert.NoError(t, err)
		assert.Equal(t, domain.TimeframeDaily, tf)
	})

	t.Run("Error: Unknown value", func(t *testing.T) {
		_, err := domain.ParseTimeframe("yearly")
		assert.ErrorIs(t, err, domain.ErrInvalidTimeframe)
	})
}

func historyEntry(points int, createdAt time.Time) *domain.PointsHistoryEntry {
	e := domain.NewPointsHistoryEntry("u1", "c1", points)
	e.CreatedAt = createdAt
	return e
}

func TestBucketHistory_Daily(t *testing.T) {
	loc := time.UTC
	// 2026-03-10 is a Tuesday.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	t.Run("Success: Exactly 7 zero-filled buckets, most recent last", func(t *testing.T) {
		series := domain.BucketHistory(nil, domain.TimeframeDaily, now, loc)

		require.Len(t, series.Buckets, domain.HistoryBucketCount)
		assert.Equal(t, "Wed", series.Buckets[0].Label)
		assert.Equal(t, "Tue", series.Buckets[6].Label)
		assert.Equal(t, 0, series.TotalPeriod)
		for _, b := range series.Buckets {
			assert.Equal(t, 0, b.Total)
		}
	})

	t.Run("Success: Entries land in their day bucket", func(t *testing.T) {
		entries := []*domain.PointsHistoryEntry{
			historyEntry(30, now.Add(-1*time.Hour)),
			historyEntry(20, now.AddDate(0, 0, -1)),
			historyEntry(10, now.AddDate(0, 0, -1)),
		}

		series := domain.BucketHistory(entries, domain.TimeframeDaily, now, loc)

		assert.Equal(t, 30, series.Buckets[6].Total)
		assert.Equal(t, 30, series.Buckets[5].Total)
		assert.Equal(t, 60, series.TotalPeriod)
		assert.Equal(t, 30, series.MaxValue)
	})

	t.Run("Success: Entries before the window are ignored", func(t *testing.T) {
		entries := []*domain.PointsHistoryEntry{
			historyEntry(50, now.AddDate(0, 0, -8)),
		}

		series := domain.BucketHistory(entries, domain.TimeframeDaily, now, loc)

		assert.Equal(t, 0, series.TotalPeriod)
	})

	t.Run("Success: MaxValue is floored at 1 for chart scaling", func(t *testing.T) {
		series := domain.BucketHistory(nil, domain.TimeframeDaily, now, loc)
		assert.Equal(t, 1, series.MaxValue)
	})
}

func TestBucketHistory_Weekly(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc) // Tuesday

	t.Run("Success: Weeks open on Monday", func(t *testing.T) {
		entries := []*domain.PointsHistoryEntry{
			// Monday of the current week and the Sunday just before it must
			// land in different buckets.
			historyEntry(10, time.Date(2026, 3, 9, 8, 0, 0, 0, loc)),
			historyEntry(20, time.Date(2026, 3, 8, 8, 0, 0, 0, loc)),
		}

		series := domain.BucketHistory(entries, domain.TimeframeWeekly, now, loc)

		assert.Equal(t, 10, series.Buckets[6].Total)
		assert.Equal(t, 20, series.Buckets[5].Total)
		assert.Equal(t, "Mar 09", series.Buckets[6].Label)
	})
}

func TestBucketHistory_Monthly(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	t.Run("Success: Calendar month buckets with month labels", func(t *testing.T) {
		entries := []*domain.PointsHistoryEntry{
			historyEntry(40, time.Date(2026, 3, 1, 0, 0, 0, 0, loc)),
			historyEntry(15, time.Date(2026, 2, 28, 23, 0, 0, 0, loc)),
		}

		series := domain.BucketHistory(entries, domain.TimeframeMonthly, now, loc)

		assert.Equal(t, "Mar", series.Buckets[6].Label)
		assert.Equal(t, "Feb", series.Buckets[5].Label)
		assert.Equal(t, 40, series.Buckets[6].Total)
		assert.Equal(t, 15, series.Buckets[5].Total)
	})
}

func TestBucketHistory_Timezone(t *testing.T) {
	// 02:00 UTC on March 10 is still March 9 in New York. The entry must
	// fall in the March 9 bucket when bucketed in that zone.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 15, 0, 0, 0, ny)
	entries := []*domain.PointsHistoryEntry{
		historyEntry(25, time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)),
	}

	series := domain.BucketHistory(entries, domain.TimeframeDaily, now, ny)

	assert.Equal(t, 0, series.Buckets[6].Total)
	assert.Equal(t, 25, series.Buckets[5].Total)
}
