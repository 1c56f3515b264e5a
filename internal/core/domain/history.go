package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTimeframe = errors.New("invalid timeframe (must be daily, weekly, or monthly)")

// PointsHistoryEntry is one row of the append-only points ledger. The sum of
// a user's entries must always equal their UserProgress total.
type PointsHistoryEntry struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	ChallengeID string    `json:"challenge_id" db:"challenge_id"`
	Points      int       `json:"points" db:"points"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func NewPointsHistoryEntry(userID, challengeID string, points int) *PointsHistoryEntry {
	return &PointsHistoryEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		ChallengeID: challengeID,
		Points:      points,
		CreatedAt:   time.Now().UTC(),
	}
}

type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly:
		return Timeframe(s), nil
	case "":
		return TimeframeDaily, nil
	default:
		return "", ErrInvalidTimeframe
	}
}

// HistoryBucketCount is fixed: chart rendering assumes exactly 7 points.
const HistoryBucketCount = 7

type HistoryBucket struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

type HistorySeries struct {
	Timeframe   Timeframe       `json:"timeframe"`
	Buckets     []HistoryBucket `json:"buckets"`
	MaxValue    int             `json:"max_value"`
	TotalPeriod int             `json:"total_period"`
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// startOfWeek returns the Monday midnight opening the ISO week containing t.
func startOfWeek(t time.Time, loc *time.Location) time.Time {
	day := startOfDay(t, loc)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

// BucketHistory rolls ledger entries into exactly 7 zero-filled buckets
// ending at the period containing "now", most recent last. Entries outside
// the window are ignored. MaxValue is floored at 1 so chart scaling never
// divides by zero.
func BucketHistory(entries []*PointsHistoryEntry, timeframe Timeframe, now time.Time, loc *time.Location) HistorySeries {
	starts := make([]time.Time, HistoryBucketCount)
	labels := make([]string, HistoryBucketCount)

	for i := 0; i < HistoryBucketCount; i++ {
		back := HistoryBucketCount - 1 - i
		switch timeframe {
		case TimeframeWeekly:
			starts[i] = startOfWeek(now, loc).AddDate(0, 0, -7*back)
			labels[i] = starts[i].Format("Jan 02")
		case TimeframeMonthly:
			starts[i] = startOfMonth(now, loc).AddDate(0, -back, 0)
			labels[i] = starts[i].Format("Jan")
		default:
			starts[i] = startOfDay(now, loc).AddDate(0, 0, -back)
			labels[i] = starts[i].Format("Mon")
		}
	}

	totals := make([]int, HistoryBucketCount)
	for _, e := range entries {
		ts := e.CreatedAt.In(loc)
		if ts.Before(starts[0]) {
			continue
		}
		for i := HistoryBucketCount - 1; i >= 0; i-- {
			if !ts.Before(starts[i]) {
				totals[i] += e.Points
				break
			}
		}
	}

	series := HistorySeries{
		Timeframe: timeframe,
		Buckets:   make([]HistoryBucket, HistoryBucketCount),
		MaxValue:  1,
	}
	for i := 0; i < HistoryBucketCount; i++ {
		series.Buckets[i] = HistoryBucket{Label: labels[i], Total: totals[i]}
		series.TotalPeriod += totals[i]
		if totals[i] > series.MaxValue {
			series.MaxValue = totals[i]
		}
	}

	return series
}
