package domain

import (
	"errors"
	"sort"
	"time"
)

var ErrInvalidMonth = errors.New("invalid month (must be YYYY-MM)")

// StreakState holds the persisted streak counters for a user. The counters
// are always recomputed from the ActivityDay set; only ShieldCount is an
// independently owned resource (granted by milestones or purchased).
type StreakState struct {
	UserID          string    `json:"user_id" db:"user_id"`
	CurrentStreak   int       `json:"current_streak" db:"current_streak"`
	LongestStreak   int       `json:"longest_streak" db:"longest_streak"`
	LastActivityDay string    `json:"last_activity_day" db:"last_activity_day"`
	ShieldCount     int       `json:"shield_count" db:"shield_count"`
	ShieldActive    bool      `json:"shield_active" db:"shield_active"`
	GemCount        int       `json:"gem_count" db:"gem_count"`
	BridgedDays     []string  `json:"bridged_days,omitempty" db:"-"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func parseDay(day ActivityDay) (time.Time, bool) {
	t, err := time.Parse(DayFormat, day)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dayBefore(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

// CurrentStreak counts consecutive ActivityDays ending at today. If today
// has no activity yet the count starts from yesterday instead: the day is
// not over, so its absence does not break the streak.
func CurrentStreak(days map[ActivityDay]bool, today ActivityDay) int {
	streak, _ := CurrentStreakWithShields(days, today, 0)
	return streak
}

// CurrentStreakWithShields is CurrentStreak with shield bridging: each
// missed day encountered while walking backward consumes one available
// shield and counts as bridged instead of ending the streak. Returns the
// streak length and the bridged days, so callers can persist the
// consumption and never re-charge the same gap on a later recompute.
func CurrentStreakWithShields(days map[ActivityDay]bool, today ActivityDay, shields int) (streak int, bridged []ActivityDay) {
	cursor, ok := parseDay(today)
	if !ok {
		return 0, nil
	}

	// Grace day: today absent is neither a break nor a shield consumption.
	if !days[cursor.Format(DayFormat)] {
		cursor = dayBefore(cursor)
	}

	type step struct {
		day      ActivityDay
		bridging bool
	}
	var walk []step
	used := 0

	for {
		day := cursor.Format(DayFormat)
		if days[day] {
			walk = append(walk, step{day: day})
		} else if used < shields {
			used++
			walk = append(walk, step{day: day, bridging: true})
		} else {
			break
		}
		cursor = dayBefore(cursor)
	}

	// A shield only bridges a gap inside a streak. Bridges hanging off the
	// oldest end, with no activity day beneath them, are trimmed so the
	// shields are not wasted connecting to nothing.
	for len(walk) > 0 && walk[len(walk)-1].bridging {
		walk = walk[:len(walk)-1]
	}

	for _, s := range walk {
		if s.bridging {
			bridged = append(bridged, s.day)
		}
	}
	return len(walk), bridged
}

// LongestStreak scans the full ActivityDay set for the longest run of
// consecutive days.
func LongestStreak(days map[ActivityDay]bool) int {
	if len(days) == 0 {
		return 0
	}

	sorted := make([]time.Time, 0, len(days))
	for day := range days {
		if t, ok := parseDay(day); ok {
			sorted = append(sorted, t)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	longest := 0
	run := 1
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i+1].Sub(sorted[i]) == 24*time.Hour {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
	}
	if run > longest {
		longest = run
	}

	return longest
}

type DangerStatus string

const (
	DangerSafe    DangerStatus = "safe"
	DangerWarning DangerStatus = "warning"
	DangerDanger  DangerStatus = "danger"
)

// DangerConfig holds the warning cutoffs. The exact values are tunable, not
// invariants.
type DangerConfig struct {
	WarningWithin time.Duration
	DangerWithin  time.Duration
}

func DefaultDangerConfig() DangerConfig {
	return DangerConfig{
		WarningWithin: 24 * time.Hour,
		DangerWithin:  2 * time.Hour,
	}
}

// StreakDanger classifies how close the user is to breaking their streak
// today. Pure function of "now", the local midnight boundary, and whether
// today already has an activity.
func StreakDanger(now time.Time, loc *time.Location, todayActive bool, cfg DangerConfig) DangerStatus {
	if todayActive {
		return DangerSafe
	}

	local := now.In(loc)
	nextMidnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	remaining := nextMidnight.Sub(local)

	switch {
	case remaining <= cfg.DangerWithin:
		return DangerDanger
	case remaining <= cfg.WarningWithin:
		return DangerWarning
	default:
		return DangerSafe
	}
}
