package domain

import (
	"errors"
	"time"
)

var (
	ErrMilestoneUnknown     = errors.New("unknown milestone threshold")
	ErrMilestoneNotReached  = errors.New("streak has not reached this milestone")
	ErrMilestoneCelebrated  = errors.New("milestone already celebrated")
	ErrNoShieldsAvailable   = errors.New("no shields available")
	ErrShieldLimitExceeded  = errors.New("shield count cannot exceed the holding limit")
	ErrInvalidShieldPayment = errors.New("not enough gems to purchase a shield")
)

const (
	RewardGems   = "gems"
	RewardShield = "shield"

	// MaxHeldShields caps the shield stockpile so milestones stay meaningful.
	MaxHeldShields = 3

	// ShieldGemCost is the gem price of one purchased shield.
	ShieldGemCost = 50
)

// MilestoneDef is a fixed streak-length achievement threshold with a
// one-time reward.
type MilestoneDef struct {
	ThresholdDays int    `json:"threshold_days"`
	RewardType    string `json:"reward_type"`
	RewardAmount  int    `json:"reward_amount"`
	Message       string `json:"message"`
}

// MilestoneCatalog lists every milestone in ascending threshold order.
var MilestoneCatalog = []MilestoneDef{
	{ThresholdDays: 3, RewardType: RewardGems, RewardAmount: 10, Message: "Three days in a row. A habit is taking root."},
	{ThresholdDays: 7, RewardType: RewardShield, RewardAmount: 1, Message: "A full week of reflection. Here is a shield for a rainy day."},
	{ThresholdDays: 14, RewardType: RewardGems, RewardAmount: 30, Message: "Two weeks strong. Your practice is becoming part of you."},
	{ThresholdDays: 30, RewardType: RewardShield, RewardAmount: 1, Message: "Thirty days. A full month of showing up for yourself."},
	{ThresholdDays: 60, RewardType: RewardGems, RewardAmount: 100, Message: "Sixty days of steady reflection."},
	{ThresholdDays: 100, RewardType: RewardShield, RewardAmount: 1, Message: "One hundred days. Few ever get this far."},
	{ThresholdDays: 365, RewardType: RewardGems, RewardAmount: 500, Message: "A whole year, day after day. Extraordinary."},
}

// MilestoneFor looks up the catalog entry for a threshold.
func MilestoneFor(threshold int) (MilestoneDef, bool) {
	for _, def := range MilestoneCatalog {
		if def.ThresholdDays == threshold {
			return def, true
		}
	}
	return MilestoneDef{}, false
}

// Milestone records a celebrated achievement for one user. Rows are
// append-only: once celebrated, never reverted.
type Milestone struct {
	UserID        string    `json:"user_id" db:"user_id"`
	ThresholdDays int       `json:"threshold_days" db:"threshold_days"`
	CelebratedAt  time.Time `json:"celebrated_at" db:"celebrated_at"`
}

// MilestoneStatus is the read model combining the catalog with a user's
// streak and celebration history.
type MilestoneStatus struct {
	MilestoneDef
	Reached    bool `json:"reached"`
	Celebrated bool `json:"celebrated"`
}

// MilestoneStatuses resolves the whole catalog against the current streak
// and the set of already-celebrated thresholds.
func MilestoneStatuses(currentStreak int, celebrated map[int]bool) []MilestoneStatus {
	statuses := make([]MilestoneStatus, 0, len(MilestoneCatalog))
	for _, def := range MilestoneCatalog {
		statuses = append(statuses, MilestoneStatus{
			MilestoneDef: def,
			Reached:      currentStreak >= def.ThresholdDays,
			Celebrated:   celebrated[def.ThresholdDays],
		})
	}
	return statuses
}

// UncelebratedMilestones returns reached-but-not-yet-celebrated thresholds,
// ascending. These are the ones the client should celebrate next.
func UncelebratedMilestones(currentStreak int, celebrated map[int]bool) []MilestoneDef {
	var due []MilestoneDef
	for _, def := range MilestoneCatalog {
		if currentStreak >= def.ThresholdDays && !celebrated[def.ThresholdDays] {
			due = append(due, def)
		}
	}
	return due
}
