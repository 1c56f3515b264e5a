package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrReflectionNotFound      = errors.New("reflection not found")
	ErrReflectionTextEmpty     = errors.New("reflection text cannot be empty")
	ErrReflectionTextTooLong   = errors.New("reflection text is too long (max 5000 chars)")
	ErrReflectionInvalidUserID = errors.New("invalid user id")
)

const MaxReflectionLen = 5000

// Reflection is a single journal entry. Its creation timestamp, viewed in
// the user's timezone, yields the ActivityDay that feeds streak math.
type Reflection struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	ThemeID   string    `json:"theme_id,omitempty" db:"theme_id"`
	Mood      string    `json:"mood,omitempty" db:"mood"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewReflection(userID, text, themeID, mood string) (*Reflection, error) {
	if userID == "" {
		return nil, ErrReflectionInvalidUserID
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrReflectionTextEmpty
	}
	if len(trimmed) > MaxReflectionLen {
		return nil, ErrReflectionTextTooLong
	}

	return &Reflection{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      trimmed,
		ThemeID:   themeID,
		Mood:      mood,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ActivityDay is a local calendar date on which at least one reflection was
// recorded, formatted as "2006-01-02". Multiple reflections on the same
// local day collapse to one ActivityDay.
type ActivityDay = string

const DayFormat = "2006-01-02"

// LocalDay converts an instant to its ActivityDay in the given location.
func LocalDay(t time.Time, loc *time.Location) ActivityDay {
	return t.In(loc).Format(DayFormat)
}

// ActivityDays collapses reflection timestamps into the set of unique local
// calendar days they fall on.
func ActivityDays(timestamps []time.Time, loc *time.Location) map[ActivityDay]bool {
	days := make(map[ActivityDay]bool, len(timestamps))
	for _, ts := range timestamps {
		days[LocalDay(ts, loc)] = true
	}
	return days
}
