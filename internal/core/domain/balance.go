package domain

// CategoryScore is a read-side aggregate over a user's completed challenges.
// Never hand-edited: always recomputed from the source-of-truth rows.
type CategoryScore struct {
	Category       string  `json:"category"`
	TotalPoints    int     `json:"total_points"`
	CompletedCount int     `json:"completed_count"`
	Percentage     float64 `json:"percentage"`
}

type BalanceScale string

const (
	// ScaleRelative sizes each category against the user's own strongest
	// category, so the strongest always reads 100.
	ScaleRelative BalanceScale = "relative"

	// ScaleFixed sizes each category against a stable ceiling, so the same
	// user can be compared across time.
	ScaleFixed BalanceScale = "fixed"
)

// FixedScaleCeiling is the point total that reads as 100% under ScaleFixed.
const FixedScaleCeiling = 500

// LifeBalance is the full per-category report.
type LifeBalance struct {
	Scores     []CategoryScore `json:"scores"`
	Strongest  string          `json:"strongest,omitempty"`
	Weakest    string          `json:"weakest,omitempty"`
	Unexplored string          `json:"unexplored,omitempty"`
}

// AggregateBalance rolls completed challenges into per-category scores in
// canonical category order. Only completed challenges count; pending,
// dismissed and expired ones contribute nothing.
func AggregateBalance(completed []*Challenge, scale BalanceScale) LifeBalance {
	totals := make(map[string]int, len(Categories))
	counts := make(map[string]int, len(Categories))
	for _, c := range completed {
		if c.CompletedAt == nil {
			continue
		}
		cat := NormalizeCategory(c.Category)
		totals[cat] += c.Points
		counts[cat]++
	}

	maxPoints := 0
	for _, points := range totals {
		if points > maxPoints {
			maxPoints = points
		}
	}

	balance := LifeBalance{Scores: make([]CategoryScore, 0, len(Categories))}

	nonZero := 0
	minPoints := 0
	for _, cat := range Categories {
		points := totals[cat]

		var pct float64
		switch scale {
		case ScaleFixed:
			pct = float64(points) / float64(FixedScaleCeiling) * 100
			if pct > 100 {
				pct = 100
			}
		default:
			if maxPoints > 0 {
				pct = float64(points) / float64(maxPoints) * 100
			}
		}

		balance.Scores = append(balance.Scores, CategoryScore{
			Category:       cat,
			TotalPoints:    points,
			CompletedCount: counts[cat],
			Percentage:     pct,
		})

		if points > 0 {
			nonZero++
			if points > totals[balance.Strongest] {
				balance.Strongest = cat
			}
			if minPoints == 0 || points < minPoints {
				minPoints = points
				balance.Weakest = cat
			}
		} else if balance.Unexplored == "" {
			balance.Unexplored = cat
		}
	}

	// A single active category has no meaningful "weakest"; the unexplored
	// hint points at an untouched area instead.
	if nonZero < 2 {
		balance.Weakest = ""
	}
	if nonZero == 0 {
		balance.Strongest = ""
	}

	return balance
}
