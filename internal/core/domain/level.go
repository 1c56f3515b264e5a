package domain

// LevelInfo is everything a progress bar needs: the level itself, the point
// floors bounding it, and how far along the user is.
type LevelInfo struct {
	Level           int     `json:"level"`
	Title           string  `json:"title"`
	CurrentFloor    int     `json:"current_level_floor"`
	NextFloor       int     `json:"next_level_floor"`
	ProgressPercent float64 `json:"progress_percent"`
	PointsToNext    int     `json:"points_to_next"`
}

// levelTitles maps level thresholds to display titles, ascending with no
// gaps below the first entry. The highest matching threshold wins.
var levelTitles = []struct {
	level int
	title string
}{
	{1, "Newcomer"},
	{3, "Seeker"},
	{5, "Wanderer"},
	{8, "Explorer"},
	{12, "Pathfinder"},
	{17, "Voyager"},
	{23, "Sage"},
	{30, "Luminary"},
	{40, "Enlightened"},
}

// TitleForLevel returns the display title for a level.
func TitleForLevel(level int) string {
	title := levelTitles[0].title
	for _, lt := range levelTitles {
		if level >= lt.level {
			title = lt.title
		}
	}
	return title
}

// LevelForPoints maps cumulative points to level data. The curve is
// triangular: reaching level n+1 from n costs n*100 additional points, so
// thresholds sit at 100, 300, 600, 1000, ... The function is pure and must
// be the single source of truth wherever a level is displayed or compared.
func LevelForPoints(totalPoints int) LevelInfo {
	if totalPoints < 0 {
		totalPoints = 0
	}

	level := 1
	floor := 0
	nextFloor := 100

	for totalPoints >= nextFloor {
		floor = nextFloor
		level++
		nextFloor += level * 100
	}

	progress := float64(totalPoints-floor) / float64(nextFloor-floor) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return LevelInfo{
		Level:           level,
		Title:           TitleForLevel(level),
		CurrentFloor:    floor,
		NextFloor:       nextFloor,
		ProgressPercent: progress,
		PointsToNext:    nextFloor - totalPoints,
	}
}

// LeveledUp reports whether moving from oldTotal to newTotal crossed at
// least one level threshold. Drives the celebration UI.
func LeveledUp(oldTotal, newTotal int) bool {
	return LevelForPoints(newTotal).Level > LevelForPoints(oldTotal).Level
}
