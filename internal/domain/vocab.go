package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Closed vocabularies. They are loaded once with the process and never
// mutated; callers must treat the slices and maps as read-only.
var (
	// Goals in canonical order.
	Goals = []string{
		"Marathon", "Half Marathon", "10K", "5K", "Hyrox",
		"Muscle Gains", "Stay Lean", "Lose Weight",
	}

	// GoalDistanceKm holds the race distance for distance-based goals.
	GoalDistanceKm = map[string]float64{
		"Marathon":      42.195,
		"Half Marathon": 21.1,
		"10K":           10,
		"5K":            5,
		"Hyrox":         8.0,
	}

	// ExperienceLevels is ordered from least to most experienced.
	ExperienceLevels = []string{"Beginner", "Intermediate", "Advanced"}

	Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	DistanceUnits = []string{"km", "miles"}
	WeightUnits   = []string{"kg", "lbs"}

	EquipmentTags = []string{
		"gym", "dumbbells", "barbell", "bench", "bodyweight", "none", "skierg", "sled",
		"rower", "sandbag", "wallball", "kettlebell", "treadmill", "pool",
	}

	MuscleGroups = []string{
		"chest", "back", "legs", "arms", "shoulders", "core", "glutes", "full body", "biceps", "triceps",
	}

	// TrackableLifts are the only keys accepted in a starting-weight map.
	TrackableLifts = []string{"Squat", "Bench", "Deadlift"}

	// HyroxApparatus lists the equipment a Hyrox race uses. Missing items are
	// a caveat, not a validation failure.
	HyroxApparatus = []string{"skierg", "sled", "rower", "kettlebell", "sandbag", "wallball"}

	// TrainingPeriods is the default plan length in weeks by experience and goal.
	TrainingPeriods = map[string]map[string]int{
		"Beginner": {
			"Marathon": 24, "Half Marathon": 20, "10K": 16, "5K": 12, "Hyrox": 16,
			"Muscle Gains": 12, "Stay Lean": 12, "Lose Weight": 16,
		},
		"Intermediate": {
			"Marathon": 20, "Half Marathon": 16, "10K": 12, "5K": 10, "Hyrox": 12,
			"Muscle Gains": 12, "Stay Lean": 12, "Lose Weight": 12,
		},
		"Advanced": {
			"Marathon": 16, "Half Marathon": 12, "10K": 8, "5K": 6, "Hyrox": 10,
			"Muscle Gains": 12, "Stay Lean": 10, "Lose Weight": 10,
		},
	}
)

// Goal families.
const (
	GoalMuscleGains = "Muscle Gains"
	GoalHyrox       = "Hyrox"
)

var runningGoals = map[string]struct{}{
	"Marathon": {}, "Half Marathon": {}, "10K": {}, "5K": {},
}

// IsRunningGoal reports whether goal is a road-running distance goal.
// Base distance and long-run day are only meaningful for these.
func IsRunningGoal(goal string) bool {
	_, ok := runningGoals[goal]
	return ok
}

// TrainingPeriodWeeks returns the default plan length for (experience, goal).
func TrainingPeriodWeeks(experience, goal string) (int, bool) {
	byGoal, ok := TrainingPeriods[experience]
	if !ok {
		return 0, false
	}
	w, ok := byGoal[goal]
	return w, ok
}

// Canonical returns the vocabulary member equal to s under Unicode case
// folding, after trimming surrounding whitespace.
func Canonical(vocab []string, s string) (string, bool) {
	// Casers are stateful and must not be shared across goroutines.
	fold := cases.Fold()
	key := fold.String(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	for _, v := range vocab {
		if fold.String(v) == key {
			return v, true
		}
	}
	return "", false
}

// WeekdayIndex returns the 0-based position of a canonical weekday, or -1.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}
