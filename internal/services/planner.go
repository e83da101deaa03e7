package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// PlanGenerator turns a reconciled profile into week-by-week session text.
// Implementations must be deterministic for a given request.
type PlanGenerator interface {
	Generate(req PlanRequest) (PlanDraft, error)
}

// PlanRequest is the input to a PlanGenerator.
type PlanRequest struct {
	Profile     domain.Profile
	Catalog     []domain.Exercise
	Adjustments domain.Adjustments
}

// PlanDraft is a generated plan before persistence. Weeks maps a 1-based
// week number to weekday -> session text.
type PlanDraft struct {
	StartDate     string
	GoalDate      string
	DurationWeeks int
	Days          []string
	Weeks         map[int]map[string]string
}

// Sessions flattens the draft into rows for planID, ordered by week then
// weekday.
func (d PlanDraft) Sessions(planID string) []domain.PlanSession {
	weeks := make([]int, 0, len(d.Weeks))
	for w := range d.Weeks {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	var out []domain.PlanSession
	for _, w := range weeks {
		days := make([]string, 0, len(d.Weeks[w]))
		for day := range d.Weeks[w] {
			days = append(days, day)
		}
		sort.Slice(days, func(i, j int) bool {
			return domain.WeekdayIndex(days[i]) < domain.WeekdayIndex(days[j])
		})
		for _, day := range days {
			out = append(out, domain.PlanSession{PlanID: planID, Week: w, Day: day, SessionText: d.Weeks[w][day]})
		}
	}
	return out
}

// Load prescription constants.
const (
	weeklyProgression  = 0.025
	decreaseLoadFactor = 0.9
	increaseLoadFactor = 1.05
	kmPerMile          = 1.609344
)

// liftExercise maps a trackable lift onto the catalog exercise that carries
// its load.
var liftExercise = map[string]string{
	"Squat":    "Squats",
	"Bench":    "Bench Press",
	"Deadlift": "Deadlift",
}

// DefaultPlanner is the rule-based PlanGenerator.
type DefaultPlanner struct{}

// Generate implements PlanGenerator.
func (DefaultPlanner) Generate(req PlanRequest) (PlanDraft, error) {
	u := req.Profile.User
	start := u.StartDate
	if req.Adjustments.StartDate != "" {
		start = req.Adjustments.StartDate
	}
	sd, err := parseDate(start)
	if err != nil {
		return PlanDraft{}, fmt.Errorf("start date: %w", err)
	}
	gd, err := parseDate(u.GoalDate)
	if err != nil {
		return PlanDraft{}, fmt.Errorf("goal date: %w", err)
	}

	weeks := planWeeks(u.Experience, u.Goal, sd, gd)
	days := trainingDays(u)
	draft := PlanDraft{
		StartDate:     start,
		GoalDate:      u.GoalDate,
		DurationWeeks: weeks,
		Days:          days,
		Weeks:         make(map[int]map[string]string, weeks),
	}

	var compose func(week, slot int, day string) string
	switch {
	case domain.IsRunningGoal(u.Goal):
		compose = runningComposer(u, weeks, len(days)-1)
	case u.Goal == domain.GoalHyrox:
		compose = hyroxComposer(req.Profile.Equipment)
	case u.Goal == domain.GoalMuscleGains:
		compose = strengthComposer(req.Profile, req.Catalog)
	default:
		compose = conditioningComposer(u.Goal, req.Catalog)
	}

	adj := directivesByExercise(req.Adjustments.Exercises)
	for w := 1; w <= weeks; w++ {
		sessions := make(map[string]string, len(days))
		for i, day := range days {
			sessions[day] = applyDirectives(compose(w, i, day), adj)
		}
		draft.Weeks[w] = sessions
	}
	return draft, nil
}

// planWeeks is the default period for (experience, goal), capped at the
// whole weeks between start and goal, and never below one.
func planWeeks(experience, goal string, start, end time.Time) int {
	weeks, ok := domain.TrainingPeriodWeeks(experience, goal)
	if !ok {
		weeks = 12
	}
	avail := int(end.Sub(start).Hours() / 24 / 7)
	if avail < weeks {
		weeks = avail
	}
	return max(weeks, 1)
}

// trainingDays picks the first training_days_per_week available days in
// calendar order. For running goals the long-run day is always kept.
func trainingDays(u domain.User) []string {
	avail := NormalizeWeekdays(splitDays(u.AvailableDays))
	n := u.TrainingDaysPerWeek
	if n <= 0 || n > len(avail) {
		n = len(avail)
	}
	picked := append([]string(nil), avail[:n]...)
	if !domain.IsRunningGoal(u.Goal) || u.LongRunDay == nil {
		return picked
	}
	for _, d := range picked {
		if d == *u.LongRunDay {
			return picked
		}
	}
	picked[len(picked)-1] = *u.LongRunDay
	sort.Slice(picked, func(i, j int) bool {
		return domain.WeekdayIndex(picked[i]) < domain.WeekdayIndex(picked[j])
	})
	return picked
}

// runningComposer builds easy/tempo/interval weeks around a progressing long
// run. The final week tapers.
func runningComposer(u domain.User, weeks, lastSlot int) func(int, int, string) string {
	unit := u.DistanceUnit
	if unit == "" {
		unit = "km"
	}
	race := domain.GoalDistanceKm[u.Goal]
	if unit == "miles" {
		race /= kmPerMile
	}
	peak := race
	if race > 15 {
		peak = race * 0.8
	}
	base := peak / 3
	if u.BaseDistance != nil {
		base = *u.BaseDistance
	}
	if base > peak {
		peak = base
	}
	longDay := ""
	if u.LongRunDay != nil {
		longDay = *u.LongRunDay
	}

	// The long run peaks in the penultimate week; the last week tapers.
	longRun := func(week int) float64 {
		switch {
		case weeks == 1:
			return base
		case week == weeks:
			return math.Max(base, peak/2)
		}
		return base + (peak-base)*float64(week-1)/float64(max(weeks-2, 1))
	}

	kinds := []string{"Easy run", "Tempo run", "Intervals"}
	return func(week, slot int, day string) string {
		lr := longRun(week)
		isLong := day == longDay || (longDay == "" && slot == lastSlot)
		if isLong {
			return fmt.Sprintf("Long run %.1f %s", lr, unit)
		}
		switch kinds[slot%len(kinds)] {
		case "Tempo run":
			return fmt.Sprintf("Tempo run %.1f %s at threshold pace", lr*0.5, unit)
		case "Intervals":
			reps := 4 + (week-1)/3
			return fmt.Sprintf("Intervals %d x 800 m with 400 m recovery", min(reps, 10))
		}
		return fmt.Sprintf("Easy run %.1f %s", lr*0.4, unit)
	}
}

// hyroxComposer pairs running with two stations per session, substituting a
// fallback for every station whose apparatus is not owned.
func hyroxComposer(equipment []string) func(int, int, string) string {
	owned := make(map[string]struct{}, len(equipment))
	for _, e := range equipment {
		owned[e] = struct{}{}
	}
	station := func(s domain.HyroxStation) string {
		if _, ok := owned[s.Equipment]; ok || s.Equipment == "bodyweight" {
			return fmt.Sprintf("%s %d %s", s.Name, s.Amount, s.Unit)
		}
		return fmt.Sprintf("%s %d %s", domain.HyroxFallbacks[s.Equipment], s.Amount, s.Unit)
	}
	n := len(domain.HyroxStations)
	return func(week, slot int, _ string) string {
		i := (week - 1 + slot*2) % n
		a := station(domain.HyroxStations[i])
		b := station(domain.HyroxStations[(i+1)%n])
		rounds := 2 + min(week/4, 3)
		return fmt.Sprintf("%d rounds: Run 1 km, %s, %s", rounds, a, b)
	}
}

// strengthComposer rotates catalog exercises for the muscle focus and
// prescribes loads from starting weights.
func strengthComposer(p domain.Profile, catalog []domain.Exercise) func(int, int, string) string {
	pool := strengthPool(p, catalog)
	loads := make(map[string]float64, len(p.StartingWeights))
	for lift, w := range p.StartingWeights {
		if name, ok := liftExercise[lift]; ok {
			loads[name] = w
		}
	}
	lifts := make([]string, 0, len(loads))
	for name := range loads {
		lifts = append(lifts, name)
	}
	sort.Strings(lifts)

	return func(week, slot int, _ string) string {
		var picks []string
		if len(lifts) > 0 {
			picks = append(picks, lifts[slot%len(lifts)])
		}
		for k := 0; len(picks) < 3 && k < len(pool); k++ {
			name := pool[(slot*3+week-1+k)%len(pool)]
			if !contains(picks, name) {
				picks = append(picks, name)
			}
		}
		parts := make([]string, 0, len(picks))
		for _, name := range picks {
			if w, ok := loads[name]; ok {
				load := w * math.Pow(1+weeklyProgression, float64(week-1))
				parts = append(parts, fmt.Sprintf("%s 4x6 @ %s", name, formatLoad(load)))
				continue
			}
			parts = append(parts, name+" 3x10")
		}
		return "Strength: " + strings.Join(parts, ", ")
	}
}

// strengthPool is the sorted list of strength exercises matching the muscle
// focus and usable with the owned equipment. Each filter is dropped when it
// would leave nothing.
func strengthPool(p domain.Profile, catalog []domain.Exercise) []string {
	focus := make(map[string]struct{}, len(p.MuscleFocus))
	for _, m := range p.MuscleFocus {
		focus[m] = struct{}{}
	}
	owned := map[string]struct{}{"bodyweight": {}}
	for _, e := range p.Equipment {
		owned[e] = struct{}{}
	}
	_, gym := owned["gym"]

	var strength, focused, usable []string
	for _, ex := range catalog {
		if ex.Category != "strength" {
			continue
		}
		strength = append(strength, ex.Name)
		if _, ok := focus[ex.MuscleGroup]; !ok && len(focus) > 0 {
			continue
		}
		focused = append(focused, ex.Name)
		if _, ok := owned[ex.Equipment]; ok || gym {
			usable = append(usable, ex.Name)
		}
	}
	out := usable
	if len(out) == 0 {
		out = focused
	}
	if len(out) == 0 {
		out = strength
	}
	sort.Strings(out)
	return out
}

// conditioningComposer alternates steady cardio with a circuit.
func conditioningComposer(goal string, catalog []domain.Exercise) func(int, int, string) string {
	var cardio, circuit []string
	for _, ex := range catalog {
		switch ex.Category {
		case "cardio":
			cardio = append(cardio, ex.Name)
		case "endurance", "strength":
			if ex.Equipment == "bodyweight" {
				circuit = append(circuit, ex.Name)
			}
		}
	}
	sort.Strings(cardio)
	sort.Strings(circuit)
	if len(cardio) == 0 {
		cardio = []string{"Brisk walk"}
	}
	minutes := 30
	if goal == "Lose Weight" {
		minutes = 40
	}
	return func(week, slot int, _ string) string {
		if slot%2 == 0 || len(circuit) == 0 {
			c := cardio[(week+slot)%len(cardio)]
			return fmt.Sprintf("Cardio: %s %d min", c, minutes+min(week-1, 10)*2)
		}
		picks := make([]string, 0, 3)
		for k := 0; k < 3 && k < len(circuit); k++ {
			picks = append(picks, circuit[(week+slot+k)%len(circuit)])
		}
		return fmt.Sprintf("Circuit: %d rounds of %s", 3+min(week/4, 2), strings.Join(picks, ", "))
	}
}

// directivesByExercise keys directives by catalog exercise, translating
// trackable lift names ("Squat") onto the exercise carrying their load.
func directivesByExercise(in map[string]domain.Directive) map[string]domain.Directive {
	out := make(map[string]domain.Directive, len(in))
	for name, d := range in {
		if ex, ok := liftExercise[name]; ok {
			name = ex
		}
		out[name] = d
	}
	return out
}

// applyDirectives scales or swaps the exercise names found in a session.
func applyDirectives(text string, adj map[string]domain.Directive) string {
	if len(adj) == 0 {
		return text
	}
	names := make([]string, 0, len(adj))
	for name := range adj {
		names = append(names, name)
	}
	// Longest first so "Incline Bench Press" is handled before "Bench Press".
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		text = applyDirective(text, name, adj[name])
	}
	return text
}

// applyDirective rewrites every "<name>[ sets] @ <load>" item of a session
// for one directive.
func applyDirective(text, name string, d domain.Directive) string {
	items := strings.Split(text, ", ")
	for i, item := range items {
		prefix := ""
		body := item
		if j := strings.Index(item, ": "); j >= 0 {
			prefix, body = item[:j+2], item[j+2:]
		}
		if !strings.HasPrefix(body, name) {
			continue
		}
		rest := body[len(name):]
		if rest != "" && rest[0] != ' ' {
			continue
		}
		switch d {
		case domain.DirectiveSubstitute:
			if subs := domain.ExerciseSubstitutes[name]; len(subs) > 0 {
				body = subs[0] + " 3x10"
			}
		case domain.DirectiveDecreaseLoad:
			body = name + scaleLoad(rest, decreaseLoadFactor)
		case domain.DirectiveIncreaseLoad:
			body = name + scaleLoad(rest, increaseLoadFactor)
		}
		items[i] = prefix + body
	}
	return strings.Join(items, ", ")
}

// scaleLoad multiplies the "@ <load>" suffix by factor. Items without a
// load are returned unchanged.
func scaleLoad(rest string, factor float64) string {
	i := strings.LastIndex(rest, "@ ")
	if i < 0 {
		return rest
	}
	var load float64
	if _, err := fmt.Sscanf(rest[i+2:], "%g", &load); err != nil {
		return rest
	}
	return rest[:i+2] + formatLoad(load*factor)
}

// formatLoad rounds to the nearest 0.5 and drops a trailing ".0".
func formatLoad(w float64) string {
	r := math.Round(w*2) / 2
	if r == math.Trunc(r) {
		return fmt.Sprintf("%.0f", r)
	}
	return fmt.Sprintf("%.1f", r)
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
