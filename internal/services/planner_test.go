package services

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-training-planner/internal/domain"
)

func profileOf(t *testing.T, in ProfileInput) domain.Profile {
	t.Helper()
	checked, err := checkInput(in.clean(), true)
	if err != nil {
		t.Fatalf("checkInput: %v", err)
	}
	p, err := resolveTarget(nil, checked)
	if err != nil {
		t.Fatalf("resolveTarget: %v", err)
	}
	return *p
}

func generate(t *testing.T, p domain.Profile, adj domain.Adjustments) PlanDraft {
	t.Helper()
	d, err := DefaultPlanner{}.Generate(PlanRequest{Profile: p, Catalog: domain.ExerciseCatalog, Adjustments: adj})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return d
}

func TestPlanWeeks(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.Parse(domain.DateLayout, s)
		return d
	}
	cases := []struct {
		exp, goal, start, end string
		want                  int
	}{
		{"Beginner", "Marathon", "2030-01-11", "2030-06-28", 24},
		{"Beginner", "Marathon", "2030-01-11", "2030-03-01", 7},
		{"Advanced", "5K", "2030-01-01", "2031-01-01", 6},
		{"Beginner", "5K", "2030-01-01", "2030-01-03", 1},
		{"Unknown", "5K", "2030-01-01", "2031-01-01", 12},
	}
	for _, tc := range cases {
		if got := planWeeks(tc.exp, tc.goal, day(tc.start), day(tc.end)); got != tc.want {
			t.Fatalf("planWeeks(%s,%s,%s,%s)=%d want %d", tc.exp, tc.goal, tc.start, tc.end, got, tc.want)
		}
	}
}

func TestTrainingDays_KeepsLongRunDay(t *testing.T) {
	u := domain.User{
		Goal: "Marathon", TrainingDaysPerWeek: 2,
		AvailableDays: "Monday,Tuesday,Wednesday,Sunday", LongRunDay: Ptr("Sunday"),
	}
	if got := trainingDays(u); !reflect.DeepEqual(got, []string{"Monday", "Sunday"}) {
		t.Fatalf("trainingDays = %v", got)
	}
	u.Goal = "Stay Lean"
	if got := trainingDays(u); !reflect.DeepEqual(got, []string{"Monday", "Tuesday"}) {
		t.Fatalf("trainingDays = %v", got)
	}
	u.TrainingDaysPerWeek = 6
	if got := trainingDays(u); len(got) != 4 {
		t.Fatalf("should use all available days when short, got %v", got)
	}
}

func TestGenerate_MarathonPlanShape(t *testing.T) {
	d := generate(t, profileOf(t, alexDoe()), domain.Adjustments{})
	if d.DurationWeeks != 24 || len(d.Weeks) != 24 {
		t.Fatalf("weeks = %d/%d, want 24", d.DurationWeeks, len(d.Weeks))
	}
	if !reflect.DeepEqual(d.Days, []string{"Monday", "Wednesday", "Friday", "Sunday"}) {
		t.Fatalf("days = %v", d.Days)
	}
	if got := d.Weeks[1]["Sunday"]; got != "Long run 10.0 km" {
		t.Fatalf("week 1 long run = %q", got)
	}
	if got := d.Weeks[23]["Sunday"]; !strings.HasPrefix(got, "Long run 33.8 km") {
		t.Fatalf("peak long run = %q", got)
	}
	if got := d.Weeks[24]["Sunday"]; got != "Long run 16.9 km" {
		t.Fatalf("taper long run = %q", got)
	}
	if got := d.Weeks[1]["Wednesday"]; !strings.HasPrefix(got, "Tempo run") {
		t.Fatalf("week 1 Wednesday = %q", got)
	}
	if len(d.Sessions("p")) != 24*4 {
		t.Fatalf("session count = %d", len(d.Sessions("p")))
	}
}

func TestGenerate_IsDeterministic(t *testing.T) {
	p := profileOf(t, lifter())
	a := generate(t, p, domain.Adjustments{})
	b := generate(t, p, domain.Adjustments{})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same request produced different drafts")
	}
}

func TestGenerate_StrengthLoadsAndProgression(t *testing.T) {
	d := generate(t, profileOf(t, lifter()), domain.Adjustments{})
	// Lifts rotate in name order: Bench Press on the first slot, Squats on the second.
	if got := d.Weeks[1]["Monday"]; !strings.Contains(got, "Bench Press 4x6 @ 60") {
		t.Fatalf("week 1 Monday = %q", got)
	}
	if got := d.Weeks[1]["Wednesday"]; !strings.Contains(got, "Squats 4x6 @ 80") {
		t.Fatalf("week 1 Wednesday = %q", got)
	}
	// 80 * 1.025^4 = 88.3 -> 88.5
	if got := d.Weeks[5]["Wednesday"]; !strings.Contains(got, "Squats 4x6 @ 88.5") {
		t.Fatalf("week 5 Wednesday = %q", got)
	}
}

func TestGenerate_AppliesDirectives(t *testing.T) {
	p := profileOf(t, lifter())
	d := generate(t, p, domain.Adjustments{Exercises: map[string]domain.Directive{
		"Squats":      domain.DirectiveDecreaseLoad,
		"Bench Press": domain.DirectiveSubstitute,
	}})
	if got := d.Weeks[1]["Wednesday"]; !strings.Contains(got, "Squats 4x6 @ 72") {
		t.Fatalf("decrease_load not applied: %q", got)
	}
	if got := d.Weeks[1]["Monday"]; strings.Contains(got, "Bench Press 4x6") || !strings.Contains(got, "Push-ups 3x10") {
		t.Fatalf("substitute not applied: %q", got)
	}

	up := generate(t, p, domain.Adjustments{Exercises: map[string]domain.Directive{"Squat": domain.DirectiveIncreaseLoad}})
	if got := up.Weeks[1]["Wednesday"]; !strings.Contains(got, "Squats 4x6 @ 84") {
		t.Fatalf("increase_load via lift name not applied: %q", got)
	}
}

func TestGenerate_AdjustmentStartDateShortensPlan(t *testing.T) {
	d := generate(t, profileOf(t, alexDoe()), domain.Adjustments{StartDate: "2030-03-01"})
	if d.StartDate != "2030-03-01" || d.DurationWeeks != 17 {
		t.Fatalf("start=%s weeks=%d", d.StartDate, d.DurationWeeks)
	}
}

func TestGenerate_HyroxUsesFallbacksForMissingApparatus(t *testing.T) {
	in := alexDoe()
	in.Goal = Ptr("Hyrox")
	in.Equipment = []string{"rower"}
	d := generate(t, profileOf(t, in), domain.Adjustments{})
	all := ""
	for _, s := range d.Sessions("p") {
		all += s.SessionText + "\n"
	}
	if !strings.Contains(all, "Rowing 1000 m") {
		t.Fatalf("owned apparatus should be used")
	}
	if strings.Contains(all, "SkiErg") || !strings.Contains(all, "Burpees 1000 m") {
		t.Fatalf("missing skierg should fall back to burpees")
	}
}

func TestGenerate_ConditioningAlternates(t *testing.T) {
	in := alexDoe()
	in.Goal = Ptr("Lose Weight")
	d := generate(t, profileOf(t, in), domain.Adjustments{})
	if got := d.Weeks[1]["Monday"]; !strings.HasPrefix(got, "Cardio: ") || !strings.HasSuffix(got, "40 min") {
		t.Fatalf("slot 0 = %q", got)
	}
	if got := d.Weeks[1]["Wednesday"]; !strings.HasPrefix(got, "Circuit: ") {
		t.Fatalf("slot 1 = %q", got)
	}
}

func TestDraftSessions_Ordered(t *testing.T) {
	d := PlanDraft{Weeks: map[int]map[string]string{
		2: {"Sunday": "c", "Monday": "b"},
		1: {"Friday": "a"},
	}}
	got := d.Sessions("x")
	want := []string{"1/Friday", "2/Monday", "2/Sunday"}
	if len(got) != len(want) {
		t.Fatalf("got %d sessions", len(got))
	}
	for i, s := range got {
		if key := strconv.Itoa(s.Week) + "/" + s.Day; key != want[i] || s.PlanID != "x" {
			t.Fatalf("session %d = %+v", i, s)
		}
	}
}

func TestFormatLoad(t *testing.T) {
	cases := map[float64]string{80: "80", 88.3: "88.5", 72.24: "72", 62.76: "63", 61.2: "61"}
	for in, want := range cases {
		if got := formatLoad(in); got != want {
			t.Fatalf("formatLoad(%v)=%q want %q", in, got, want)
		}
	}
}
