package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/repo"
)

func mustReconcile(t *testing.T, e *Engine, in ProfileInput, mode Mode) *ReconcileResult {
	t.Helper()
	res, err := e.Reconcile(context.Background(), in, mode)
	if err != nil {
		t.Fatalf("Reconcile(%s): %v", mode, err)
	}
	return res
}

func loadProfile(t *testing.T, db *gorm.DB, id int64) *domain.Profile {
	t.Helper()
	p, err := repo.LoadProfile(context.Background(), db, id)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	return p
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	out := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = f.Reason
	}
	return out
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"": ModeCreateOrUpdate, "create_or_update": ModeCreateOrUpdate, "force_replace": ModeForceReplace}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("merge"); !IsValidation(err) {
		t.Fatalf("unknown mode should be a validation error, got %v", err)
	}
}

func TestReconcile_CreatesProfileWithCollections(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)

	before := testutil.ToFloat64(reconcileTotal.WithLabelValues(string(ModeCreateOrUpdate), outcomeCreated))
	res := mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)
	if !res.Created || res.Updated || res.ProfileID == 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := testutil.ToFloat64(reconcileTotal.WithLabelValues(string(ModeCreateOrUpdate), outcomeCreated)); got != before+1 {
		t.Fatalf("created counter = %v, want %v", got, before+1)
	}

	p := loadProfile(t, db, res.ProfileID)
	if p.User.Goal != "Marathon" || p.User.AvailableDays != "Monday,Wednesday,Friday,Sunday" {
		t.Fatalf("stored user unexpected: %+v", p.User)
	}
	if !reflect.DeepEqual(p.Equipment, []string{"dumbbells", "gym"}) {
		t.Fatalf("equipment = %v", p.Equipment)
	}
	if p.User.LongRunDay == nil || *p.User.LongRunDay != "Sunday" {
		t.Fatalf("long run day not stored")
	}
}

func TestReconcile_IdenticalResubmissionWritesNothing(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	first := mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)

	writes := countWrites(t, db)
	second := mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)

	if second.ProfileID != first.ProfileID {
		t.Fatalf("resubmission changed identity: %d vs %d", second.ProfileID, first.ProfileID)
	}
	if second.Changed() || len(second.ChangedFields) != 0 || len(second.Rewritten) != 0 {
		t.Fatalf("resubmission should be a no-op: %+v", second)
	}
	if n := writes.Load(); n != 0 {
		t.Fatalf("expected zero writes, got %d", n)
	}
}

func TestReconcile_ForceReplaceIsNotAdditive(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)

	in := lifter()
	in.Equipment = []string{"barbell"}
	res := mustReconcile(t, e, in, ModeCreateOrUpdate)

	in.Equipment = []string{"dumbbells"}
	in.MuscleFocus = []string{"back"}
	mustReconcile(t, e, in, ModeForceReplace)

	p := loadProfile(t, db, res.ProfileID)
	if !reflect.DeepEqual(p.Equipment, []string{"dumbbells"}) {
		t.Fatalf("equipment = %v, want [dumbbells]", p.Equipment)
	}
	if !reflect.DeepEqual(p.MuscleFocus, []string{"back"}) {
		t.Fatalf("muscle focus = %v, want [back]", p.MuscleFocus)
	}
}

func TestReconcile_ForceReplaceMergesOverStored(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	res := mustReconcile(t, e, lifter(), ModeCreateOrUpdate)

	// Only identity and the weights are submitted; everything else falls
	// back to the stored profile.
	partial := ProfileInput{
		Name:            "Sam Lifter",
		BirthDate:       "1985-05-05",
		StartingWeights: map[string]float64{"squat": 85},
	}
	out := mustReconcile(t, e, partial, ModeForceReplace)
	if out.ProfileID != res.ProfileID || !out.Updated {
		t.Fatalf("unexpected result: %+v", out)
	}
	if !reflect.DeepEqual(out.Rewritten, []string{CollectionEquipment, CollectionMuscleFocus, CollectionStartingWeights}) {
		t.Fatalf("force_replace must rewrite every collection, got %v", out.Rewritten)
	}

	p := loadProfile(t, db, res.ProfileID)
	if p.User.Email != "sam@example.com" || p.User.Goal != "Muscle Gains" || p.User.StartDate != "2030-01-13" {
		t.Fatalf("stored scalars were not preserved: %+v", p.User)
	}
	if !reflect.DeepEqual(p.Equipment, []string{"barbell", "bench"}) || !reflect.DeepEqual(p.MuscleFocus, []string{"chest", "legs"}) {
		t.Fatalf("unsubmitted collections were not preserved: %v %v", p.Equipment, p.MuscleFocus)
	}
	if !reflect.DeepEqual(p.StartingWeights, map[string]float64{"Squat": 85}) {
		t.Fatalf("weights = %v", p.StartingWeights)
	}
}

func TestReconcile_EmailChangeDoesNotChurnCollections(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	res := mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)
	before := equipmentRowIDs(t, db, res.ProfileID)

	in := alexDoe()
	in.Email = Ptr("alex.doe@example.com")
	out := mustReconcile(t, e, in, ModeCreateOrUpdate)

	if !out.Updated || !reflect.DeepEqual(out.ChangedFields, []string{"email"}) || len(out.Rewritten) != 0 {
		t.Fatalf("expected email-only update, got %+v", out)
	}
	if after := equipmentRowIDs(t, db, res.ProfileID); !reflect.DeepEqual(before, after) {
		t.Fatalf("equipment rows were rewritten: %v -> %v", before, after)
	}
	if p := loadProfile(t, db, res.ProfileID); p.User.Email != "alex.doe@example.com" {
		t.Fatalf("email not updated: %q", p.User.Email)
	}
}

func TestReconcile_CollectionChangeRewritesOnlyThatCollection(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	mustReconcile(t, e, lifter(), ModeCreateOrUpdate)

	in := lifter()
	in.MuscleFocus = []string{"Chest", "legs", "arms"}
	out := mustReconcile(t, e, in, ModeCreateOrUpdate)
	if len(out.ChangedFields) != 0 || !reflect.DeepEqual(out.Rewritten, []string{CollectionMuscleFocus}) {
		t.Fatalf("expected only muscle_focus rewrite, got %+v", out)
	}
}

func TestReconcile_OmittedCollectionsKeepStoredRows(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	res := mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)

	in := alexDoe()
	in.Equipment = nil
	in.AvailableDays = nil
	out := mustReconcile(t, e, in, ModeCreateOrUpdate)
	if out.Changed() || len(out.Rewritten) != 0 || len(out.ChangedFields) != 0 {
		t.Fatalf("omitting collections must not change the profile: %+v", out)
	}

	p := loadProfile(t, db, res.ProfileID)
	if !reflect.DeepEqual(p.Equipment, []string{"dumbbells", "gym"}) {
		t.Fatalf("equipment = %v", p.Equipment)
	}
	if p.User.AvailableDays != "Monday,Wednesday,Friday,Sunday" {
		t.Fatalf("available days = %q", p.User.AvailableDays)
	}
	if p.User.LongRunDay == nil || *p.User.LongRunDay != "Sunday" {
		t.Fatalf("long run day = %v", p.User.LongRunDay)
	}

	lift := lifter()
	mustReconcile(t, e, lift, ModeCreateOrUpdate)
	lift.MuscleFocus, lift.StartingWeights = nil, nil
	if out := mustReconcile(t, e, lift, ModeCreateOrUpdate); len(out.Rewritten) != 0 {
		t.Fatalf("omitted strength collections were rewritten: %v", out.Rewritten)
	}

	in = alexDoe()
	in.Equipment = []string{}
	out = mustReconcile(t, e, in, ModeCreateOrUpdate)
	if !reflect.DeepEqual(out.Rewritten, []string{CollectionEquipment}) {
		t.Fatalf("an empty equipment list should clear the collection, got %v", out.Rewritten)
	}
	if p := loadProfile(t, db, res.ProfileID); len(p.Equipment) != 0 {
		t.Fatalf("equipment not cleared: %v", p.Equipment)
	}
}

func TestReconcile_StoreConstraintViolationIsIntegrity(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)

	if err := db.Exec("CREATE UNIQUE INDEX ux_test_users_email ON users(email)").Error; err != nil {
		t.Fatalf("create index: %v", err)
	}

	other := lifter()
	other.Email = Ptr("alex@example.com")
	_, err := e.Reconcile(context.Background(), other, ModeCreateOrUpdate)
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
	if _, err := repo.FindUserByNaturalKey(context.Background(), db, "Sam Lifter", "1985-05-05"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("rejected profile must not be stored, got %v", err)
	}
}

func TestReconcile_FailedChildInsertRollsBack(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	res := mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)

	boom := errors.New("injected failure")
	if err := db.Callback().Create().Before("gorm:create").Register("test:fail_equipment", func(tx *gorm.DB) {
		if tx.Statement.Table == "user_equipment" {
			_ = tx.AddError(boom)
		}
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	in := alexDoe()
	in.Email = Ptr("changed@example.com")
	in.Equipment = []string{"treadmill"}
	if _, err := e.Reconcile(context.Background(), in, ModeForceReplace); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	p := loadProfile(t, db, res.ProfileID)
	if p.User.Email != "alex@example.com" {
		t.Fatalf("scalar update was not rolled back: %q", p.User.Email)
	}
	if !reflect.DeepEqual(p.Equipment, []string{"dumbbells", "gym"}) {
		t.Fatalf("equipment was not rolled back: %v", p.Equipment)
	}
}

func TestReconcile_NaturalKeyIdentity(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	first := mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)

	spaced := alexDoe()
	spaced.Name = "  Alex   Doe "
	if got := mustReconcile(t, e, spaced, ModeCreateOrUpdate); got.ProfileID != first.ProfileID || got.Created {
		t.Fatalf("same natural key must resolve to the same profile: %+v", got)
	}

	other := alexDoe()
	other.BirthDate = "1991-01-01"
	got := mustReconcile(t, e, other, ModeCreateOrUpdate)
	if !got.Created || got.ProfileID == first.ProfileID {
		t.Fatalf("different birth date must create a new profile: %+v", got)
	}
}

func TestReconcile_WeekdayFallback(t *testing.T) {
	cases := map[string]DayList{
		"absent":  nil,
		"empty":   {},
		"invalid": {"someday", "xyz"},
	}
	for name, days := range cases {
		t.Run(name, func(t *testing.T) {
			db := newServiceDB(t)
			e := newTestEngine(db)
			in := alexDoe()
			in.AvailableDays = days
			in.LongRunDay = nil
			res := mustReconcile(t, e, in, ModeCreateOrUpdate)
			p := loadProfile(t, db, res.ProfileID)
			if p.User.AvailableDays != "Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday" {
				t.Fatalf("available days = %q", p.User.AvailableDays)
			}
		})
	}
}

func TestReconcile_WeekdayPrefixes(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	in := alexDoe()
	in.AvailableDays = DayList{"sun", "MON", "wed", "mon"}
	res := mustReconcile(t, e, in, ModeCreateOrUpdate)
	if p := loadProfile(t, db, res.ProfileID); p.User.AvailableDays != "Monday,Wednesday,Sunday" {
		t.Fatalf("available days = %q", p.User.AvailableDays)
	}
}

func TestReconcile_GoalScopedFieldsAreCleared(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)

	in := alexDoe()
	in.Goal = Ptr("stay lean")
	in.MuscleFocus = []string{"core"}
	in.StartingWeights = map[string]float64{"Squat": 50}
	res := mustReconcile(t, e, in, ModeCreateOrUpdate)

	p := loadProfile(t, db, res.ProfileID)
	if p.User.Goal != "Stay Lean" {
		t.Fatalf("goal not canonicalized: %q", p.User.Goal)
	}
	if p.User.BaseDistance != nil || p.User.LongRunDay != nil {
		t.Fatalf("running fields must be cleared for non-running goals: %+v", p.User)
	}
	if len(p.MuscleFocus) != 0 || len(p.StartingWeights) != 0 {
		t.Fatalf("strength fields must be cleared: %v %v", p.MuscleFocus, p.StartingWeights)
	}
}

func TestReconcile_AbsentOptionalScalarsBecomeNull(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	res := mustReconcile(t, e, alexDoe(), ModeCreateOrUpdate)

	in := alexDoe()
	in.BaseDistance = nil
	out := mustReconcile(t, e, in, ModeCreateOrUpdate)
	if !reflect.DeepEqual(out.ChangedFields, []string{"base_distance"}) {
		t.Fatalf("changed = %v", out.ChangedFields)
	}
	if p := loadProfile(t, db, res.ProfileID); p.User.BaseDistance != nil {
		t.Fatalf("base distance should be NULL, got %v", *p.User.BaseDistance)
	}
}

func TestReconcile_HyroxWithoutApparatusIsAccepted(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	in := alexDoe()
	in.Goal = Ptr("Hyrox")
	in.Equipment = []string{"none"}
	if res := mustReconcile(t, e, in, ModeCreateOrUpdate); !res.Created {
		t.Fatalf("hyrox registration should succeed: %+v", res)
	}
}

func TestReconcile_ValidationFailures(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*ProfileInput)
		mode  Mode
		field string
	}{
		{"missing name", func(in *ProfileInput) { in.Name = "   " }, ModeCreateOrUpdate, "name"},
		{"bad birth date", func(in *ProfileInput) { in.BirthDate = "01/01/1990" }, ModeCreateOrUpdate, "birth_date"},
		{"future birth date", func(in *ProfileInput) { in.BirthDate = "2031-01-01" }, ModeCreateOrUpdate, "birth_date"},
		{"missing email", func(in *ProfileInput) { in.Email = nil }, ModeCreateOrUpdate, "email"},
		{"bad email", func(in *ProfileInput) { in.Email = Ptr("not-an-email") }, ModeCreateOrUpdate, "email"},
		{"unknown goal", func(in *ProfileInput) { in.Goal = Ptr("Ultra") }, ModeCreateOrUpdate, "goal"},
		{"unknown experience", func(in *ProfileInput) { in.Experience = Ptr("Elite") }, ModeCreateOrUpdate, "experience"},
		{"too many days", func(in *ProfileInput) { in.TrainingDaysPerWeek = Ptr(8) }, ModeCreateOrUpdate, "training_days_per_week"},
		{"zero base distance", func(in *ProfileInput) { in.BaseDistance = Ptr(0.0) }, ModeCreateOrUpdate, "base_distance"},
		{"unknown unit", func(in *ProfileInput) { in.DistanceUnit = Ptr("furlongs") }, ModeCreateOrUpdate, "distance_unit"},
		{"past start date", func(in *ProfileInput) { in.StartDate = Ptr("2030-01-09") }, ModeCreateOrUpdate, "start_date"},
		{"goal before start", func(in *ProfileInput) { in.GoalDate = Ptr("2030-01-11") }, ModeCreateOrUpdate, "goal_date"},
		{"long run day not available", func(in *ProfileInput) { in.LongRunDay = Ptr("Saturday") }, ModeCreateOrUpdate, "long_run_day"},
		{"unknown equipment", func(in *ProfileInput) { in.Equipment = []string{"spaceship"} }, ModeCreateOrUpdate, "equipment"},
		{"unknown lift", func(in *ProfileInput) { in.StartingWeights = map[string]float64{"Curl": 20} }, ModeCreateOrUpdate, "starting_weights"},
		{"non-positive weight", func(in *ProfileInput) { in.StartingWeights = map[string]float64{"Squat": -5} }, ModeCreateOrUpdate, "starting_weights[Squat]"},
		{"incomplete new profile under force", func(in *ProfileInput) { in.Goal = nil }, ModeForceReplace, "goal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newServiceDB(t)
			e := newTestEngine(db)
			in := alexDoe()
			tc.mut(&in)
			_, err := e.Reconcile(context.Background(), in, tc.mode)
			fields := fieldErrors(t, err)
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, fields)
			}
			var n int64
			db.Model(&domain.User{}).Count(&n)
			if n != 0 {
				t.Fatalf("validation failure must not write, found %d users", n)
			}
		})
	}
}

func TestReconcile_ForceReplaceKeepsPastStoredStartDate(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	res := mustReconcile(t, e, lifter(), ModeCreateOrUpdate)

	// Time passes: the stored start date is now in the past. A partial
	// replace must not re-check it against today.
	e.Now = func() time.Time { return fixedNow.AddDate(0, 1, 0) }
	out := mustReconcile(t, e, ProfileInput{Name: "Sam Lifter", BirthDate: "1985-05-05", Email: Ptr("new@example.com")}, ModeForceReplace)
	if out.ProfileID != res.ProfileID {
		t.Fatalf("profile id changed")
	}
}

func TestReconcile_ClassifiesLockedStore(t *testing.T) {
	db := newServiceDB(t)
	e := newTestEngine(db)
	if err := db.Callback().Query().Before("gorm:query").Register("test:busy", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("database is locked (5) (SQLITE_BUSY)"))
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := e.Reconcile(context.Background(), alexDoe(), ModeCreateOrUpdate); !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}
