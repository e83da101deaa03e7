package domain

import (
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func migrateAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.AutoMigrate(
		&User{}, &UserEquipment{}, &UserMuscleFocus{}, &UserStartingWeight{},
		&Plan{}, &PlanSession{}, &Feedback{}, &Exercise{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		User{}.TableName():               "users",
		UserEquipment{}.TableName():      "user_equipment",
		UserMuscleFocus{}.TableName():    "user_muscle_focus",
		UserStartingWeight{}.TableName(): "user_starting_weights",
		Plan{}.TableName():               "plans",
		PlanSession{}.TableName():        "training_plan_sessions",
		Feedback{}.TableName():           "feedback",
		Exercise{}.TableName():           "exercises",
		Idempotency{}.TableName():        "idempotency",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName()=%q want %q", got, want)
		}
	}
}

func TestMigrations_NaturalKeyIndex_AndCascades(t *testing.T) {
	db := newDomainDB(t)
	migrateAll(t, db)
	m := db.Migrator()

	if !m.HasIndex(&User{}, "idx_users_natural_key") {
		t.Fatalf("expected idx_users_natural_key on users")
	}
	if !m.HasColumn(&Plan{}, "training_duration_weeks") || !m.HasColumn(&User{}, "user_id") {
		t.Fatalf("expected explicit column names to be honored")
	}

	u := &User{
		Name: "Alex Doe", BirthDate: "1990-01-01", Email: "alex@example.com",
		Goal: "Marathon", TrainingDaysPerWeek: 4, Experience: "Beginner",
		AvailableDays: "Monday,Wednesday", DistanceUnit: "km",
		StartDate: "2030-01-01", GoalDate: "2030-06-01",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected autoincrement id")
	}
	if err := db.Create(&UserEquipment{UserID: u.ID, Equipment: "none"}).Error; err != nil {
		t.Fatalf("insert equipment: %v", err)
	}

	// Composite primary key rejects duplicates.
	if err := db.Create(&UserEquipment{UserID: u.ID, Equipment: "none"}).Error; err == nil {
		t.Fatalf("expected duplicate (user_id, equipment) to fail")
	}

	// Orphans are rejected by the foreign key.
	if err := db.Create(&UserEquipment{UserID: u.ID + 100, Equipment: "gym"}).Error; err == nil {
		t.Fatalf("expected foreign key violation for unknown user")
	}

	// Deleting the parent cascades to children.
	if err := db.Delete(&User{}, u.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	var n int64
	db.Model(&UserEquipment{}).Where("user_id = ?", u.ID).Count(&n)
	if n != 0 {
		t.Fatalf("expected cascade delete of equipment, got %d rows", n)
	}
}

func TestChecks_RejectOutOfRangeValues(t *testing.T) {
	db := newDomainDB(t)
	migrateAll(t, db)

	bad := &User{
		Name: "X", BirthDate: "1990-01-01", Goal: "5K", TrainingDaysPerWeek: 9,
		Experience: "Beginner", AvailableDays: "Monday", StartDate: "2030-01-01", GoalDate: "2030-02-01",
	}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected training_days_per_week check to fail")
	}

	u := &User{
		Name: "Y", BirthDate: "1990-01-01", Goal: "5K", TrainingDaysPerWeek: 3,
		Experience: "Beginner", AvailableDays: "Monday", StartDate: "2030-01-01", GoalDate: "2030-02-01",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if err := db.Create(&UserStartingWeight{UserID: u.ID, Exercise: "Squat", Weight: 0}).Error; err == nil {
		t.Fatalf("expected weight > 0 check to fail")
	}
}

func TestPlan_AdjustmentsJSONRoundTrip(t *testing.T) {
	db := newDomainDB(t)
	migrateAll(t, db)

	u := &User{
		Name: "Z", BirthDate: "1985-05-05", Goal: "Muscle Gains", TrainingDaysPerWeek: 3,
		Experience: "Advanced", AvailableDays: "Monday", StartDate: "2030-01-01", GoalDate: "2030-04-01",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	adj := Adjustments{StartDate: "2030-01-08", Exercises: map[string]Directive{"Squats": DirectiveDecreaseLoad}}
	p := &Plan{
		ID: uuid.NewString(), UserID: u.ID, Goal: u.Goal, StartDate: u.StartDate, GoalDate: u.GoalDate,
		TrainingDurationWeek: 12, TrainingDaysPerWeek: 3, Experience: u.Experience,
		Adjustments: datatypes.NewJSONType(adj),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("insert plan: %v", err)
	}

	var got Plan
	if err := db.First(&got, "plan_id = ?", p.ID).Error; err != nil {
		t.Fatalf("load plan: %v", err)
	}
	data := got.Adjustments.Data()
	if data.StartDate != "2030-01-08" || data.Exercises["Squats"] != DirectiveDecreaseLoad {
		t.Fatalf("adjustments did not round-trip: %+v", data)
	}
}

func TestAdjustments_IsZero(t *testing.T) {
	if !(Adjustments{}).IsZero() {
		t.Fatalf("empty adjustments should be zero")
	}
	if (Adjustments{StartDate: "2030-01-01"}).IsZero() {
		t.Fatalf("start date makes adjustments non-zero")
	}
	if (Adjustments{Exercises: map[string]Directive{"Bench": DirectiveSubstitute}}).IsZero() {
		t.Fatalf("directives make adjustments non-zero")
	}
}
