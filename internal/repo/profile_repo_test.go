package repo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/domain"
)

func TestFindUserByNaturalKey(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()

	first := seedUser(t, db, "Alex Doe", "1990-01-01")
	seedUser(t, db, "Alex Doe", "1991-01-01")
	// Legacy duplicate of the first key; the older row must win.
	seedUser(t, db, "Alex Doe", "1990-01-01")

	got, err := FindUserByNaturalKey(ctx, db, "Alex Doe", "1990-01-01")
	if err != nil {
		t.Fatalf("FindUserByNaturalKey: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("expected oldest id %d, got %d", first.ID, got.ID)
	}

	if _, err := FindUserByNaturalKey(ctx, db, "Alex Doe", "1999-09-09"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newRepoDB(t, true)
	if _, err := GetUser(context.Background(), db, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserScalars_WritesAllColumns(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "Alex Doe", "1990-01-01")

	dist := 12.5
	lr := "Sunday"
	u.Email = "new@example.com"
	u.BaseDistance = &dist
	u.LongRunDay = &lr
	u.TrainingDaysPerWeek = 5
	if err := UpdateUserScalars(ctx, db, u); err != nil {
		t.Fatalf("UpdateUserScalars: %v", err)
	}

	got, err := GetUser(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "new@example.com" || got.TrainingDaysPerWeek != 5 {
		t.Fatalf("scalars not written: %+v", got)
	}
	if got.BaseDistance == nil || *got.BaseDistance != 12.5 || got.LongRunDay == nil || *got.LongRunDay != "Sunday" {
		t.Fatalf("optional scalars not written: %+v", got)
	}

	// Clearing an optional field writes NULL.
	u.BaseDistance = nil
	u.LongRunDay = nil
	if err := UpdateUserScalars(ctx, db, u); err != nil {
		t.Fatalf("UpdateUserScalars (clear): %v", err)
	}
	got, _ = GetUser(ctx, db, u.ID)
	if got.BaseDistance != nil || got.LongRunDay != nil {
		t.Fatalf("expected NULLs, got %+v", got)
	}
}

func TestUpdateUserScalars_NotFound(t *testing.T) {
	db := newRepoDB(t, true)
	u := &domain.User{ID: 999, Name: "Ghost", BirthDate: "1990-01-01", TrainingDaysPerWeek: 3}
	if err := UpdateUserScalars(context.Background(), db, u); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserScalars_RunsThroughGormCallbacks(t *testing.T) {
	db := newRepoDB(t, true)
	u := seedUser(t, db, "Alex Doe", "1990-01-01")

	var seen int
	if err := db.Callback().Raw().Before("gorm:raw").Register("test:count_raw", func(tx *gorm.DB) {
		seen++
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	if err := UpdateUserScalars(context.Background(), db, u); err != nil {
		t.Fatalf("UpdateUserScalars: %v", err)
	}
	if seen != 1 {
		t.Fatalf("expected the UPDATE to pass through gorm raw callbacks once, got %d", seen)
	}
}

func TestReplaceCollections_AndLoadProfile(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "Alex Doe", "1990-01-01")

	if err := ReplaceEquipment(ctx, db, u.ID, []string{"gym", "dumbbells"}); err != nil {
		t.Fatalf("ReplaceEquipment: %v", err)
	}
	if err := ReplaceMuscleFocus(ctx, db, u.ID, []string{"legs"}); err != nil {
		t.Fatalf("ReplaceMuscleFocus: %v", err)
	}
	if err := ReplaceStartingWeights(ctx, db, u.ID, map[string]float64{"Squat": 80, "Bench": 60}); err != nil {
		t.Fatalf("ReplaceStartingWeights: %v", err)
	}

	// Replacement is wholesale, not additive.
	if err := ReplaceEquipment(ctx, db, u.ID, []string{"barbell"}); err != nil {
		t.Fatalf("ReplaceEquipment (second): %v", err)
	}
	if err := ReplaceMuscleFocus(ctx, db, u.ID, nil); err != nil {
		t.Fatalf("ReplaceMuscleFocus (clear): %v", err)
	}

	p, err := LoadProfile(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if !reflect.DeepEqual(p.Equipment, []string{"barbell"}) {
		t.Fatalf("equipment: %#v", p.Equipment)
	}
	if len(p.MuscleFocus) != 0 {
		t.Fatalf("muscle focus should be empty: %#v", p.MuscleFocus)
	}
	if !reflect.DeepEqual(p.StartingWeights, map[string]float64{"Squat": 80, "Bench": 60}) {
		t.Fatalf("weights: %#v", p.StartingWeights)
	}
	if p.User.ID != u.ID || p.User.Name != "Alex Doe" {
		t.Fatalf("user: %+v", p.User)
	}
}

func TestReplaceStartingWeights_RejectsNonPositive(t *testing.T) {
	db := newRepoDB(t, true)
	u := seedUser(t, db, "Alex Doe", "1990-01-01")
	if err := ReplaceStartingWeights(context.Background(), db, u.ID, map[string]float64{"Squat": -1}); err == nil {
		t.Fatalf("expected check constraint failure")
	}
}

func TestLoadProfile_NotFound(t *testing.T) {
	db := newRepoDB(t, true)
	if _, err := LoadProfile(context.Background(), db, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadStartingWeights_NeverNil(t *testing.T) {
	db := newRepoDB(t, true)
	u := seedUser(t, db, "Alex Doe", "1990-01-01")
	w, err := LoadStartingWeights(context.Background(), db, u.ID)
	if err != nil || w == nil {
		t.Fatalf("expected empty non-nil map, got %v %v", w, err)
	}
}
