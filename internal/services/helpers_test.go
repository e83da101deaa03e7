package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-training-planner/internal/repo"
)

// fixedNow is the clock every service test runs on. "Today" is 2030-01-10.
var fixedNow = time.Date(2030, 1, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// newServiceDB opens a private, migrated and seeded in-memory database.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repo.OpenSQLite(dsn, repo.WithLogLevel(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.EnsureSchema(context.Background(), db, false); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return db
}

func newTestEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db, Now: clock}
}

// alexDoe is a complete Marathon submission starting tomorrow with a goal
// 168 days later.
func alexDoe() ProfileInput {
	return ProfileInput{
		Name:                "Alex Doe",
		BirthDate:           "1990-01-01",
		Email:               Ptr("alex@example.com"),
		Goal:                Ptr("Marathon"),
		TrainingDaysPerWeek: Ptr(4),
		Experience:          Ptr("Beginner"),
		AvailableDays:       DayList{"Monday", "Wednesday", "Friday", "Sunday"},
		BaseDistance:        Ptr(10.0),
		DistanceUnit:        Ptr("km"),
		StartDate:           Ptr("2030-01-11"),
		GoalDate:            Ptr("2030-06-28"),
		LongRunDay:          Ptr("Sunday"),
		Equipment:           []string{"gym", "dumbbells"},
	}
}

// lifter is a complete Muscle Gains submission.
func lifter() ProfileInput {
	return ProfileInput{
		Name:                "Sam Lifter",
		BirthDate:           "1985-05-05",
		Email:               Ptr("sam@example.com"),
		Goal:                Ptr("Muscle Gains"),
		TrainingDaysPerWeek: Ptr(3),
		Experience:          Ptr("Intermediate"),
		AvailableDays:       DayList{"Monday", "Wednesday", "Friday"},
		StartDate:           Ptr("2030-01-13"),
		GoalDate:            Ptr("2030-05-01"),
		Equipment:           []string{"barbell", "bench"},
		MuscleFocus:         []string{"chest", "legs"},
		StartingWeights:     map[string]float64{"Squat": 80, "Bench": 60},
	}
}

// writeCounter counts create, update, delete and raw statements issued
// through db.
type writeCounter struct{ n atomic.Int64 }

func (w *writeCounter) Load() int64 { return w.n.Load() }

func countWrites(t *testing.T, db *gorm.DB) *writeCounter {
	t.Helper()
	w := &writeCounter{}
	inc := func(*gorm.DB) { w.n.Add(1) }
	cb := db.Callback()
	check := func(err error) {
		if err != nil {
			t.Fatalf("register callback: %v", err)
		}
	}
	check(cb.Create().Before("gorm:create").Register("test:count_create", inc))
	check(cb.Update().Before("gorm:update").Register("test:count_update", inc))
	check(cb.Delete().Before("gorm:delete").Register("test:count_delete", inc))
	check(cb.Raw().Before("gorm:raw").Register("test:count_raw", inc))
	return w
}

func equipmentRowIDs(t *testing.T, db *gorm.DB, userID int64) []int64 {
	t.Helper()
	var ids []int64
	if err := db.Raw("SELECT rowid FROM user_equipment WHERE user_id = ? ORDER BY equipment", userID).Scan(&ids).Error; err != nil {
		t.Fatalf("rowids: %v", err)
	}
	return ids
}

func countRows(t *testing.T, db *gorm.DB, table string, userID int64) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
