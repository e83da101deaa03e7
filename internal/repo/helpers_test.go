package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// newRepoDB opens a private in-memory database. When migrate is true the
// full schema is created and the catalog seeded.
func newRepoDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := OpenSQLite(dsn, WithLogLevel(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if migrate {
		if err := EnsureSchema(context.Background(), db, false); err != nil {
			t.Fatalf("EnsureSchema: %v", err)
		}
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, birth string) *domain.User {
	t.Helper()
	u := &domain.User{
		Name: name, BirthDate: birth, Email: "a@example.com",
		Goal: "Marathon", TrainingDaysPerWeek: 4, Experience: "Beginner",
		AvailableDays: "Monday,Wednesday,Friday,Sunday", DistanceUnit: "km",
		StartDate: "2030-01-01", GoalDate: "2030-06-01",
	}
	if err := InsertUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
