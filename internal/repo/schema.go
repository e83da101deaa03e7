package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// models lists every persisted model, parents before children. Reset drops
// them in reverse.
func models() []any {
	return []any{
		&domain.User{},
		&domain.UserEquipment{},
		&domain.UserMuscleFocus{},
		&domain.UserStartingWeight{},
		&domain.Plan{},
		&domain.PlanSession{},
		&domain.Feedback{},
		&domain.Exercise{},
		&domain.Idempotency{},
	}
}

// addColumn is one additive migration step.
type addColumn struct {
	Table  string
	Column string
	Def    string
}

// additiveMigrations upgrade databases created before these columns
// existed. They run in order on every startup.
var additiveMigrations = []addColumn{
	{"users", "email", "TEXT NOT NULL DEFAULT ''"},
	{"plans", "start_date", "TEXT"},
	{"plans", "goal_date", "TEXT"},
	{"plans", "artifact_reference", "TEXT"},
	{"plans", "adjustments", "JSON NOT NULL DEFAULT '{}'"},
}

// EnsureSchema brings the database to the current schema. It is safe to run
// on every startup.
//
//   - reset drops every table (children first) before recreating.
//   - Missing tables are created; existing tables are left as they are.
//   - Additive column migrations are applied; "already exists" is success.
//   - The exercise catalog is seeded, skipping rows that already exist.
func EnsureSchema(ctx context.Context, db *gorm.DB, reset bool) error {
	db = db.WithContext(ctx)
	m := db.Migrator()

	if reset {
		log.Warn().Msg("schema reset requested: dropping all tables")
		all := models()
		for i := len(all) - 1; i >= 0; i-- {
			if err := m.DropTable(all[i]); err != nil {
				return fmt.Errorf("drop %T: %w", all[i], err)
			}
		}
	}

	for _, mdl := range models() {
		if m.HasTable(mdl) {
			continue
		}
		if err := m.CreateTable(mdl); err != nil {
			return fmt.Errorf("create %T: %w", mdl, err)
		}
	}

	for _, step := range additiveMigrations {
		if err := applyAddColumn(db, step); err != nil {
			return err
		}
	}

	return SeedExercises(ctx, db, domain.ExerciseCatalog)
}

func applyAddColumn(db *gorm.DB, step addColumn) error {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", step.Table, step.Column, step.Def)
	err := db.Exec(stmt).Error
	if err == nil {
		log.Info().Str("table", step.Table).Str("column", step.Column).Msg("column added")
		return nil
	}
	low := strings.ToLower(err.Error())
	if strings.Contains(low, "duplicate column name") || strings.Contains(low, "already exists") {
		log.Debug().Str("table", step.Table).Str("column", step.Column).Msg("column already present")
		return nil
	}
	return fmt.Errorf("add column %s.%s: %w", step.Table, step.Column, err)
}

// SeedExercises inserts catalog rows keyed by name, ignoring names that are
// already present.
func SeedExercises(ctx context.Context, db *gorm.DB, catalog []domain.Exercise) error {
	if len(catalog) == 0 {
		return nil
	}
	rows := make([]domain.Exercise, len(catalog))
	copy(rows, catalog)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
}

// ListExercises returns the catalog ordered by name.
func ListExercises(ctx context.Context, db *gorm.DB) ([]domain.Exercise, error) {
	var out []domain.Exercise
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}
