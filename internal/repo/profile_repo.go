// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the profile store: the users table and
// its three child collections (equipment, muscle focus, starting weights).
//
// Functions accept a *gorm.DB so the synchronization engine can run them
// inside one transaction. They hold no business rules; validation and
// normalization belong to the services package.
//
// Error semantics:
//   - A missing user is reported as ErrNotFound (gorm.ErrRecordNotFound).
//   - Constraint and driver failures are returned as raw gorm errors.
package repo

import (
	"context"
	"sort"
	"time"

	"github.com/leporo/sqlf"
	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// FindUserByNaturalKey returns the profile identified by (name, birthDate).
// The names must already be normalized by the caller. When legacy data holds
// more than one row for the key, the oldest one wins.
func FindUserByNaturalKey(ctx context.Context, db *gorm.DB, name, birthDate string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("name = ? AND birth_date = ?", name, birthDate).
		Order("user_id asc").
		Take(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser fetches a user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "user_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// InsertUser persists a new user row and fills u.ID.
func InsertUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	u.ID = 0
	return db.WithContext(ctx).Create(u).Error
}

// UpdateUserScalars overwrites every scalar column of an existing user with
// the values in u, in a single UPDATE statement. It returns ErrNotFound when
// no row matched u.ID.
func UpdateUserScalars(ctx context.Context, db *gorm.DB, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	stmt := sqlf.Update("users").
		Set("name", u.Name).
		Set("birth_date", u.BirthDate).
		Set("email", u.Email).
		Set("goal", u.Goal).
		Set("training_days_per_week", u.TrainingDaysPerWeek).
		Set("experience", u.Experience).
		Set("available_days", u.AvailableDays).
		Set("base_distance", nullable(u.BaseDistance)).
		Set("distance_unit", u.DistanceUnit).
		Set("preferred_time", nullable(u.PreferredTime)).
		Set("goal_date", u.GoalDate).
		Set("start_date", u.StartDate).
		Set("long_run_day", nullable(u.LongRunDay)).
		Set("session_type_preference", nullable(u.SessionTypePreference)).
		Set("updated_at", u.UpdatedAt).
		Where("user_id = ?", u.ID)
	defer stmt.Close()

	// Executed through gorm so callbacks and tracing see the statement.
	res := db.WithContext(ctx).Exec(stmt.String(), stmt.Args()...)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// LoadEquipment returns the user's equipment set, sorted.
func LoadEquipment(ctx context.Context, db *gorm.DB, userID int64) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).Model(&domain.UserEquipment{}).
		Where("user_id = ?", userID).
		Order("equipment asc").
		Pluck("equipment", &out).Error
	return out, err
}

// LoadMuscleFocus returns the user's muscle-focus set, sorted.
func LoadMuscleFocus(ctx context.Context, db *gorm.DB, userID int64) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).Model(&domain.UserMuscleFocus{}).
		Where("user_id = ?", userID).
		Order("muscle_group asc").
		Pluck("muscle_group", &out).Error
	return out, err
}

// LoadStartingWeights returns the user's starting-weight map. It is never
// nil on success.
func LoadStartingWeights(ctx context.Context, db *gorm.DB, userID int64) (map[string]float64, error) {
	var rows []domain.UserStartingWeight
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Exercise] = r.Weight
	}
	return out, nil
}

// ReplaceEquipment deletes every equipment row of the user and inserts items.
func ReplaceEquipment(ctx context.Context, db *gorm.DB, userID int64, items []string) error {
	db = db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&domain.UserEquipment{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	rows := make([]domain.UserEquipment, 0, len(items))
	for _, it := range items {
		rows = append(rows, domain.UserEquipment{UserID: userID, Equipment: it})
	}
	return db.Create(&rows).Error
}

// ReplaceMuscleFocus deletes every muscle-focus row of the user and inserts items.
func ReplaceMuscleFocus(ctx context.Context, db *gorm.DB, userID int64, items []string) error {
	db = db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&domain.UserMuscleFocus{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	rows := make([]domain.UserMuscleFocus, 0, len(items))
	for _, it := range items {
		rows = append(rows, domain.UserMuscleFocus{UserID: userID, MuscleGroup: it})
	}
	return db.Create(&rows).Error
}

// ReplaceStartingWeights deletes every starting-weight row of the user and
// inserts weights. Rows are written in exercise order.
func ReplaceStartingWeights(ctx context.Context, db *gorm.DB, userID int64, weights map[string]float64) error {
	db = db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&domain.UserStartingWeight{}).Error; err != nil {
		return err
	}
	if len(weights) == 0 {
		return nil
	}
	names := make([]string, 0, len(weights))
	for k := range weights {
		names = append(names, k)
	}
	sort.Strings(names)
	rows := make([]domain.UserStartingWeight, 0, len(names))
	for _, n := range names {
		rows = append(rows, domain.UserStartingWeight{UserID: userID, Exercise: n, Weight: weights[n]})
	}
	return db.Create(&rows).Error
}

// LoadProfile returns the user together with its child collections.
func LoadProfile(ctx context.Context, db *gorm.DB, userID int64) (*domain.Profile, error) {
	u, err := GetUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	eq, err := LoadEquipment(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	mf, err := LoadMuscleFocus(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	sw, err := LoadStartingWeights(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{User: *u, Equipment: eq, MuscleFocus: mf, StartingWeights: sw}, nil
}
