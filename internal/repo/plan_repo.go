// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for generated
// plans and their sessions.
//
// Plans are written once per regeneration. The only permitted mutation
// afterwards is SetArtifactReference.
package repo

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// InsertPlan persists a plan row. p.ID must already be set.
func InsertPlan(ctx context.Context, db *gorm.DB, p *domain.Plan) error {
	if p.ID == "" {
		return errors.New("plan id is required")
	}
	return db.WithContext(ctx).Create(p).Error
}

// InsertSessions persists the sessions of a plan in batches.
func InsertSessions(ctx context.Context, db *gorm.DB, sessions []domain.PlanSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(sessions, 200).Error
}

// SetArtifactReference records where the plan's exported file lives.
func SetArtifactReference(ctx context.Context, db *gorm.DB, planID, ref string) error {
	res := db.WithContext(ctx).
		Model(&domain.Plan{}).
		Where("plan_id = ?", planID).
		Update("artifact_reference", ref)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPlan fetches a plan by ID, or ErrNotFound.
func GetPlan(ctx context.Context, db *gorm.DB, planID string) (*domain.Plan, error) {
	var p domain.Plan
	if err := db.WithContext(ctx).First(&p, "plan_id = ?", planID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestPlan returns the most recently created plan of a user, or ErrNotFound.
func LatestPlan(ctx context.Context, db *gorm.DB, userID int64) (*domain.Plan, error) {
	var p domain.Plan
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Take(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPlans returns the number of plans generated for a user.
func CountPlans(ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Plan{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListPlansPage returns a page of a user's plans, newest first. Use
// CountPlans for pagination metadata.
func ListPlansPage(ctx context.Context, db *gorm.DB, userID int64, offset, limit int) ([]domain.Plan, error) {
	var out []domain.Plan
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListSessions returns a plan's sessions ordered by week, then weekday.
func ListSessions(ctx context.Context, db *gorm.DB, planID string) ([]domain.PlanSession, error) {
	var out []domain.PlanSession
	if err := db.WithContext(ctx).Where("plan_id = ?", planID).Find(&out).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return domain.WeekdayIndex(out[i].Day) < domain.WeekdayIndex(out[j].Day)
	})
	return out, nil
}
