// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Feedback
// model.
//
// Feedback is append-only: there is no update or delete.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// CreateFeedback appends a feedback row and fills fb.ID and fb.Timestamp.
//
// The user and plan must exist; the foreign keys reject orphans and the
// satisfaction check rejects values outside 1..5.
func CreateFeedback(ctx context.Context, db *gorm.DB, fb *domain.Feedback) error {
	fb.ID = 0
	return db.WithContext(ctx).Create(fb).Error
}

// ListFeedback returns every feedback row recorded against a plan, oldest
// first.
func ListFeedback(ctx context.Context, db *gorm.DB, planID string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("id asc").
		Find(&out).Error
	return out, err
}
