// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// PlansStats returns the number of plans a user has and the newest
// CreatedAt among them. When the user has no plans, count is 0 and latest
// is nil.
//
// Plans are immutable apart from their artifact reference, so (count,
// latest) changes whenever the list would.
func PlansStats(ctx context.Context, db *gorm.DB, userID int64) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Plan{}).Where("user_id = ?", userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
