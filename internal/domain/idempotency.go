package domain

import "time"

// Idempotency records the outcome of a completed unsafe request keyed by
// (scope, key). Scope is the resource the request targeted (for feedback,
// the plan ID); ResourceID is what the request produced (the regenerated
// plan ID). Retries with the same key replay the stored outcome instead of
// appending another feedback row.
type Idempotency struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Scope      string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_scope_key,priority:1"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_scope_key,priority:2"`
	ResourceID string    `gorm:"type:TEXT NOT NULL"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
