// Package domain defines the persistence models for fitness profiles, their
// child collections, generated plans, and feedback. These types are mapped
// with GORM and shared by the repository, service, and HTTP layers.
//
// Dates are stored as ISO-8601 calendar dates ("2006-01-02") in TEXT columns;
// the natural key (name, birth_date) is compared as plain text.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the canonical layout for every calendar date column.
const DateLayout = "2006-01-02"

// User is the persisted profile row. It is identified by a surrogate
// autoincrement ID, but returning users are recognized by (Name, BirthDate).
//
// Optional attributes are pointers so "absent" and "empty" stay distinct
// through merges and diffs.
type User struct {
	ID                    int64     `json:"user_id"                           gorm:"column:user_id;primaryKey;autoIncrement"`
	Name                  string    `json:"name"                              gorm:"type:text;not null;index:idx_users_natural_key,priority:1"`
	BirthDate             string    `json:"birth_date"                        gorm:"type:text;not null;index:idx_users_natural_key,priority:2"`
	Email                 string    `json:"email"                             gorm:"type:text;not null;default:''"`
	Goal                  string    `json:"goal"                              gorm:"type:text;not null"`
	TrainingDaysPerWeek   int       `json:"training_days_per_week"            gorm:"not null;check:chk_users_training_days,training_days_per_week BETWEEN 1 AND 7"`
	Experience            string    `json:"experience"                        gorm:"type:text;not null"`
	AvailableDays         string    `json:"available_days"                    gorm:"type:text;not null"`
	BaseDistance          *float64  `json:"base_distance,omitempty"`
	DistanceUnit          string    `json:"distance_unit"                     gorm:"type:text;not null;default:'km'"`
	PreferredTime         *string   `json:"preferred_time,omitempty"          gorm:"type:text"`
	GoalDate              string    `json:"goal_date"                         gorm:"type:text;not null"`
	StartDate             string    `json:"start_date"                        gorm:"type:text;not null"`
	LongRunDay            *string   `json:"long_run_day,omitempty"            gorm:"type:text"`
	SessionTypePreference *string   `json:"session_type_preference,omitempty" gorm:"type:text"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// UserEquipment is one member of a user's equipment set.
type UserEquipment struct {
	UserID    int64  `gorm:"primaryKey;autoIncrement:false"`
	Equipment string `gorm:"type:text;primaryKey"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserEquipment.
func (UserEquipment) TableName() string { return "user_equipment" }

// UserMuscleFocus is one member of a user's muscle-focus set.
type UserMuscleFocus struct {
	UserID      int64  `gorm:"primaryKey;autoIncrement:false"`
	MuscleGroup string `gorm:"type:text;primaryKey"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserMuscleFocus.
func (UserMuscleFocus) TableName() string { return "user_muscle_focus" }

// UserStartingWeight is one entry of a user's starting-weight map.
type UserStartingWeight struct {
	UserID   int64   `gorm:"primaryKey;autoIncrement:false"`
	Exercise string  `gorm:"type:text;primaryKey"`
	Weight   float64 `gorm:"not null;check:chk_starting_weight_positive,weight > 0"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserStartingWeight.
func (UserStartingWeight) TableName() string { return "user_starting_weights" }

// Plan is a generated training plan. It is written once per regeneration
// event; only ArtifactReference may change afterwards.
type Plan struct {
	ID                   string                           `json:"plan_id"                      gorm:"column:plan_id;type:char(36);primaryKey"`
	UserID               int64                            `json:"user_id"                      gorm:"not null;index:idx_plans_user,priority:1"`
	Goal                 string                           `json:"goal"                         gorm:"type:text;not null"`
	StartDate            string                           `json:"start_date"                   gorm:"type:text"`
	GoalDate             string                           `json:"goal_date"                    gorm:"type:text"`
	TrainingDurationWeek int                              `json:"training_duration_weeks"      gorm:"column:training_duration_weeks;not null"`
	TrainingDaysPerWeek  int                              `json:"training_days_per_week"       gorm:"not null"`
	Experience           string                           `json:"experience"                   gorm:"type:text;not null"`
	ArtifactReference    *string                          `json:"artifact_reference,omitempty" gorm:"type:text"`
	Adjustments          datatypes.JSONType[Adjustments]  `json:"adjustments"`
	CreatedAt            time.Time                        `json:"created_at"                   gorm:"index:idx_plans_user,priority:2"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Plan.
func (Plan) TableName() string { return "plans" }

// PlanSession is the generated session text for one (week, weekday) slot.
type PlanSession struct {
	PlanID      string `json:"-"            gorm:"type:char(36);primaryKey"`
	Week        int    `json:"week"         gorm:"primaryKey;autoIncrement:false"`
	Day         string `json:"day"          gorm:"type:text;primaryKey"`
	SessionText string `json:"session_text" gorm:"type:text;not null"`

	Plan Plan `json:"-" gorm:"foreignKey:PlanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for PlanSession.
func (PlanSession) TableName() string { return "training_plan_sessions" }

// Feedback is an append-only report against a plan. Rows are never updated
// or deleted after insertion.
type Feedback struct {
	ID                     int64     `json:"id"                       gorm:"primaryKey;autoIncrement"`
	UserID                 int64     `json:"user_id"                  gorm:"not null;index"`
	PlanID                 string    `json:"plan_id"                  gorm:"type:char(36);not null;index"`
	Satisfaction           int       `json:"satisfaction"             gorm:"not null;check:chk_feedback_satisfaction,satisfaction BETWEEN 1 AND 5"`
	Comments               string    `json:"comments"                 gorm:"type:text"`
	ProgressWeightsEncoded string    `json:"progress_weights_encoded" gorm:"type:text"`
	WeightUnit             string    `json:"weight_unit"              gorm:"type:text"`
	TrainedUntil           string    `json:"trained_until"            gorm:"type:text"`
	Timestamp              time.Time `json:"timestamp"                gorm:"column:timestamp;autoCreateTime;not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Plan Plan `json:"-" gorm:"foreignKey:PlanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "feedback" }

// Exercise is a row of the static reference catalog, keyed by name.
type Exercise struct {
	Name        string `json:"name"         gorm:"type:text;primaryKey"`
	Category    string `json:"category"     gorm:"type:text"`
	Equipment   string `json:"equipment"    gorm:"type:text"`
	Description string `json:"description"  gorm:"type:text"`
	GoalTag     string `json:"goal_tag"     gorm:"type:text"`
	MuscleGroup string `json:"muscle_group" gorm:"type:text"`
	VideoURL    string `json:"video_url"    gorm:"type:text"`
}

// TableName returns the database table name for Exercise.
func (Exercise) TableName() string { return "exercises" }

// Profile is a user row together with its three child collections, in the
// shape the engine reconciles and the planner consumes.
type Profile struct {
	User            User               `json:"user"`
	Equipment       []string           `json:"equipment"`
	MuscleFocus     []string           `json:"muscle_focus"`
	StartingWeights map[string]float64 `json:"starting_weights"`
}

// Directive is a per-exercise instruction derived from feedback.
type Directive string

// Known directives.
const (
	DirectiveDecreaseLoad Directive = "decrease_load"
	DirectiveIncreaseLoad Directive = "increase_load"
	DirectiveSubstitute   Directive = "substitute"
)

// Adjustments are the structured directives handed to plan generation.
// StartDate, when set, replaces the profile's start date.
type Adjustments struct {
	StartDate string               `json:"start_date,omitempty"`
	Exercises map[string]Directive `json:"exercises,omitempty"`
}

// IsZero reports whether a carries no directive at all.
func (a Adjustments) IsZero() bool {
	return a.StartDate == "" && len(a.Exercises) == 0
}
