package services

import (
	"encoding/json"
	"strings"
)

// ProfileInput is one profile submission. Name and BirthDate identify the
// person; every other attribute is optional at the type level so that a
// force_replace merge can tell "not submitted" (nil) from a value.
//
// Collections and AvailableDays follow the same rule in both modes: a nil
// slice or map is "not submitted" and keeps the stored content, while an
// empty one clears the collection. Under create_or_update an absent optional
// scalar is written as NULL.
type ProfileInput struct {
	Name                  string             `json:"name"                              validate:"required"`
	BirthDate             string             `json:"birth_date"                        validate:"required,isodate"`
	Email                 *string            `json:"email,omitempty"                   validate:"omitnil,email_addr"`
	Goal                  *string            `json:"goal,omitempty"`
	TrainingDaysPerWeek   *int               `json:"training_days_per_week,omitempty"  validate:"omitnil,min=1,max=7"`
	Experience            *string            `json:"experience,omitempty"`
	AvailableDays         DayList            `json:"available_days,omitempty"`
	BaseDistance          *float64           `json:"base_distance,omitempty"           validate:"omitnil,gt=0"`
	DistanceUnit          *string            `json:"distance_unit,omitempty"`
	PreferredTime         *string            `json:"preferred_time,omitempty"`
	GoalDate              *string            `json:"goal_date,omitempty"               validate:"omitnil,isodate"`
	StartDate             *string            `json:"start_date,omitempty"              validate:"omitnil,isodate"`
	LongRunDay            *string            `json:"long_run_day,omitempty"`
	SessionTypePreference *string            `json:"session_type_preference,omitempty"`
	Equipment             []string           `json:"equipment,omitempty"`
	MuscleFocus           []string           `json:"muscle_focus,omitempty"`
	StartingWeights       map[string]float64 `json:"starting_weights,omitempty"        validate:"omitempty,dive,gt=0"`
}

// DayList is a weekday selection. It decodes from a JSON array of names or
// from a single comma-separated string ("mon, wed, fri").
type DayList []string

// UnmarshalJSON implements json.Unmarshaler.
func (d *DayList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*d = list
		return nil
	}
	var csv string
	if err := json.Unmarshal(b, &csv); err != nil {
		return err
	}
	*d = strings.Split(csv, ",")
	return nil
}

// Ptr returns a pointer to v. It keeps literal ProfileInput values short.
func Ptr[T any](v T) *T { return &v }

// trimmed returns nil for nil or blank strings and the trimmed value
// otherwise.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// clean trims every string attribute and drops blank optional values.
func (in ProfileInput) clean() ProfileInput {
	out := in
	out.Name = NormalizeName(in.Name)
	out.BirthDate = strings.TrimSpace(in.BirthDate)
	out.Email = trimmed(in.Email)
	out.Goal = trimmed(in.Goal)
	out.Experience = trimmed(in.Experience)
	out.DistanceUnit = trimmed(in.DistanceUnit)
	out.PreferredTime = trimmed(in.PreferredTime)
	out.GoalDate = trimmed(in.GoalDate)
	out.StartDate = trimmed(in.StartDate)
	out.LongRunDay = trimmed(in.LongRunDay)
	out.SessionTypePreference = trimmed(in.SessionTypePreference)
	return out
}
