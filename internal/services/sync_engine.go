// Package services – Engine
//
// This file implements the profile synchronization engine. Given a
// submission it decides whether the person is new or returning (by the
// natural key name + birth date), computes which scalar attributes and which
// child collections changed, and applies the minimal write set in one
// transaction.
//
// Observability: Reconcile is OpenTelemetry-instrumented and counted in
// planner_reconcile_total / planner_collection_rewrites_total.
package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/r3labs/diff"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Mode selects how a submission is applied to an existing profile.
type Mode string

const (
	// ModeCreateOrUpdate treats the submission as the full picture and
	// writes only what differs from the stored profile.
	ModeCreateOrUpdate Mode = "create_or_update"
	// ModeForceReplace merges submitted attributes over the stored ones and
	// rewrites every scalar and every collection unconditionally.
	ModeForceReplace Mode = "force_replace"
)

// ParseMode accepts the two mode names; empty means ModeCreateOrUpdate.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeCreateOrUpdate:
		return ModeCreateOrUpdate, nil
	case ModeForceReplace:
		return ModeForceReplace, nil
	}
	return "", &ValidationError{Fields: []FieldError{{Field: "mode", Reason: "must be create_or_update or force_replace"}}}
}

// Child collection names, as reported in ReconcileResult.Rewritten.
const (
	CollectionEquipment       = "equipment"
	CollectionMuscleFocus     = "muscle_focus"
	CollectionStartingWeights = "starting_weights"
)

// ReconcileResult describes what a reconciliation wrote.
type ReconcileResult struct {
	ProfileID     int64    `json:"profile_id"`
	Created       bool     `json:"created"`
	Updated       bool     `json:"updated"`
	ChangedFields []string `json:"changed_fields,omitempty"`
	Rewritten     []string `json:"rewritten_collections,omitempty"`
}

// Changed reports whether anything was written.
func (r *ReconcileResult) Changed() bool { return r.Created || r.Updated }

// Engine reconciles profile submissions against the store.
type Engine struct {
	DB *gorm.DB
	// Now is the clock used for date rules.
	Now func() time.Time
}

// NewEngine constructs an Engine using the wall clock.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db, Now: time.Now}
}

// Reconcile validates a submission and brings the stored profile in line
// with it. All reads and writes run in a single transaction; on any error
// nothing is written.
//
// Errors: *ValidationError before any write, ErrIntegrity / ErrTransient for
// classified store failures, or the underlying error.
func (e *Engine) Reconcile(ctx context.Context, in ProfileInput, mode Mode) (*ReconcileResult, error) {
	tr := otel.Tracer("services/Engine")
	ctx, span := tr.Start(ctx, "Reconcile",
		trace.WithAttributes(attribute.String("mode", string(mode))),
	)
	defer span.End()

	if mode != ModeCreateOrUpdate && mode != ModeForceReplace {
		_, err := ParseMode(string(mode))
		return nil, err
	}

	checked, err := checkInput(in.clean(), mode == ModeCreateOrUpdate)
	if err != nil {
		return nil, err
	}
	today := e.today()
	if err := checkSubmittedDates(checked, today); err != nil {
		return nil, err
	}

	res := &ReconcileResult{}
	err = e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repo.FindUserByNaturalKey(ctx, tx, checked.Name, checked.BirthDate)
		if errors.Is(err, repo.ErrNotFound) {
			return e.create(ctx, tx, checked, res)
		}
		if err != nil {
			return err
		}
		stored, err := repo.LoadProfile(ctx, tx, existing.ID)
		if err != nil {
			return err
		}
		if mode == ModeForceReplace {
			return e.replace(ctx, tx, stored, checked, res)
		}
		return e.update(ctx, tx, stored, checked, res)
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyStoreError(err)
	}

	outcome := outcomeUnchanged
	switch {
	case res.Created:
		outcome = outcomeCreated
	case res.Updated:
		outcome = outcomeUpdated
	}
	reconcileTotal.WithLabelValues(string(mode), outcome).Inc()
	for _, c := range res.Rewritten {
		collectionRewrites.WithLabelValues(c).Inc()
	}
	span.SetAttributes(
		attribute.Int64("profile.id", res.ProfileID),
		attribute.String("outcome", outcome),
	)
	log.Info().
		Int64("profile_id", res.ProfileID).
		Str("mode", string(mode)).
		Str("outcome", outcome).
		Strs("changed", res.ChangedFields).
		Strs("rewritten", res.Rewritten).
		Msg("profile reconciled")
	return res, nil
}

func (e *Engine) today() time.Time {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// create inserts a profile that does not exist yet.
func (e *Engine) create(ctx context.Context, tx *gorm.DB, in ProfileInput, res *ReconcileResult) error {
	target, err := resolveTarget(nil, in)
	if err != nil {
		return err
	}
	u := target.User
	if err := repo.InsertUser(ctx, tx, &u); err != nil {
		return err
	}
	res.ProfileID = u.ID
	res.Created = true

	if len(target.Equipment) > 0 {
		if err := repo.ReplaceEquipment(ctx, tx, u.ID, target.Equipment); err != nil {
			return err
		}
		res.Rewritten = append(res.Rewritten, CollectionEquipment)
	}
	if len(target.MuscleFocus) > 0 {
		if err := repo.ReplaceMuscleFocus(ctx, tx, u.ID, target.MuscleFocus); err != nil {
			return err
		}
		res.Rewritten = append(res.Rewritten, CollectionMuscleFocus)
	}
	if len(target.StartingWeights) > 0 {
		if err := repo.ReplaceStartingWeights(ctx, tx, u.ID, target.StartingWeights); err != nil {
			return err
		}
		res.Rewritten = append(res.Rewritten, CollectionStartingWeights)
	}
	return nil
}

// update writes only the scalars and collections that differ. Collections
// and the weekday set that were not submitted keep their stored content.
func (e *Engine) update(ctx context.Context, tx *gorm.DB, stored *domain.Profile, in ProfileInput, res *ReconcileResult) error {
	target, err := resolveTarget(nil, withStoredCollections(stored, in))
	if err != nil {
		return err
	}
	target.User.ID = stored.User.ID
	target.User.CreatedAt = stored.User.CreatedAt
	res.ProfileID = stored.User.ID

	changed, err := changedScalars(stored.User, target.User)
	if err != nil {
		return err
	}
	if len(changed) > 0 {
		if err := repo.UpdateUserScalars(ctx, tx, &target.User); err != nil {
			return err
		}
		res.ChangedFields = changed
	}

	if !sameSet(stored.Equipment, target.Equipment) {
		if err := repo.ReplaceEquipment(ctx, tx, stored.User.ID, target.Equipment); err != nil {
			return err
		}
		res.Rewritten = append(res.Rewritten, CollectionEquipment)
	}
	if !sameSet(stored.MuscleFocus, target.MuscleFocus) {
		if err := repo.ReplaceMuscleFocus(ctx, tx, stored.User.ID, target.MuscleFocus); err != nil {
			return err
		}
		res.Rewritten = append(res.Rewritten, CollectionMuscleFocus)
	}
	if !sameWeights(stored.StartingWeights, target.StartingWeights) {
		if err := repo.ReplaceStartingWeights(ctx, tx, stored.User.ID, target.StartingWeights); err != nil {
			return err
		}
		res.Rewritten = append(res.Rewritten, CollectionStartingWeights)
	}

	res.Updated = len(res.ChangedFields) > 0 || len(res.Rewritten) > 0
	return nil
}

// withStoredCollections fills the collections left nil in the submission
// from the stored profile.
func withStoredCollections(stored *domain.Profile, in ProfileInput) ProfileInput {
	if in.AvailableDays == nil {
		in.AvailableDays = DayList(splitDays(stored.User.AvailableDays))
	}
	if in.Equipment == nil {
		in.Equipment = slices.Clone(stored.Equipment)
	}
	if in.MuscleFocus == nil {
		in.MuscleFocus = slices.Clone(stored.MuscleFocus)
	}
	if in.StartingWeights == nil {
		in.StartingWeights = maps.Clone(stored.StartingWeights)
	}
	return in
}

// replace merges the submission over the stored profile and rewrites it
// entirely.
func (e *Engine) replace(ctx context.Context, tx *gorm.DB, stored *domain.Profile, in ProfileInput, res *ReconcileResult) error {
	target, err := resolveTarget(stored, in)
	if err != nil {
		return err
	}
	res.ProfileID = stored.User.ID

	changed, err := changedScalars(stored.User, target.User)
	if err != nil {
		return err
	}
	if err := repo.UpdateUserScalars(ctx, tx, &target.User); err != nil {
		return err
	}
	if err := repo.ReplaceEquipment(ctx, tx, stored.User.ID, target.Equipment); err != nil {
		return err
	}
	if err := repo.ReplaceMuscleFocus(ctx, tx, stored.User.ID, target.MuscleFocus); err != nil {
		return err
	}
	if err := repo.ReplaceStartingWeights(ctx, tx, stored.User.ID, target.StartingWeights); err != nil {
		return err
	}
	res.ChangedFields = changed
	res.Rewritten = []string{CollectionEquipment, CollectionMuscleFocus, CollectionStartingWeights}
	res.Updated = true
	return nil
}

// resolveTarget produces the profile a submission asks for. With a nil base
// the submission is the whole picture; otherwise submitted values are laid
// over base. Goal-scoped attributes are cleared and the merged result is
// validated.
func resolveTarget(base *domain.Profile, in ProfileInput) (*domain.Profile, error) {
	var p domain.Profile
	if base != nil {
		p = *base
	}
	u := &p.User
	u.Name = in.Name
	u.BirthDate = in.BirthDate
	setString(&u.Email, in.Email)
	setString(&u.Goal, in.Goal)
	setString(&u.Experience, in.Experience)
	setString(&u.DistanceUnit, in.DistanceUnit)
	setString(&u.GoalDate, in.GoalDate)
	setString(&u.StartDate, in.StartDate)
	if in.TrainingDaysPerWeek != nil {
		u.TrainingDaysPerWeek = *in.TrainingDaysPerWeek
	}
	if base == nil || in.BaseDistance != nil {
		u.BaseDistance = in.BaseDistance
	}
	if base == nil || in.PreferredTime != nil {
		u.PreferredTime = in.PreferredTime
	}
	if base == nil || in.LongRunDay != nil {
		u.LongRunDay = in.LongRunDay
	}
	if base == nil || in.SessionTypePreference != nil {
		u.SessionTypePreference = in.SessionTypePreference
	}
	if u.DistanceUnit == "" {
		u.DistanceUnit = "km"
	}

	switch {
	case in.AvailableDays != nil:
		u.AvailableDays = joinDays(NormalizeWeekdays(in.AvailableDays))
	case base == nil:
		u.AvailableDays = joinDays(NormalizeWeekdays(nil))
	default:
		u.AvailableDays = joinDays(NormalizeWeekdays(splitDays(u.AvailableDays)))
	}

	if in.Equipment != nil || base == nil {
		p.Equipment = in.Equipment
	}
	if in.MuscleFocus != nil || base == nil {
		p.MuscleFocus = in.MuscleFocus
	}
	if in.StartingWeights != nil || base == nil {
		p.StartingWeights = in.StartingWeights
	}

	if !domain.IsRunningGoal(u.Goal) {
		u.BaseDistance = nil
		u.LongRunDay = nil
	}
	if u.Goal != domain.GoalMuscleGains {
		p.MuscleFocus = nil
		p.StartingWeights = nil
	}
	if p.Equipment == nil {
		p.Equipment = []string{}
	}
	if p.MuscleFocus == nil {
		p.MuscleFocus = []string{}
	}
	if p.StartingWeights == nil {
		p.StartingWeights = map[string]float64{}
	}

	if err := checkResolved(&p); err != nil {
		return nil, err
	}
	warnCaveats(&p)
	return &p, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// checkSubmittedDates applies the rules that only concern submitted values:
// birth date strictly in the past and a submitted start date not before
// today.
func checkSubmittedDates(in ProfileInput, today time.Time) error {
	ve := &ValidationError{}
	if bd, err := parseDate(in.BirthDate); err == nil && !bd.Before(today) {
		ve.add("birth_date", "must be in the past")
	}
	if in.StartDate != nil {
		if sd, err := parseDate(*in.StartDate); err == nil && sd.Before(today) {
			ve.add("start_date", "must not be before today")
		}
	}
	return ve.err()
}

// checkResolved applies the rules over the effective profile.
func checkResolved(p *domain.Profile) error {
	ve := &ValidationError{}
	u := p.User
	for field, v := range map[string]string{
		"email": u.Email, "goal": u.Goal, "experience": u.Experience,
		"start_date": u.StartDate, "goal_date": u.GoalDate,
	} {
		if v == "" {
			ve.add(field, "is required")
		}
	}
	if u.TrainingDaysPerWeek < 1 || u.TrainingDaysPerWeek > 7 {
		ve.add("training_days_per_week", "must be between 1 and 7")
	}
	if u.Email != "" && !emailRE.MatchString(u.Email) {
		ve.add("email", "must be a valid email address")
	}

	sd, serr := parseDate(u.StartDate)
	gd, gerr := parseDate(u.GoalDate)
	if u.StartDate != "" && serr != nil {
		ve.add("start_date", "must be a date in YYYY-MM-DD format")
	}
	if u.GoalDate != "" && gerr != nil {
		ve.add("goal_date", "must be a date in YYYY-MM-DD format")
	}
	if serr == nil && gerr == nil && !sd.Before(gd) {
		ve.add("goal_date", "must be after start_date")
	}

	if u.LongRunDay != nil {
		ok := false
		for _, d := range splitDays(u.AvailableDays) {
			if d == *u.LongRunDay {
				ok = true
				break
			}
		}
		if !ok {
			ve.add("long_run_day", "must be one of the available days")
		}
	}
	return ve.err()
}

// warnCaveats logs conditions that degrade the plan but never block it.
func warnCaveats(p *domain.Profile) {
	u := p.User
	if days := splitDays(u.AvailableDays); len(days) < u.TrainingDaysPerWeek {
		log.Warn().
			Int("available", len(days)).
			Int("requested", u.TrainingDaysPerWeek).
			Msg("fewer available days than training days; using all available")
	}
	if u.Goal == domain.GoalHyrox {
		owned := make(map[string]struct{}, len(p.Equipment))
		for _, e := range p.Equipment {
			owned[e] = struct{}{}
		}
		var missing []string
		for _, a := range domain.HyroxApparatus {
			if _, ok := owned[a]; !ok {
				missing = append(missing, a)
			}
		}
		if len(missing) > 0 {
			log.Warn().Strs("missing", missing).Msg("hyrox apparatus unavailable; stations will use substitutes")
		}
	}
}

// scalarView is the diffable projection of a user row. Tags are column
// names; optional values collapse to their zero value.
type scalarView struct {
	Name                  string  `diff:"name"`
	BirthDate             string  `diff:"birth_date"`
	Email                 string  `diff:"email"`
	Goal                  string  `diff:"goal"`
	TrainingDaysPerWeek   int     `diff:"training_days_per_week"`
	Experience            string  `diff:"experience"`
	AvailableDays         string  `diff:"available_days"`
	BaseDistance          float64 `diff:"base_distance"`
	DistanceUnit          string  `diff:"distance_unit"`
	PreferredTime         string  `diff:"preferred_time"`
	GoalDate              string  `diff:"goal_date"`
	StartDate             string  `diff:"start_date"`
	LongRunDay            string  `diff:"long_run_day"`
	SessionTypePreference string  `diff:"session_type_preference"`
}

func viewOf(u domain.User) scalarView {
	v := scalarView{
		Name: u.Name, BirthDate: u.BirthDate, Email: u.Email, Goal: u.Goal,
		TrainingDaysPerWeek: u.TrainingDaysPerWeek, Experience: u.Experience,
		AvailableDays: u.AvailableDays, DistanceUnit: u.DistanceUnit,
		GoalDate: u.GoalDate, StartDate: u.StartDate,
	}
	if u.BaseDistance != nil {
		v.BaseDistance = *u.BaseDistance
	}
	if u.PreferredTime != nil {
		v.PreferredTime = *u.PreferredTime
	}
	if u.LongRunDay != nil {
		v.LongRunDay = *u.LongRunDay
	}
	if u.SessionTypePreference != nil {
		v.SessionTypePreference = *u.SessionTypePreference
	}
	return v
}

// changedScalars returns the sorted column names whose values differ.
func changedScalars(stored, target domain.User) ([]string, error) {
	changelog, err := diff.Diff(viewOf(stored), viewOf(target))
	if err != nil {
		return nil, fmt.Errorf("diff profile: %w", err)
	}
	out := make([]string, 0, len(changelog))
	for _, c := range changelog {
		if len(c.Path) > 0 {
			out = append(out, c.Path[0])
		}
	}
	sort.Strings(out)
	return out, nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	m := make(map[string]struct{}, len(a))
	for _, x := range a {
		m[x] = struct{}{}
	}
	for _, x := range b {
		if _, ok := m[x]; !ok {
			return false
		}
	}
	return true
}

func sameWeights(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
