package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-training-planner/internal/domain"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("email_addr", func(fl validator.FieldLevel) bool {
		return emailRE.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// NormalizeName is the identity form of a person's name: Unicode NFC,
// trimmed, with internal whitespace runs collapsed to one space. Case is
// preserved.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}

// checkStruct runs the tag rules and appends one FieldError per failure.
func checkStruct(v any, ve *ValidationError) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		ve.add("_", err.Error())
		return
	}
	for _, fe := range errs {
		ve.add(fieldPath(fe), reasonFor(fe))
	}
}

// fieldPath drops the root struct name from the namespace
// ("ProfileInput.starting_weights[Squat]" -> "starting_weights[Squat]").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "email_addr":
		return "must be a valid email address"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return fmt.Sprintf("failed %q", fe.Tag())
}

// canonicalPtr replaces *s with its vocabulary spelling, or records a
// FieldError when it is not a member.
func canonicalPtr(ve *ValidationError, field string, vocab []string, s *string) *string {
	if s == nil {
		return nil
	}
	c, ok := domain.Canonical(vocab, *s)
	if !ok {
		ve.add(field, "must be one of: "+strings.Join(vocab, ", "))
		return s
	}
	return &c
}

// canonicalSet maps every member onto its vocabulary spelling, dedupes and
// sorts. It preserves nil ("not submitted").
func canonicalSet(ve *ValidationError, field string, vocab []string, items []string) []string {
	if items == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		c, ok := domain.Canonical(vocab, it)
		if !ok {
			ve.add(field, fmt.Sprintf("%q is not one of: %s", strings.TrimSpace(it), strings.Join(vocab, ", ")))
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// canonicalWeights maps lift names onto the trackable-lift vocabulary. It
// preserves nil ("not submitted").
func canonicalWeights(ve *ValidationError, field string, w map[string]float64) map[string]float64 {
	if w == nil {
		return nil
	}
	out := make(map[string]float64, len(w))
	for k, v := range w {
		c, ok := domain.Canonical(domain.TrackableLifts, k)
		if !ok {
			ve.add(field, fmt.Sprintf("%q is not one of: %s", strings.TrimSpace(k), strings.Join(domain.TrackableLifts, ", ")))
			continue
		}
		out[c] = v
	}
	return out
}

// checkInput runs the structural rules over a cleaned submission and
// returns it with vocabulary values in canonical form. requireAll demands
// every attribute a new profile needs.
func checkInput(in ProfileInput, requireAll bool) (ProfileInput, error) {
	ve := &ValidationError{}
	checkStruct(in, ve)

	out := in
	out.Goal = canonicalPtr(ve, "goal", domain.Goals, in.Goal)
	out.Experience = canonicalPtr(ve, "experience", domain.ExperienceLevels, in.Experience)
	out.DistanceUnit = canonicalPtr(ve, "distance_unit", domain.DistanceUnits, in.DistanceUnit)
	out.Equipment = canonicalSet(ve, "equipment", domain.EquipmentTags, in.Equipment)
	out.MuscleFocus = canonicalSet(ve, "muscle_focus", domain.MuscleGroups, in.MuscleFocus)
	out.StartingWeights = canonicalWeights(ve, "starting_weights", in.StartingWeights)
	if in.LongRunDay != nil {
		if d, ok := matchWeekday(*in.LongRunDay); ok {
			out.LongRunDay = &d
		} else {
			ve.add("long_run_day", "must be a weekday")
		}
	}

	if requireAll {
		requireComplete(ve, out)
	}
	return out, ve.err()
}

// requireComplete records every attribute a stored profile cannot lack.
func requireComplete(ve *ValidationError, in ProfileInput) {
	missing := map[string]bool{
		"email":                  in.Email == nil,
		"goal":                   in.Goal == nil,
		"training_days_per_week": in.TrainingDaysPerWeek == nil,
		"experience":             in.Experience == nil,
		"start_date":             in.StartDate == nil,
		"goal_date":              in.GoalDate == nil,
	}
	for field, miss := range missing {
		if miss {
			ve.add(field, "is required")
		}
	}
}
