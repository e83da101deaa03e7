// Package services – FeedbackService
//
// This file implements feedback ingestion. A feedback report is appended to
// the plan's history, parsed into adjustments, and folded back into the
// profile through a force_replace submission that regenerates the plan.
//
// The feedback row is committed before the profile is touched: the report
// is kept even when the follow-up submission fails.
package services

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FeedbackInput is one feedback report against a plan.
type FeedbackInput struct {
	ProfileID       int64              `json:"profile_id"       validate:"required,gt=0"`
	PlanID          string             `json:"plan_id"          validate:"required"`
	Satisfaction    int                `json:"satisfaction"     validate:"required,min=1,max=5"`
	Comments        string             `json:"comments"`
	ProgressWeights map[string]float64 `json:"progress_weights" validate:"omitempty,dive,gt=0"`
	WeightUnit      string             `json:"weight_unit"      validate:"omitempty,oneof=kg lbs"`
	TrainedUntil    string             `json:"trained_until"    validate:"required,isodate"`

	// IdempotencyKey, when set, makes retries of the same report replay the
	// first outcome.
	IdempotencyKey string `json:"-"`
}

// FeedbackOutcome is the result of Record.
type FeedbackOutcome struct {
	FeedbackID  int64              `json:"feedback_id,omitempty"`
	ProfileID   int64              `json:"profile_id"`
	PlanID      string             `json:"plan_id"`
	Adjustments domain.Adjustments `json:"adjustments"`
	Replayed    bool               `json:"replayed"`
	Submission  *Submission        `json:"submission,omitempty"`
}

// FeedbackService records feedback and regenerates plans from it.
type FeedbackService struct {
	// mu serializes the lookup, append and record steps so two retries
	// carrying the same key cannot both append.
	mu sync.Mutex

	// DB is the GORM handle used for persistence.
	DB           *gorm.DB
	Parser       FeedbackParser
	Registration *RegistrationService

	// IdempotencyTTL bounds how long a key replays. Zero means 24h.
	IdempotencyTTL time.Duration
	Now            func() time.Time
}

// NewFeedbackService wires a FeedbackService.
func NewFeedbackService(db *gorm.DB, parser FeedbackParser, reg *RegistrationService, ttl time.Duration) *FeedbackService {
	return &FeedbackService{DB: db, Parser: parser, Registration: reg, IdempotencyTTL: ttl, Now: time.Now}
}

// Record validates and stores a report, derives adjustments from it and
// resubmits the profile under ModeForceReplace. The outcome's PlanID is the
// regenerated plan.
//
// Errors: *ValidationError, ErrProfileNotFound, ErrPlanNotFound (also when
// the plan belongs to another profile), or errors from the resubmission.
func (s *FeedbackService) Record(ctx context.Context, in FeedbackInput) (*FeedbackOutcome, error) {
	tr := otel.Tracer("services/FeedbackService")
	ctx, span := tr.Start(ctx, "Record",
		trace.WithAttributes(
			attribute.Int64("profile.id", in.ProfileID),
			attribute.String("plan.id", in.PlanID),
		),
	)
	defer span.End()

	in, err := checkFeedback(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if in.IdempotencyKey != "" {
		rec, err := repo.GetIdempotency(ctx, s.DB, in.PlanID, in.IdempotencyKey, now)
		if err == nil {
			span.SetAttributes(attribute.Bool("idempotency.replay", true))
			return &FeedbackOutcome{ProfileID: in.ProfileID, PlanID: rec.ResourceID, Replayed: true}, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, classifyStoreError(err)
		}
	}

	user, err := repo.GetUser(ctx, s.DB, in.ProfileID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, classifyStoreError(err)
	}
	plan, err := repo.GetPlan(ctx, s.DB, in.PlanID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && plan.UserID != user.ID) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, classifyStoreError(err)
	}

	fb := &domain.Feedback{
		UserID:                 user.ID,
		PlanID:                 plan.ID,
		Satisfaction:           in.Satisfaction,
		Comments:               in.Comments,
		ProgressWeightsEncoded: EncodeWeights(in.ProgressWeights),
		WeightUnit:             in.WeightUnit,
		TrainedUntil:           in.TrainedUntil,
	}
	if err := repo.CreateFeedback(ctx, s.DB, fb); err != nil {
		return nil, classifyStoreError(err)
	}

	adj, err := s.Parser.Parse(in.Comments, in.TrainedUntil)
	if err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "trained_until", Reason: err.Error()}}}
	}

	resubmit := ProfileInput{Name: user.Name, BirthDate: user.BirthDate}
	if len(in.ProgressWeights) > 0 {
		resubmit.StartingWeights = in.ProgressWeights
	}
	if adj.StartDate != "" {
		resubmit.StartDate = Ptr(adj.StartDate)
	}
	sub, err := s.Registration.Submit(ctx, resubmit, ModeForceReplace, adj)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		ttl := s.IdempotencyTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		if _, err := repo.CreateIdempotency(ctx, s.DB, in.PlanID, in.IdempotencyKey, sub.PlanID, http.StatusCreated, now, ttl); err != nil {
			log.Warn().Err(err).Str("plan_id", in.PlanID).Msg("idempotency record not stored")
		}
	}

	log.Info().
		Int64("profile_id", user.ID).
		Str("plan_id", plan.ID).
		Str("new_plan_id", sub.PlanID).
		Int("directives", len(adj.Exercises)).
		Msg("feedback recorded")
	return &FeedbackOutcome{
		FeedbackID:  fb.ID,
		ProfileID:   user.ID,
		PlanID:      sub.PlanID,
		Adjustments: adj,
		Submission:  sub,
	}, nil
}

func (s *FeedbackService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// checkFeedback validates a report and canonicalizes lift names.
func checkFeedback(in FeedbackInput) (FeedbackInput, error) {
	in.PlanID = strings.TrimSpace(in.PlanID)
	in.TrainedUntil = strings.TrimSpace(in.TrainedUntil)
	in.WeightUnit = strings.ToLower(strings.TrimSpace(in.WeightUnit))

	ve := &ValidationError{}
	checkStruct(in, ve)
	if len(in.ProgressWeights) > 0 {
		in.ProgressWeights = canonicalWeights(ve, "progress_weights", in.ProgressWeights)
		if in.WeightUnit == "" {
			ve.add("weight_unit", "is required with progress_weights")
		}
	}
	return in, ve.err()
}

// EncodeWeights renders weights as "Bench:60 Squat:80", sorted by lift.
func EncodeWeights(w map[string]float64) string {
	if len(w) == 0 {
		return ""
	}
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+strconv.FormatFloat(w[k], 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}
