// Package services – Orchestrator
//
// This file implements plan generation and plan reads. Generate loads the
// reconciled profile, asks a PlanGenerator for a draft, persists the plan
// and its sessions atomically, and then exports the CSV artifact. Artifact
// failures never roll back a committed plan; the reference simply stays
// NULL.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/artifacts"
	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/repo"
	"github.com/tbourn/go-training-planner/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Orchestrator generates and reads training plans.
type Orchestrator struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Generator composes session text.
	Generator PlanGenerator
	// Artifacts receives CSV exports. Nil disables export.
	Artifacts artifacts.Store

	// MaxPageSize caps ListPage page sizes.
	MaxPageSize int
}

// NewOrchestrator constructs an Orchestrator. A nil generator selects
// DefaultPlanner.
func NewOrchestrator(db *gorm.DB, gen PlanGenerator, store artifacts.Store) *Orchestrator {
	if gen == nil {
		gen = DefaultPlanner{}
	}
	return &Orchestrator{DB: db, Generator: gen, Artifacts: store, MaxPageSize: 100}
}

// Generate creates a new plan for profileID, applying adj.
func (o *Orchestrator) Generate(ctx context.Context, profileID int64, adj domain.Adjustments) (*domain.Plan, error) {
	tr := otel.Tracer("services/Orchestrator")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(attribute.Int64("profile.id", profileID)),
	)
	defer span.End()

	profile, err := repo.LoadProfile(ctx, o.DB, profileID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, classifyStoreError(err)
	}
	catalog, err := repo.ListExercises(ctx, o.DB)
	if err != nil {
		return nil, classifyStoreError(err)
	}

	draft, err := o.Generator.Generate(PlanRequest{Profile: *profile, Catalog: catalog, Adjustments: adj})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate")
		return nil, err
	}

	u := profile.User
	plan := &domain.Plan{
		ID:                   uuid.NewString(),
		UserID:               u.ID,
		Goal:                 u.Goal,
		StartDate:            draft.StartDate,
		GoalDate:             draft.GoalDate,
		TrainingDurationWeek: draft.DurationWeeks,
		TrainingDaysPerWeek:  len(draft.Days),
		Experience:           u.Experience,
		Adjustments:          datatypes.NewJSONType(adj),
	}
	sessions := draft.Sessions(plan.ID)

	err = o.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.InsertPlan(ctx, tx, plan); err != nil {
			return err
		}
		return repo.InsertSessions(ctx, tx, sessions)
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyStoreError(err)
	}
	plansGenerated.WithLabelValues(plan.Goal).Inc()
	span.SetAttributes(attribute.String("plan.id", plan.ID), attribute.Int("plan.weeks", plan.TrainingDurationWeek))

	if ref, ok := o.export(ctx, plan, sessions); ok {
		plan.ArtifactReference = &ref
	}

	log.Info().
		Int64("profile_id", u.ID).
		Str("plan_id", plan.ID).
		Int("weeks", plan.TrainingDurationWeek).
		Int("sessions", len(sessions)).
		Msg("plan generated")
	return plan, nil
}

// export writes the CSV artifact and records its reference. Failures are
// logged and reported as ok=false.
func (o *Orchestrator) export(ctx context.Context, plan *domain.Plan, sessions []domain.PlanSession) (string, bool) {
	if o.Artifacts == nil {
		return "", false
	}
	body, err := artifacts.ExportCSV(sessions)
	if err == nil {
		var ref string
		ref, err = o.Artifacts.Put(ctx, artifacts.Key(plan.UserID, plan.ID), body, artifacts.CSVContentType)
		if err == nil {
			if err = repo.SetArtifactReference(ctx, o.DB, plan.ID, ref); err == nil {
				return ref, true
			}
		}
	}
	log.Warn().Err(err).Str("plan_id", plan.ID).Msg("plan artifact export failed")
	return "", false
}

// Latest returns the newest plan of a profile, or ErrPlanNotFound.
func (o *Orchestrator) Latest(ctx context.Context, profileID int64) (*domain.Plan, error) {
	p, err := repo.LatestPlan(ctx, o.DB, profileID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPlanNotFound
	}
	return p, err
}

// Get returns a plan with its sessions ordered by week and weekday.
func (o *Orchestrator) Get(ctx context.Context, planID string) (*domain.Plan, []domain.PlanSession, error) {
	p, err := repo.GetPlan(ctx, o.DB, planID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	sessions, err := repo.ListSessions(ctx, o.DB, planID)
	if err != nil {
		return nil, nil, err
	}
	return p, sessions, nil
}

// ListPage returns a page of a profile's plans, newest first, with the total
// count. Invalid page values fall back to defaults.
func (o *Orchestrator) ListPage(ctx context.Context, profileID int64, page, pageSize int) ([]domain.Plan, int64, error) {
	if _, err := repo.GetUser(ctx, o.DB, profileID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrProfileNotFound
		}
		return nil, 0, err
	}
	_, pageSize, offset := utils.Page(page, pageSize, 20, o.MaxPageSize)

	total, err := repo.CountPlans(ctx, o.DB, profileID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Plan{}, 0, nil
	}
	items, err := repo.ListPlansPage(ctx, o.DB, profileID, offset, pageSize)
	return items, total, err
}

// Stats returns the plan count and newest creation time for a profile, used
// for conditional GETs.
func (o *Orchestrator) Stats(ctx context.Context, profileID int64) (int64, *time.Time, error) {
	return repo.PlansStats(ctx, o.DB, profileID)
}
