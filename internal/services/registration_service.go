// Package services – RegistrationService
//
// This file implements the submission pipeline: reconcile the profile, then
// generate a plan for it. Submissions are serialized by a process-wide
// mutex so that two writers never interleave on the same store.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Submission is the outcome of one pipeline run.
type Submission struct {
	ProfileID         int64            `json:"profile_id"`
	PlanID            string           `json:"plan_id"`
	ArtifactReference *string          `json:"artifact_reference,omitempty"`
	Regenerated       bool             `json:"regenerated"`
	Reconcile         *ReconcileResult `json:"reconcile"`
	Plan              *domain.Plan     `json:"-"`
}

// RegistrationService runs Reconcile followed by plan generation.
type RegistrationService struct {
	mu     sync.Mutex
	Engine *Engine
	Plans  *Orchestrator
}

// NewRegistrationService wires the pipeline.
func NewRegistrationService(engine *Engine, plans *Orchestrator) *RegistrationService {
	return &RegistrationService{Engine: engine, Plans: plans}
}

// Submit reconciles in under mode and produces a plan. Under
// ModeCreateOrUpdate a submission that changed nothing, carries no
// adjustments and targets a profile that already has a plan returns that
// plan instead of generating another.
func (s *RegistrationService) Submit(ctx context.Context, in ProfileInput, mode Mode, adj domain.Adjustments) (*Submission, error) {
	tr := otel.Tracer("services/RegistrationService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.String("mode", string(mode))),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(ctx, in, mode, adj)
}

func (s *RegistrationService) submitLocked(ctx context.Context, in ProfileInput, mode Mode, adj domain.Adjustments) (*Submission, error) {
	res, err := s.Engine.Reconcile(ctx, in, mode)
	if err != nil {
		return nil, err
	}
	sub := &Submission{ProfileID: res.ProfileID, Reconcile: res}

	if mode == ModeCreateOrUpdate && !res.Changed() && adj.IsZero() {
		latest, err := s.Plans.Latest(ctx, res.ProfileID)
		switch {
		case err == nil:
			sub.Plan = latest
			sub.PlanID = latest.ID
			sub.ArtifactReference = latest.ArtifactReference
			log.Info().Int64("profile_id", res.ProfileID).Str("plan_id", latest.ID).Msg("profile unchanged; reusing latest plan")
			return sub, nil
		case !errors.Is(err, ErrPlanNotFound):
			return nil, classifyStoreError(err)
		}
	}

	plan, err := s.Plans.Generate(ctx, res.ProfileID, adj)
	if err != nil {
		return nil, err
	}
	sub.Plan = plan
	sub.PlanID = plan.ID
	sub.ArtifactReference = plan.ArtifactReference
	sub.Regenerated = true
	return sub, nil
}

// Profile returns a stored profile with its collections.
func (s *RegistrationService) Profile(ctx context.Context, id int64) (*domain.Profile, error) {
	p, err := repo.LoadProfile(ctx, s.Engine.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return p, nil
}

// Lookup finds a profile by its natural key. The name is normalized the
// same way submissions are.
func (s *RegistrationService) Lookup(ctx context.Context, name, birthDate string) (*domain.Profile, error) {
	u, err := repo.FindUserByNaturalKey(ctx, s.Engine.DB, NormalizeName(name), strings.TrimSpace(birthDate))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return s.Profile(ctx, u.ID)
}
