// Profile HTTP handlers.
//
// This file exposes REST endpoints for profiles:
//   - POST /profiles          (create_or_update, then plan)
//   - PUT  /profiles          (force_replace, then plan)
//   - GET  /profiles/lookup   (natural-key lookup)
//   - GET  /profiles/{id}     (profile with collections)
//
// Handlers are transport-thin: they bind input, delegate to application
// services, and translate service errors into HTTP results.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/search"
	"github.com/tbourn/go-training-planner/internal/services"
	"github.com/tbourn/go-training-planner/internal/utils"
)

//
// Service contracts (context-aware)
//

// ProfileService runs the submission pipeline and reads profiles back.
//
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation and timeouts.
type ProfileService interface {
	// Submit reconciles a submission under mode and produces a plan.
	Submit(ctx context.Context, in services.ProfileInput, mode services.Mode, adj domain.Adjustments) (*services.Submission, error)
	// Profile returns a stored profile with its collections.
	Profile(ctx context.Context, id int64) (*domain.Profile, error)
	// Lookup finds a profile by (name, birth date).
	Lookup(ctx context.Context, name, birthDate string) (*domain.Profile, error)
}

// PlanService reads generated plans.
type PlanService interface {
	// Get returns a plan with its ordered sessions.
	Get(ctx context.Context, planID string) (*domain.Plan, []domain.PlanSession, error)
	// ListPage returns a page of a profile's plans and the total count.
	ListPage(ctx context.Context, profileID int64, page, pageSize int) ([]domain.Plan, int64, error)
	// Stats returns the plan count and newest creation time, for ETags.
	Stats(ctx context.Context, profileID int64) (int64, *time.Time, error)
}

// FeedbackService records feedback reports against plans.
type FeedbackService interface {
	Record(ctx context.Context, in services.FeedbackInput) (*services.FeedbackOutcome, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends on abstract service
// interfaces to keep transport concerns apart from business logic.
type Handlers struct {
	profiles ProfileService
	plans    PlanService
	feedback FeedbackService
	catalog  search.Index
}

// New constructs a Handlers bound to the given services.
func New(profiles ProfileService, plans PlanService, feedback FeedbackService, catalog search.Index) *Handlers {
	return &Handlers{profiles: profiles, plans: plans, feedback: feedback, catalog: catalog}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// SubmitResponse is returned by POST and PUT /profiles.
type SubmitResponse struct {
	ProfileID         int64                     `json:"profile_id" example:"1"`
	PlanID            string                    `json:"plan_id" example:"fa4dfbe0-c3bf-47bd-b32f-d7de221cf43b"`
	ArtifactReference *string                   `json:"artifact_reference,omitempty" example:"file:///srv/plans/user_1/plan_fa4dfbe0.csv"`
	Regenerated       bool                      `json:"regenerated"`
	Reconcile         *services.ReconcileResult `json:"reconcile"`
	Plan              *domain.Plan              `json:"plan,omitempty"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = max(utils.AtoiDefault(c.Query("page"), defaultPage), 1)
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// profileID parses the :id path parameter as a positive integer.
func profileID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "profile id must be a positive integer")
		return 0, false
	}
	return id, true
}

//
// Handlers
//

// SubmitProfile godoc
// @ID          submitProfile
// @Summary     Create or update a profile
// @Description Reconciles the submission under create_or_update and returns the resulting plan.
// @Description An unchanged resubmission writes nothing and returns the latest plan.
// @Tags        Profiles
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.ProfileInput  true  "Profile submission"
//
// @Success     201  {object}  handlers.SubmitResponse  "Profile created"
// @Success     200  {object}  handlers.SubmitResponse  "Profile updated or unchanged"
// @Failure     400  {object}  handlers.ErrorResponse   "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse   "Integrity violation"
// @Failure     503  {object}  handlers.ErrorResponse   "Store busy"
// @Failure     500  {object}  handlers.ErrorResponse   "Internal error"
// @Router      /profiles [post]
func (h *Handlers) SubmitProfile(c *gin.Context) {
	h.submit(c, services.ModeCreateOrUpdate)
}

// ReplaceProfile godoc
// @ID          replaceProfile
// @Summary     Force-replace a profile
// @Description Merges the submission over the stored profile, rewrites every table and regenerates the plan.
// @Tags        Profiles
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.ProfileInput  true  "Profile submission"
//
// @Success     200  {object}  handlers.SubmitResponse
// @Success     201  {object}  handlers.SubmitResponse  "Profile created"
// @Failure     400  {object}  handlers.ErrorResponse   "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse   "Integrity violation"
// @Failure     503  {object}  handlers.ErrorResponse   "Store busy"
// @Failure     500  {object}  handlers.ErrorResponse   "Internal error"
// @Router      /profiles [put]
func (h *Handlers) ReplaceProfile(c *gin.Context) {
	h.submit(c, services.ModeForceReplace)
}

func (h *Handlers) submit(c *gin.Context, mode services.Mode) {
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.profiles.Submit(c.Request.Context(), in, mode, domain.Adjustments{})
	if err != nil {
		failErr(c, err, ErrCodeSubmitFailed)
		return
	}

	status := http.StatusOK
	if sub.Reconcile != nil && sub.Reconcile.Created {
		status = http.StatusCreated
	}
	ok(c, status, SubmitResponse{
		ProfileID:         sub.ProfileID,
		PlanID:            sub.PlanID,
		ArtifactReference: sub.ArtifactReference,
		Regenerated:       sub.Regenerated,
		Reconcile:         sub.Reconcile,
		Plan:              sub.Plan,
	})
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Get a profile
// @Tags        Profiles
// @Produce     json
//
// @Param       id  path  int  true  "Profile ID"  minimum(1)
//
// @Success     200  {object}  domain.Profile
// @Failure     400  {object}  handlers.ErrorResponse  "Bad id"
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /profiles/{id} [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	id, valid := profileID(c)
	if !valid {
		return
	}
	p, err := h.profiles.Profile(c.Request.Context(), id)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, p)
}

// LookupProfile godoc
// @ID          lookupProfile
// @Summary     Find a profile by name and birth date
// @Tags        Profiles
// @Produce     json
//
// @Param       name        query  string  true  "Full name"            example(Alex Doe)
// @Param       birth_date  query  string  true  "Birth date YYYY-MM-DD"  example(1990-01-01)
//
// @Success     200  {object}  domain.Profile
// @Failure     400  {object}  handlers.ErrorResponse  "Missing parameters"
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /profiles/lookup [get]
func (h *Handlers) LookupProfile(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	birth := strings.TrimSpace(c.Query("birth_date"))
	if name == "" || birth == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and birth_date are required")
		return
	}
	p, err := h.profiles.Lookup(c.Request.Context(), name, birth)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, p)
}
