// Feedback HTTP handlers.
//
// This file exposes the REST endpoint for reporting on a plan:
//   - POST /plans/{id}/feedback
//
// The report is stored, turned into adjustments, and the profile is
// resubmitted under force_replace, which yields a new plan.
//
// Idempotency:
// When the client supplies an Idempotency-Key and a report with the same key
// was already recorded against the plan, the first outcome is replayed with
// `Idempotency-Replayed: true` and no new row is appended.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-training-planner/internal/http/middleware"
	"github.com/tbourn/go-training-planner/internal/services"
)

// FeedbackRequest is the JSON payload for a feedback report. The plan is
// taken from the path.
type FeedbackRequest struct {
	ProfileID       int64              `json:"profile_id" example:"1"`
	Satisfaction    int                `json:"satisfaction" example:"4"`
	Comments        string             `json:"comments" example:"squats too heavy, replace bench press. Resume on 2030-02-01"`
	ProgressWeights map[string]float64 `json:"progress_weights,omitempty"`
	WeightUnit      string             `json:"weight_unit,omitempty" example:"kg"`
	TrainedUntil    string             `json:"trained_until" example:"2030-01-24"`
}

// LeaveFeedback godoc
// @ID          leaveFeedback
// @Summary     Report on a plan
// @Description Appends feedback to the plan's history and regenerates the plan from it.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Feedback
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Plan ID (UUID)"  format(uuid)
// @Param       body             body    handlers.FeedbackRequest  true  "Feedback payload"
//
// @Success     201  {object} services.FeedbackOutcome "Feedback recorded, plan regenerated"
// @Success     200  {object} services.FeedbackOutcome "Replayed outcome"
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     404  {object} handlers.ErrorResponse "Profile or plan not found"
// @Failure     503  {object} handlers.ErrorResponse "Store busy"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /plans/{id}/feedback [post]
func (h *Handlers) LeaveFeedback(c *gin.Context) {
	planID := c.Param("id")
	if _, err := uuid.Parse(planID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "plan id must be a UUID")
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	out, err := h.feedback.Record(c.Request.Context(), services.FeedbackInput{
		ProfileID:       req.ProfileID,
		PlanID:          planID,
		Satisfaction:    req.Satisfaction,
		Comments:        req.Comments,
		ProgressWeights: req.ProgressWeights,
		WeightUnit:      req.WeightUnit,
		TrainedUntil:    req.TrainedUntil,
		IdempotencyKey:  key,
	})
	if err != nil {
		failErr(c, err, ErrCodeSubmitFailed)
		return
	}

	if out.Replayed {
		c.Header("Idempotency-Replayed", "true")
		ok(c, http.StatusOK, out)
		return
	}
	ok(c, http.StatusCreated, out)
}
