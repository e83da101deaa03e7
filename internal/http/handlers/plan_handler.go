// Plan HTTP handlers.
//
// This file exposes REST endpoints for generated plans:
//   - GET /profiles/{id}/plans   (paginated, newest first, weak ETag)
//   - GET /plans/{id}            (plan with ordered sessions)
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/utils"
)

// ListPlansResponse wraps a page of plans and pagination information.
type ListPlansResponse struct {
	Plans      []domain.Plan `json:"plans"`
	Pagination Pagination    `json:"pagination"`
}

// PlanResponse is a plan with its sessions ordered by week and weekday.
type PlanResponse struct {
	Plan     *domain.Plan         `json:"plan"`
	Sessions []domain.PlanSession `json:"sessions"`
}

// ListPlans godoc
// @ID          listPlans
// @Summary     List a profile's plans (paginated)
// @Description Returns a page of plans, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Plans
// @Produce     json
//
// @Param       id             path    int     true  "Profile ID"                  minimum(1)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"plans:1:3:1767225600\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListPlansResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Profile not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /profiles/{id}/plans [get]
func (h *Handlers) ListPlans(c *gin.Context) {
	ctx := c.Request.Context()
	id, valid := profileID(c)
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort). Plans are immutable apart from their
	// artifact reference, so count plus newest timestamp identifies a listing.
	if count, maxTS, err := h.plans.Stats(ctx, id); err == nil && count > 0 {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"plans:%d:%d:%d:%d:%d"`, id, count, ts, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.plans.ListPage(ctx, id, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}

	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListPlansResponse{
		Plans: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetPlan godoc
// @ID          getPlan
// @Summary     Get a plan
// @Tags        Plans
// @Produce     json
//
// @Param       id  path  string  true  "Plan ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.PlanResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad id"
// @Failure     404  {object}  handlers.ErrorResponse  "Plan not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /plans/{id} [get]
func (h *Handlers) GetPlan(c *gin.Context) {
	planID := c.Param("id")
	if _, err := uuid.Parse(planID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "plan id must be a UUID")
		return
	}
	p, sessions, err := h.plans.Get(c.Request.Context(), planID)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, PlanResponse{Plan: p, Sessions: sessions})
}
