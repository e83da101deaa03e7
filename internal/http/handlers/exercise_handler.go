package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-training-planner/internal/search"
	"github.com/tbourn/go-training-planner/internal/utils"
)

// SearchExercisesResponse lists catalog matches, best first.
type SearchExercisesResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

// SearchExercises godoc
// @ID          searchExercises
// @Summary     Search the exercise catalog
// @Description Ranks catalog exercises by token overlap with q across name, category, equipment, muscle group and goal tag.
// @Tags        Exercises
// @Produce     json
//
// @Param       q  query  string  true   "Free-text query"  example(barbell legs)
// @Param       k  query  int     false  "Max results"      minimum(1) maximum(20) default(5)
//
// @Success     200  {object}  handlers.SearchExercisesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing query"
// @Router      /exercises [get]
func (h *Handlers) SearchExercises(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		return
	}
	k := utils.Clamp(utils.AtoiDefault(c.Query("k"), 5), 1, 20)

	res := h.catalog.TopK(q, k)
	if res == nil {
		res = []search.Result{}
	}
	ok(c, http.StatusOK, SearchExercisesResponse{Query: q, Results: res})
}
