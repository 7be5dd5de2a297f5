package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/:year/:month", h.GetMonthStats)
}

// GetMonthStats also evaluates the notification rules as a side effect.
func (h *StatsHandler) GetMonthStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	year, month, err := monthParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.svc.Month(c.Request.Context(), userID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
