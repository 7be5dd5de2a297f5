package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
)

type PredictionHandler struct {
	svc *services.PredictionService
}

func NewPredictionHandler(svc *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

func (h *PredictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/predict/nextday", h.NextDay)
}

func (h *PredictionHandler) NextDay(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	preds, err := h.svc.NextDay(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preds)
}
