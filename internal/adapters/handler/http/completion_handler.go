package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
)

type CompletionHandler struct {
	svc *services.CompletionService
}

func NewCompletionHandler(svc *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{svc: svc}
}

type toggleRequest struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/month/:year/:month", h.Month)
	router.POST("/completions/toggle", h.Toggle)
}

func (h *CompletionHandler) Month(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	year, month, err := monthParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.svc.Month(c.Request.Context(), userID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *CompletionHandler) Toggle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.svc.Toggle(c.Request.Context(), services.ToggleInput{
		UserID:  userID,
		HabitID: req.HabitID,
		Date:    req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}
