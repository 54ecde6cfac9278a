package handler

import (
	"context"
	"net/http"
	"strconv"

	"address-heatmap/internal/models"

	"github.com/gin-gonic/gin"
)

// HeatmapHandler handles heatmap requests
type HeatmapHandler struct {
	service HeatmapService
}

// Service interface for dependency injection
type HeatmapService interface {
	Heatmap(context.Context, int) (*models.HeatmapResponse, error)
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(svc HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{service: svc}
}

// Heatmap handles GET /api/heatmap requests
func (h *HeatmapHandler) Heatmap(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	heatmap, err := h.service.Heatmap(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, heatmap)
}

// yearParam parses the optional 'year' query parameter. Absent means all
// years (0). Writes a 400 response and returns false on a bad value.
func yearParam(c *gin.Context) (int, bool) {
	yearStr := c.Query("year")
	if yearStr == "" {
		return 0, true
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year format"})
		return 0, false
	}
	return year, true
}
