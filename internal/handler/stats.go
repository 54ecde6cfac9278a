package handler

import (
	"context"
	"net/http"

	"address-heatmap/internal/models"

	"github.com/gin-gonic/gin"
)

// StatsHandler handles dataset statistics requests
type StatsHandler struct {
	service StatsService
}

// Service interface for dependency injection
type StatsService interface {
	Stats(ctx context.Context, year int) (*models.DatasetStats, error)
	Years(ctx context.Context) ([]int, error)
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Stats handles GET /api/stats requests
func (h *StatsHandler) Stats(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Years handles GET /api/years requests
func (h *StatsHandler) Years(c *gin.Context) {
	years, err := h.service.Years(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if years == nil {
		years = []int{}
	}

	c.JSON(http.StatusOK, years)
}
