package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"address-heatmap/internal/excel"
	"address-heatmap/internal/models"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SummaryHandler handles pincode summary requests
type SummaryHandler struct {
	service SummaryService
}

// Service interface for dependency injection
type SummaryService interface {
	Summary(ctx context.Context, year, limit int) ([]models.PincodeSummary, error)
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(svc SummaryService) *SummaryHandler {
	return &SummaryHandler{service: svc}
}

// Summary handles GET /api/summary requests
func (h *SummaryHandler) Summary(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
			return
		}
	}

	summary, err := h.service.Summary(c.Request.Context(), year, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if summary == nil {
		summary = []models.PincodeSummary{}
	}

	c.JSON(http.StatusOK, summary)
}

// Export handles GET /api/summary/export requests, serving the summary as
// an xlsx attachment.
func (h *SummaryHandler) Export(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), year, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteSummary(&buf, summary); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="pincode_summary.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
