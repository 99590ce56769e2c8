package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/service/reporting"
)

// defaultLeaveLimit caps the worker leave ranking unless the caller asks for
// a different window.
const defaultLeaveLimit = 5

// AnalyticsHandler serves the dashboard and reporting endpoints.
type AnalyticsHandler struct {
	reporting *reporting.Service
	logger    *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(svc *reporting.Service, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{reporting: svc, logger: logger}
}

// Dashboard returns the landing page figures.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.reporting.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CostBreakdown returns expense totals grouped by category.
func (h *AnalyticsHandler) CostBreakdown(c *gin.Context) {
	breakdown, err := h.reporting.CostBreakdown(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// ProfitLoss returns the monthly, lifetime and per-project money views.
func (h *AnalyticsHandler) ProfitLoss(c *gin.Context) {
	report, err := h.reporting.ProfitLoss(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// WorkerLeaves ranks workers by leave count for the labor page.
func (h *AnalyticsHandler) WorkerLeaves(c *gin.Context) {
	limit := defaultLeaveLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	report, err := h.reporting.WorkerLeaveReport(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// WorkerWages returns one worker's estimated wages over their history.
func (h *AnalyticsHandler) WorkerWages(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.reporting.WorkerWagesByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
