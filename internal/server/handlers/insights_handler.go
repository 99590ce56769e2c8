package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/service/insights"
)

// InsightsHandler serves the AI insight endpoint.
type InsightsHandler struct {
	insights *insights.Service
	logger   *zap.Logger
}

// NewInsightsHandler constructs the HTTP handler adapter.
func NewInsightsHandler(svc *insights.Service, logger *zap.Logger) *InsightsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsHandler{insights: svc, logger: logger}
}

// Insights returns the role-specific analytics bundle with its narrative.
func (h *InsightsHandler) Insights(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.insights.Generate(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
