package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/service/user"
	"github.com/sideledger/sideledger/pkg/qr"
)

// WorkerHandler serves the worker roster endpoints.
type WorkerHandler struct {
	users  *user.Service
	logger *zap.Logger
}

// NewWorkerHandler constructs the HTTP handler adapter.
func NewWorkerHandler(users *user.Service, logger *zap.Logger) *WorkerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerHandler{users: users, logger: logger}
}

// List returns the workers visible to the caller.
func (h *WorkerHandler) List(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	workers, err := h.users.ListWorkers(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

// Get returns one worker profile. Admin only.
func (h *WorkerHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	worker, err := h.users.GetWorker(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

// Update applies admin edits to a worker's employment profile.
func (h *WorkerHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var fields models.WorkerUpdate
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	worker, err := h.users.UpdateWorker(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

// Delete soft-deletes a worker.
func (h *WorkerHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.DeactivateWorker(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "worker deactivated"})
}

// Badge renders a site badge QR code for the worker.
func (h *WorkerHandler) Badge(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	worker, err := h.users.GetWorker(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	payload := fmt.Sprintf("sideledger:worker:%s:%s", worker.ID.Hex(), worker.Name)
	image, err := qr.BadgePNG(payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, "image/png", image)
}
