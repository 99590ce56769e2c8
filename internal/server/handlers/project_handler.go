package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/service/project"
)

// ProjectHandler serves the project CRUD endpoints.
type ProjectHandler struct {
	projects *project.Service
	logger   *zap.Logger
}

// NewProjectHandler constructs the HTTP handler adapter.
func NewProjectHandler(projects *project.Service, logger *zap.Logger) *ProjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectHandler{projects: projects, logger: logger}
}

// Create inserts a project. Admin only.
func (h *ProjectHandler) Create(c *gin.Context) {
	var in project.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.projects.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns the projects visible to the caller.
func (h *ProjectHandler) List(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	projects, err := h.projects.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Get returns one project within the caller's scope.
func (h *ProjectHandler) Get(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.projects.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// Update replaces a project. Admin only.
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var in project.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.projects.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a project. Admin only.
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
