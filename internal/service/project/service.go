// Package project manages construction projects and their worker rosters.
package project

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
)

// Store is the project persistence surface.
type Store interface {
	CreateProject(ctx context.Context, project *models.Project) error
	FindProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id primitive.ObjectID) error
	ListWorkersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// Scoper lists the projects visible to a principal.
type Scoper interface {
	VisibleProjects(ctx context.Context, actor models.Principal) ([]models.Project, error)
}

// Input carries the writable project fields.
type Input struct {
	Name        string               `json:"name"`
	Client      string               `json:"client"`
	Location    string               `json:"location"`
	Budget      float64              `json:"budget"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     *time.Time           `json:"endDate"`
	Status      models.ProjectStatus `json:"status"`
	Description string               `json:"description"`
	Workers     []primitive.ObjectID `json:"workers"`
}

// Service applies the project rules on top of the store.
type Service struct {
	store  Store
	scoper Scoper
	logger *zap.Logger
}

// NewService wires a project service instance.
func NewService(store Store, scoper Scoper, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, scoper: scoper, logger: logger}
}

func validStatus(s models.ProjectStatus) bool {
	switch s {
	case models.ProjectActive, models.ProjectCompleted, models.ProjectOnHold:
		return true
	}
	return false
}

func (s *Service) validate(ctx context.Context, in Input) error {
	switch {
	case in.Name == "":
		return apperr.Validation("project name is required")
	case in.Client == "":
		return apperr.Validation("client is required")
	case in.Location == "":
		return apperr.Validation("location is required")
	case in.Budget <= 0:
		return apperr.Validation("budget must be positive")
	case in.StartDate.IsZero():
		return apperr.Validation("start date is required")
	case in.Status != "" && !validStatus(in.Status):
		return apperr.Validation("unknown project status %q", in.Status)
	}
	return s.validateRoster(ctx, in.Workers)
}

// validateRoster rejects ids that do not resolve to worker principals. Admins
// cannot be put on a roster, nor can dangling ids.
func (s *Service) validateRoster(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	workers, err := s.store.ListWorkersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := map[primitive.ObjectID]struct{}{}
	for _, w := range workers {
		found[w.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return apperr.Validation("roster id %s is not a worker", id.Hex())
		}
	}
	return nil
}

// Create inserts a new project. Status defaults to active.
func (s *Service) Create(ctx context.Context, in Input) (*models.Project, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        in.Name,
		Client:      in.Client,
		Location:    in.Location,
		Budget:      in.Budget,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		Description: in.Description,
		Workers:     in.Workers,
	}
	if project.Status == "" {
		project.Status = models.ProjectActive
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created", zap.String("project", project.ID.Hex()), zap.String("name", project.Name))
	return project, nil
}

// Get returns one project. Admins may fetch any project; a worker only sees a
// project whose roster includes them, and a project outside their scope looks
// like it does not exist.
func (s *Service) Get(ctx context.Context, actor models.Principal, id primitive.ObjectID) (*models.Project, error) {
	project, err := s.store.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !project.HasWorker(actor.ID) {
		return nil, apperr.NotFound("project not found")
	}
	return project, nil
}

// List returns the projects visible to the actor.
func (s *Service) List(ctx context.Context, actor models.Principal) ([]models.Project, error) {
	return s.scoper.VisibleProjects(ctx, actor)
}

// Update replaces the mutable fields of a project. Admin only.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*models.Project, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:          id,
		Name:        in.Name,
		Client:      in.Client,
		Location:    in.Location,
		Budget:      in.Budget,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		Description: in.Description,
		Workers:     in.Workers,
	}
	if project.Status == "" {
		project.Status = models.ProjectActive
	}
	if project.Workers == nil {
		project.Workers = []primitive.ObjectID{}
	}
	return s.store.UpdateProject(ctx, project)
}

// Delete removes a project. Admin only.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", zap.String("project", id.Hex()))
	return nil
}
