// Package access is the one place visibility scoping lives. Every listing
// path goes through it so the admin/worker policy cannot drift per endpoint.
package access

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/models"
)

// WorkerStore is the principal lookup surface the scoper needs.
type WorkerStore interface {
	ListActiveWorkers(ctx context.Context) ([]models.User, error)
	ListActiveWorkersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// ProjectStore is the roster lookup surface the scoper needs.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListProjectsByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Project, error)
}

// Service computes the visible subset of each collection for a principal.
type Service struct {
	workers  WorkerStore
	projects ProjectStore
	logger   *zap.Logger
}

// NewService wires a scoping service instance.
func NewService(workers WorkerStore, projects ProjectStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{workers: workers, projects: projects, logger: logger}
}

// VisibleWorkers returns the worker principals the actor may see: admins see
// every active worker; a worker sees the union of rosters of their own
// projects. A worker on no project sees nobody, themselves included.
func (s *Service) VisibleWorkers(ctx context.Context, actor models.Principal) ([]models.User, error) {
	if actor.IsAdmin() {
		return s.workers.ListActiveWorkers(ctx)
	}

	projects, err := s.projects.ListProjectsByWorker(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	seen := map[primitive.ObjectID]struct{}{}
	ids := []primitive.ObjectID{}
	for _, project := range projects {
		for _, workerID := range project.Workers {
			if _, ok := seen[workerID]; ok {
				continue
			}
			seen[workerID] = struct{}{}
			ids = append(ids, workerID)
		}
	}

	return s.workers.ListActiveWorkersByIDs(ctx, ids)
}

// VisibleProjects returns all projects for admins and only the actor's own
// projects for workers.
func (s *Service) VisibleProjects(ctx context.Context, actor models.Principal) ([]models.Project, error) {
	if actor.IsAdmin() {
		return s.projects.ListProjects(ctx)
	}
	return s.projects.ListProjectsByWorker(ctx, actor.ID)
}

// AttendanceFilter rewrites an attendance query for the actor: a worker's
// query is always pinned to their own records, whatever worker id the query
// carried; admins keep their filters.
func (s *Service) AttendanceFilter(actor models.Principal, q models.AttendanceQuery) models.AttendanceQuery {
	if !actor.IsAdmin() {
		q.Worker = actor.ID
	}
	if !q.Date.IsZero() {
		q.Date = models.DayOf(q.Date)
	}
	return q
}
