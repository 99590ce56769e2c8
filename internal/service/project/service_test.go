package project

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
)

type fakeStore struct {
	projects map[primitive.ObjectID]*models.Project
	workers  map[primitive.ObjectID]models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: map[primitive.ObjectID]*models.Project{},
		workers:  map[primitive.ObjectID]models.User{},
	}
}

func (f *fakeStore) addWorker() primitive.ObjectID {
	id := primitive.NewObjectID()
	f.workers[id] = models.User{ID: id, Role: models.RoleWorker, Status: models.StatusActive}
	return id
}

func (f *fakeStore) CreateProject(ctx context.Context, p *models.Project) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.projects[p.ID] = p
	return nil
}

func (f *fakeStore) FindProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, apperr.NotFound("project not found")
	}
	return p, nil
}

func (f *fakeStore) UpdateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if _, ok := f.projects[p.ID]; !ok {
		return nil, apperr.NotFound("project not found")
	}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeStore) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.projects[id]; !ok {
		return apperr.NotFound("project not found")
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeStore) ListWorkersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	out := []models.User{}
	for _, id := range ids {
		if w, ok := f.workers[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeScoper struct{}

func (fakeScoper) VisibleProjects(ctx context.Context, actor models.Principal) ([]models.Project, error) {
	return nil, nil
}

func validInput(workers ...primitive.ObjectID) Input {
	return Input{
		Name:      "Riverside Tower",
		Client:    "Acme Estates",
		Location:  "Pune",
		Budget:    250000,
		StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		Workers:   workers,
	}
}

func TestCreateDefaultsToActive(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeScoper{}, nil)

	project, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, models.ProjectActive, project.Status)
	assert.False(t, project.ID.IsZero())
}

func TestCreateValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeScoper{}, nil)

	in := validInput()
	in.Budget = 0
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = validInput()
	in.Name = ""
	_, err = svc.Create(context.Background(), in)
	assert.Error(t, err)

	in = validInput()
	in.Status = "paused"
	_, err = svc.Create(context.Background(), in)
	assert.Error(t, err, "unknown status is rejected")
}

func TestCreateRejectsNonWorkerRoster(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeScoper{}, nil)

	worker := store.addWorker()
	stranger := primitive.NewObjectID()

	_, err := svc.Create(context.Background(), validInput(worker, stranger))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(context.Background(), validInput(worker))
	assert.NoError(t, err)
}

func TestGetScopesWorkers(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeScoper{}, nil)

	member := store.addWorker()
	outsider := store.addWorker()

	project, err := svc.Create(context.Background(), validInput(member))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), models.Principal{ID: member, Role: models.RoleWorker}, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	// A non-member worker gets not-found, not forbidden.
	_, err = svc.Get(context.Background(), models.Principal{ID: outsider, Role: models.RoleWorker}, project.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Get(context.Background(), models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, project.ID)
	assert.NoError(t, err)
}

func TestUpdateAndDelete(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeScoper{}, nil)

	project, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Status = models.ProjectCompleted
	updated, err := svc.Update(context.Background(), project.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, updated.Status)

	require.NoError(t, svc.Delete(context.Background(), project.ID))
	err = svc.Delete(context.Background(), project.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
