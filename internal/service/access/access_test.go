package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sideledger/sideledger/internal/domain/models"
)

type fakeStore struct {
	workers  []models.User
	projects []models.Project
}

func (f *fakeStore) ListActiveWorkers(ctx context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, w := range f.workers {
		if w.Role == models.RoleWorker && w.Status == models.StatusActive {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveWorkersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	wanted := map[primitive.ObjectID]struct{}{}
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := []models.User{}
	for _, w := range f.workers {
		if _, ok := wanted[w.ID]; !ok {
			continue
		}
		if w.Role == models.RoleWorker && w.Status == models.StatusActive {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	return f.projects, nil
}

func (f *fakeStore) ListProjectsByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range f.projects {
		if p.HasWorker(workerID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func worker(name string) models.User {
	return models.User{
		ID:     primitive.NewObjectID(),
		Name:   name,
		Role:   models.RoleWorker,
		Status: models.StatusActive,
	}
}

func names(users []models.User) []string {
	out := []string{}
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}

func TestVisibleWorkersAdminSeesAllActive(t *testing.T) {
	inactive := worker("Gone")
	inactive.Status = models.StatusInactive
	store := &fakeStore{workers: []models.User{worker("Amit"), worker("Ravi"), inactive}}
	svc := NewService(store, store, nil)

	out, err := svc.VisibleWorkers(context.Background(), models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Amit", "Ravi"}, names(out))
}

func TestVisibleWorkersWorkerSeesTeammates(t *testing.T) {
	amit, ravi, sana, dev := worker("Amit"), worker("Ravi"), worker("Sana"), worker("Dev")
	store := &fakeStore{
		workers: []models.User{amit, ravi, sana, dev},
		projects: []models.Project{
			{ID: primitive.NewObjectID(), Workers: []primitive.ObjectID{amit.ID, ravi.ID}},
			{ID: primitive.NewObjectID(), Workers: []primitive.ObjectID{amit.ID, sana.ID}},
			{ID: primitive.NewObjectID(), Workers: []primitive.ObjectID{dev.ID}},
		},
	}
	svc := NewService(store, store, nil)

	out, err := svc.VisibleWorkers(context.Background(), models.Principal{ID: amit.ID, Role: models.RoleWorker})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Amit", "Ravi", "Sana"}, names(out))
}

func TestVisibleWorkersWorkerWithNoProjectsSeesNobody(t *testing.T) {
	amit := worker("Amit")
	store := &fakeStore{workers: []models.User{amit, worker("Ravi")}}
	svc := NewService(store, store, nil)

	out, err := svc.VisibleWorkers(context.Background(), models.Principal{ID: amit.ID, Role: models.RoleWorker})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestVisibleWorkersMonotonicity(t *testing.T) {
	amit, ravi := worker("Amit"), worker("Ravi")
	store := &fakeStore{
		workers: []models.User{amit, ravi},
		projects: []models.Project{
			{ID: primitive.NewObjectID(), Workers: []primitive.ObjectID{amit.ID, ravi.ID}},
		},
	}
	svc := NewService(store, store, nil)

	adminView, err := svc.VisibleWorkers(context.Background(), models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	require.NoError(t, err)
	workerView, err := svc.VisibleWorkers(context.Background(), models.Principal{ID: amit.ID, Role: models.RoleWorker})
	require.NoError(t, err)

	assert.Subset(t, names(adminView), names(workerView))
}

func TestVisibleProjects(t *testing.T) {
	amit := worker("Amit")
	mine := models.Project{ID: primitive.NewObjectID(), Name: "Mine", Workers: []primitive.ObjectID{amit.ID}}
	other := models.Project{ID: primitive.NewObjectID(), Name: "Other"}
	store := &fakeStore{projects: []models.Project{mine, other}}
	svc := NewService(store, store, nil)

	adminView, err := svc.VisibleProjects(context.Background(), models.Principal{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, adminView, 2)

	workerView, err := svc.VisibleProjects(context.Background(), models.Principal{ID: amit.ID, Role: models.RoleWorker})
	require.NoError(t, err)
	require.Len(t, workerView, 1)
	assert.Equal(t, "Mine", workerView[0].Name)
}

func TestAttendanceFilterPinsWorkerQueries(t *testing.T) {
	svc := NewService(nil, nil, nil)
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()

	q := svc.AttendanceFilter(models.Principal{ID: self, Role: models.RoleWorker}, models.AttendanceQuery{Worker: other})
	assert.Equal(t, self, q.Worker)

	q = svc.AttendanceFilter(models.Principal{Role: models.RoleAdmin}, models.AttendanceQuery{Worker: other})
	assert.Equal(t, other, q.Worker)
}

func TestAttendanceFilterNormalizesDate(t *testing.T) {
	svc := NewService(nil, nil, nil)
	afternoon := time.Date(2026, time.March, 3, 14, 30, 0, 0, time.UTC)

	q := svc.AttendanceFilter(models.Principal{Role: models.RoleAdmin}, models.AttendanceQuery{Date: afternoon})
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), q.Date)
}
