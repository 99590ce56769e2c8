package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/service/access"
)

// fakeStore mirrors the repository's set / set-on-insert upsert semantics in
// memory, keyed on (worker, date).
type fakeStore struct {
	records map[string]*models.AttendanceRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*models.AttendanceRecord{}}
}

func key(worker primitive.ObjectID, date time.Time) string {
	return worker.Hex() + "|" + date.Format("2006-01-02")
}

func (f *fakeStore) UpsertAttendance(ctx context.Context, up models.AttendanceUpsert) (*models.AttendanceRecord, error) {
	k := key(up.Worker, up.Date)
	rec, ok := f.records[k]
	if !ok {
		rec = &models.AttendanceRecord{
			ID:     primitive.NewObjectID(),
			Worker: up.Worker,
			Date:   up.Date,
			Status: up.DefaultStatus,
			TimeIn: up.TimeIn,
			Notes:  up.Notes,
		}
		f.records[k] = rec
	}
	if up.Status != "" {
		rec.Status = up.Status
	}
	if up.TimeOut != nil {
		rec.TimeOut = up.TimeOut
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeStore) ListAttendance(ctx context.Context, q models.AttendanceQuery) ([]models.AttendanceRecord, error) {
	out := []models.AttendanceRecord{}
	for _, rec := range f.records {
		if !q.Worker.IsZero() && rec.Worker != q.Worker {
			continue
		}
		if !q.Date.IsZero() && !rec.Date.Equal(q.Date) {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, access.NewService(nil, nil, nil), nil)
}

func adminActor() models.Principal {
	return models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
}

func workerActor() models.Principal {
	return models.Principal{ID: primitive.NewObjectID(), Role: models.RoleWorker}
}

func TestMarkWorkerAlwaysPending(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	actor := workerActor()

	for _, requested := range []models.AttendanceStatus{
		models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLeave, "",
	} {
		rec, err := svc.Mark(context.Background(), actor, MarkInput{
			Date:   time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
			Status: requested,
		})
		require.NoError(t, err)
		assert.Equal(t, models.AttendancePending, rec.Status)
		assert.Equal(t, actor.ID, rec.Worker)
	}
}

func TestMarkWorkerCannotMarkOthers(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	actor := workerActor()
	victim := primitive.NewObjectID()

	rec, err := svc.Mark(context.Background(), actor, MarkInput{
		WorkerID: victim,
		Date:     time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, actor.ID, rec.Worker)
	assert.Len(t, store.records, 1)
}

func TestMarkAdminVerifiesPending(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	worker := workerActor()
	date := time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)

	rec, err := svc.Mark(context.Background(), worker, MarkInput{Date: date})
	require.NoError(t, err)
	require.Equal(t, models.AttendancePending, rec.Status)

	rec, err = svc.Mark(context.Background(), adminActor(), MarkInput{
		WorkerID: worker.ID,
		Date:     date,
		Status:   models.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, rec.Status)
	assert.Len(t, store.records, 1)
}

func TestMarkSameDayConvergesToOneRecord(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	admin := adminActor()
	worker := primitive.NewObjectID()

	morning := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	afternoon := time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC)

	first, err := svc.Mark(context.Background(), admin, MarkInput{WorkerID: worker, Date: morning, Status: models.AttendancePresent})
	require.NoError(t, err)
	second, err := svc.Mark(context.Background(), admin, MarkInput{WorkerID: worker, Date: afternoon, Status: models.AttendancePresent})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.records, 1)
	assert.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), second.Date)
}

func TestMarkAdminWithoutStatusDefaultsPresentOnInsertOnly(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	admin := adminActor()
	worker := primitive.NewObjectID()
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	rec, err := svc.Mark(context.Background(), admin, MarkInput{WorkerID: worker, Date: date})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, rec.Status)

	// Re-marking with no status must not clobber a verified value.
	_, err = svc.Mark(context.Background(), admin, MarkInput{WorkerID: worker, Date: date, Status: models.AttendanceLeave})
	require.NoError(t, err)
	rec, err = svc.Mark(context.Background(), admin, MarkInput{WorkerID: worker, Date: date})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLeave, rec.Status)
}

func TestMarkValidation(t *testing.T) {
	svc := newTestService(newFakeStore())
	admin := adminActor()

	_, err := svc.Mark(context.Background(), admin, MarkInput{Date: time.Now()})
	assert.Error(t, err, "admin must supply a worker id")

	_, err = svc.Mark(context.Background(), admin, MarkInput{WorkerID: primitive.NewObjectID()})
	assert.Error(t, err, "date is required")

	_, err = svc.Mark(context.Background(), admin, MarkInput{
		WorkerID: primitive.NewObjectID(),
		Date:     time.Now(),
		Status:   "vacationing",
	})
	assert.Error(t, err, "unknown status is rejected")
}

func TestMarkUpdatesTimeOut(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	actor := workerActor()
	date := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	timeIn := date
	_, err := svc.Mark(context.Background(), actor, MarkInput{Date: date, TimeIn: &timeIn})
	require.NoError(t, err)

	timeOut := date.Add(8 * time.Hour)
	rec, err := svc.Mark(context.Background(), actor, MarkInput{Date: date, TimeOut: &timeOut})
	require.NoError(t, err)
	require.NotNil(t, rec.TimeOut)
	assert.Equal(t, timeOut, *rec.TimeOut)
	require.NotNil(t, rec.TimeIn)
	assert.Equal(t, timeIn, *rec.TimeIn)
}

func TestListWorkerPinnedToSelf(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	admin := adminActor()
	self := workerActor()
	other := primitive.NewObjectID()
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.Mark(context.Background(), admin, MarkInput{WorkerID: self.ID, Date: date, Status: models.AttendancePresent})
	require.NoError(t, err)
	_, err = svc.Mark(context.Background(), admin, MarkInput{WorkerID: other, Date: date, Status: models.AttendanceAbsent})
	require.NoError(t, err)

	// The worker asks for somebody else's records; the filter pins to self.
	records, err := svc.List(context.Background(), self, models.AttendanceQuery{Worker: other})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, self.ID, records[0].Worker)

	records, err = svc.List(context.Background(), admin, models.AttendanceQuery{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
