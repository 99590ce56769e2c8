package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/repository/mongodb"
)

type fakeStore struct {
	projects  []models.Project
	active    []models.User
	workers   []models.User
	admins    []models.User
	expenses  []models.Expense
	invoices  []models.Invoice
	records   []models.AttendanceRecord
	snapshots []models.DashboardSnapshot
}

func (f *fakeStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range append(append([]models.User{}, f.workers...), f.admins...) {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	return f.projects, nil
}

func (f *fakeStore) ListActiveWorkers(ctx context.Context) ([]models.User, error) {
	return f.active, nil
}

func (f *fakeStore) ListWorkers(ctx context.Context) ([]models.User, error) {
	return f.workers, nil
}

func (f *fakeStore) ListExpenses(ctx context.Context, _ mongodb.ExpenseFilter) ([]models.Expense, error) {
	return f.expenses, nil
}

func (f *fakeStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return f.invoices, nil
}

func (f *fakeStore) ListAttendance(ctx context.Context, q models.AttendanceQuery) ([]models.AttendanceRecord, error) {
	out := []models.AttendanceRecord{}
	for _, rec := range f.records {
		if !q.Worker.IsZero() && rec.Worker != q.Worker {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) SaveDashboardSnapshot(ctx context.Context, s models.DashboardSnapshot) error {
	f.snapshots = append(f.snapshots, s)
	return nil
}

type fakeExporter struct {
	appended []models.DashboardSnapshot
	err      error
}

func (f *fakeExporter) AppendSnapshot(ctx context.Context, s models.DashboardSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, s)
	return nil
}

func mar(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func seed() *fakeStore {
	p1 := primitive.NewObjectID()
	store := &fakeStore{
		projects: []models.Project{
			{ID: p1, Name: "Tower A"},
			{ID: primitive.NewObjectID(), Name: "Mall B"},
			{ID: primitive.NewObjectID(), Name: "Villa C"},
			{ID: primitive.NewObjectID(), Name: "Depot D"},
		},
		active:  []models.User{{ID: primitive.NewObjectID(), Role: models.RoleWorker}},
		workers: []models.User{{ID: primitive.NewObjectID(), Name: "Amit", Role: models.RoleWorker}},
		expenses: []models.Expense{
			{TotalAmount: 4000, Category: models.CategoryMaterials, InvoiceDate: mar(5), Project: &p1},
			{TotalAmount: 1000, Category: models.CategoryLabor, InvoiceDate: mar(6)},
			// Last month; excluded from the monthly window.
			{TotalAmount: 700, Category: models.CategoryMaterials, InvoiceDate: time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)},
		},
		invoices: []models.Invoice{
			{TotalAmount: 10000, Status: models.InvoicePaid, Date: mar(7), Project: &p1},
		},
	}
	return store
}

func newTestService(store *fakeStore, exporter *fakeExporter) *Service {
	var svc *Service
	if exporter != nil {
		svc = NewService(store, exporter, nil)
	} else {
		svc = NewService(store, nil, nil)
	}
	svc.now = func() time.Time { return mar(20) }
	return svc
}

func TestDashboard(t *testing.T) {
	store := seed()
	svc := newTestService(store, nil)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalProjects)
	assert.Equal(t, 1, stats.ActiveWorkers)
	assert.Equal(t, 5000.0, stats.MonthlyExpenses)
	assert.Equal(t, 10000.0, stats.MonthlyRevenue)
	assert.Equal(t, 5000.0, stats.MonthlyProfit)
	assert.Len(t, stats.RecentProjects, 3, "recent list is capped")
}

func TestProfitLoss(t *testing.T) {
	store := seed()
	svc := newTestService(store, nil)

	report, err := svc.ProfitLoss(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5000.0, report.Monthly.Profit)
	assert.Equal(t, 10000.0, report.Lifetime.Revenue)
	assert.Equal(t, 5700.0, report.Lifetime.Expense)
	require.Len(t, report.Projects, 4)
	assert.Equal(t, "Tower A", report.Projects[0].Project.Name, "ordered by revenue")
	assert.Equal(t, 60.0, report.Projects[0].Margin)
}

func TestCostBreakdown(t *testing.T) {
	store := seed()
	svc := newTestService(store, nil)

	breakdown, err := svc.CostBreakdown(context.Background())
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, models.CategoryMaterials, breakdown[0].Category)
	assert.Equal(t, 4700.0, breakdown[0].Total)
	assert.Equal(t, 1000.0, breakdown[1].Total)
}

func TestSnapshotPersistsAndExports(t *testing.T) {
	store := seed()
	exporter := &fakeExporter{}
	svc := newTestService(store, exporter)

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mar(20), snapshot.Date, "snapshot date is day-truncated")
	assert.Equal(t, 5000.0, snapshot.MonthlyProfit)
	require.Len(t, store.snapshots, 1)
	require.Len(t, exporter.appended, 1)
	assert.Equal(t, snapshot.TotalProjects, exporter.appended[0].TotalProjects)
}

func TestSnapshotSurvivesExportFailure(t *testing.T) {
	store := seed()
	exporter := &fakeExporter{err: errors.New("sheet unavailable")}
	svc := newTestService(store, exporter)

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err, "export failure does not fail the snapshot")
	assert.Len(t, store.snapshots, 1)
}

func TestWorkerWages(t *testing.T) {
	store := seed()
	worker := models.User{ID: primitive.NewObjectID(), DailyRate: 500}
	store.records = []models.AttendanceRecord{
		{Worker: worker.ID, Date: mar(2), Status: models.AttendancePresent},
		{Worker: worker.ID, Date: mar(3), Status: models.AttendancePresent},
		{Worker: worker.ID, Date: mar(4), Status: models.AttendanceHalfDay},
		{Worker: primitive.NewObjectID(), Date: mar(2), Status: models.AttendancePresent},
	}
	svc := newTestService(store, nil)

	days, wages, err := svc.WorkerWages(context.Background(), worker)
	require.NoError(t, err)
	assert.Equal(t, 2, days)
	assert.Equal(t, 1000.0, wages)
}

func TestWorkerWagesByID(t *testing.T) {
	store := seed()
	worker := models.User{ID: primitive.NewObjectID(), Name: "Ravi", Role: models.RoleWorker, DailyRate: 500}
	store.workers = append(store.workers, worker)
	store.records = []models.AttendanceRecord{
		{Worker: worker.ID, Date: mar(2), Status: models.AttendancePresent},
		{Worker: worker.ID, Date: mar(3), Status: models.AttendanceHalfDay},
	}
	svc := newTestService(store, nil)

	report, err := svc.WorkerWagesByID(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", report.Worker)
	assert.Equal(t, 500.0, report.DailyRate)
	assert.Equal(t, 1, report.DaysPresent)
	assert.Equal(t, 500.0, report.EstimatedWages)
}

func TestWorkerWagesByIDRejectsNonWorkers(t *testing.T) {
	store := seed()
	admin := models.User{ID: primitive.NewObjectID(), Name: "Boss", Role: models.RoleAdmin}
	store.admins = append(store.admins, admin)
	svc := newTestService(store, nil)

	_, err := svc.WorkerWagesByID(context.Background(), admin.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.WorkerWagesByID(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestWorkerLeaveReport(t *testing.T) {
	store := seed()
	w1 := models.User{ID: primitive.NewObjectID(), Name: "Amit", Role: models.RoleWorker}
	w2 := models.User{ID: primitive.NewObjectID(), Name: "Bela", Role: models.RoleWorker}
	store.workers = []models.User{w1, w2}
	store.records = []models.AttendanceRecord{
		{Worker: w1.ID, Date: mar(2), Status: models.AttendanceLeave},
		{Worker: w2.ID, Date: mar(2), Status: models.AttendanceLeave},
		{Worker: w2.ID, Date: mar(3), Status: models.AttendanceAbsent},
	}
	svc := newTestService(store, nil)

	report, err := svc.WorkerLeaveReport(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "Bela", report[0].Name)
	assert.Equal(t, 2, report[0].Leaves)
	assert.Equal(t, "Amit", report[1].Name)
}
