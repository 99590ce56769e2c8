// Package reporting aggregates dashboard figures, profitability reports and
// the nightly snapshot export.
package reporting

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/repository/mongodb"
	"github.com/sideledger/sideledger/internal/repository/sheets"
	"github.com/sideledger/sideledger/internal/service/analytics"
)

// recentProjectsLimit caps the dashboard's recent project list.
const recentProjectsLimit = 3

// Store is the read/write surface the reporting service needs.
type Store interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListActiveWorkers(ctx context.Context) ([]models.User, error)
	ListWorkers(ctx context.Context) ([]models.User, error)
	ListExpenses(ctx context.Context, f mongodb.ExpenseFilter) ([]models.Expense, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	ListAttendance(ctx context.Context, q models.AttendanceQuery) ([]models.AttendanceRecord, error)
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// DashboardStats is the landing page payload.
type DashboardStats struct {
	TotalProjects   int              `json:"totalProjects"`
	ActiveWorkers   int              `json:"activeWorkers"`
	MonthlyExpenses float64          `json:"monthlyExpenses"`
	MonthlyRevenue  float64          `json:"monthlyRevenue"`
	MonthlyProfit   float64          `json:"monthlyProfit"`
	RecentProjects  []models.Project `json:"recentProjects"`
}

// ProfitLossReport bundles the money views for the analytics page.
type ProfitLossReport struct {
	Monthly  models.PeriodTotals       `json:"monthly"`
	Lifetime models.PeriodTotals       `json:"lifetime"`
	Projects []analytics.ProjectProfit `json:"projects"`
}

// Service computes reports over the full collections.
type Service struct {
	store    Store
	exporter sheets.Exporter
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires a reporting service instance. A nil exporter disables the
// spreadsheet mirror.
func NewService(store Store, exporter sheets.Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, exporter: exporter, now: time.Now, logger: logger}
}

// Dashboard returns the headline numbers and the most recent projects.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	workers, err := s.store.ListActiveWorkers(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, mongodb.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}

	monthly := analytics.MonthlyTotals(expenses, invoices, s.now())

	recent := projects
	if len(recent) > recentProjectsLimit {
		recent = recent[:recentProjectsLimit]
	}

	return &DashboardStats{
		TotalProjects:   len(projects),
		ActiveWorkers:   len(workers),
		MonthlyExpenses: monthly.Expense,
		MonthlyRevenue:  monthly.Revenue,
		MonthlyProfit:   monthly.Profit,
		RecentProjects:  recent,
	}, nil
}

// ProfitLoss returns the monthly, lifetime and per-project money views.
func (s *Service) ProfitLoss(ctx context.Context) (*ProfitLossReport, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, mongodb.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}

	return &ProfitLossReport{
		Monthly:  analytics.MonthlyTotals(expenses, invoices, s.now()),
		Lifetime: analytics.LifetimeTotals(expenses, invoices),
		Projects: analytics.PerProjectProfitability(projects, expenses, invoices),
	}, nil
}

// CostBreakdown groups all expense totals by category.
func (s *Service) CostBreakdown(ctx context.Context) ([]analytics.CategoryTotal, error) {
	expenses, err := s.store.ListExpenses(ctx, mongodb.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	return analytics.CostBreakdown(expenses), nil
}

// WorkerLeaveReport ranks workers by leave count.
func (s *Service) WorkerLeaveReport(ctx context.Context, limit int) ([]models.WorkerLeave, error) {
	workers, err := s.store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListAttendance(ctx, models.AttendanceQuery{})
	if err != nil {
		return nil, err
	}
	return analytics.TopAbsentees(workers, records, limit), nil
}

// WorkerWages returns estimated wages for one worker over their whole history.
func (s *Service) WorkerWages(ctx context.Context, worker models.User) (daysPresent int, wages float64, err error) {
	records, err := s.store.ListAttendance(ctx, models.AttendanceQuery{Worker: worker.ID})
	if err != nil {
		return 0, 0, err
	}
	daysPresent, wages = analytics.EstimatedWages(worker, records)
	return daysPresent, wages, nil
}

// WorkerWagesReport is the wages view for one worker on the labor page.
type WorkerWagesReport struct {
	Worker         string  `json:"worker"`
	DailyRate      float64 `json:"dailyRate"`
	DaysPresent    int     `json:"daysPresent"`
	EstimatedWages float64 `json:"estimatedWages"`
}

// WorkerWagesByID resolves the worker by id and returns their wages view.
// Ids that belong to non-worker accounts read as not found.
func (s *Service) WorkerWagesByID(ctx context.Context, id primitive.ObjectID) (*WorkerWagesReport, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleWorker {
		return nil, apperr.NotFound("worker not found")
	}

	days, wages, err := s.WorkerWages(ctx, *user)
	if err != nil {
		return nil, err
	}
	return &WorkerWagesReport{
		Worker:         user.Name,
		DailyRate:      user.DailyRate,
		DaysPresent:    days,
		EstimatedWages: wages,
	}, nil
}

// Snapshot computes the nightly aggregate, persists it and mirrors it to the
// spreadsheet when an exporter is configured. Export failures are logged and
// swallowed; the database write is the source of truth.
func (s *Service) Snapshot(ctx context.Context) (*models.DashboardSnapshot, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	workers, err := s.store.ListActiveWorkers(ctx)
	if err != nil {
		return nil, err
	}
	allWorkers, err := s.store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, mongodb.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListAttendance(ctx, models.AttendanceQuery{})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	monthly := analytics.MonthlyTotals(expenses, invoices, now)

	profits := analytics.PerProjectProfitability(projects, expenses, invoices)
	stats := make([]models.ProjectStats, 0, len(profits))
	for _, p := range profits {
		stats = append(stats, models.ProjectStats{
			Name:         p.Project.Name,
			WorkerCount:  len(p.Project.Workers),
			Revenue:      p.Revenue,
			Expense:      p.Cost,
			Profit:       p.Profit,
			Margin:       p.Margin,
			WorkerLeaves: analytics.ProjectWorkerLeaves(p.Project, allWorkers, records),
		})
	}

	snapshot := models.DashboardSnapshot{
		Date:           models.DayOf(now),
		TotalProjects:  len(projects),
		ActiveWorkers:  len(workers),
		MonthlyRevenue: monthly.Revenue,
		MonthlyExpense: monthly.Expense,
		MonthlyProfit:  monthly.Profit,
		ProjectStats:   stats,
		CreatedAt:      now,
	}

	if err := s.store.SaveDashboardSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSnapshot(ctx, snapshot); err != nil {
			s.logger.Warn("snapshot export failed", zap.Error(err))
		}
	}

	s.logger.Info("dashboard snapshot saved",
		zap.Time("date", snapshot.Date),
		zap.Int("projects", snapshot.TotalProjects),
		zap.Float64("monthly_profit", snapshot.MonthlyProfit))
	return &snapshot, nil
}
