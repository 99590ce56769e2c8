// Package insights assembles role-specific analytics bundles and turns them
// into a narrative summary through a text generation backend.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/repository/mongodb"
	"github.com/sideledger/sideledger/internal/service/analytics"
)

// topAbsenteesLimit caps the global leave ranking in the admin bundle.
const topAbsenteesLimit = 5

// fallbackText is returned whenever the generator is missing or fails. The
// structured data still ships, so the endpoint never hard-fails on the AI.
const fallbackText = "AI Insights are temporarily unavailable. Please check the data below."

// Store is the read surface the bundle builder needs.
type Store interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListWorkers(ctx context.Context) ([]models.User, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListProjectsByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Project, error)
	ListExpenses(ctx context.Context, f mongodb.ExpenseFilter) ([]models.Expense, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	ListAttendance(ctx context.Context, q models.AttendanceQuery) ([]models.AttendanceRecord, error)
}

// Generator produces a narrative summary from a prompt.
type Generator interface {
	GenerateInsight(ctx context.Context, prompt string) (string, error)
}

// Result pairs the narrative with the structured bundle it was derived from.
type Result struct {
	Insights string `json:"insights"`
	Data     any    `json:"data"`
}

// Service builds insight bundles and narrates them.
type Service struct {
	store     Store
	generator Generator
	now       func() time.Time
	logger    *zap.Logger
}

// NewService wires an insights service instance. The generator may be nil
// when no AI backend is configured; callers then get the fallback narrative.
func NewService(store Store, generator Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, generator: generator, now: time.Now, logger: logger}
}

// Generate returns the insight bundle for the actor. The bundle shape follows
// the caller's database role, not the token claim: admins get the aggregate
// view, workers get their personal one.
func (s *Service) Generate(ctx context.Context, actor models.Principal) (*Result, error) {
	user, err := s.store.FindUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	var data any
	if user.Role == models.RoleAdmin {
		data, err = s.adminBundle(ctx)
	} else {
		data, err = s.workerBundle(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	return &Result{Insights: s.narrate(ctx, data), Data: data}, nil
}

func (s *Service) adminBundle(ctx context.Context) (*models.AdminInsightInput, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	workers, err := s.store.ListWorkers(ctx)
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
			WorkerLeaves: analytics.ProjectWorkerLeaves(p.Project, workers, records),
		})
	}

	return &models.AdminInsightInput{
		Role:          string(models.RoleAdmin),
		TotalProjects: len(projects),
		TotalWorkers:  len(workers),
		MonthlyStats:  analytics.MonthlyTotals(expenses, invoices, s.now()),
		LifetimeStats: analytics.LifetimeTotals(expenses, invoices),
		ProjectStats:  stats,
		GlobalLeaves:  analytics.TopAbsentees(workers, records, topAbsenteesLimit),
	}, nil
}

func (s *Service) workerBundle(ctx context.Context, user *models.User) (*models.WorkerInsightInput, error) {
	projects, err := s.store.ListProjectsByWorker(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListAttendance(ctx, models.AttendanceQuery{Worker: user.ID})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}

	daysPresent, wages := analytics.EstimatedWages(*user, records)
	return &models.WorkerInsightInput{
		Role:             string(models.RoleWorker),
		WorkerName:       user.Name,
		ProjectsInvolved: names,
		DaysPresent:      daysPresent,
		DaysAbsent:       analytics.LeaveCount(user.ID, records),
		DailyRate:        user.DailyRate,
		EstimatedWages:   wages,
	}, nil
}

// narrate asks the generator for a summary and degrades to the fallback text
// on any failure.
func (s *Service) narrate(ctx context.Context, data any) string {
	if s.generator == nil {
		return fallbackText
	}

	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("marshal insight bundle", zap.Error(err))
		return fallbackText
	}

	text, err := s.generator.GenerateInsight(ctx, buildPrompt(payload))
	if err != nil {
		s.logger.Warn("insight generation failed", zap.Error(err))
		return fallbackText
	}
	return text
}

func buildPrompt(payload []byte) string {
	return fmt.Sprintf(`You are an AI analyst for a construction management platform called SideLedger.
Analyze the following JSON data and provide a concise, professional executive summary.

Data: %s

Guidelines:
- If Admin: Focus on financial health (Profit/Loss), project performance, and highlight any workers with excessive leaves.
- If Worker: Focus on their attendance reliability and estimated earnings.
- Use a professional, encouraging but objective tone.
- Format the output in Markdown (use bullet points, bold text for key figures).
- Keep it under 200 words.`, payload)
}
