// Package analytics holds the pure aggregation functions behind the
// dashboard and the AI insight bundles. Everything here operates on already
// fetched collections and never mutates its inputs.
package analytics

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sideledger/sideledger/internal/domain/models"
)

// StartOfMonth returns midnight UTC on the first day of ref's month.
func StartOfMonth(ref time.Time) time.Time {
	ref = ref.UTC()
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyTotals sums this-month-so-far revenue and expense: records dated on
// or after the start of ref's month count, with no upper bound.
func MonthlyTotals(expenses []models.Expense, invoices []models.Invoice, ref time.Time) models.PeriodTotals {
	start := StartOfMonth(ref)

	var totals models.PeriodTotals
	for _, inv := range invoices {
		if !inv.Date.Before(start) {
			totals.Revenue += inv.TotalAmount
		}
	}
	for _, exp := range expenses {
		if !exp.InvoiceDate.Before(start) {
			totals.Expense += exp.TotalAmount
		}
	}
	totals.Profit = totals.Revenue - totals.Expense
	return totals
}

// LifetimeTotals sums every expense and the paid/sent invoices. Drafts are
// not yet real revenue.
func LifetimeTotals(expenses []models.Expense, invoices []models.Invoice) models.PeriodTotals {
	var totals models.PeriodTotals
	for _, inv := range invoices {
		if inv.Status == models.InvoicePaid || inv.Status == models.InvoiceSent {
			totals.Revenue += inv.TotalAmount
		}
	}
	for _, exp := range expenses {
		totals.Expense += exp.TotalAmount
	}
	totals.Profit = totals.Revenue - totals.Expense
	return totals
}

// ProjectProfit summarizes one project's money movement.
type ProjectProfit struct {
	Project models.Project
	Revenue float64
	Cost    float64
	Profit  float64
	Margin  float64
}

// PerProjectProfitability computes revenue, cost, profit and margin for each
// project, ordered by descending revenue. Margin is zero when a project has
// no revenue so the result never carries NaN or Inf.
func PerProjectProfitability(projects []models.Project, expenses []models.Expense, invoices []models.Invoice) []ProjectProfit {
	out := make([]ProjectProfit, 0, len(projects))
	for _, project := range projects {
		p := ProjectProfit{Project: project}
		for _, inv := range invoices {
			if inv.Project != nil && *inv.Project == project.ID {
				p.Revenue += inv.TotalAmount
			}
		}
		for _, exp := range expenses {
			if exp.Project != nil && *exp.Project == project.ID {
				p.Cost += exp.TotalAmount
			}
		}
		p.Profit = p.Revenue - p.Cost
		if p.Revenue > 0 {
			p.Margin = p.Profit / p.Revenue * 100
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return out
}

// LeaveCount counts a worker's leave and absent days. Half-days and pending
// marks do not count as leave.
func LeaveCount(worker primitive.ObjectID, records []models.AttendanceRecord) int {
	count := 0
	for _, rec := range records {
		if rec.Worker != worker {
			continue
		}
		if rec.Status == models.AttendanceLeave || rec.Status == models.AttendanceAbsent {
			count++
		}
	}
	return count
}

// TopAbsentees ranks workers by leave count, descending, and returns the top
// n. Ties break on ascending worker id so the ranking is deterministic.
func TopAbsentees(workers []models.User, records []models.AttendanceRecord, n int) []models.WorkerLeave {
	type ranked struct {
		id     primitive.ObjectID
		name   string
		leaves int
	}

	all := make([]ranked, 0, len(workers))
	for _, w := range workers {
		all = append(all, ranked{id: w.ID, name: w.Name, leaves: LeaveCount(w.ID, records)})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].leaves != all[j].leaves {
			return all[i].leaves > all[j].leaves
		}
		return all[i].id.Hex() < all[j].id.Hex()
	})

	if n > len(all) {
		n = len(all)
	}
	out := make([]models.WorkerLeave, 0, n)
	for _, r := range all[:n] {
		out = append(out, models.WorkerLeave{Name: r.name, Leaves: r.leaves})
	}
	return out
}

// ProjectWorkerLeaves reports leave counts for the workers assigned to the
// project, keeping only workers with at least one leave.
func ProjectWorkerLeaves(project models.Project, workers []models.User, records []models.AttendanceRecord) []models.WorkerLeave {
	out := []models.WorkerLeave{}
	for _, w := range workers {
		if !project.HasWorker(w.ID) {
			continue
		}
		if leaves := LeaveCount(w.ID, records); leaves > 0 {
			out = append(out, models.WorkerLeave{Name: w.Name, Leaves: leaves})
		}
	}
	return out
}

// DaysPresent counts a worker's verified present days.
func DaysPresent(worker primitive.ObjectID, records []models.AttendanceRecord) int {
	count := 0
	for _, rec := range records {
		if rec.Worker == worker && rec.Status == models.AttendancePresent {
			count++
		}
	}
	return count
}

// EstimatedWages pays daysPresent x dailyRate. Only verified present days are
// paid; half-days contribute nothing to the total.
func EstimatedWages(worker models.User, records []models.AttendanceRecord) (daysPresent int, wages float64) {
	daysPresent = DaysPresent(worker.ID, records)
	return daysPresent, float64(daysPresent) * worker.DailyRate
}

// CategoryTotal is one slice of the cost breakdown.
type CategoryTotal struct {
	Category models.ExpenseCategory `json:"category"`
	Total    float64                `json:"total"`
}

// CostBreakdown groups expense totals by category, largest first.
func CostBreakdown(expenses []models.Expense) []CategoryTotal {
	totals := map[models.ExpenseCategory]float64{}
	for _, exp := range expenses {
		totals[exp.Category] += exp.TotalAmount
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		out = append(out, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}
