package models

// The insight payloads form a tagged union keyed on the Role field: the admin
// aggregate bundle and the worker personal bundle have fixed, distinct shapes.

// PeriodTotals groups revenue/expense/profit for one accounting window.
type PeriodTotals struct {
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

// ProjectStats summarizes one project for the admin bundle.
type ProjectStats struct {
	Name         string        `json:"name"`
	WorkerCount  int           `json:"workerCount"`
	Revenue      float64       `json:"revenue"`
	Expense      float64       `json:"expense"`
	Profit       float64       `json:"profit"`
	Margin       float64       `json:"margin"`
	WorkerLeaves []WorkerLeave `json:"workerLeaves,omitempty"`
}

// WorkerLeave pairs a worker with their leave/absence count.
type WorkerLeave struct {
	Name   string `json:"name"`
	Leaves int    `json:"leaves"`
}

// AdminInsightInput is the aggregate bundle sent to the narrative generator
// for administrators.
type AdminInsightInput struct {
	Role          string         `json:"role"` // always "admin"
	TotalProjects int            `json:"totalProjects"`
	TotalWorkers  int            `json:"totalWorkers"`
	MonthlyStats  PeriodTotals   `json:"monthlyStats"`
	LifetimeStats PeriodTotals   `json:"lifetimeStats"`
	ProjectStats  []ProjectStats `json:"projectStats"`
	GlobalLeaves  []WorkerLeave  `json:"globalLeaves"`
}

// WorkerInsightInput is the personal bundle sent to the narrative generator
// for a worker.
type WorkerInsightInput struct {
	Role             string   `json:"role"` // always "worker"
	WorkerName       string   `json:"workerName"`
	ProjectsInvolved []string `json:"projectsInvolved"`
	DaysPresent      int      `json:"daysPresent"`
	DaysAbsent       int      `json:"daysAbsent"`
	DailyRate        float64  `json:"dailyRate"`
	EstimatedWages   float64  `json:"estimatedWages"`
}
