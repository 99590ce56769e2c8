package models

import "time"

// DashboardSnapshot is the nightly aggregate persisted for dashboard history.
type DashboardSnapshot struct {
	Date           time.Time      `bson:"date" json:"date"`
	TotalProjects  int            `bson:"total_projects" json:"total_projects"`
	ActiveWorkers  int            `bson:"active_workers" json:"active_workers"`
	MonthlyRevenue float64        `bson:"monthly_revenue" json:"monthly_revenue"`
	MonthlyExpense float64        `bson:"monthly_expense" json:"monthly_expense"`
	MonthlyProfit  float64        `bson:"monthly_profit" json:"monthly_profit"`
	ProjectStats   []ProjectStats `bson:"project_stats" json:"project_stats"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
}
