package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/server/handlers"
	"github.com/sideledger/sideledger/internal/server/middleware"
)

// Handlers groups every endpoint adapter the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Workers    *handlers.WorkerHandler
	Projects   *handlers.ProjectHandler
	Expenses   *handlers.ExpenseHandler
	Invoices   *handlers.InvoiceHandler
	Attendance *handlers.AttendanceHandler
	Analytics  *handlers.AnalyticsHandler
	Insights   *handlers.InsightsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, jwtSecret string, guard middleware.AdminGuard, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/worker-auth/register", h.Auth.RegisterWorker)

	authed := api.Group("", middleware.Authenticate(jwtSecret))
	adminOnly := middleware.AdminOnly(guard)

	authed.GET("/auth/me", h.Auth.Me)

	authed.GET("/users/workers", h.Workers.List)
	authed.GET("/users/workers/:id", adminOnly, h.Workers.Get)
	authed.PUT("/users/workers/:id", adminOnly, h.Workers.Update)
	authed.DELETE("/users/workers/:id", adminOnly, h.Workers.Delete)
	authed.GET("/users/workers/:id/badge", adminOnly, h.Workers.Badge)

	authed.GET("/projects", h.Projects.List)
	authed.GET("/projects/:id", h.Projects.Get)
	authed.POST("/projects", adminOnly, h.Projects.Create)
	authed.PUT("/projects/:id", adminOnly, h.Projects.Update)
	authed.DELETE("/projects/:id", adminOnly, h.Projects.Delete)

	expenses := authed.Group("/expenses", adminOnly)
	expenses.POST("", h.Expenses.Create)
	expenses.GET("", h.Expenses.List)
	expenses.POST("/scan", h.Expenses.Scan)
	expenses.GET("/:id", h.Expenses.Get)
	expenses.PUT("/:id", h.Expenses.Update)
	expenses.DELETE("/:id", h.Expenses.Delete)

	invoices := authed.Group("/invoices", adminOnly)
	invoices.POST("", h.Invoices.Create)
	invoices.GET("", h.Invoices.List)
	invoices.GET("/:id", h.Invoices.Get)
	invoices.GET("/:id/pdf", h.Invoices.PDF)
	invoices.PUT("/:id", h.Invoices.Update)
	invoices.DELETE("/:id", h.Invoices.Delete)

	authed.POST("/attendance", h.Attendance.Mark)
	authed.GET("/attendance", h.Attendance.List)

	analytics := authed.Group("/analytics", adminOnly)
	analytics.GET("/dashboard", h.Analytics.Dashboard)
	analytics.GET("/cost-breakdown", h.Analytics.CostBreakdown)
	analytics.GET("/profit-loss", h.Analytics.ProfitLoss)
	analytics.GET("/worker-leaves", h.Analytics.WorkerLeaves)
	analytics.GET("/worker-wages/:id", h.Analytics.WorkerWages)

	authed.GET("/ai/insights", h.Insights.Insights)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
