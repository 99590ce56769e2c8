package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/auth"
	"github.com/sideledger/sideledger/internal/config"
	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/repository/mongodb"
	"github.com/sideledger/sideledger/internal/repository/sheets"
	"github.com/sideledger/sideledger/internal/scheduler"
	"github.com/sideledger/sideledger/internal/server/handlers"
	"github.com/sideledger/sideledger/internal/server/router"
	accesssvc "github.com/sideledger/sideledger/internal/service/access"
	attendancesvc "github.com/sideledger/sideledger/internal/service/attendance"
	expensesvc "github.com/sideledger/sideledger/internal/service/expense"
	insightssvc "github.com/sideledger/sideledger/internal/service/insights"
	invoicesvc "github.com/sideledger/sideledger/internal/service/invoice"
	projectsvc "github.com/sideledger/sideledger/internal/service/project"
	reportingsvc "github.com/sideledger/sideledger/internal/service/reporting"
	usersvc "github.com/sideledger/sideledger/internal/service/user"
	"github.com/sideledger/sideledger/pkg/clients/gemini"
	"github.com/sideledger/sideledger/pkg/clients/openai"
	"github.com/sideledger/sideledger/pkg/logger"
	"github.com/sideledger/sideledger/pkg/pdf"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Exporter
	if cfg.Sheets.CredentialsPath != "" {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("sheets snapshot export enabled")
	} else {
		baseLogger.Info("sheets snapshot export disabled")
	}

	var generator insightssvc.Generator
	if cfg.AI.GeminiKey != "" {
		generator = gemini.NewClient(cfg.AI.GeminiKey)
		baseLogger.Info("gemini insight client enabled")
	} else {
		baseLogger.Warn("gemini api key missing, insights degrade to fallback text")
	}

	var scanner expensesvc.Scanner
	if cfg.AI.OpenAIKey != "" {
		scanner = openai.NewClient(cfg.AI.OpenAIKey, baseLogger.Named("client.openai"))
		baseLogger.Info("invoice scan client enabled")
	} else {
		baseLogger.Warn("openai api key missing, invoice scans degrade to the placeholder draft")
	}

	issueToken := func(u *models.User) (string, error) {
		return auth.GenerateToken(cfg.Auth.JWTSecret, auth.Claims{
			UserID: u.ID.Hex(),
			Role:   string(u.Role),
		}, cfg.Auth.TokenTTL)
	}

	accessSvc := accesssvc.NewService(repo, repo, baseLogger.Named("svc.access"))
	userSvc := usersvc.NewService(repo, accessSvc, issueToken, baseLogger.Named("svc.user"))
	projectSvc := projectsvc.NewService(repo, accessSvc, baseLogger.Named("svc.project"))
	attendanceSvc := attendancesvc.NewService(repo, accessSvc, baseLogger.Named("svc.attendance"))
	expenseSvc := expensesvc.NewService(repo, scanner, baseLogger.Named("svc.expense"))
	invoiceSvc := invoicesvc.NewService(repo, pdf.NewInvoiceRenderer(), baseLogger.Named("svc.invoice"))
	insightsSvc := insightssvc.NewService(repo, generator, baseLogger.Named("svc.insights"))
	reportingSvc := reportingsvc.NewService(repo, exporter, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Auth:       handlers.NewAuthHandler(userSvc, baseLogger.Named("handlers.auth")),
		Workers:    handlers.NewWorkerHandler(userSvc, baseLogger.Named("handlers.workers")),
		Projects:   handlers.NewProjectHandler(projectSvc, baseLogger.Named("handlers.projects")),
		Expenses:   handlers.NewExpenseHandler(expenseSvc, baseLogger.Named("handlers.expenses")),
		Invoices:   handlers.NewInvoiceHandler(invoiceSvc, baseLogger.Named("handlers.invoices")),
		Attendance: handlers.NewAttendanceHandler(attendanceSvc, baseLogger.Named("handlers.attendance")),
		Analytics:  handlers.NewAnalyticsHandler(reportingSvc, baseLogger.Named("handlers.analytics")),
		Insights:   handlers.NewInsightsHandler(insightsSvc, baseLogger.Named("handlers.insights")),
	}, cfg.Auth.JWTSecret, userSvc, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
