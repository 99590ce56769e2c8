// Package sheets appends dashboard snapshots to a Google Sheet so the office
// can follow financials without database access. The export is optional; a
// nil Exporter disables it.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/sideledger/sideledger/internal/config"
	"github.com/sideledger/sideledger/internal/domain/models"
)

const (
	snapshotRange = "Snapshots!A:F"
	dateFormat    = "2006-01-02"
)

// Exporter writes snapshot rows to an external spreadsheet.
type Exporter interface {
	AppendSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one row with the snapshot's headline figures.
func (e *GoogleSheetExporter) AppendSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	values := []interface{}{
		snapshot.Date.Format(dateFormat),
		snapshot.TotalProjects,
		snapshot.ActiveWorkers,
		snapshot.MonthlyRevenue,
		snapshot.MonthlyExpense,
		snapshot.MonthlyProfit,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot row into range %s: %w", snapshotRange, err)
	}

	e.logger.Debug("snapshot row appended to sheet", zap.String("range", snapshotRange))
	return nil
}
