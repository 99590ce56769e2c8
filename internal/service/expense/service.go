// Package expense manages incoming cost records and invoice image scanning.
package expense

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/repository/mongodb"
)

// Store is the expense persistence surface.
type Store interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, f mongodb.ExpenseFilter) ([]models.Expense, error)
	FindExpenseByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id primitive.ObjectID) error
}

// Scanner extracts structured line items from an invoice photo.
type Scanner interface {
	ParseInvoice(ctx context.Context, image []byte, mimeType string) (*models.ParsedInvoice, error)
}

// Input carries the writable expense fields. Totals are ignored on input and
// recomputed from the items.
type Input struct {
	Vendor        string                 `json:"vendor"`
	Items         []models.ExpenseItem   `json:"items"`
	Category      models.ExpenseCategory `json:"category"`
	SubCategory   string                 `json:"subCategory"`
	InvoiceNumber string                 `json:"invoiceNumber"`
	InvoiceDate   time.Time              `json:"invoiceDate"`
	InvoiceURL    string                 `json:"invoiceUrl"`
	Status        models.ExpenseStatus   `json:"status"`
	PaymentDate   *time.Time             `json:"paymentDate"`
	Notes         string                 `json:"notes"`
	Project       *primitive.ObjectID    `json:"project"`
}

// Service applies the expense rules on top of the store.
type Service struct {
	store   Store
	scanner Scanner
	logger  *zap.Logger
}

// NewService wires an expense service instance. The scanner may be nil when
// no vision backend is configured; Scan then hands back the placeholder draft.
func NewService(store Store, scanner Scanner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, scanner: scanner, logger: logger}
}

func validCategory(c models.ExpenseCategory) bool {
	switch c {
	case models.CategoryMaterials, models.CategoryLabor, models.CategoryEquipment, models.CategoryMiscellaneous:
		return true
	}
	return false
}

func validate(in Input) error {
	switch {
	case in.Vendor == "":
		return apperr.Validation("vendor is required")
	case len(in.Items) == 0:
		return apperr.Validation("at least one item is required")
	case !validCategory(in.Category):
		return apperr.Validation("unknown expense category %q", in.Category)
	case in.InvoiceDate.IsZero():
		return apperr.Validation("invoice date is required")
	case in.Status != "" && in.Status != models.ExpensePending && in.Status != models.ExpensePaid:
		return apperr.Validation("unknown expense status %q", in.Status)
	}
	for _, item := range in.Items {
		if item.Name == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return apperr.Validation("item needs a name, positive quantity and non-negative unit price")
		}
	}
	return nil
}

func build(in Input) *models.Expense {
	expense := &models.Expense{
		Vendor:        in.Vendor,
		Items:         in.Items,
		Category:      in.Category,
		SubCategory:   in.SubCategory,
		InvoiceNumber: in.InvoiceNumber,
		InvoiceDate:   in.InvoiceDate,
		InvoiceURL:    in.InvoiceURL,
		Status:        in.Status,
		PaymentDate:   in.PaymentDate,
		Notes:         in.Notes,
		Project:       in.Project,
	}
	if expense.Status == "" {
		expense.Status = models.ExpensePending
	}
	expense.Recalculate()
	return expense
}

// Create inserts a new expense with recomputed totals.
func (s *Service) Create(ctx context.Context, in Input) (*models.Expense, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	expense := build(in)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("expense created",
		zap.String("expense", expense.ID.Hex()),
		zap.String("vendor", expense.Vendor),
		zap.Float64("total", expense.TotalAmount))
	return expense, nil
}

// List returns expenses matching the filter.
func (s *Service) List(ctx context.Context, f mongodb.ExpenseFilter) ([]models.Expense, error) {
	return s.store.ListExpenses(ctx, f)
}

// Get returns one expense.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	return s.store.FindExpenseByID(ctx, id)
}

// Update replaces an expense's fields, recomputing totals.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*models.Expense, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	expense := build(in)
	expense.ID = id
	return s.store.UpdateExpense(ctx, expense)
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteExpense(ctx, id)
}

// Scan runs the vision backend over an invoice photo and returns the parsed
// draft. Nothing is persisted; the caller reviews the draft and submits it
// through Create. Extraction never hard-fails: with no backend configured the
// placeholder draft comes back, and the backend itself degrades to the same
// draft on call failures.
func (s *Service) Scan(ctx context.Context, image []byte, mimeType string) (*models.ParsedInvoice, error) {
	if len(image) == 0 {
		return nil, apperr.Validation("image payload is empty")
	}

	var parsed *models.ParsedInvoice
	if s.scanner == nil {
		s.logger.Info("no scan backend configured, returning placeholder draft")
		parsed = models.PlaceholderInvoice()
	} else {
		var err error
		parsed, err = s.scanner.ParseInvoice(ctx, image, mimeType)
		if err != nil {
			return nil, err
		}
	}

	// Normalize scanner output the same way manual input is normalized.
	draft := models.Expense{Items: parsed.Items}
	draft.Recalculate()
	parsed.Items = draft.Items
	parsed.TotalAmount = draft.TotalAmount
	parsed.TotalGST = draft.TotalGST
	return parsed, nil
}
