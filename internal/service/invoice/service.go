// Package invoice manages outgoing client bills and their PDF rendering.
package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
)

// Store is the invoice persistence surface.
type Store interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	FindInvoiceByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id primitive.ObjectID) error
}

// Renderer turns an invoice into a printable document.
type Renderer interface {
	RenderInvoice(invoice *models.Invoice) ([]byte, error)
}

// Input carries the writable invoice fields. The total is ignored on input
// and recomputed from the items.
type Input struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	Date          time.Time  `json:"date"`
	DueDate       *time.Time `json:"dueDate"`

	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`

	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	ClientEmail   string `json:"clientEmail"`

	Items   []models.InvoiceItem `json:"items"`
	Status  models.InvoiceStatus `json:"status"`
	Notes   string               `json:"notes"`
	Project *primitive.ObjectID  `json:"project"`
}

// Service applies the invoice rules on top of the store.
type Service struct {
	store    Store
	renderer Renderer
	logger   *zap.Logger
}

// NewService wires an invoice service instance.
func NewService(store Store, renderer Renderer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, renderer: renderer, logger: logger}
}

func validStatus(s models.InvoiceStatus) bool {
	switch s {
	case models.InvoiceDraft, models.InvoiceSent, models.InvoicePaid:
		return true
	}
	return false
}

func validate(in Input) error {
	switch {
	case in.CompanyName == "":
		return apperr.Validation("company name is required")
	case in.ClientName == "":
		return apperr.Validation("client name is required")
	case in.Date.IsZero():
		return apperr.Validation("invoice date is required")
	case len(in.Items) == 0:
		return apperr.Validation("at least one item is required")
	case in.Status != "" && !validStatus(in.Status):
		return apperr.Validation("unknown invoice status %q", in.Status)
	}
	for _, item := range in.Items {
		if item.Description == "" || item.Quantity <= 0 || item.Rate < 0 {
			return apperr.Validation("item needs a description, positive quantity and non-negative rate")
		}
	}
	return nil
}

// newInvoiceNumber derives a short human-readable reference.
func newInvoiceNumber(date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", date.Format("200601"), suffix)
}

func build(in Input) *models.Invoice {
	invoice := &models.Invoice{
		InvoiceNumber:  in.InvoiceNumber,
		Date:           in.Date,
		DueDate:        in.DueDate,
		CompanyName:    in.CompanyName,
		CompanyAddress: in.CompanyAddress,
		CompanyEmail:   in.CompanyEmail,
		CompanyPhone:   in.CompanyPhone,
		ClientName:     in.ClientName,
		ClientAddress:  in.ClientAddress,
		ClientEmail:    in.ClientEmail,
		Items:          in.Items,
		Status:         in.Status,
		Notes:          in.Notes,
		Project:        in.Project,
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceDraft
	}
	if invoice.InvoiceNumber == "" {
		invoice.InvoiceNumber = newInvoiceNumber(invoice.Date)
	}
	invoice.Recalculate()
	return invoice
}

// Create inserts a new invoice with a recomputed total. A missing invoice
// number is generated; a missing status defaults to draft.
func (s *Service) Create(ctx context.Context, in Input) (*models.Invoice, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	invoice := build(in)
	if err := s.store.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice", invoice.ID.Hex()),
		zap.String("number", invoice.InvoiceNumber),
		zap.Float64("total", invoice.TotalAmount))
	return invoice, nil
}

// List returns all invoices, newest first.
func (s *Service) List(ctx context.Context) ([]models.Invoice, error) {
	return s.store.ListInvoices(ctx)
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	return s.store.FindInvoiceByID(ctx, id)
}

// Update replaces an invoice's fields, recomputing the total.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*models.Invoice, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	invoice := build(in)
	invoice.ID = id
	return s.store.UpdateInvoice(ctx, invoice)
}

// Delete removes an invoice.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteInvoice(ctx, id)
}

// RenderPDF fetches an invoice and renders it as a PDF document.
func (s *Service) RenderPDF(ctx context.Context, id primitive.ObjectID) ([]byte, error) {
	invoice, err := s.store.FindInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderInvoice(invoice)
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", invoice.InvoiceNumber, err)
	}
	return pdf, nil
}
