package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
)

// CreateInvoice inserts a new outgoing invoice.
func (r *Repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	if invoice.ID.IsZero() {
		invoice.ID = primitive.NewObjectID()
	}

	if _, err := r.collection(invoicesCollection).InsertOne(ctx, invoice); err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// ListInvoices returns all invoices, newest first.
func (r *Repository) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	cursor, err := r.collection(invoicesCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer cursor.Close(ctx)

	invoices := []models.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return invoices, nil
}

// FindInvoiceByID looks an invoice up by id.
func (r *Repository) FindInvoiceByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.collection(invoicesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("invoice not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return &invoice, nil
}

// UpdateInvoice replaces the mutable invoice fields and returns the updated
// document.
func (r *Repository) UpdateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	invoice.UpdatedAt = time.Now().UTC()

	var updated models.Invoice
	err := r.collection(invoicesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": invoice.ID},
		bson.M{"$set": bson.M{
			"invoiceNumber":  invoice.InvoiceNumber,
			"date":           invoice.Date,
			"dueDate":        invoice.DueDate,
			"companyName":    invoice.CompanyName,
			"companyAddress": invoice.CompanyAddress,
			"companyEmail":   invoice.CompanyEmail,
			"companyPhone":   invoice.CompanyPhone,
			"clientName":     invoice.ClientName,
			"clientAddress":  invoice.ClientAddress,
			"clientEmail":    invoice.ClientEmail,
			"items":          invoice.Items,
			"totalAmount":    invoice.TotalAmount,
			"status":         invoice.Status,
			"notes":          invoice.Notes,
			"project":        invoice.Project,
			"updatedAt":      invoice.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("invoice not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return &updated, nil
}

// DeleteInvoice removes an invoice.
func (r *Repository) DeleteInvoice(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection(invoicesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("invoice not found")
	}
	return nil
}
