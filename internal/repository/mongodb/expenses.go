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

// ExpenseFilter narrows expense listings. Zero values mean "no filter".
type ExpenseFilter struct {
	Project  primitive.ObjectID
	Category models.ExpenseCategory
	Start    time.Time
	End      time.Time
}

// CreateExpense inserts a new expense record.
func (r *Repository) CreateExpense(ctx context.Context, expense *models.Expense) error {
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	if expense.ID.IsZero() {
		expense.ID = primitive.NewObjectID()
	}

	if _, err := r.collection(expensesCollection).InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// ListExpenses returns expenses matching the filter, newest invoice date first.
func (r *Repository) ListExpenses(ctx context.Context, f ExpenseFilter) ([]models.Expense, error) {
	filter := bson.M{}
	if !f.Project.IsZero() {
		filter["project"] = f.Project
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	dateRange := bson.M{}
	if !f.Start.IsZero() {
		dateRange["$gte"] = f.Start
	}
	if !f.End.IsZero() {
		dateRange["$lte"] = f.End
	}
	if len(dateRange) > 0 {
		filter["invoiceDate"] = dateRange
	}

	cursor, err := r.collection(expensesCollection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "invoiceDate", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer cursor.Close(ctx)

	expenses := []models.Expense{}
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	return expenses, nil
}

// FindExpenseByID looks an expense up by id.
func (r *Repository) FindExpenseByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	var expense models.Expense
	err := r.collection(expensesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("expense not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return &expense, nil
}

// UpdateExpense replaces the mutable expense fields and returns the updated
// document.
func (r *Repository) UpdateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	expense.UpdatedAt = time.Now().UTC()

	var updated models.Expense
	err := r.collection(expensesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": expense.ID},
		bson.M{"$set": bson.M{
			"vendor":        expense.Vendor,
			"items":         expense.Items,
			"category":      expense.Category,
			"subCategory":   expense.SubCategory,
			"totalAmount":   expense.TotalAmount,
			"totalGst":      expense.TotalGST,
			"invoiceNumber": expense.InvoiceNumber,
			"invoiceDate":   expense.InvoiceDate,
			"invoiceUrl":    expense.InvoiceURL,
			"status":        expense.Status,
			"paymentDate":   expense.PaymentDate,
			"notes":         expense.Notes,
			"project":       expense.Project,
			"updatedAt":     expense.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("expense not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return &updated, nil
}

// DeleteExpense removes an expense record.
func (r *Repository) DeleteExpense(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection(expensesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("expense not found")
	}
	return nil
}
