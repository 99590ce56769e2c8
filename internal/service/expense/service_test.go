package expense

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/repository/mongodb"
)

type fakeStore struct {
	expenses map[primitive.ObjectID]*models.Expense
}

func newFakeStore() *fakeStore {
	return &fakeStore{expenses: map[primitive.ObjectID]*models.Expense{}}
}

func (f *fakeStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	f.expenses[e.ID] = e
	return nil
}

func (f *fakeStore) ListExpenses(ctx context.Context, filter mongodb.ExpenseFilter) ([]models.Expense, error) {
	out := []models.Expense{}
	for _, e := range f.expenses {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) FindExpenseByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, apperr.NotFound("expense not found")
	}
	return e, nil
}

func (f *fakeStore) UpdateExpense(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	if _, ok := f.expenses[e.ID]; !ok {
		return nil, apperr.NotFound("expense not found")
	}
	f.expenses[e.ID] = e
	return e, nil
}

func (f *fakeStore) DeleteExpense(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.expenses[id]; !ok {
		return apperr.NotFound("expense not found")
	}
	delete(f.expenses, id)
	return nil
}

type fakeScanner struct {
	parsed *models.ParsedInvoice
	err    error
}

func (f fakeScanner) ParseInvoice(ctx context.Context, image []byte, mimeType string) (*models.ParsedInvoice, error) {
	return f.parsed, f.err
}

func validInput() Input {
	return Input{
		Vendor:   "BuildMart",
		Category: models.CategoryMaterials,
		Items: []models.ExpenseItem{
			{Name: "Cement", Quantity: 10, UnitPrice: 350, GSTRate: 18},
			{Name: "Sand", Quantity: 2, UnitPrice: 1200},
		},
		InvoiceDate: time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateRecomputesTotals(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)

	in := validInput()
	// Client-supplied amounts must be discarded.
	in.Items[0].Amount = 1

	expense, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, expense.Items[0].Amount)
	assert.Equal(t, 2400.0, expense.Items[1].Amount)
	assert.Equal(t, 5900.0, expense.TotalAmount)
	assert.InDelta(t, 630.0, expense.TotalGST, 1e-9)
	assert.Equal(t, models.ExpensePending, expense.Status, "status defaults to pending")
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	in := validInput()
	in.Vendor = ""
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = validInput()
	in.Items = nil
	_, err = svc.Create(context.Background(), in)
	assert.Error(t, err)

	in = validInput()
	in.Category = "travel"
	_, err = svc.Create(context.Background(), in)
	assert.Error(t, err)

	in = validInput()
	in.Items[0].Quantity = 0
	_, err = svc.Create(context.Background(), in)
	assert.Error(t, err)
}

func TestUpdateRecomputesTotals(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)

	expense, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Items = []models.ExpenseItem{{Name: "Bricks", Quantity: 100, UnitPrice: 8}}
	updated, err := svc.Update(context.Background(), expense.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 800.0, updated.TotalAmount)
	assert.Equal(t, 0.0, updated.TotalGST)
}

func TestScanNormalizesParserOutput(t *testing.T) {
	scanner := fakeScanner{parsed: &models.ParsedInvoice{
		Vendor: "BuildMart",
		Items: []models.ExpenseItem{
			// The parser claims a wrong amount and total; both get recomputed.
			{Name: "Cement", Quantity: 10, UnitPrice: 350, GSTRate: 18, Amount: 999},
		},
		TotalAmount: 999,
	}}
	svc := NewService(newFakeStore(), scanner, nil)

	parsed, err := svc.Scan(context.Background(), []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 3500.0, parsed.Items[0].Amount)
	assert.Equal(t, 3500.0, parsed.TotalAmount)
	assert.InDelta(t, 630.0, parsed.TotalGST, 1e-9)
}

func TestScanWithoutBackendReturnsPlaceholder(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	parsed, err := svc.Scan(context.Background(), []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err, "missing backend degrades to a draft, never an error")
	assert.Equal(t, "Demo Vendor", parsed.Vendor)
	assert.Equal(t, "INV-000", parsed.InvoiceNumber)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, 1000.0, parsed.TotalAmount)
	assert.InDelta(t, 180.0, parsed.TotalGST, 1e-9)
}

func TestScanRejectsEmptyImage(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	_, err := svc.Scan(context.Background(), nil, "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
