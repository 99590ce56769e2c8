package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseCategory classifies incoming costs.
type ExpenseCategory string

const (
	CategoryMaterials     ExpenseCategory = "materials"
	CategoryLabor         ExpenseCategory = "labor"
	CategoryEquipment     ExpenseCategory = "equipment"
	CategoryMiscellaneous ExpenseCategory = "miscellaneous"
)

// ExpenseStatus tracks payment state of an expense.
type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "pending"
	ExpensePaid    ExpenseStatus = "paid"
)

// ExpenseItem is one purchased line. Amount is always recomputed from
// Quantity and UnitPrice on save; client-supplied amounts are not trusted.
type ExpenseItem struct {
	Name      string  `bson:"name" json:"name"`
	Quantity  float64 `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unitPrice" json:"unitPrice"`
	GSTRate   float64 `bson:"gstRate,omitempty" json:"gstRate,omitempty"`
	Amount    float64 `bson:"amount" json:"amount"`
}

// Expense is an incoming cost record, optionally tagged to a project.
type Expense struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Vendor        string              `bson:"vendor" json:"vendor"`
	Items         []ExpenseItem       `bson:"items" json:"items"`
	Category      ExpenseCategory     `bson:"category" json:"category"`
	SubCategory   string              `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	TotalAmount   float64             `bson:"totalAmount" json:"totalAmount"`
	TotalGST      float64             `bson:"totalGst" json:"totalGst"`
	InvoiceNumber string              `bson:"invoiceNumber,omitempty" json:"invoiceNumber,omitempty"`
	InvoiceDate   time.Time           `bson:"invoiceDate" json:"invoiceDate"`
	InvoiceURL    string              `bson:"invoiceUrl,omitempty" json:"invoiceUrl,omitempty"`
	Status        ExpenseStatus       `bson:"status" json:"status"`
	PaymentDate   *time.Time          `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Project       *primitive.ObjectID `bson:"project,omitempty" json:"project,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Recalculate re-derives every item amount, the GST total and the grand total
// from quantities and unit prices.
func (e *Expense) Recalculate() {
	var total, gst float64
	for i := range e.Items {
		item := &e.Items[i]
		item.Amount = item.Quantity * item.UnitPrice
		total += item.Amount
		gst += item.Amount * item.GSTRate / 100
	}
	e.TotalAmount = total
	e.TotalGST = gst
}
