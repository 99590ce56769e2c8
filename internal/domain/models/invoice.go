package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceStatus tracks an outgoing client bill. Drafts do not count toward
// lifetime revenue.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

// InvoiceItem is one billed line. Amount is recomputed from Quantity and Rate
// on every save.
type InvoiceItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	Rate        float64 `bson:"rate" json:"rate"`
	Amount      float64 `bson:"amount" json:"amount"`
}

// Invoice is an outgoing client bill, optionally tagged to a project.
type Invoice struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InvoiceNumber string             `bson:"invoiceNumber" json:"invoiceNumber"`
	Date          time.Time          `bson:"date" json:"date"`
	DueDate       *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`

	CompanyName    string `bson:"companyName" json:"companyName"`
	CompanyAddress string `bson:"companyAddress,omitempty" json:"companyAddress,omitempty"`
	CompanyEmail   string `bson:"companyEmail,omitempty" json:"companyEmail,omitempty"`
	CompanyPhone   string `bson:"companyPhone,omitempty" json:"companyPhone,omitempty"`

	ClientName    string `bson:"clientName" json:"clientName"`
	ClientAddress string `bson:"clientAddress,omitempty" json:"clientAddress,omitempty"`
	ClientEmail   string `bson:"clientEmail,omitempty" json:"clientEmail,omitempty"`

	Items       []InvoiceItem       `bson:"items" json:"items"`
	TotalAmount float64             `bson:"totalAmount" json:"totalAmount"`
	Status      InvoiceStatus       `bson:"status" json:"status"`
	Notes       string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Project     *primitive.ObjectID `bson:"project,omitempty" json:"project,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Recalculate re-derives every item amount and the invoice total.
func (inv *Invoice) Recalculate() {
	var total float64
	for i := range inv.Items {
		item := &inv.Items[i]
		item.Amount = item.Quantity * item.Rate
		total += item.Amount
	}
	inv.TotalAmount = total
}
