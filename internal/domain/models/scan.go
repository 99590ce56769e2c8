package models

import "time"

// ParsedInvoice is what the vision service extracts from an invoice image.
type ParsedInvoice struct {
	Vendor        string        `json:"vendor"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Date          string        `json:"date"`
	Items         []ExpenseItem `json:"items"`
	TotalAmount   float64       `json:"totalAmount"`
	TotalGST      float64       `json:"totalGst"`
}

// PlaceholderInvoice is the editable draft handed back when extraction is
// unavailable, either because no vision backend is configured or because the
// call failed. The user corrects it before submitting.
func PlaceholderInvoice() *ParsedInvoice {
	return &ParsedInvoice{
		Vendor:        "Demo Vendor",
		InvoiceNumber: "INV-000",
		Date:          time.Now().UTC().Format(time.RFC3339),
		Items: []ExpenseItem{
			{Name: "Material Match", Quantity: 1, UnitPrice: 1000, GSTRate: 18, Amount: 1000},
		},
		TotalAmount: 1000,
		TotalGST:    180,
	}
}
