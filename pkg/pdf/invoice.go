// Package pdf renders printable documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/sideledger/sideledger/internal/domain/models"
)

const dateLayout = "2006-01-02"

// InvoiceRenderer renders outgoing invoices as A4 PDF documents.
type InvoiceRenderer struct{}

// NewInvoiceRenderer builds a renderer instance.
func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{}
}

// RenderInvoice produces the PDF bytes for one invoice.
func (r *InvoiceRenderer) RenderInvoice(invoice *models.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, "INVOICE")
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 8, fmt.Sprintf("Invoice #: %s", invoice.InvoiceNumber))
	doc.Ln(6)
	doc.Cell(0, 8, fmt.Sprintf("Date: %s", invoice.Date.Format(dateLayout)))
	if invoice.DueDate != nil {
		doc.Ln(6)
		doc.Cell(0, 8, fmt.Sprintf("Due: %s", invoice.DueDate.Format(dateLayout)))
	}
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(95, 7, "From")
	doc.Cell(95, 7, "Bill To")
	doc.Ln(7)
	doc.SetFont("Helvetica", "", 11)
	doc.Cell(95, 6, invoice.CompanyName)
	doc.Cell(95, 6, invoice.ClientName)
	doc.Ln(6)
	doc.Cell(95, 6, invoice.CompanyAddress)
	doc.Cell(95, 6, invoice.ClientAddress)
	doc.Ln(6)
	doc.Cell(95, 6, invoice.CompanyEmail)
	doc.Cell(95, 6, invoice.ClientEmail)
	doc.Ln(12)

	doc.SetFont("Helvetica", "B", 11)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(100, 8, "Description", "1", 0, "L", true, 0, "")
	doc.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 8, "Rate", "1", 0, "R", true, 0, "")
	doc.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 11)
	for _, item := range invoice.Items {
		doc.CellFormat(100, 8, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 8, fmt.Sprintf("%.2f", item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 8, fmt.Sprintf("%.2f", item.Rate), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Amount), "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(155, 10, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 10, fmt.Sprintf("%.2f", invoice.TotalAmount), "1", 1, "R", false, 0, "")

	if invoice.Notes != "" {
		doc.Ln(8)
		doc.SetFont("Helvetica", "I", 10)
		doc.MultiCell(0, 6, "Notes: "+invoice.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
