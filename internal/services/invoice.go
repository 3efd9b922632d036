package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alt-contracting/invoicing/internal/models"
	"github.com/alt-contracting/invoicing/internal/money"
)

// InvoiceDraft carries the raw form values before coercion. Numeric fields
// stay strings here; money.Parse turns bad input into zero at the boundary
// instead of guards scattered through the handlers.
type InvoiceDraft struct {
	Sequence       string
	IssueDate      string
	ClientName     string
	ClientAddress  string
	JobsiteAddress string
	Notes          string
	Rows           []DraftRow
}

// DraftRow is one uncoerced services-table row.
type DraftRow struct {
	Description string
	Price       string
	Area        string
	Duration    string
}

// InvoiceService encapsulates invoice-related business logic.
type InvoiceService struct{}

func NewInvoiceService() *InvoiceService { return &InvoiceService{} }

// ComputeTotals sums the line subtotals and derives HST and the grand
// total. Order of the items does not affect the result.
func (s *InvoiceService) ComputeTotals(items []models.LineItem) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal())
	}
	tax = subtotal.Mul(models.HSTRate)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// FormatNumber builds the invoice number from the issue date and the
// user-entered sequence suffix, e.g. 2026/09-001. A blank sequence falls
// back to "001". Nothing checks the suffix for collisions; two saves with
// the same number produce two history rows.
func (s *InvoiceService) FormatNumber(issueDate time.Time, seq string) string {
	seq = strings.TrimSpace(seq)
	if seq == "" {
		seq = "001"
	}
	return issueDate.Format("2006/01") + "-" + seq
}

// BuildInvoice coerces a draft into the typed invoice model. An unparsable
// or missing issue date means today.
func (s *InvoiceService) BuildInvoice(d InvoiceDraft) models.Invoice {
	issue := time.Now()
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(d.IssueDate)); err == nil {
		issue = t
	}
	inv := models.Invoice{
		Number:         s.FormatNumber(issue, d.Sequence),
		IssueDate:      issue,
		ClientName:     d.ClientName,
		ClientAddress:  d.ClientAddress,
		JobsiteAddress: d.JobsiteAddress,
		Notes:          d.Notes,
	}
	for _, r := range d.Rows {
		inv.Items = append(inv.Items, models.LineItem{
			Description: r.Description,
			UnitPrice:   money.Parse(r.Price),
			Area:        money.Parse(r.Area),
			Duration:    money.Parse(r.Duration),
		})
	}
	return inv
}
