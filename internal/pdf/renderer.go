// Package pdf renders the printable invoice. The layout is fixed: column
// widths, header shading and currency formatting have to line up with
// invoices already printed and filed, so nothing here is configurable.
package pdf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/alt-contracting/invoicing/internal/models"
	"github.com/alt-contracting/invoicing/internal/money"
)

// Renderer produces invoice PDFs on Letter pages.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render returns the finished document bytes. The PDF creation date is
// pinned to the invoice issue date so rendering the same invoice twice is
// byte-identical. A missing logo file renders the document without it;
// any other failure comes back as an error for the caller to surface.
func (r *Renderer) Render(inv models.Invoice, company models.CompanyProfile) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "Letter", "")
	// Byte-identical output for the same invoice: pin both timestamps to
	// the issue date and sort the catalog so font objects do not come out
	// in map order.
	doc.SetCreationDate(inv.IssueDate)
	doc.SetModificationDate(inv.IssueDate)
	doc.SetCatalogSort(true)
	doc.AddPage()

	r.header(doc, company)
	r.billTo(doc, inv)
	r.jobsite(doc, inv)
	r.itemsTable(doc, inv)
	r.totals(doc, inv)
	r.notes(doc, inv)
	r.signature(doc, company)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) header(doc *gofpdf.Fpdf, company models.CompanyProfile) {
	if company.LogoPath != "" {
		if _, err := os.Stat(company.LogoPath); err == nil {
			doc.ImageOptions(company.LogoPath, 10, 8, 45, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}
	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(190, 10, company.Name, "", 1, "R", false, 0, "")
	doc.SetFont("Arial", "", 10)
	doc.CellFormat(190, 5, company.Website+" | "+company.Phone, "", 1, "R", false, 0, "")
	doc.CellFormat(190, 5, company.TaxID, "", 1, "R", false, 0, "")
	doc.Ln(15)
}

// billTo pairs the client block with the invoice number and date on the
// same row band.
func (r *Renderer) billTo(doc *gofpdf.Fpdf, inv models.Invoice) {
	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(95, 10, "BILL TO:", "", 0, "L", false, 0, "")
	doc.CellFormat(95, 10, "INVOICE #: "+inv.Number, "", 1, "R", false, 0, "")
	doc.SetFont("Arial", "", 11)
	doc.CellFormat(95, 5, inv.ClientName, "", 0, "L", false, 0, "")
	doc.CellFormat(95, 5, "Date: "+inv.IssueDate.Format("2006-01-02"), "", 1, "R", false, 0, "")
	doc.MultiCell(95, 5, inv.ClientAddress, "", "L", false)
	doc.Ln(5)
}

func (r *Renderer) jobsite(doc *gofpdf.Fpdf, inv models.Invoice) {
	doc.SetFillColor(240, 242, 246)
	doc.SetFont("Arial", "B", 11)
	doc.CellFormat(190, 8, " JOBSITE: "+inv.JobsiteAddress, "", 1, "L", true, 0, "")
	doc.Ln(5)
}

func (r *Renderer) itemsTable(doc *gofpdf.Fpdf, inv models.Invoice) {
	doc.SetFillColor(200, 200, 200)
	doc.CellFormat(75, 8, "Description", "1", 0, "C", true, 0, "")
	doc.CellFormat(25, 8, "Price ($)", "1", 0, "C", true, 0, "")
	doc.CellFormat(30, 8, "SQFT", "1", 0, "C", true, 0, "")
	doc.CellFormat(30, 8, "Time (h)", "1", 0, "C", true, 0, "")
	doc.CellFormat(30, 8, "Subtotal", "1", 1, "C", true, 0, "")

	doc.SetFont("Arial", "", 10)
	for _, it := range inv.Items {
		doc.CellFormat(75, 7, it.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 7, money.FormatAmount(it.UnitPrice), "1", 0, "C", false, 0, "")
		doc.CellFormat(30, 7, it.Area.String(), "1", 0, "C", false, 0, "")
		doc.CellFormat(30, 7, it.Duration.String(), "1", 0, "C", false, 0, "")
		doc.CellFormat(30, 7, money.FormatAmount(it.Subtotal()), "1", 1, "C", false, 0, "")
	}
}

func (r *Renderer) totals(doc *gofpdf.Fpdf, inv models.Invoice) {
	doc.Ln(5)
	doc.SetFont("Arial", "B", 11)
	doc.CellFormat(160, 7, "Subtotal:", "", 0, "R", false, 0, "")
	doc.CellFormat(30, 7, money.FormatUSD(inv.Subtotal()), "1", 1, "C", false, 0, "")
	doc.CellFormat(160, 7, "HST (13%):", "", 0, "R", false, 0, "")
	doc.CellFormat(30, 7, money.FormatUSD(inv.Tax()), "1", 1, "C", false, 0, "")
	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(160, 10, "TOTAL DUE:", "", 0, "R", false, 0, "")
	doc.CellFormat(30, 10, money.FormatUSD(inv.Total()), "1", 1, "C", false, 0, "")
}

func (r *Renderer) notes(doc *gofpdf.Fpdf, inv models.Invoice) {
	doc.Ln(10)
	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(190, 5, "Instructions & Warranty:", "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "I", 10)
	doc.MultiCell(190, 5, inv.Notes, "", "L", false)
}

func (r *Renderer) signature(doc *gofpdf.Fpdf, company models.CompanyProfile) {
	doc.Ln(20)
	doc.SetFont("Arial", "B", 11)
	doc.CellFormat(190, 5, "___________________________________________", "", 1, "L", false, 0, "")
	doc.CellFormat(190, 5, company.SignerName, "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 10)
	doc.CellFormat(190, 5, company.Email, "", 1, "L", false, 0, "")
}
