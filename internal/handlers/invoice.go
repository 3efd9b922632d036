package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alt-contracting/invoicing/internal/httpx"
	"github.com/alt-contracting/invoicing/internal/ledger"
	"github.com/alt-contracting/invoicing/internal/models"
	"github.com/alt-contracting/invoicing/internal/money"
	"github.com/alt-contracting/invoicing/internal/pdf"
	"github.com/alt-contracting/invoicing/internal/services"
	"github.com/alt-contracting/invoicing/internal/view"
)

// InvoiceHandler is the form controller: it captures input, runs the
// computation, and hands off to the renderer and the ledger. Export and
// save are independent effects; either can fail without invalidating the
// other.
type InvoiceHandler struct {
	Svc      *services.InvoiceService
	Renderer *pdf.Renderer
	Ledger   *ledger.Ledger
	Company  models.CompanyProfile
}

func NewInvoiceHandler(svc *services.InvoiceService, renderer *pdf.Renderer, led *ledger.Ledger, company models.CompanyProfile) *InvoiceHandler {
	return &InvoiceHandler{Svc: svc, Renderer: renderer, Ledger: led, Company: company}
}

type itemReq struct {
	Description string `json:"description"`
	Price       string `json:"price"`
	Area        string `json:"sqft"`
	Duration    string `json:"time"`
}

type invoiceReq struct {
	Sequence       string    `json:"sequence"`
	IssueDate      string    `json:"issue_date"`
	ClientName     string    `json:"client_name"`
	ClientAddress  string    `json:"client_address"`
	JobsiteAddress string    `json:"jobsite_address"`
	Notes          string    `json:"notes"`
	Items          []itemReq `json:"items"`
}

// draftFromRequest accepts JSON or form bodies. Form rows arrive as
// repeated description/price/sqft/time fields; ragged arrays pad with
// blanks, which coerce to zero downstream.
func draftFromRequest(r *http.Request) (services.InvoiceDraft, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req invoiceReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return services.InvoiceDraft{}, err
		}
		d := services.InvoiceDraft{
			Sequence:       req.Sequence,
			IssueDate:      req.IssueDate,
			ClientName:     req.ClientName,
			ClientAddress:  req.ClientAddress,
			JobsiteAddress: req.JobsiteAddress,
			Notes:          req.Notes,
		}
		for _, it := range req.Items {
			d.Rows = append(d.Rows, services.DraftRow{
				Description: it.Description,
				Price:       it.Price,
				Area:        it.Area,
				Duration:    it.Duration,
			})
		}
		return d, nil
	}

	_ = r.ParseForm()
	d := services.InvoiceDraft{
		Sequence:       r.Form.Get("sequence"),
		IssueDate:      r.Form.Get("issue_date"),
		ClientName:     r.Form.Get("client_name"),
		ClientAddress:  r.Form.Get("client_address"),
		JobsiteAddress: r.Form.Get("jobsite_address"),
		Notes:          r.Form.Get("notes"),
	}
	descs := r.Form["description"]
	prices := r.Form["price"]
	areas := r.Form["sqft"]
	times := r.Form["time"]
	n := len(descs)
	for _, ss := range [][]string{prices, areas, times} {
		if len(ss) > n {
			n = len(ss)
		}
	}
	at := func(ss []string, i int) string {
		if i < len(ss) {
			return ss[i]
		}
		return ""
	}
	for i := 0; i < n; i++ {
		d.Rows = append(d.Rows, services.DraftRow{
			Description: at(descs, i),
			Price:       at(prices, i),
			Area:        at(areas, i),
			Duration:    at(times, i),
		})
	}
	return d, nil
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// Form: GET / – the invoice entry page.
func (h *InvoiceHandler) Form(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Company":       h.Company,
		"DefaultPrefix": time.Now().Format("2006/01"),
		"Today":         time.Now().Format("2006-01-02"),
	}
	if err := view.Render(w, r, "index.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}

// Preview: POST /invoices/preview – per-row subtotals and running totals,
// JSON or HTML per Accept.
func (h *InvoiceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	d, err := draftFromRequest(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv := h.Svc.BuildInvoice(d)
	subtotal, tax, total := h.Svc.ComputeTotals(inv.Items)

	rows := make([]map[string]any, 0, len(inv.Items))
	for _, it := range inv.Items {
		rows = append(rows, map[string]any{
			"description": it.Description,
			"price":       money.FormatAmount(it.UnitPrice),
			"sqft":        it.Area.String(),
			"time":        it.Duration.String(),
			"subtotal":    money.FormatAmount(it.Subtotal()),
		})
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"invoice_number": inv.Number,
			"rows":           rows,
			"subtotal":       money.FormatAmount(subtotal),
			"hst":            money.FormatAmount(tax),
			"total":          money.FormatAmount(total),
		})
		return
	}
	err = view.Render(w, r, "preview.html", map[string]any{
		"Company":  h.Company,
		"Invoice":  inv,
		"Rows":     rows,
		"Subtotal": money.FormatUSD(subtotal),
		"HST":      money.FormatUSD(tax),
		"Total":    money.FormatUSD(total),
	})
	if err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}

// PDF: POST /invoices/pdf – render and stream the document for download.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	d, err := draftFromRequest(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv := h.Svc.BuildInvoice(d)
	data, err := h.Renderer.Render(inv, h.Company)
	if err != nil {
		slog.Error("pdf generation failed", "invoice", inv.Number, "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	httpx.Attachment(w, "Invoice_"+inv.Number+".pdf", "application/pdf", data)
}

// Save: POST /invoices – append one history row. The computed invoice and
// its PDF stay valid even when the append fails.
func (h *InvoiceHandler) Save(w http.ResponseWriter, r *http.Request) {
	d, err := draftFromRequest(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv := h.Svc.BuildInvoice(d)
	rec := models.HistoryRecord{
		InvoiceNumber: inv.Number,
		Date:          inv.IssueDate,
		ClientName:    inv.ClientName,
		Total:         inv.Total(),
		Status:        models.StatusUnpaid,
	}
	if err := h.Ledger.Append(rec); err != nil {
		slog.Error("history append failed", "invoice", inv.Number, "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "save_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"saved":          true,
		"invoice_number": inv.Number,
		"total":          money.FormatAmount(inv.Total()),
	})
}
