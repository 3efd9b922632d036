package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alt-contracting/invoicing/internal/ledger"
	"github.com/alt-contracting/invoicing/internal/models"
	"github.com/alt-contracting/invoicing/internal/pdf"
	"github.com/alt-contracting/invoicing/internal/services"
	"github.com/alt-contracting/invoicing/internal/view"
)

func newTestHandler(t *testing.T) *InvoiceHandler {
	t.Helper()
	led := ledger.New(filepath.Join(t.TempDir(), "history.csv"))
	company := models.CompanyProfile{
		Name:       "ALT CONTRACTING",
		Website:    "www.alt-contracting.ca",
		Phone:      "647 865 8176 - Toronto ON",
		TaxID:      "GST/HST: 79688 3338",
		Email:      "billing@example.com",
		SignerName: "E. Althoff",
	}
	return NewInvoiceHandler(services.NewInvoiceService(), pdf.NewRenderer(), led, company)
}

func scenarioForm() url.Values {
	return url.Values{
		"sequence":        {"001"},
		"issue_date":      {"2026-09-01"},
		"client_name":     {"J. Smith"},
		"client_address":  {"12 Main St"},
		"jobsite_address": {"99 Worksite Rd"},
		"notes":           {"1 year warranty"},
		"description":     {"Flooring", "Cleanup"},
		"price":           {"35.00", "50.00"},
		"sqft":            {"1200", "0"},
		"time":            {"0", "3"},
	}
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req
}

func TestPreviewJSON(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	h.Preview(w, postForm("/invoices/preview", scenarioForm()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		InvoiceNumber string `json:"invoice_number"`
		Rows          []map[string]string
		Subtotal      string `json:"subtotal"`
		HST           string `json:"hst"`
		Total         string `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.InvoiceNumber != "2026/09-001" {
		t.Fatalf("invoice_number = %q", resp.InvoiceNumber)
	}
	if resp.Subtotal != "42150.00" || resp.HST != "5479.50" || resp.Total != "47629.50" {
		t.Fatalf("totals = %s / %s / %s", resp.Subtotal, resp.HST, resp.Total)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(resp.Rows))
	}
	if resp.Rows[0]["subtotal"] != "42000.00" || resp.Rows[1]["subtotal"] != "150.00" {
		t.Fatalf("row subtotals = %q / %q", resp.Rows[0]["subtotal"], resp.Rows[1]["subtotal"])
	}
}

func TestPreviewJSONBody(t *testing.T) {
	h := newTestHandler(t)
	body := `{"sequence":"002","issue_date":"2026-09-01","client_name":"Acme",` +
		`"items":[{"description":"Paint","price":"35.00","sqft":"1200","time":"0"}]}`
	req := httptest.NewRequest(http.MethodPost, "/invoices/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.Preview(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"2026/09-002"`) {
		t.Fatalf("missing invoice number in %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"42000.00"`) {
		t.Fatalf("missing subtotal in %s", w.Body.String())
	}
}

func TestPreviewInvalidJSON(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/invoices/preview", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Preview(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid_json") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestPDFDownload(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	h.PDF(w, postForm("/invoices/pdf", scenarioForm()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Invoice_2026/09-001.pdf") {
		t.Fatalf("content-disposition = %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Fatalf("body is not a PDF")
	}
}

func TestSaveAppendsHistory(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	h.Save(w, postForm("/invoices", scenarioForm()))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["saved"] != true || resp["total"] != "47629.50" {
		t.Fatalf("unexpected response %#v", resp)
	}

	recs, err := h.Ledger.ReadAll()
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record got %d", len(recs))
	}
	if recs[0].InvoiceNumber != "2026/09-001" || recs[0].Status != models.StatusUnpaid {
		t.Fatalf("unexpected record %+v", recs[0])
	}
}

// Saving the same invoice number twice is two distinct rows; nothing
// deduplicates.
func TestSaveTwiceSameNumber(t *testing.T) {
	h := newTestHandler(t)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.Save(w, postForm("/invoices", scenarioForm()))
		if w.Code != http.StatusCreated {
			t.Fatalf("save %d: expected 201 got %d", i, w.Code)
		}
	}
	recs, err := h.Ledger.ReadAll()
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records got %d", len(recs))
	}
}

func TestHistoryListJSON(t *testing.T) {
	h := newTestHandler(t)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.Save(w, postForm("/invoices", scenarioForm()))
		if w.Code != http.StatusCreated {
			t.Fatalf("save %d failed: %d", i, w.Code)
		}
	}
	hh := NewHistoryHandler(h.Ledger)
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	hh.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Items []map[string]string `json:"items"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || len(resp.Items) != 3 {
		t.Fatalf("expected 3 items got total=%d len=%d", resp.Total, len(resp.Items))
	}
	if resp.Items[0]["total"] != "47629.50" || resp.Items[0]["status"] != "Unpaid" {
		t.Fatalf("unexpected item %#v", resp.Items[0])
	}
}

func TestPreviewHTML(t *testing.T) {
	view.SetBaseDir("../../templates")
	h := newTestHandler(t)
	req := postForm("/invoices/preview", scenarioForm())
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.Preview(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "$42,150.00") {
		t.Fatalf("preview page missing subtotal: %s", w.Body.String())
	}
}

// A broken template directory is a 500, not a blank 200 page.
func TestPreviewHTMLTemplateError(t *testing.T) {
	view.SetBaseDir(t.TempDir())
	h := newTestHandler(t)
	req := postForm("/invoices/preview", scenarioForm())
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.Preview(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestHistoryListHTMLTemplateError(t *testing.T) {
	view.SetBaseDir(t.TempDir())
	hh := NewHistoryHandler(ledger.New(filepath.Join(t.TempDir(), "history.csv")))
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	hh.List(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestHistoryListEmpty(t *testing.T) {
	hh := NewHistoryHandler(ledger.New(filepath.Join(t.TempDir(), "history.csv")))
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	hh.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":0`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
