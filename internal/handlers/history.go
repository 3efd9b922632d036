package handlers

import (
	"net/http"

	"github.com/alt-contracting/invoicing/internal/httpx"
	"github.com/alt-contracting/invoicing/internal/ledger"
	"github.com/alt-contracting/invoicing/internal/view"
)

// HistoryHandler serves the saved-invoice report read back from the
// history log.
type HistoryHandler struct {
	Ledger *ledger.Ledger
}

func NewHistoryHandler(led *ledger.Ledger) *HistoryHandler {
	return &HistoryHandler{Ledger: led}
}

// List: GET /history – all saved rows oldest first, JSON or HTML.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Ledger.ReadAll()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_read_history", nil)
		return
	}
	if wantsJSON(r) {
		items := make([]map[string]any, 0, len(recs))
		for _, rec := range recs {
			items = append(items, map[string]any{
				"invoice_number": rec.InvoiceNumber,
				"date":           rec.Date.Format("2006-01-02"),
				"client_name":    rec.ClientName,
				"total":          rec.Total.StringFixed(2),
				"status":         string(rec.Status),
			})
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
		return
	}
	if err := view.Render(w, r, "history.html", map[string]any{"Records": recs, "Total": len(recs)}); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}
