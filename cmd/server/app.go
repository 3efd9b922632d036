package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alt-contracting/invoicing/internal/config"
	"github.com/alt-contracting/invoicing/internal/handlers"
	"github.com/alt-contracting/invoicing/internal/ledger"
	"github.com/alt-contracting/invoicing/internal/pdf"
	"github.com/alt-contracting/invoicing/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
}

// NewApp wires the service, renderer and ledger into the route table.
func NewApp(cfg *config.Config) *App {
	app := &App{mux: http.NewServeMux()}

	svc := services.NewInvoiceService()
	renderer := pdf.NewRenderer()
	led := ledger.New(cfg.LedgerPath)

	ih := handlers.NewInvoiceHandler(svc, renderer, led, cfg.Company)
	hh := handlers.NewHistoryHandler(led)

	app.mux.HandleFunc("GET /{$}", ih.Form)
	app.mux.HandleFunc("POST /invoices/preview", ih.Preview)
	app.mux.HandleFunc("POST /invoices/pdf", ih.PDF)
	app.mux.HandleFunc("POST /invoices", ih.Save)
	app.mux.HandleFunc("GET /history", hh.List)
	app.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// withLogging logs one line per request with method, path, status and
// latency.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
