// Package ledger persists saved invoices to a flat CSV history file. The
// file is append-only with a header row written once on creation. It
// assumes a single writer and takes no locks; that matches the log it
// replaces, which carries no integrity guarantees.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alt-contracting/invoicing/internal/models"
)

const dateLayout = "2006-01-02"

var header = []string{"invoice_number", "date", "client_name", "total", "status"}

// Ledger appends and reads history rows at a fixed path.
type Ledger struct {
	path string
}

func New(path string) *Ledger { return &Ledger{path: path} }

func (l *Ledger) Path() string { return l.path }

// Append writes one history row, creating the file with a header row on
// first use. Duplicate invoice numbers append as-is; the log has no
// uniqueness contract. A blank status defaults to Unpaid.
func (l *Ledger) Append(rec models.HistoryRecord) error {
	if rec.Status == "" {
		rec.Status = models.StatusUnpaid
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat ledger: %w", err)
	}
	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			f.Close()
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	row := []string{
		rec.InvoiceNumber,
		rec.Date.Format(dateLayout),
		rec.ClientName,
		rec.Total.StringFixed(2),
		string(rec.Status),
	}
	if err := w.Write(row); err != nil {
		f.Close()
		return fmt.Errorf("write ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	return f.Close()
}

// ReadAll returns every saved row oldest first. A missing file is an empty
// history, not an error. Rows that do not parse are skipped rather than
// failing the whole report.
func (l *Ledger) ReadAll() ([]models.HistoryRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []models.HistoryRecord
	for i := 0; ; i++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Externally edited rows with stray quotes are skipped like
			// any other malformed row; the reader resumes on the next
			// line.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		if i == 0 && len(row) > 0 && row[0] == header[0] {
			continue
		}
		if len(row) < 5 {
			continue
		}
		date, err := time.Parse(dateLayout, row[1])
		if err != nil {
			continue
		}
		total, err := decimal.NewFromString(row[3])
		if err != nil {
			total = decimal.Zero
		}
		status := models.Status(row[4])
		switch status {
		case models.StatusUnpaid, models.StatusPaid, models.StatusOverdue:
		default:
			status = models.StatusUnpaid
		}
		out = append(out, models.HistoryRecord{
			InvoiceNumber: row[0],
			Date:          date,
			ClientName:    row[2],
			Total:         total,
			Status:        status,
		})
	}
	return out, nil
}
