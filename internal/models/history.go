package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a saved invoice in the history log. The app only ever writes
// StatusUnpaid; the other values exist for logs edited out of band.
type Status string

const (
	StatusUnpaid  Status = "Unpaid"
	StatusPaid    Status = "Paid"
	StatusOverdue Status = "Overdue"
)

// HistoryRecord is one row of the append-only history log. Rows are never
// updated or deleted in place.
type HistoryRecord struct {
	InvoiceNumber string
	Date          time.Time
	ClientName    string
	Total         decimal.Decimal
	Status        Status
}
