package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HSTRate is the fixed 13% Ontario HST applied to every invoice subtotal.
var HSTRate = decimal.NewFromFloat(0.13)

// LineItem is one row of the services table. A row is priced either by
// square footage or by time; both fields may be filled in but only one is
// billed (see Subtotal).
type LineItem struct {
	Description string
	UnitPrice   decimal.Decimal
	Area        decimal.Decimal
	Duration    decimal.Decimal
}

// Subtotal applies the pricing rule: a positive area bills by square
// footage and silently ignores any hours entered on the same row,
// otherwise the row bills by time. Zero or negative values flow through
// the arithmetic unvalidated.
func (li LineItem) Subtotal() decimal.Decimal {
	if li.Area.IsPositive() {
		return li.UnitPrice.Mul(li.Area)
	}
	return li.UnitPrice.Mul(li.Duration)
}

// Invoice is one complete invoice as captured from the form. It is built
// fresh per request and never mutated after rendering or saving; each save
// appends a new history row rather than updating anything.
type Invoice struct {
	Number         string
	IssueDate      time.Time
	ClientName     string
	ClientAddress  string
	JobsiteAddress string
	Items          []LineItem
	Notes          string
}

// Subtotal is the sum of the line subtotals before tax.
func (inv Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range inv.Items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

// Tax is the HST owed on the subtotal. Rounding to cents happens at
// render time only.
func (inv Invoice) Tax() decimal.Decimal {
	return inv.Subtotal().Mul(HSTRate)
}

// Total is the amount due, subtotal plus tax.
func (inv Invoice) Total() decimal.Decimal {
	return inv.Subtotal().Add(inv.Tax())
}
