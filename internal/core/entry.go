package core

import (
	"errors"
	"strconv"
	"time"
)

const (
	CashIn  EntryType = "in"
	CashOut EntryType = "out"
)

// Fixed option sets. Enum membership is checked wherever values cross a
// boundary (form input, stored records, external suggestions).
var (
	Categories     = []string{"Sales", "Purchase", "Rent", "Salary", "Food", "Transportation", "Utilities", "Other"}
	PaymentModes   = []string{"Cash", "bKash", "Nagad", "Bank", "Card"}
	PrinterOptions = []string{"Toshiba 2523AD", "Epson L3250"}
)

type (
	EntryType string

	// Entry is a single cashbook transaction. The id and the audit stamps are
	// assigned by the store; Date and Time are stamped once at creation and
	// never change on later edits.
	Entry struct {
		ID          string
		Type        EntryType
		Amount      float64
		Category    string
		PaymentMode string
		IsDue       bool
		DueAmount   int64
		Contact     string
		Remark      string
		PrinterName string
		Pages       int64
		Date        string // YYYY-MM-DD
		Time        string // HH:MM
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
)

var (
	ErrNoUser            = errors.New("no user session")
	ErrAmountRequired    = errors.New("amount is required")
	ErrPagesRequired     = errors.New("pages are required for cash in")
	ErrDueAmountRequired = errors.New("due amount is required when marked due")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPages      = errors.New("invalid pages")
	ErrInvalidDueAmount  = errors.New("invalid due amount")
)

func (t EntryType) Valid() bool {
	return t == CashIn || t == CashOut
}

// EffectiveDueAmount returns the due amount honoring the isDue gate: records
// not marked due contribute 0 regardless of any stored value.
func (e Entry) EffectiveDueAmount() int64 {
	if !e.IsDue {
		return 0
	}
	return e.DueAmount
}

// AmountString is the literal decimal form of the amount, the same string the
// text filter matches against (trailing zeros trimmed, no exponent).
func (e Entry) AmountString() string {
	return strconv.FormatFloat(e.Amount, 'f', -1, 64)
}

func ValidCategory(s string) bool    { return contains(Categories, s) }
func ValidPaymentMode(s string) bool { return contains(PaymentModes, s) }
func ValidPrinterName(s string) bool { return contains(PrinterOptions, s) }

func contains(opts []string, s string) bool {
	for _, o := range opts {
		if o == s {
			return true
		}
	}
	return false
}

// StampNow fills Date and Time from the given moment. Date is ISO 8601,
// Time is the 24h wall clock to minute precision.
func (e *Entry) StampNow(now time.Time) {
	e.Date = now.Format("2006-01-02")
	e.Time = now.Format("15:04")
}
