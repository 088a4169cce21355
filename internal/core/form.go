// Package core holds the cashbook domain: the transaction record, the filter
// predicate engine, the aggregation engine and the ordering policy. It is
// pure computation over in-memory snapshots and has no side effects.
package core

import (
	"strconv"
	"strings"
)

// FormInput is the raw, weakly typed working buffer behind the entry form.
// Numeric fields stay strings until Normalize so that "empty" and "zero"
// remain distinguishable for the validation gates.
type FormInput struct {
	Type        EntryType
	Amount      string
	Category    string
	PaymentMode string
	IsDue       bool
	DueAmount   string
	Contact     string
	PrinterName string
	Pages       string
	Remark      string
}

// DefaultForm returns the buffer for a fresh new-entry form.
func DefaultForm() FormInput {
	return FormInput{
		Type:        CashIn,
		Category:    Categories[0],
		PaymentMode: PaymentModes[0],
		PrinterName: PrinterOptions[0],
	}
}

// ClearTransient resets only the per-entry fields after a successful create,
// keeping type, category, payment mode and printer selection as sticky
// defaults for the next entry.
func (f *FormInput) ClearTransient() {
	f.Amount = ""
	f.Contact = ""
	f.Remark = ""
	f.Pages = ""
	f.IsDue = false
	f.DueAmount = ""
}

// Normalize converts the buffer into an entry payload:
//   - amount parsed as a float; absent or unparseable input is rejected
//   - pages parsed as an integer only when type is in and a value was
//     supplied, otherwise fixed at 0
//   - dueAmount parsed as an integer only when marked due and a value was
//     supplied, otherwise fixed at 0; fractional input truncates
//   - printerName passed through for cash in, forced empty for cash out
//
// The returned entry carries no id, date or time; those belong to the store
// and the reconciliation path respectively.
func (f FormInput) Normalize() (Entry, error) {
	amount, err := parseAmount(f.Amount)
	if err != nil {
		return Entry{}, err
	}

	var pages int64
	if f.Type == CashIn && strings.TrimSpace(f.Pages) != "" {
		pages, err = parseCount(f.Pages)
		if err != nil {
			return Entry{}, ErrInvalidPages
		}
	}

	var dueAmount int64
	if f.IsDue && strings.TrimSpace(f.DueAmount) != "" {
		dueAmount, err = parseCount(f.DueAmount)
		if err != nil {
			return Entry{}, ErrInvalidDueAmount
		}
	}

	printer := f.PrinterName
	if f.Type == CashOut {
		printer = ""
	}

	return Entry{
		Type:        f.Type,
		Amount:      amount,
		Category:    f.Category,
		PaymentMode: f.PaymentMode,
		IsDue:       f.IsDue,
		DueAmount:   dueAmount,
		Contact:     f.Contact,
		Remark:      f.Remark,
		PrinterName: printer,
		Pages:       pages,
	}, nil
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrAmountRequired
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// parseCount parses a non-negative integer, truncating a fractional suffix
// the way the entry form always has.
func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		frac := s[dot+1:]
		for _, r := range frac {
			if r < '0' || r > '9' {
				return 0, strconv.ErrSyntax
			}
		}
		s = s[:dot]
		if s == "" {
			s = "0"
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
