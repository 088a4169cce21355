package core

import (
	"fmt"
	"strings"
	"time"
)

// Filter option values shared by the type, category and due-status
// predicates. An empty string behaves like All.
const (
	All        = "all"
	StatusDue  = "due"
	StatusPaid = "paid"
)

// Filter is the active set of view constraints. Zero or "all" fields impose
// no constraint; there is no way for a filter field to reject outright.
type Filter struct {
	Text      string
	Type      string // all | in | out
	Category  string
	DueStatus string // all | due | paid
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive of the whole day
}

// DefaultFilter returns the all-pass filter state.
func DefaultFilter() Filter {
	return Filter{Type: All, Category: All, DueStatus: All}
}

// Match reports whether the entry is visible under this filter. The five
// predicates combine with AND.
func (f Filter) Match(e Entry) bool {
	return f.matchText(e) &&
		f.matchType(e) &&
		f.matchCategory(e) &&
		f.matchDueStatus(e) &&
		f.matchDateRange(e)
}

// matchText is a coarse OR-of-fields substring match, not a query language.
// The query matches when it is a case-insensitive substring of the contact,
// remark, category, printer name, payment mode or the literal decimal string
// of the amount. Two keywords are special: a query containing "due" matches
// every due entry and one containing "paid" matches every settled entry,
// whatever the other fields hold.
func (f Filter) matchText(e Entry) bool {
	if f.Text == "" {
		return true
	}
	q := strings.ToLower(f.Text)
	for _, field := range []string{e.Contact, e.Remark, e.Category, e.PrinterName, e.PaymentMode} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	if strings.Contains(e.AmountString(), q) {
		return true
	}
	if e.IsDue && strings.Contains(q, StatusDue) {
		return true
	}
	if !e.IsDue && strings.Contains(q, StatusPaid) {
		return true
	}
	return false
}

func (f Filter) matchType(e Entry) bool {
	return f.Type == "" || f.Type == All || f.Type == string(e.Type)
}

func (f Filter) matchCategory(e Entry) bool {
	return f.Category == "" || f.Category == All || f.Category == e.Category
}

func (f Filter) matchDueStatus(e Entry) bool {
	switch f.DueStatus {
	case StatusDue:
		return e.IsDue
	case StatusPaid:
		return !e.IsDue
	default:
		return true
	}
}

// matchDateRange checks StartDate <= date < EndDate+1day. Entries without a
// parseable date always pass: range filtering is fail-open for them, a quirk
// carried over deliberately rather than silently fixed.
func (f Filter) matchDateRange(e Entry) bool {
	if e.Date == "" {
		return true
	}
	d, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return true
	}
	if start, ok := parseFilterDate(f.StartDate); ok && d.Before(start) {
		return false
	}
	if end, ok := parseFilterDate(f.EndDate); ok && !d.Before(end.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// parseFilterDate treats absent or malformed filter dates as "no constraint".
func parseFilterDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ApplyFilter derives the visible subset. It never synthesizes entries and
// is idempotent: filtering an already filtered list is a no-op.
func ApplyFilter(entries []Entry, f Filter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Describe renders the active constraints for the report header. An all-pass
// filter describes itself as empty.
func (f Filter) Describe() string {
	var parts []string
	if f.StartDate != "" {
		parts = append(parts, "From: "+f.StartDate)
	}
	if f.EndDate != "" {
		parts = append(parts, "To: "+f.EndDate)
	}
	if f.constrainsKind() {
		parts = append(parts,
			"Type: "+orAll(f.Type),
			"Category: "+orAll(f.Category),
			"Status: "+orAll(f.DueStatus))
	}
	if f.Text != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", f.Text))
	}
	return strings.Join(parts, " | ")
}

func (f Filter) constrainsKind() bool {
	return (f.Type != "" && f.Type != All) ||
		(f.Category != "" && f.Category != All) ||
		(f.DueStatus != "" && f.DueStatus != All)
}

func orAll(s string) string {
	if s == "" {
		return All
	}
	return s
}
