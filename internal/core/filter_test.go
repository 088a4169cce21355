package core

import (
	"reflect"
	"testing"
)

func entryFixture() Entry {
	return Entry{
		ID:          "t1",
		Type:        CashIn,
		Amount:      150.5,
		Category:    "Sales",
		PaymentMode: "bKash",
		Contact:     "Rahim Traders",
		Remark:      "Poster print",
		PrinterName: "Epson L3250",
		Pages:       12,
		Date:        "2024-03-10",
		Time:        "14:30",
	}
}

func TestFilterMatchText(t *testing.T) {
	e := entryFixture()

	tests := []struct {
		name  string
		text  string
		entry Entry
		want  bool
	}{
		{"empty query passes", "", e, true},
		{"contact substring", "rahim", e, true},
		{"remark substring", "poster", e, true},
		{"category substring", "sal", e, true},
		{"printer substring", "epson", e, true},
		{"payment mode substring", "bkash", e, true},
		{"amount literal", "150.5", e, true},
		{"no field matches", "zzz", e, false},
		{"due keyword on paid entry", "due", e, false},
		{"paid keyword on paid entry", "paid", e, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilter()
			f.Text = tt.text
			if got := f.Match(tt.entry); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterTextDueKeyword(t *testing.T) {
	due := entryFixture()
	due.IsDue = true
	due.DueAmount = 50
	paid := entryFixture()
	paid.ID = "t2"

	f := DefaultFilter()
	f.Text = "due"
	// "due" matches due entries even when no field contains the word.
	if !f.Match(due) {
		t.Error("expected due entry to match 'due'")
	}
	if f.Match(paid) {
		t.Error("expected paid entry not to match 'due'")
	}

	f.Text = "paid"
	if f.Match(due) {
		t.Error("expected due entry not to match 'paid'")
	}
	if !f.Match(paid) {
		t.Error("expected paid entry to match 'paid'")
	}
}

func TestFilterMatchTypeAndCategory(t *testing.T) {
	e := entryFixture()

	tests := []struct {
		name     string
		typ      string
		category string
		want     bool
	}{
		{"all passes", "all", "all", true},
		{"empty behaves like all", "", "", true},
		{"matching type", "in", "all", true},
		{"wrong type", "out", "all", false},
		{"matching category", "all", "Sales", true},
		{"wrong category", "all", "Rent", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Type: tt.typ, Category: tt.category, DueStatus: All}
			if got := f.Match(e); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterMatchDueStatus(t *testing.T) {
	due := entryFixture()
	due.IsDue = true

	f := DefaultFilter()
	f.DueStatus = StatusDue
	if !f.Match(due) || f.Match(entryFixture()) {
		t.Error("due status filter mismatched")
	}
	f.DueStatus = StatusPaid
	if f.Match(due) || !f.Match(entryFixture()) {
		t.Error("paid status filter mismatched")
	}
}

func TestFilterDateRange(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		start, end string
		want       bool
	}{
		{"no range", "2024-03-10", "", "", true},
		{"inside range", "2024-03-10", "2024-03-01", "2024-03-31", true},
		{"on start date", "2024-03-01", "2024-03-01", "", true},
		{"before start date", "2024-02-29", "2024-03-01", "", false},
		{"on end date passes, inclusive boundary", "2024-03-31", "", "2024-03-31", true},
		{"day after end date fails", "2024-04-01", "", "2024-03-31", false},
		{"missing date is fail-open", "", "2024-03-01", "2024-03-31", true},
		{"malformed record date is fail-open", "soon", "2024-03-01", "2024-03-31", true},
		{"malformed filter date is no constraint", "2024-03-10", "not-a-date", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFixture()
			e.Date = tt.date
			f := DefaultFilter()
			f.StartDate = tt.start
			f.EndDate = tt.end
			if got := f.Match(e); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyFilterSubsetAndIdempotent(t *testing.T) {
	entries := []Entry{entryFixture()}
	for i, typ := range []EntryType{CashOut, CashIn, CashOut} {
		e := entryFixture()
		e.ID = string(rune('a' + i))
		e.Type = typ
		if typ == CashOut {
			e.PrinterName = ""
			e.Pages = 0
		}
		entries = append(entries, e)
	}

	f := DefaultFilter()
	f.Type = "in"

	once := ApplyFilter(entries, f)
	if len(once) == 0 || len(once) >= len(entries) {
		t.Fatalf("expected a non-empty strict subset, got %d of %d", len(once), len(entries))
	}
	for _, got := range once {
		found := false
		for _, e := range entries {
			if e.ID == got.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("filter synthesized entry %q", got.ID)
		}
	}

	twice := ApplyFilter(once, f)
	if !reflect.DeepEqual(once, twice) {
		t.Error("ApplyFilter is not idempotent")
	}
}

func TestFilterDescribe(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"all-pass is empty", DefaultFilter(), ""},
		{
			"date range only",
			Filter{Type: All, Category: All, DueStatus: All, StartDate: "2024-01-01", EndDate: "2024-01-31"},
			"From: 2024-01-01 | To: 2024-01-31",
		},
		{
			"kind constraints expand all three",
			Filter{Type: "in", Category: All, DueStatus: All},
			"Type: in | Category: all | Status: all",
		},
		{
			"search quoted",
			Filter{Type: All, Category: All, DueStatus: All, Text: "rent"},
			`Search: "rent"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Describe(); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
