package core

// Summary holds the dashboard totals. They are computed over the complete
// unfiltered set: the active filter narrows the visible list, never the
// numbers on the dashboard or the report header.
type Summary struct {
	TotalIn        float64
	TotalOut       float64
	Balance        float64
	TotalDue       int64
	TotalPages     int64
	PagesByPrinter map[string]int64
}

// Summarize reduces the entries to totals in a single pass. It never mutates
// its input and is invariant under reordering.
//
// Page counts from unknown or blank printer names still land in TotalPages
// but are excluded from the per-printer subtotals.
func Summarize(entries []Entry) Summary {
	s := Summary{PagesByPrinter: make(map[string]int64, len(PrinterOptions))}
	for _, p := range PrinterOptions {
		s.PagesByPrinter[p] = 0
	}

	for _, e := range entries {
		if e.Type == CashIn {
			s.TotalIn += e.Amount
		} else {
			s.TotalOut += e.Amount
		}

		s.TotalPages += e.Pages
		if ValidPrinterName(e.PrinterName) {
			s.PagesByPrinter[e.PrinterName] += e.Pages
		}

		s.TotalDue += e.EffectiveDueAmount()
	}

	s.Balance = s.TotalIn - s.TotalOut
	return s
}
