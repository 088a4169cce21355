// Package report assembles the printable summary: dashboard totals over the
// full ledger plus the filtered row list and a description of the active
// filter. It mandates no format of its own beyond a stable ordered sequence
// of rows and a totals struct; Render is one text rendering of it.
package report

import (
	"time"

	"cashbook/internal/core"
)

type Report struct {
	GeneratedAt time.Time
	FilterDesc  string
	Totals      core.Summary
	Rows        []core.Entry
}

// Build derives a report from a snapshot and the active filter. Totals cover
// the complete set; only the row list honors the filter. The input slice is
// left untouched.
func Build(entries []core.Entry, f core.Filter, now time.Time) Report {
	set := append([]core.Entry(nil), entries...)
	core.SortNewestFirst(set)

	return Report{
		GeneratedAt: now,
		FilterDesc:  f.Describe(),
		Totals:      core.Summarize(set),
		Rows:        core.ApplyFilter(set, f),
	}
}
