package memory

import (
	"context"
	"sync"

	"cashbook/internal/report"
)

// Writer is an in-memory ReportWriter used in development and tests. It keeps
// every report it receives.
type Writer struct {
	mu      sync.Mutex
	reports []report.Report
}

func New() *Writer { return &Writer{} }

func (w *Writer) WriteReport(_ context.Context, r report.Report) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, r)
	return nil
}

// Reports returns a copy of everything written so far.
func (w *Writer) Reports() []report.Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]report.Report(nil), w.reports...)
}
