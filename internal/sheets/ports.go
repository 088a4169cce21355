package sheets

import (
	"context"

	"cashbook/internal/report"
)

// Ports for outbound adapters.
type (
	// ReportWriter publishes a rendered cashbook report to an external sheet.
	ReportWriter interface {
		WriteReport(ctx context.Context, r report.Report) error
	}
)
