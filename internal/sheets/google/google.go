package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cashbook/internal/core"
	"cashbook/internal/report"
	ports "cashbook/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client writes cashbook reports into a Google Spreadsheet, one sheet per
// export, overwriting the previous content.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ ports.ReportWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Report").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Report"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteReport replaces the configured sheet's content with the report:
// a header block, the totals, per-printer page counts, then one row per
// visible entry.
func (c *Client) WriteReport(ctx context.Context, r report.Report) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:L", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	vr := &gsheet.ValueRange{Values: reportRows(r)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", c.sheetName), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write report to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "report exported to sheet",
		"sheet", c.sheetName,
		"rows", len(r.Rows))
	return nil
}

// reportRows flattens a report into spreadsheet rows.
func reportRows(r report.Report) [][]any {
	rows := [][]any{
		{"CASHBOOK REPORT"},
		{"Generated on", r.GeneratedAt.Format("2006-01-02 15:04")},
		{"Filters", r.FilterDesc},
		{},
		{"Cash In", r.Totals.TotalIn},
		{"Cash Out", r.Totals.TotalOut},
		{"Balance", r.Totals.Balance},
		{"Total Due", r.Totals.TotalDue},
		{"Total Pages", r.Totals.TotalPages},
	}
	for _, name := range core.PrinterOptions {
		rows = append(rows, []any{name + " Pages", r.Totals.PagesByPrinter[name]})
	}

	rows = append(rows, []any{},
		[]any{"Date", "Time", "Type", "Category", "Payment Mode", "Amount", "Status", "Due Amount", "Contact", "Remark", "Printer", "Pages"})
	for _, e := range r.Rows {
		status := "Paid"
		due := any("")
		if e.IsDue {
			status = "Due"
			due = e.EffectiveDueAmount()
		}
		pages := any("")
		if e.Type == core.CashIn {
			pages = e.Pages
		}
		rows = append(rows, []any{
			e.Date, e.Time, string(e.Type), e.Category, e.PaymentMode,
			e.Amount, status, due, e.Contact, e.Remark, e.PrinterName, pages,
		})
	}
	return rows
}
