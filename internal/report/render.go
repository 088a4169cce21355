package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"cashbook/internal/core"
)

const currency = "৳"

// Render writes the report as plain text: header, summary grid, row table.
func (r Report) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "CASHBOOK REPORT\nGenerated on: %s\n",
		r.GeneratedAt.Format("2006-01-02 15:04")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if r.FilterDesc != "" {
		if _, err := fmt.Fprintf(w, "Filters: %s\n", r.FilterDesc); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	fmt.Fprintln(w)

	r.renderSummary(w)
	fmt.Fprintln(w)
	r.renderRows(w)

	_, err := fmt.Fprintf(w, "\nPrinted from cashbook (%d entries shown)\n", len(r.Rows))
	return err
}

func (r Report) renderSummary(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Total Cash In", "Total Cash Out", "Net Balance", "Total Due", "Total Pages"})
	table.Append([]string{
		money(r.Totals.TotalIn),
		money(r.Totals.TotalOut),
		money(r.Totals.Balance),
		currency + " " + strconv.FormatInt(r.Totals.TotalDue, 10),
		strconv.FormatInt(r.Totals.TotalPages, 10),
	})
	table.Render()

	devices := tablewriter.NewWriter(w)
	devices.SetHeader([]string{"Printer", "Pages"})
	for _, name := range core.PrinterOptions {
		devices.Append([]string{name, strconv.FormatInt(r.Totals.PagesByPrinter[name], 10)})
	}
	devices.Render()
}

func (r Report) renderRows(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date/Time", "Printer", "Pages", "Category", "Status", "Due Amount", "Details", "Cash In", "Cash Out"})

	for _, e := range r.Rows {
		table.Append([]string{
			e.Date + " " + e.Time,
			orDash(e.PrinterName),
			strconv.FormatInt(e.Pages, 10),
			e.Category,
			status(e),
			dueAmount(e),
			details(e),
			amountFor(e, core.CashIn),
			amountFor(e, core.CashOut),
		})
	}
	table.Render()
}

func status(e core.Entry) string {
	if e.IsDue {
		return "Due"
	}
	return "Paid"
}

func dueAmount(e core.Entry) string {
	if e.IsDue && e.DueAmount > 0 {
		return currency + " " + strconv.FormatInt(e.DueAmount, 10)
	}
	return "-"
}

func details(e core.Entry) string {
	contact := e.Contact
	if contact == "" {
		contact = "N/A"
	}
	if e.Remark == "" {
		return contact
	}
	return contact + " / " + e.Remark
}

func amountFor(e core.Entry, t core.EntryType) string {
	if e.Type != t {
		return "-"
	}
	return currency + " " + e.AmountString()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func money(v float64) string {
	return currency + " " + strconv.FormatFloat(v, 'f', -1, 64)
}
