// Package worker regenerates the printable report whenever the ledger
// changes and pushes it to the configured sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cashbook/internal/amqp"
	"cashbook/internal/core"
	"cashbook/internal/report"
	"cashbook/internal/sheets"
)

// EntryLister is the slice of the storage layer the worker needs.
type EntryLister interface {
	List(ctx context.Context) ([]core.Entry, error)
}

// ReportWorker rebuilds the report from the full ledger and exports it.
// Change events only mark the ledger dirty; the actual export runs on a
// debounce timer so bursts of edits produce one export, with a periodic
// refresh as a backup for missed messages.
type ReportWorker struct {
	lister   EntryLister
	writer   sheets.ReportWriter
	userID   string
	debounce time.Duration
	interval time.Duration
	now      func() time.Time

	dirty chan struct{}
}

func NewReportWorker(lister EntryLister, writer sheets.ReportWriter, userID string, debounce, interval time.Duration) *ReportWorker {
	return &ReportWorker{
		lister:   lister,
		writer:   writer,
		userID:   userID,
		debounce: debounce,
		interval: interval,
		now:      time.Now,
		dirty:    make(chan struct{}, 1),
	}
}

// HandleChangeMessage processes a single entry change event. Events for
// other users are acknowledged and dropped.
func (w *ReportWorker) HandleChangeMessage(ctx context.Context, msg *amqp.EntryChangeMessage) error {
	if msg.UserID != w.userID {
		slog.DebugContext(ctx, "ignoring change event for other user",
			"id", msg.ID,
			"user_id", msg.UserID)
		return nil
	}

	slog.InfoContext(ctx, "entry change received",
		"id", msg.ID,
		"kind", msg.Kind)

	select {
	case w.dirty <- struct{}{}:
	default:
	}
	return nil
}

// Run drives the export loop until ctx is cancelled. An export runs once at
// startup, then after every change event (debounced), then at the periodic
// interval regardless.
func (w *ReportWorker) Run(ctx context.Context) error {
	if err := w.export(ctx); err != nil {
		slog.ErrorContext(ctx, "startup report export failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.dirty:
			if err := w.settle(ctx); err != nil {
				return err
			}
			if err := w.export(ctx); err != nil {
				slog.ErrorContext(ctx, "report export failed", "error", err)
			}
		case <-ticker.C:
			if err := w.export(ctx); err != nil {
				slog.ErrorContext(ctx, "periodic report export failed", "error", err)
			}
		}
	}
}

// settle waits out the debounce window, absorbing further change signals.
func (w *ReportWorker) settle(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.dirty:
			// keep waiting, another change just landed
		case <-timer.C:
			return nil
		}
	}
}

func (w *ReportWorker) export(ctx context.Context) error {
	entries, err := w.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	r := report.Build(entries, core.DefaultFilter(), w.now())
	if err := w.writer.WriteReport(ctx, r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	slog.InfoContext(ctx, "report exported",
		"entries", len(entries),
		"user_id", w.userID)
	return nil
}
