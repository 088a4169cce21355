// Package cashbook wires the pure core engine to the collaborator ports: it
// owns the form buffer, the edit/create reconciliation state machine and the
// derived view over the latest snapshot.
package cashbook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"cashbook/internal/amqp"
	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

// ChangePublisher announces committed mutations to out-of-process consumers.
// Publishing is fire-and-forget: a failed announcement is logged, never
// surfaced, and never rolls back the mutation.
type ChangePublisher interface {
	PublishEntryChange(ctx context.Context, id string, kind amqp.ChangeKind, userID string) error
}

// Session is the engine for one user's ledger view. It is a function of
// (latest snapshot, filter state, form buffer): mutations go out through the
// store and come back only as the next snapshot, never as local edits to the
// working set. The form buffer has a single logical writer; the derived
// snapshot state is additionally read from other goroutines while Run is
// consuming the subscription, so it sits behind mu.
type Session struct {
	store     ledger.Store
	suggester ledger.Suggester
	events    ChangePublisher
	userID    string
	now       func() time.Time

	form      core.FormInput
	editingID string // empty while idle

	mu      sync.RWMutex
	filter  core.Filter
	entries []core.Entry
	summary core.Summary
	visible []core.Entry
}

type Option func(*Session)

// WithSuggester attaches the optional suggestion collaborator.
func WithSuggester(s ledger.Suggester) Option {
	return func(sess *Session) { sess.suggester = s }
}

// WithClock overrides the creation-stamp clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(sess *Session) { sess.now = now }
}

// WithPublisher attaches the optional change-event publisher.
func WithPublisher(p ChangePublisher) Option {
	return func(sess *Session) { sess.events = p }
}

func NewSession(store ledger.Store, userID string, opts ...Option) *Session {
	s := &Session{
		store:   store,
		userID:  userID,
		now:     time.Now,
		form:    core.DefaultForm(),
		filter:  core.DefaultFilter(),
		summary: core.Summarize(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplySnapshot replaces the working set wholesale with the pushed snapshot,
// then re-derives order, totals and the visible subset.
func (s *Session) ApplySnapshot(entries []core.Entry) {
	set := append([]core.Entry(nil), entries...)
	core.SortNewestFirst(set)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = set
	s.summary = core.Summarize(set)
	s.visible = core.ApplyFilter(set, s.filter)
}

// Run consumes snapshots from the store subscription until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	snapshots, err := s.store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			s.ApplySnapshot(snap)
			slog.DebugContext(ctx, "Applied snapshot", "entries", len(snap))
		}
	}
}

// Visible returns the filtered view in display order.
func (s *Session) Visible() []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Entry(nil), s.visible...)
}

// Entries returns the full working set in display order.
func (s *Session) Entries() []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Entry(nil), s.entries...)
}

// Totals returns the dashboard summary over the full, unfiltered set.
func (s *Session) Totals() core.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

func (s *Session) Filter() core.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter replaces the filter state and re-derives the visible subset.
// Totals are untouched: they never depend on the filter.
func (s *Session) SetFilter(f core.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.visible = core.ApplyFilter(s.entries, f)
}

// ResetFilter restores the all-pass filter.
func (s *Session) ResetFilter() {
	s.SetFilter(core.DefaultFilter())
}

func (s *Session) Form() core.FormInput {
	return s.form
}

func (s *Session) SetForm(f core.FormInput) {
	s.form = f
}

// Editing reports the id under edit, if any.
func (s *Session) Editing() (string, bool) {
	return s.editingID, s.editingID != ""
}

// StartEdit loads the chosen entry's editable fields into the form buffer and
// moves to the editing state. Date and time are not loaded: they are not
// editable. An unknown printer name, or one left over on a cash-out entry,
// falls back to the first printer option.
func (s *Session) StartEdit(id string) error {
	s.mu.RLock()
	entries := s.entries // replaced wholesale, never mutated in place
	s.mu.RUnlock()
	for _, e := range entries {
		if e.ID != id {
			continue
		}
		printer := e.PrinterName
		if e.Type != core.CashIn || !core.ValidPrinterName(printer) {
			printer = core.PrinterOptions[0]
		}
		s.form = core.FormInput{
			Type:        e.Type,
			Amount:      e.AmountString(),
			Category:    e.Category,
			PaymentMode: e.PaymentMode,
			IsDue:       e.IsDue,
			DueAmount:   optionalCount(e.DueAmount),
			Contact:     e.Contact,
			PrinterName: printer,
			Pages:       optionalCount(e.Pages),
			Remark:      e.Remark,
		}
		s.editingID = id
		return nil
	}
	return fmt.Errorf("start edit: no entry with id %s", id)
}

// CancelEdit discards the buffer and restores the new-entry defaults.
func (s *Session) CancelEdit() {
	s.editingID = ""
	s.form = core.DefaultForm()
}

// Submit validates the form buffer and routes to create or update. The gates
// run in strict order and the first failure blocks the whole submission:
// nothing is partially saved and the session state is left untouched.
func (s *Session) Submit(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}

	payload, err := s.form.Normalize()
	if err != nil {
		return err
	}

	if s.editingID != "" {
		// Date and time are not resubmitted; the store keeps the originals.
		if err := s.store.Update(ctx, s.editingID, payload); err != nil {
			slog.ErrorContext(ctx, "Failed to update entry", "id", s.editingID, "error", err)
			return fmt.Errorf("update entry: %w", err)
		}
		slog.InfoContext(ctx, "Entry updated", "id", s.editingID)
		s.announce(ctx, s.editingID, amqp.ChangeUpdated)
		s.CancelEdit()
		return nil
	}

	payload.StampNow(s.now())
	id, err := s.store.Create(ctx, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create entry", "error", err)
		return fmt.Errorf("create entry: %w", err)
	}
	slog.InfoContext(ctx, "Entry created",
		"id", id,
		"type", payload.Type,
		"amount", payload.Amount)
	s.announce(ctx, id, amqp.ChangeCreated)
	s.form.ClearTransient()
	return nil
}

func (s *Session) announce(ctx context.Context, id string, kind amqp.ChangeKind) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEntryChange(ctx, id, kind, s.userID); err != nil {
		slog.WarnContext(ctx, "Failed to publish change event",
			"id", id,
			"kind", kind,
			"error", err)
	}
}

func (s *Session) validate() error {
	if s.userID == "" {
		return core.ErrNoUser
	}
	if strings.TrimSpace(s.form.Amount) == "" {
		return core.ErrAmountRequired
	}
	if s.form.Type == core.CashIn && strings.TrimSpace(s.form.Pages) == "" {
		return core.ErrPagesRequired
	}
	if s.form.IsDue && strings.TrimSpace(s.form.DueAmount) == "" {
		return core.ErrDueAmountRequired
	}
	return nil
}

// Delete removes an entry outright. The working set is unchanged until the
// next snapshot arrives.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete entry", "id", id, "error", err)
		return fmt.Errorf("delete entry: %w", err)
	}
	slog.InfoContext(ctx, "Entry deleted", "id", id)
	s.announce(ctx, id, amqp.ChangeDeleted)
	return nil
}

// Suggest asks the suggestion collaborator to pre-fill category and payment
// mode from the current buffer. It needs a contact or remark to reason
// about; failures and absent collaborators leave the buffer untouched.
func (s *Session) Suggest(ctx context.Context) error {
	if s.suggester == nil {
		return nil
	}
	if s.form.Contact == "" && s.form.Remark == "" {
		return fmt.Errorf("suggest: contact or remark required")
	}

	result, err := s.suggester.Suggest(ctx, ledger.EntryContext{
		Type:    s.form.Type,
		Contact: s.form.Contact,
		Remark:  s.form.Remark,
		Amount:  s.form.Amount,
	})
	if err != nil {
		slog.WarnContext(ctx, "Suggestion call failed", "error", err)
		return nil
	}
	s.ApplySuggestion(result)
	return nil
}

// ApplySuggestion applies each suggested value only when it is a member of
// the fixed option set; anything else is silently ignored.
func (s *Session) ApplySuggestion(result *ledger.Suggestion) {
	if result == nil {
		return
	}
	if core.ValidCategory(result.Category) {
		s.form.Category = result.Category
	}
	if core.ValidPaymentMode(result.PaymentMode) {
		s.form.PaymentMode = result.PaymentMode
	}
}

// optionalCount renders a count back into the form, where zero means the
// field was never filled in.
func optionalCount(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
