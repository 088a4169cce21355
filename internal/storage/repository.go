// Package storage is the durable ledger.Store on SQLite. Each repository is
// scoped to one user's collection; every mutation re-reads the collection and
// pushes it to all watchers as a complete snapshot.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

type EntryRepository struct {
	db     *sql.DB
	userID string

	mu       sync.Mutex
	watchers map[int]chan []core.Entry
	nextKey  int
}

var _ ledger.Store = (*EntryRepository)(nil)

func NewEntryRepository(dbPath, userID string) (*EntryRepository, error) {
	if userID == "" {
		return nil, fmt.Errorf("open entry repository: user id is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &EntryRepository{
		db:       db,
		userID:   userID,
		watchers: make(map[int]chan []core.Entry),
	}, nil
}

func (r *EntryRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *EntryRepository) Create(ctx context.Context, payload core.Entry) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (
			id, user_id, type, amount, category, payment_mode,
			is_due, due_amount, contact, remark, printer_name, pages,
			entry_date, entry_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.userID, string(payload.Type), payload.Amount, payload.Category, payload.PaymentMode,
		payload.IsDue, payload.DueAmount, payload.Contact, payload.Remark, payload.PrinterName, payload.Pages,
		payload.Date, payload.Time, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", id,
		"type", payload.Type,
		"amount", payload.Amount,
		"category", payload.Category)

	r.notify(ctx)
	return id, nil
}

// Update replaces every editable field. The creation stamps (entry_date,
// entry_time, created_at) are deliberately absent from the SET list.
func (r *EntryRepository) Update(ctx context.Context, id string, payload core.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE entries SET
			type = ?, amount = ?, category = ?, payment_mode = ?,
			is_due = ?, due_amount = ?, contact = ?, remark = ?,
			printer_name = ?, pages = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		string(payload.Type), payload.Amount, payload.Category, payload.PaymentMode,
		payload.IsDue, payload.DueAmount, payload.Contact, payload.Remark,
		payload.PrinterName, payload.Pages, time.Now().UTC(),
		id, r.userID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update entry: no entry with id %s", id)
	}

	slog.InfoContext(ctx, "Entry updated", "id", id)
	r.notify(ctx)
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id = ? AND user_id = ?`, id, r.userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete entry: no entry with id %s", id)
	}

	slog.InfoContext(ctx, "Entry deleted", "id", id)
	r.notify(ctx)
	return nil
}

// List reads the user's complete collection. Order is unspecified: callers
// apply the ordering policy themselves, as they do for every snapshot.
func (r *EntryRepository) List(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount, category, payment_mode,
			is_due, due_amount, contact, remark, printer_name, pages,
			entry_date, entry_time, created_at, updated_at
		FROM entries WHERE user_id = ?`, r.userID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		var (
			e         core.Entry
			typ       string
			updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&e.ID, &typ, &e.Amount, &e.Category, &e.PaymentMode,
			&e.IsDue, &e.DueAmount, &e.Contact, &e.Remark, &e.PrinterName, &e.Pages,
			&e.Date, &e.Time, &e.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Type = core.EntryType(typ)
		if updatedAt.Valid {
			e.UpdatedAt = updatedAt.Time
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Watch registers a snapshot subscription and immediately delivers the
// current collection.
func (r *EntryRepository) Watch(ctx context.Context) (<-chan []core.Entry, error) {
	initial, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}

	r.mu.Lock()
	key := r.nextKey
	r.nextKey++
	ch := make(chan []core.Entry, 1)
	r.watchers[key] = ch
	// Deliver the initial snapshot before releasing the lock so a concurrent
	// notify cannot fill the buffer first and leave this send stuck.
	ch <- initial
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		delete(r.watchers, key)
		close(ch)
		r.mu.Unlock()
	}()

	return ch, nil
}

// notify re-reads the collection and pushes it to every watcher. A failed
// re-read is logged and skipped: watchers keep their last known-good
// snapshot rather than receiving a partial one.
func (r *EntryRepository) notify(ctx context.Context) {
	snap, err := r.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read snapshot after change", "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.watchers {
		select {
		case ch <- snap:
		default:
			// Drop the stale buffered snapshot, keep only the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
