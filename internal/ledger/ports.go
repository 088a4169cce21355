// Package ledger defines the collaborator contracts at the engine boundary.
package ledger

import (
	"context"

	"cashbook/internal/core"
)

type (
	// Store is the persistence collaborator. Every mutation eventually results
	// in a fresh, complete snapshot on the Watch channel; the engine replaces
	// its working set wholesale and never merges deltas. Mutations are
	// fire-and-forget from the engine's perspective: errors are surfaced, not
	// retried, and the visible set only changes on the next snapshot.
	Store interface {
		Create(ctx context.Context, payload core.Entry) (id string, err error)
		Update(ctx context.Context, id string, payload core.Entry) error
		Delete(ctx context.Context, id string) error
		// Watch emits the full entry set on every change, starting with the
		// current contents. The channel closes when ctx is done.
		Watch(ctx context.Context) (<-chan []core.Entry, error)
	}

	// EntryContext is what the suggestion collaborator gets to reason about:
	// the in-progress form fields, never the whole ledger.
	EntryContext struct {
		Type    core.EntryType
		Contact string
		Remark  string
		Amount  string
	}

	// Suggestion carries optional pre-fill values. Either field may be empty;
	// callers must check enum membership before applying.
	Suggestion struct {
		Category    string `json:"suggestedCategory"`
		PaymentMode string `json:"suggestedPaymentMode"`
	}

	// Suggester is the optional, non-critical suggestion collaborator. It owns
	// its retry policy; a nil result with a nil error means it gave up.
	Suggester interface {
		Suggest(ctx context.Context, ec EntryContext) (*Suggestion, error)
	}
)
