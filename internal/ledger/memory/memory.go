// Package memory is an in-process ledger.Store used by tests and the demo
// backend. It mirrors the snapshot contract of the durable store: every
// mutation pushes a complete copy of the collection to all watchers.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	items    []core.Entry
	watchers map[int]chan []core.Entry
	nextID   int
	now      func() time.Time
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		watchers: make(map[int]chan []core.Entry),
		now:      time.Now,
	}
}

func (s *Store) Create(_ context.Context, payload core.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload.ID = uuid.NewString()
	payload.CreatedAt = s.now()
	s.items = append(s.items, payload)
	s.broadcastLocked()
	return payload.ID, nil
}

func (s *Store) Update(_ context.Context, id string, payload core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.items {
		if e.ID != id {
			continue
		}
		// Identity and creation stamps survive every edit.
		payload.ID = e.ID
		payload.Date = e.Date
		payload.Time = e.Time
		payload.CreatedAt = e.CreatedAt
		payload.UpdatedAt = s.now()
		s.items[i] = payload
		s.broadcastLocked()
		return nil
	}
	return fmt.Errorf("update entry: no entry with id %s", id)
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.broadcastLocked()
			return nil
		}
	}
	return fmt.Errorf("delete entry: no entry with id %s", id)
}

// Watch registers a watcher and immediately delivers the current snapshot.
func (s *Store) Watch(ctx context.Context) (<-chan []core.Entry, error) {
	s.mu.Lock()
	key := s.nextID
	s.nextID++
	ch := make(chan []core.Entry, 1)
	s.watchers[key] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, key)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

func (s *Store) snapshotLocked() []core.Entry {
	return append([]core.Entry(nil), s.items...)
}

func (s *Store) broadcastLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.watchers {
		// Watchers keep only the latest snapshot; a stale one is replaced
		// rather than blocking the writer.
		select {
		case ch <- snap:
		default:
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
