package watch

import (
	"context"
	"log/slog"
	"sync"
)

// LoadFunc loads the full collection from storage.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// Store owns a live replica of one collection.
//
// It reloads on every hub notification and fans the new list out to
// subscribers. Reads never block on storage: Snapshot returns the
// last-known-good list, which is kept even when a reload fails.
type Store[T any] struct {
	hub        *Hub
	collection string
	load       LoadFunc[T]

	mu    sync.RWMutex
	items []T

	subMu  sync.Mutex
	subs   map[int]chan []T
	nextID int
}

func NewStore[T any](hub *Hub, collection string, load LoadFunc[T]) *Store[T] {
	return &Store[T]{
		hub:        hub,
		collection: collection,
		load:       load,
		subs:       make(map[int]chan []T),
	}
}

// Run loads the collection and then refreshes it on every hub
// notification until ctx is done. The hub watch is torn down on return.
func (s *Store[T]) Run(ctx context.Context) {
	s.refresh(ctx)

	ch, cancel := s.hub.Watch(s.collection)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			s.refresh(ctx)
		}
	}
}

// Snapshot returns a copy of the current list.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Subscribe registers a listener that receives the full list after each
// refresh. The returned cancel must be called on teardown.
func (s *Store[T]) Subscribe() (<-chan []T, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan []T, 1)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

func (s *Store[T]) refresh(ctx context.Context) {
	items, err := s.load(ctx)
	if err != nil {
		slog.Error("store reload failed", slog.String("collection", s.collection), slog.Any("err", err))
		return
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// Drop the stale pending list so subscribers always see the
		// latest snapshot next.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- items:
		default:
		}
	}
}
