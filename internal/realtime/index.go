package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// Reduce folds one event into rows. Inserts go to the front, updates replace the
// row in place (or insert it when unseen) and deletes drop it. Events whose row
// cannot be decoded leave rows untouched.
func Reduce[T any](rows []T, evt Event, key func(T) uuid.UUID) []T {
	pos := -1
	for i, row := range rows {
		if key(row) == evt.Key {
			pos = i
			break
		}
	}

	switch evt.Kind {
	case enums.ChangeDelete:
		if pos < 0 {
			return rows
		}
		out := make([]T, 0, len(rows)-1)
		out = append(out, rows[:pos]...)
		return append(out, rows[pos+1:]...)
	case enums.ChangeInsert, enums.ChangeUpdate:
		row, err := Decode[T](evt)
		if err != nil {
			return rows
		}
		if pos >= 0 {
			out := append([]T(nil), rows...)
			out[pos] = row
			return out
		}
		out := make([]T, 0, len(rows)+1)
		out = append(out, row)
		return append(out, rows...)
	default:
		return rows
	}
}

// Index is a concurrency-safe local mirror of one collection kept current by
// applying change events.
type Index[T any] struct {
	mu         sync.RWMutex
	collection enums.Collection
	key        func(T) uuid.UUID
	keep       func(T) bool
	rows       []T
}

// NewIndex builds an empty mirror. keep, when set, evicts rows that no longer
// belong in the view after an update.
func NewIndex[T any](collection enums.Collection, key func(T) uuid.UUID, keep func(T) bool) *Index[T] {
	return &Index[T]{collection: collection, key: key, keep: keep}
}

// Seed replaces the mirror contents with an initial fetch.
func (i *Index[T]) Seed(rows []T) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.rows = i.filter(append([]T(nil), rows...))
}

// Apply folds evt into the mirror when it targets this collection.
func (i *Index[T]) Apply(evt Event) {
	if evt.Collection != i.collection {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.rows = i.filter(Reduce(i.rows, evt, i.key))
}

// Snapshot returns a copy of the current rows.
func (i *Index[T]) Snapshot() []T {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]T(nil), i.rows...)
}

// Len returns the number of mirrored rows.
func (i *Index[T]) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.rows)
}

// Follow applies events from sub until ctx ends or the subscription closes.
func (i *Index[T]) Follow(ctx context.Context, sub *Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub.C:
			if !ok {
				return
			}
			i.Apply(evt)
		}
	}
}

func (i *Index[T]) filter(rows []T) []T {
	if i.keep == nil {
		return rows
	}
	out := rows[:0]
	for _, row := range rows {
		if i.keep(row) {
			out = append(out, row)
		}
	}
	return out
}
