// Package memory is an in-process Record Store backend. It mirrors the Mongo
// backend's write-time behavior (defaults, validation, generated ids,
// timestamps) and is what the handler and client tests run against.
package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stpi-ops/portal/internal/store"
)

// Collection is a mutex-guarded, insertion-ordered document collection.
// Records are deep-copied on the way in and out.
type Collection[T store.Record] struct {
	mu   sync.RWMutex
	recs []T
	now  func() time.Time
}

func New[T store.Record]() *Collection[T] {
	return &Collection[T]{now: time.Now}
}

// NewWithClock pins the timestamp source. Intended for tests.
func NewWithClock[T store.Record](now func() time.Time) *Collection[T] {
	return &Collection[T]{now: now}
}

func (c *Collection[T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	stored, err := store.Clone(rec)
	if err != nil {
		return zero, err
	}
	stored.Defaults()
	if err := stored.Validate(); err != nil {
		return zero, err
	}
	if err := stored.SetRecordID(primitive.NewObjectID().Hex()); err != nil {
		return zero, err
	}
	stored.Touch(c.now())

	c.mu.Lock()
	c.recs = append(c.recs, stored)
	c.mu.Unlock()

	return store.Clone(stored)
}

func (c *Collection[T]) List(ctx context.Context, filter store.Filter) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.recs))
	for _, rec := range c.recs {
		doc, err := store.ToMap(rec)
		if err != nil {
			return nil, err
		}
		if !filter.Matches(doc) {
			continue
		}
		cp, err := store.Clone(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, rec := range c.recs {
		if rec.RecordID() == id {
			return store.Clone(rec)
		}
	}
	var zero T
	return zero, store.ErrNotFound
}

func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rec := range c.recs {
		if rec.RecordID() != id {
			continue
		}
		merged, err := store.ApplyPatch(rec, patch)
		if err != nil {
			return zero, err
		}
		merged.Defaults()
		if err := merged.Validate(); err != nil {
			return zero, err
		}
		merged.Touch(c.now())
		c.recs[i] = merged
		return store.Clone(merged)
	}
	return zero, store.ErrNotFound
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rec := range c.recs {
		if rec.RecordID() == id {
			c.recs = append(c.recs[:i], c.recs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
