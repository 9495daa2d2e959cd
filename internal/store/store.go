// Package store defines the Record Store contract shared by the Mongo and
// in-memory backends: one collection per entity kind, server-generated ids,
// schema checks enforced at write time.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ErrNotFound is returned for reads, updates and deletes addressing an id
// that is not in the collection. Handlers map it to HTTP 404.
var ErrNotFound = errors.New("record not found")

// Record is implemented by every persisted entity.
type Record interface {
	RecordID() string
	SetRecordID(id string) error
	// Defaults normalises optional fields (nil slices become empty) so the
	// persisted document always carries the declared shape.
	Defaults()
	// Validate runs the write-time schema check. It returns a
	// *domain.ValidationError on failure.
	Validate() error
	// Touch stamps createdAt (first write only) and updatedAt.
	Touch(now time.Time)
}

// Filter is an equality match on top-level document fields, e.g.
// {"section": "rf"}. A nil or empty filter matches every document.
type Filter map[string]string

// Matches reports whether the document's top-level fields carry the filtered
// values.
func (f Filter) Matches(doc map[string]any) bool {
	for k, want := range f {
		got, ok := doc[k].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Collection is the per-entity Record Store contract. Update applies a
// top-level field merge, re-runs validation and returns the post-update
// state. There are no transactions and no uniqueness constraints beyond the
// generated id.
type Collection[T Record] interface {
	Insert(ctx context.Context, rec T) (T, error)
	List(ctx context.Context, filter Filter) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, id string, patch map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// FromMap decodes a raw request body into a typed record. Unknown fields are
// silently dropped; client-supplied ids are ignored so ids stay
// server-generated (repeated creates make duplicates, never conflicts).
func FromMap[T Record](m map[string]any) (T, error) {
	rec := NewRecord[T]()
	clean := make(map[string]any, len(m))
	for k, v := range m {
		if k == "id" || k == "_id" {
			continue
		}
		clean[k] = v
	}
	if err := reencode(clean, rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// ApplyPatch merges the patch's top-level fields onto rec and returns the
// merged record. Nested objects are replaced wholesale, matching a
// top-level $set. Ids in the patch are ignored.
func ApplyPatch[T Record](rec T, patch map[string]any) (T, error) {
	var zero T
	existing, err := ToMap(rec)
	if err != nil {
		return zero, err
	}
	for k, v := range patch {
		if k == "id" || k == "_id" {
			continue
		}
		existing[k] = v
	}
	merged := NewRecord[T]()
	if err := reencode(existing, merged); err != nil {
		return zero, err
	}
	if id := rec.RecordID(); id != "" {
		if err := merged.SetRecordID(id); err != nil {
			return zero, err
		}
	}
	return merged, nil
}

// ToMap flattens a record into its JSON field representation.
func ToMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	m := make(map[string]any)
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return m, nil
}

// Clone deep-copies a record via its JSON representation. The memory backend
// uses it so callers never share storage with the store.
func Clone[T Record](rec T) (T, error) {
	out := NewRecord[T]()
	if err := reencode(rec, out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func reencode(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// NewRecord allocates the struct behind the pointer type T.
func NewRecord[T Record]() T {
	var zero T
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T)
}
