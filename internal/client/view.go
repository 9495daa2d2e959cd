package client

import (
	"context"
	"errors"
	"fmt"
)

// State is the list-view lifecycle. A view starts idle, loads its list, then
// cycles between loaded and the two dialog states. A failed load moves to
// error but keeps the last-known records.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateLoaded     State = "loaded"
	StateError      State = "error"
	StateFormOpen   State = "form-open"
	StateDetailOpen State = "detail-open"
)

// ErrDeleteAborted reports a delete the confirm callback declined.
var ErrDeleteAborted = errors.New("delete aborted by user")

// ListView is the page-level controller for one resource: it owns the cached
// list and the dialog state. Every successful mutation triggers a full
// re-fetch instead of patching the list in place, so the view cannot drift
// from store state after its own writes.
//
// A ListView models one user's page and is not safe for concurrent use.
type ListView[T any] struct {
	res   Resource[T]
	getID func(T) string

	state   State
	records []T
	lastErr error
}

func NewListView[T any](res Resource[T], getID func(T) string) *ListView[T] {
	return &ListView[T]{
		res:   res,
		getID: getID,
		state: StateIdle,
	}
}

func (v *ListView[T]) State() State { return v.state }

// Records returns the last successfully fetched list.
func (v *ListView[T]) Records() []T { return v.records }

// Err returns the error that put the view into the error state.
func (v *ListView[T]) Err() error { return v.lastErr }

// Load fetches the list. On failure the previous records are kept so the
// page still shows the last-known data alongside the error notification.
func (v *ListView[T]) Load(ctx context.Context) error {
	v.state = StateLoading
	recs, err := v.res.List(ctx)
	if err != nil {
		v.state = StateError
		v.lastErr = err
		return err
	}
	v.records = recs
	v.state = StateLoaded
	v.lastErr = nil
	return nil
}

// OpenCreate opens the form dialog with an empty draft.
func (v *ListView[T]) OpenCreate() (*Draft, error) {
	if err := v.requireLoaded("open create form"); err != nil {
		return nil, err
	}
	v.state = StateFormOpen
	return NewDraft(nil), nil
}

// OpenEdit opens the form dialog seeded from the listed record.
func (v *ListView[T]) OpenEdit(id string) (*Draft, error) {
	if err := v.requireLoaded("open edit form"); err != nil {
		return nil, err
	}
	rec, ok := v.find(id)
	if !ok {
		return nil, fmt.Errorf("record %s is not in the loaded list", id)
	}
	draft, err := DraftOf(rec, id)
	if err != nil {
		return nil, err
	}
	v.state = StateFormOpen
	return draft, nil
}

// OpenDetail opens the read-only view dialog for a listed record.
func (v *ListView[T]) OpenDetail(id string) (T, error) {
	var zero T
	if err := v.requireLoaded("open detail view"); err != nil {
		return zero, err
	}
	rec, ok := v.find(id)
	if !ok {
		return zero, fmt.Errorf("record %s is not in the loaded list", id)
	}
	v.state = StateDetailOpen
	return rec, nil
}

// Close dismisses the open dialog and returns to the loaded list.
func (v *ListView[T]) Close() {
	if v.state == StateFormOpen || v.state == StateDetailOpen {
		v.state = StateLoaded
	}
}

// Submit sends the draft: create when the draft is new, update when it was
// seeded from a record. On success the dialog closes and the list is
// re-fetched; on failure the form stays open so the user can retry.
func (v *ListView[T]) Submit(ctx context.Context, draft *Draft) error {
	if v.state != StateFormOpen {
		return fmt.Errorf("cannot submit: view is %s, not %s", v.state, StateFormOpen)
	}

	var err error
	if id := draft.EditID(); id != "" {
		_, err = v.res.Update(ctx, id, draft.Values())
	} else {
		_, err = v.res.Create(ctx, draft.Values())
	}
	if err != nil {
		return err
	}

	v.state = StateLoaded
	return v.Load(ctx)
}

// Delete asks the confirm callback before issuing the DELETE, then
// re-fetches. An unconfirmed delete returns ErrDeleteAborted and leaves
// everything untouched.
func (v *ListView[T]) Delete(ctx context.Context, id string, confirm func() bool) error {
	if err := v.requireLoaded("delete"); err != nil {
		return err
	}
	if confirm == nil || !confirm() {
		return ErrDeleteAborted
	}
	if err := v.res.Delete(ctx, id); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *ListView[T]) requireLoaded(action string) error {
	if v.state != StateLoaded {
		return fmt.Errorf("cannot %s: view is %s, not %s", action, v.state, StateLoaded)
	}
	return nil
}

func (v *ListView[T]) find(id string) (T, bool) {
	for _, rec := range v.records {
		if v.getID(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}
