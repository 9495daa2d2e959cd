package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stpi-ops/portal/internal/cache"
	"github.com/stpi-ops/portal/internal/domain"
	"github.com/stpi-ops/portal/internal/httpserver/deps"
	"github.com/stpi-ops/portal/internal/logger"
	"github.com/stpi-ops/portal/internal/store"
)

// Resource bundles the CRUD handler set for one entity kind behind one route
// family. Override carries the route's fixed discriminator (nil for the
// un-discriminated co-location resource); it is forced onto every create and
// update body, so the route always wins over client-supplied values, and it
// doubles as the list filter.
type Resource[T store.Record] struct {
	Log        logger.Logger
	Coll       store.Collection[T]
	Cache      *cache.Lists
	Collection string       // cache scope, e.g. domain.CollectionCustomers
	Override   store.Filter // discriminator forced on writes, nil for none
	Label      string       // "Customer" | "Unit" | "Co Location", used in messages
}

// NewCustomerResource wires the shared customers collection for one section.
func NewCustomerResource(d deps.Deps, section domain.Section) Resource[*domain.Customer] {
	return Resource[*domain.Customer]{
		Log:        d.Logger,
		Coll:       d.Customers,
		Cache:      d.ListCache,
		Collection: domain.CollectionCustomers,
		Override:   store.Filter{"section": string(section)},
		Label:      "Customer",
	}
}

func NewUnitResource(d deps.Deps, unitType domain.UnitType) Resource[*domain.Unit] {
	return Resource[*domain.Unit]{
		Log:        d.Logger,
		Coll:       d.Units,
		Cache:      d.ListCache,
		Collection: domain.CollectionUnits,
		Override:   store.Filter{"type": string(unitType)},
		Label:      "Unit",
	}
}

func NewCoLocationResource(d deps.Deps) Resource[*domain.CoLocation] {
	return Resource[*domain.CoLocation]{
		Log:        d.Logger,
		Coll:       d.CoLocations,
		Cache:      d.ListCache,
		Collection: domain.CollectionCoLocations,
		Label:      "Co Location",
	}
}

// List returns the filtered collection as a JSON array, never null. Reads go
// through the list cache when one is configured.
func (rs Resource[T]) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if payload, ok := rs.Cache.Get(ctx, rs.Collection, rs.Override); ok {
			writeRaw(w, http.StatusOK, payload)
			return
		}

		recs, err := rs.Coll.List(ctx, rs.Override)
		if err != nil {
			rs.Log.Error("list failed",
				logger.String("collection", rs.Collection),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		payload, err := json.Marshal(recs)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rs.Cache.Put(ctx, rs.Collection, rs.Override, payload)
		writeRaw(w, http.StatusOK, payload)
	}
}

// Create inserts a new document built from the request body. The route's
// discriminator overwrites whatever the client sent. Responds 201 with the
// persisted document, 400 on a schema failure.
func (rs Resource[T]) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, ok := rs.decodeBody(w, r)
		if !ok {
			return
		}

		rec, err := store.FromMap[T](body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := rs.Coll.Insert(ctx, rec)
		if err != nil {
			rs.respondWriteError(w, err)
			return
		}

		rs.invalidate(ctx)
		writeJSON(w, http.StatusCreated, created)
	}
}

// Update patches the document by id, re-forcing the discriminator, and
// returns the post-update state. 404 when the id is unknown, 400 on a schema
// failure.
func (rs Resource[T]) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")

		body, ok := rs.decodeBody(w, r)
		if !ok {
			return
		}

		updated, err := rs.Coll.Update(ctx, id, body)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, rs.Label+" not found")
			return
		}
		if err != nil {
			rs.respondWriteError(w, err)
			return
		}

		rs.invalidate(ctx)
		writeJSON(w, http.StatusOK, updated)
	}
}

// Delete removes the document by id. Deleting the same id twice yields 200
// then 404.
func (rs Resource[T]) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")

		err := rs.Coll.Delete(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, rs.Label+" not found")
			return
		}
		if err != nil {
			rs.Log.Error("delete failed",
				logger.String("collection", rs.Collection),
				logger.String("id", id),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		rs.invalidate(ctx)
		writeJSON(w, http.StatusOK, messageResponse{Message: rs.Label + " deleted successfully"})
	}
}

// Get returns a single document by id. Only the co-location routes expose it.
func (rs Resource[T]) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, err := rs.Coll.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, rs.Label+" not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// decodeBody reads the JSON request body and applies the discriminator
// override. Reports a 400 itself when the body is unreadable.
func (rs Resource[T]) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body := make(map[string]any)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return nil, false
	}
	for k, v := range rs.Override {
		body[k] = v
	}
	return body, true
}

// respondWriteError maps a failed insert/update onto status codes: schema
// failures are 400, everything else is an unexpected store error.
func (rs Resource[T]) respondWriteError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	rs.Log.Error("write failed",
		logger.String("collection", rs.Collection),
		logger.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (rs Resource[T]) invalidate(ctx context.Context) {
	if err := rs.Cache.Invalidate(ctx, rs.Collection); err != nil {
		rs.Log.Warn("list cache invalidation failed",
			logger.String("collection", rs.Collection),
			logger.Error(err))
	}
}
