// Package mongo backs the Record Store contract with a MongoDB deployment.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/stpi-ops/portal/internal/store"
)

// Collection implements store.Collection for one Mongo collection.
type Collection[T store.Record] struct {
	coll *driver.Collection
	now  func() time.Time
}

func NewCollection[T store.Record](db *driver.Database, name string) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name), now: time.Now}
}

func (c *Collection[T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	rec.Defaults()
	if err := rec.Validate(); err != nil {
		return zero, err
	}
	// Ids are always server-generated; whatever the caller carried was
	// stripped at decode time.
	if err := rec.SetRecordID(primitive.NewObjectID().Hex()); err != nil {
		return zero, err
	}
	rec.Touch(c.now())

	if _, err := c.coll.InsertOne(ctx, rec); err != nil {
		return zero, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

func (c *Collection[T]) List(ctx context.Context, filter store.Filter) ([]T, error) {
	cur, err := c.coll.Find(ctx, toBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids address nothing, same as unknown ones.
		return zero, store.ErrNotFound
	}

	rec := store.NewRecord[T]()
	err = c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(rec)
	if errors.Is(err, driver.ErrNoDocuments) {
		return zero, store.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var zero T
	existing, err := c.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	merged, err := store.ApplyPatch(existing, patch)
	if err != nil {
		return zero, err
	}
	merged.Defaults()
	if err := merged.Validate(); err != nil {
		return zero, err
	}
	merged.Touch(c.now())

	oid, _ := primitive.ObjectIDFromHex(id)
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": oid}, merged)
	if err != nil {
		return zero, fmt.Errorf("update record: %w", err)
	}
	if res.MatchedCount == 0 {
		return zero, store.ErrNotFound
	}
	return merged, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toBSON(filter store.Filter) bson.M {
	m := bson.M{}
	for k, v := range filter {
		m[k] = v
	}
	return m
}
