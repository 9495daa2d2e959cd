// Package cache is a server-side read-through cache for list responses.
// Entries are keyed per collection and filter and dropped wholesale for a
// collection on every mutation, so a list read after a write always reflects
// store state. Caching is optional: a nil *Lists disables it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stpi-ops/portal/internal/store"
)

// DefaultListTTL bounds staleness for lists written by other deployments
// sharing the same database.
const DefaultListTTL = 5 * time.Minute

const keyPrefix = "cache:list:"

// Lists caches JSON-encoded list responses in Redis.
type Lists struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLists(client *redis.Client, ttl time.Duration) *Lists {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &Lists{client: client, ttl: ttl}
}

// ListKey builds a deterministic cache key for a collection and filter, e.g.
// "cache:list:customers:section=rf".
func ListKey(collection string, filter store.Filter) string {
	if len(filter) == 0 {
		return keyPrefix + collection + ":all"
	}
	parts := make([]string, 0, len(filter))
	for k, v := range filter {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return keyPrefix + collection + ":" + strings.Join(parts, ",")
}

// Get returns the cached payload for the key, or false on a miss. Redis
// errors count as misses; the caller falls through to the store.
func (l *Lists) Get(ctx context.Context, collection string, filter store.Filter) ([]byte, bool) {
	if l == nil || l.client == nil {
		return nil, false
	}
	data, err := l.client.Get(ctx, ListKey(collection, filter)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores a list payload. Best effort.
func (l *Lists) Put(ctx context.Context, collection string, filter store.Filter, payload []byte) {
	if l == nil || l.client == nil {
		return
	}
	_ = l.client.Set(ctx, ListKey(collection, filter), payload, l.ttl).Err()
}

// Invalidate drops every cached list for the collection. Called after each
// create, update or delete.
func (l *Lists) Invalidate(ctx context.Context, collection string) error {
	if l == nil || l.client == nil {
		return nil
	}
	iter := l.client.Scan(ctx, 0, keyPrefix+collection+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to invalidate %s lists: %w", collection, err)
	}
	return nil
}

// Ping reports whether the cache backend is reachable.
func (l *Lists) Ping(ctx context.Context) error {
	if l == nil || l.client == nil {
		return errors.New("cache disabled")
	}
	return l.client.Ping(ctx).Err()
}
