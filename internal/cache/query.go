package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cached is the typed view of an Entry
type Cached[T any] struct {
	Data       T
	Status     Status
	Err        error
	UpdatedAt  time.Time
	Stale      bool
	IsFetching bool
}

// Query binds a key to a typed loader
type Query[T any] struct {
	store *Store
	key   Key
	load  func(ctx context.Context) (T, error)
}

// NewQuery creates a query for key on store
func NewQuery[T any](store *Store, key Key, load func(ctx context.Context) (T, error)) *Query[T] {
	return &Query[T]{store: store, key: key, load: load}
}

// Key returns the cache key of the query
func (q *Query[T]) Key() Key {
	return q.key
}

// Fetch returns cached data while fresh and loads it otherwise. On failure
// the previously cached data, if any, is returned next to the error.
func (q *Query[T]) Fetch(ctx context.Context) (Cached[T], error) {
	q.store.Hydrate(ctx, q.key, decodeJSON[T])

	e, err := q.store.Fetch(ctx, q.key, func(ctx context.Context) (interface{}, error) {
		return q.load(ctx)
	})
	return typed[T](e), err
}

// Peek returns the cached state without loading
func (q *Query[T]) Peek() Cached[T] {
	return typed[T](q.store.Peek(q.key))
}

// Invalidate marks the query stale
func (q *Query[T]) Invalidate() {
	q.store.Invalidate(q.key)
}

func typed[T any](e Entry) Cached[T] {
	out := Cached[T]{
		Status:     e.Status,
		Err:        e.Err,
		UpdatedAt:  e.UpdatedAt,
		Stale:      e.Stale,
		IsFetching: e.IsFetching,
	}
	if data, ok := e.Data.(T); ok {
		out.Data = data
	}
	return out
}

func decodeJSON[T any](raw []byte) (interface{}, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
