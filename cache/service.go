package cache

import (
	"context"
	"errors"
)

// ErrInvalidResultType is returned by the typed helpers when a stored or
// fetched value does not have the requested type.
var ErrInvalidResultType = errors.New("cache: invalid result type")

// KeySerializer builds the store key for a scope token followed by args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(scope string, args ...any) string
}

// QueryFn loads the value of a partition from the source of truth.
type QueryFn func(ctx context.Context) (any, error)

// UpdateFn receives the current value of a partition and reports the value to
// store. Returning store=false leaves the partition untouched.
type UpdateFn func(current any, exists bool) (next any, store bool)

// QueryCache is the keyed store the cache update strategies operate on.
//
// InvalidateQueries and RemoveQueries match the given key and every deeper key
// that starts with it. Invalidation marks matching partitions stale and
// refetches, in the background, every matching key that has an observer.
type QueryCache interface {
	GetQueryData(key Key) (any, bool)
	SetQueryData(key Key, value any)
	Update(key Key, fn UpdateFn)
	InvalidateQueries(key Key)
	RemoveQueries(key Key)

	// Fetch returns fresh cached data for key, loading it through fn when the
	// partition is absent or stale. fn is kept as the observer for key.
	Fetch(ctx context.Context, key Key, fn QueryFn) (any, error)
	IsStale(key Key) bool
	Keys() []Key

	// Wait blocks until background refetches started so far have finished.
	Wait()
	Close() error
}

// GetQueryData is a type-safe wrapper over QueryCache.GetQueryData. A stored
// value of another type is reported as absent.
func GetQueryData[T any](c QueryCache, key Key) (T, bool) {
	var zero T
	raw, ok := c.GetQueryData(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// SetQueryData is a type-safe wrapper over QueryCache.SetQueryData.
func SetQueryData[T any](c QueryCache, key Key, value T) {
	c.SetQueryData(key, value)
}

// FetchQuery is a type-safe wrapper over QueryCache.Fetch.
func FetchQuery[T any](ctx context.Context, c QueryCache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	result, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	v, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return v, nil
}
