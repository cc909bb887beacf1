package cache

import (
	"context"

	"github.com/goliatone/go-finance-cache/internal/cacheinfra"
)

var _ QueryCache = (*queryCache)(nil)

// queryCache adapts the string keyed store to structural keys.
type queryCache struct {
	store *cacheinfra.Store
	keys  registry
}

func (q *queryCache) GetQueryData(key Key) (any, bool) {
	return q.store.Get(key.String())
}

func (q *queryCache) SetQueryData(key Key, value any) {
	q.keys.track(key)
	q.store.Set(key.String(), value)
}

func (q *queryCache) Update(key Key, fn UpdateFn) {
	q.keys.track(key)
	q.store.Update(key.String(), fn)
}

func (q *queryCache) InvalidateQueries(key Key) {
	q.store.Invalidate(key.String())
}

func (q *queryCache) RemoveQueries(key Key) {
	q.store.Remove(key.String())
}

func (q *queryCache) Fetch(ctx context.Context, key Key, fn QueryFn) (any, error) {
	q.keys.track(key)
	return q.store.Fetch(ctx, key.String(), cacheinfra.RefetchFn(fn))
}

func (q *queryCache) IsStale(key Key) bool {
	return q.store.IsStale(key.String())
}

func (q *queryCache) Keys() []Key {
	stored := q.store.Keys()
	out := make([]Key, 0, len(stored))
	for _, s := range stored {
		if k, ok := q.keys.lookup(s); ok {
			out = append(out, k)
		}
	}
	return out
}

func (q *queryCache) Wait() {
	q.store.Wait()
}

func (q *queryCache) Close() error {
	return q.store.Close()
}
