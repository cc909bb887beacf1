// Package cache provides the keyed query cache that finance views read from
// and that the cache update strategies patch after server mutations.
//
// # Overview
//
// This package exports:
//
//   - Key: an ordered, immutable sequence of primitive tokens. Keys compare
//     structurally, so ["transaction", "chase_brian"] built twice addresses
//     the same partition.
//   - QueryCache: get, set, read-modify-write, invalidate, remove and
//     read-through fetch over structural keys.
//   - KeySerializer: turns a Key into the flat string used by the store.
//
// # Basic Usage
//
//	qc, err := cache.NewQueryCache(cache.DefaultConfig(), logger)
//	payments, err := cache.FetchQuery(ctx, qc, querykeys.Payments(), func(ctx context.Context) ([]finance.Payment, error) {
//		return client.Payments(ctx)
//	})
//
// # Invalidation and Removal
//
// InvalidateQueries and RemoveQueries match the given key and every deeper key
// that starts with it. Invalidation keeps the stored value but marks it stale;
// the next Fetch reloads it, and every key that was read through Fetch is
// refetched in the background right away. Removal drops the partition and its
// observer, so the partition reads as absent until the next fetch.
//
// # Key Serialization Strategy
//
//   - String tokens are written as is, with ':' and '\' escaped
//   - Integers of any width share the "i:" tag, so 1 and int64(1) are equal
//   - Booleans and floats carry "b:" and "f:" tags
//   - Anything else falls back to escaped JSON
//
// Escaping guarantees that a separator only ever appears between tokens, which
// keeps prefix matching on serialized keys exact.
//
// # Expiry
//
// Partitions untouched for longer than Config.TTL are evicted by sturdyc and
// read as absent afterwards, the same as a partition that was never fetched.
package cache
