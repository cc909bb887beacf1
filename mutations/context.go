package mutations

import (
	"context"

	"github.com/goliatone/go-finance-cache/cache"
)

type invalidationContextKey struct{}

// WithInvalidation attaches extra keys to invalidate after the next
// successful mutation run with ctx, on top of the entity's own keys.
func WithInvalidation(ctx context.Context, keys ...cache.Key) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(keys) == 0 {
		return ctx
	}

	combined := dedupeKeys(append(invalidationsFromContext(ctx), keys...))
	if len(combined) == 0 {
		return ctx
	}
	return context.WithValue(ctx, invalidationContextKey{}, combined)
}

func invalidationsFromContext(ctx context.Context) []cache.Key {
	if ctx == nil {
		return nil
	}
	if keys, ok := ctx.Value(invalidationContextKey{}).([]cache.Key); ok {
		return append([]cache.Key(nil), keys...)
	}
	return nil
}

func dedupeKeys(keys []cache.Key) []cache.Key {
	seen := make(map[string]struct{}, len(keys))
	out := make([]cache.Key, 0, len(keys))
	for _, key := range keys {
		if len(key) == 0 {
			continue
		}
		s := key.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, key)
	}
	return out
}
