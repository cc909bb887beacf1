package strategies

import (
	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/finance"
)

// Position selects where AddToList places a new item.
type Position int

const (
	// Start prepends the item. It is the zero value.
	Start Position = iota
	// End appends the item.
	End
)

// AddToList places item at pos in the list stored at key. An absent list
// becomes a single item list. No deduplication is performed.
func AddToList[T any](c cache.QueryCache, key cache.Key, item T, pos Position) {
	c.Update(key, func(current any, exists bool) (any, bool) {
		list, ok := current.([]T)
		if !exists || !ok {
			return []T{item}, true
		}

		next := make([]T, 0, len(list)+1)
		if pos == End {
			next = append(next, list...)
			return append(next, item), true
		}
		next = append(next, item)
		return append(next, list...), true
	})
}

// UpdateInList replaces every entry of the list at key whose identity equals
// the identity of item. Entries that do not match are kept as they are. When
// no entry matches the stored list is left untouched. An absent list is
// invalidated instead, since there is nothing to patch.
func UpdateInList[T any, K comparable](c cache.QueryCache, key cache.Key, item T, id finance.Identity[T, K]) {
	ReplaceInList(c, key, item, item, id)
}

// ReplaceInList is UpdateInList for records whose identity changes, such as a
// renamed category: entries matching old are replaced in place by next.
func ReplaceInList[T any, K comparable](c cache.QueryCache, key cache.Key, old, next T, id finance.Identity[T, K]) {
	present := false
	want := id.Of(old)

	c.Update(key, func(current any, exists bool) (any, bool) {
		list, ok := current.([]T)
		if !exists || !ok {
			return nil, false
		}
		present = true

		matched := false
		replaced := make([]T, len(list))
		for i, existing := range list {
			if id.Of(existing) == want {
				replaced[i] = next
				matched = true
				continue
			}
			replaced[i] = existing
		}
		if !matched {
			return nil, false
		}
		return replaced, true
	})

	if !present {
		c.InvalidateQueries(key)
	}
}

// RemoveFromList drops every entry of the list at key whose identity equals
// the identity of item, keeping the relative order of the rest. Removing from
// an absent list, or removing an identity that is not there, does nothing.
func RemoveFromList[T any, K comparable](c cache.QueryCache, key cache.Key, item T, id finance.Identity[T, K]) {
	want := id.Of(item)

	c.Update(key, func(current any, exists bool) (any, bool) {
		list, ok := current.([]T)
		if !exists || !ok {
			return nil, false
		}

		next := make([]T, 0, len(list))
		for _, existing := range list {
			if id.Of(existing) != want {
				next = append(next, existing)
			}
		}
		if len(next) == len(list) {
			return nil, false
		}
		return next, true
	})
}

// InvalidateRelated marks each key stale, independently and unconditionally.
func InvalidateRelated(c cache.QueryCache, keys ...cache.Key) {
	for _, key := range keys {
		c.InvalidateQueries(key)
	}
}

// UpdateTotals stores fn(old) when an aggregate exists at key. fn receives
// the whole record and returns the whole replacement. When there is no
// aggregate the key is invalidated and fn is never called.
func UpdateTotals[T any](c cache.QueryCache, key cache.Key, fn func(T) T) {
	present := false

	c.Update(key, func(current any, exists bool) (any, bool) {
		old, ok := current.(T)
		if !exists || !ok {
			return nil, false
		}
		present = true
		return fn(old), true
	})

	if !present {
		c.InvalidateQueries(key)
	}
}

// ClearCaches removes every partition whose first token is one of prefixes,
// including deeper partitions such as ["transaction", "chase_brian"].
func ClearCaches(c cache.QueryCache, prefixes ...string) {
	for _, prefix := range prefixes {
		c.RemoveQueries(cache.NewKey(prefix))
	}
}
