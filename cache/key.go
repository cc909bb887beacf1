package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

var keySerializer = NewDefaultKeySerializer()

// Key is an ordered sequence of primitive tokens addressing one cache
// partition. Keys are compared structurally; treat them as immutable.
type Key []any

// NewKey copies tokens into a new Key.
func NewKey(tokens ...any) Key {
	return append(Key(nil), tokens...)
}

// Append returns a new key extended with tokens. The receiver is not modified.
func (k Key) Append(tokens ...any) Key {
	out := make(Key, 0, len(k)+len(tokens))
	out = append(out, k...)
	return append(out, tokens...)
}

// Scope returns the first token, the entity or aggregate type of the key.
func (k Key) Scope() string {
	if len(k) == 0 {
		return ""
	}
	if s, ok := k[0].(string); ok {
		return s
	}
	return fmt.Sprint(k[0])
}

// String returns the serialized form used by the backing store.
func (k Key) String() string {
	if len(k) == 0 {
		return ""
	}
	return keySerializer.SerializeKey(k.Scope(), k[1:]...)
}

// Hash returns a stable fingerprint of the key.
func (k Key) Hash() uint64 {
	return xxhash.Sum64String(k.String())
}

// Equal reports whether both keys hold the same tokens in the same order.
// Integer tokens compare by value regardless of their concrete width.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	return k.String() == other.String()
}

// HasPrefix reports whether the leading tokens of k equal prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return k[:len(prefix)].Equal(prefix)
}
