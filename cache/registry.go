package cache

import "github.com/puzpuzpuz/xsync/v3"

// registry remembers the structural key behind every serialized key written
// through the query cache, so Keys can report structural keys back.
type registry struct {
	entries *xsync.MapOf[string, Key]
}

func newRegistry() registry {
	return registry{entries: xsync.NewMapOf[string, Key]()}
}

func (r registry) track(key Key) {
	r.entries.LoadOrStore(key.String(), NewKey(key...))
}

func (r registry) lookup(serialized string) (Key, bool) {
	v, ok := r.entries.Load(serialized)
	if !ok {
		return nil, false
	}
	return NewKey(v...), true
}
