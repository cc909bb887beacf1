package testsupport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/cache"
)

// RecordingCache wraps a real query cache and records invalidations and
// removals so tests can assert on them.
type RecordingCache struct {
	cache.QueryCache
	mu          sync.Mutex
	invalidated []cache.Key
	removed     []cache.Key
}

// NewRecordingCache builds a RecordingCache over a default query cache that
// is closed when the test ends.
func NewRecordingCache(t *testing.T) *RecordingCache {
	t.Helper()
	qc, err := cache.NewQueryCache(cache.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewQueryCache() failed: %v", err)
	}
	t.Cleanup(func() { qc.Close() })
	return &RecordingCache{QueryCache: qc}
}

func (r *RecordingCache) InvalidateQueries(key cache.Key) {
	r.mu.Lock()
	r.invalidated = append(r.invalidated, key)
	r.mu.Unlock()
	r.QueryCache.InvalidateQueries(key)
}

func (r *RecordingCache) RemoveQueries(key cache.Key) {
	r.mu.Lock()
	r.removed = append(r.removed, key)
	r.mu.Unlock()
	r.QueryCache.RemoveQueries(key)
}

// Invalidated returns the keys passed to InvalidateQueries, in call order.
func (r *RecordingCache) Invalidated() []cache.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]cache.Key(nil), r.invalidated...)
}

// Removed returns the keys passed to RemoveQueries, in call order.
func (r *RecordingCache) Removed() []cache.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]cache.Key(nil), r.removed...)
}

// WasInvalidated reports whether key was passed to InvalidateQueries.
func (r *RecordingCache) WasInvalidated(key cache.Key) bool {
	for _, k := range r.Invalidated() {
		if k.Equal(key) {
			return true
		}
	}
	return false
}

// Call is one request seen by a Transport.
type Call struct {
	Method string
	Path   string
	Body   any
}

// Response is the canned answer for a route.
type Response struct {
	Status int
	Body   any
	Err    error
}

// Transport is an in-memory api.Transport. Routes are keyed by "METHOD path";
// unknown routes answer 404.
type Transport struct {
	mu     sync.Mutex
	routes map[string]Response
	calls  []Call
}

var _ api.Transport = (*Transport)(nil)

func NewTransport() *Transport {
	return &Transport{routes: make(map[string]Response)}
}

// Handle sets the response for method and path.
func (f *Transport) Handle(method, path string, resp Response) *Transport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = resp
	return f
}

// Do implements api.Transport. Bodies travel through JSON both ways, as they
// would over the wire.
func (f *Transport) Do(ctx context.Context, method, path string, body, out any) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: body})
	resp, ok := f.routes[method+" "+path]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !ok {
		return http.StatusNotFound, &api.Error{Status: http.StatusNotFound, StatusText: http.StatusText(http.StatusNotFound)}
	}
	if resp.Err != nil {
		return resp.Status, resp.Err
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 200 || status > 299 {
		return status, &api.Error{Status: status, StatusText: http.StatusText(status), Body: resp.Body}
	}
	if resp.Body == nil || out == nil || status == http.StatusNoContent {
		if resp.Body == nil {
			return http.StatusNoContent, nil
		}
		return status, nil
	}

	data, err := json.Marshal(resp.Body)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return 0, err
	}
	return status, nil
}

// Calls returns the requests seen so far.
func (f *Transport) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many requests hit method and path.
func (f *Transport) CallCount(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}
