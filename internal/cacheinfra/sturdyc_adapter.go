package cacheinfra

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goliatone/go-finance-cache/internal/logging"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// KeySeparator defines the delimiter used between serialized key segments.
const KeySeparator = "::"

// Config holds the configuration for the sturdyc backed query store.
type Config struct {
	// Capacity defines the maximum number of partitions the store can hold.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL bounds how long an unobserved partition is kept before sturdyc
	// evicts it. Observed partitions never expire.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the store reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration

	// RefetchTimeout bounds each background refetch triggered by an
	// invalidation. Zero disables the bound.
	RefetchTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults for a single session.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EvictionInterval:   0,
		RefetchTimeout:     30 * time.Second,
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	if c.RefetchTimeout < 0 {
		return &ConfigError{Field: "RefetchTimeout", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// RefetchFn loads a partition from the source of truth.
type RefetchFn func(ctx context.Context) (any, error)

type entry struct {
	value     any
	stale     bool
	updatedAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for background refetch reporting.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is a query store on top of a sturdyc client. Reads and writes are
// serialized by a single mutex so read-modify-write updates apply strictly in
// call order. Observers registered through Fetch are refetched in the
// background when their partition is invalidated.
//
// sturdyc expiry only collects partitions nobody observes. An observed
// partition is pinned and put back into sturdyc when it has been evicted, so
// it lives until Remove.
type Store struct {
	mu        sync.Mutex
	client    *sturdyc.Client[entry]
	observers *xsync.MapOf[string, RefetchFn]
	pinned    map[string]entry
	gens      map[string]uint64
	group     singleflight.Group
	inflight  sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	logger         *zap.Logger
	refetchTimeout time.Duration
	now            func() time.Time
}

// NewStore validates the configuration and initializes a sturdyc client.
func NewStore(cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client:         client,
		observers:      xsync.NewMapOf[string, RefetchFn](),
		pinned:         make(map[string]entry),
		gens:           make(map[string]uint64),
		ctx:            ctx,
		cancel:         cancel,
		logger:         zap.NewNop(),
		refetchTimeout: cfg.RefetchTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get returns the stored value for key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key and clears its stale flag.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(key, entry{value: value, updatedAt: s.now()})
}

// Update runs fn against the current value of key while holding the store
// lock. fn must not call back into the store. A value written to an observed
// key that had nothing stored is kept but marked stale and refetched, since
// it was not built on top of loaded data.
func (s *Store) Update(key string, fn func(current any, exists bool) (any, bool)) {
	s.mu.Lock()
	var current any
	e, ok := s.lookup(key)
	if ok {
		current = e.value
	}
	next, store := fn(current, ok)
	if !store {
		s.mu.Unlock()
		return
	}
	_, observed := s.observers.Load(key)
	partial := !ok && observed
	s.write(key, entry{value: next, stale: partial, updatedAt: s.now()})
	s.mu.Unlock()

	if partial {
		s.refetch(key)
	}
}

// Invalidate marks every partition matching prefix as stale and schedules a
// background refetch for every matching observed key.
func (s *Store) Invalidate(prefix string) {
	s.mu.Lock()
	for _, key := range s.scan() {
		if !matchesPrefix(key, prefix) {
			continue
		}
		e, ok := s.lookup(key)
		if !ok || e.stale {
			continue
		}
		e.stale = true
		s.write(key, e)
	}
	s.mu.Unlock()

	var targets []string
	s.observers.Range(func(key string, _ RefetchFn) bool {
		if matchesPrefix(key, prefix) {
			targets = append(targets, key)
		}
		return true
	})
	sort.Strings(targets)

	for _, key := range targets {
		s.refetch(key)
	}
}

// Remove deletes every partition and observer matching prefix. Loads of those
// keys still in flight finish without storing their result.
func (s *Store) Remove(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make(map[string]struct{})
	for _, key := range s.scan() {
		if matchesPrefix(key, prefix) {
			matched[key] = struct{}{}
		}
	}
	s.observers.Range(func(key string, _ RefetchFn) bool {
		if matchesPrefix(key, prefix) {
			matched[key] = struct{}{}
		}
		return true
	})

	for key := range matched {
		s.client.Delete(key)
		delete(s.pinned, key)
		s.observers.Delete(key)
		s.gens[key]++
	}
}

// Fetch returns the cached value for key when it is present and fresh.
// Otherwise it loads the value through fn, sharing the call with concurrent
// fetches of the same key. fn becomes the observer for key.
func (s *Store) Fetch(ctx context.Context, key string, fn RefetchFn) (any, error) {
	s.mu.Lock()
	s.observers.Store(key, fn)
	e, ok := s.lookup(key)
	if ok {
		s.pinned[key] = e
	}
	gen := s.gens[key]
	s.mu.Unlock()
	if ok && !e.stale {
		return e.value, nil
	}

	v, err, _ := s.group.Do(flightKey(key, gen), func() (any, error) {
		return s.load(ctx, key, gen, fn)
	})
	return v, err
}

// IsStale reports whether key is present and marked stale.
func (s *Store) IsStale(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(key)
	return ok && e.stale
}

// Keys returns the stored keys in lexical order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	var keys []string
	for _, key := range s.scan() {
		if _, ok := s.lookup(key); ok {
			keys = append(keys, key)
		}
	}
	s.mu.Unlock()
	sort.Strings(keys)
	return keys
}

// Wait blocks until background refetches started so far have finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// Close cancels background refetches and waits for them to return.
func (s *Store) Close() error {
	s.cancel()
	s.inflight.Wait()
	return nil
}

// lookup reads key from sturdyc, restoring a pinned partition sturdyc has
// evicted. Callers hold s.mu.
func (s *Store) lookup(key string) (entry, bool) {
	if e, ok := s.client.Get(key); ok {
		return e, true
	}
	e, ok := s.pinned[key]
	if !ok {
		return entry{}, false
	}
	s.client.Set(key, e)
	return e, true
}

// write stores e under key and pins it when key is observed. Callers hold
// s.mu.
func (s *Store) write(key string, e entry) {
	s.client.Set(key, e)
	if _, observed := s.observers.Load(key); observed {
		s.pinned[key] = e
	}
}

// scan lists the keys held by sturdyc and the pinned keys it may have
// evicted. Callers hold s.mu.
func (s *Store) scan() []string {
	keys := s.client.ScanKeys()
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		seen[key] = struct{}{}
	}
	for key := range s.pinned {
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// load runs fn and stores its result unless key was removed after gen was
// read.
func (s *Store) load(ctx context.Context, key string, gen uint64, fn RefetchFn) (any, error) {
	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[key] != gen {
		s.logger.Debug("discarding load of removed partition",
			zap.String(logging.FieldQueryKey, key),
		)
		return value, nil
	}
	s.write(key, entry{value: value, updatedAt: s.now()})
	return value, nil
}

func (s *Store) refetch(key string) {
	s.mu.Lock()
	fn, ok := s.observers.Load(key)
	gen := s.gens[key]
	s.mu.Unlock()
	if !ok || s.ctx.Err() != nil {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx := s.ctx
		if s.refetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.refetchTimeout)
			defer cancel()
		}

		_, err, _ := s.group.Do(flightKey(key, gen), func() (any, error) {
			return s.load(ctx, key, gen, fn)
		})
		if err != nil {
			s.logger.Warn("background refetch failed",
				zap.String(logging.FieldQueryKey, key),
				zap.Uint64(logging.FieldQueryHash, xxhash.Sum64String(key)),
				zap.Error(err),
			)
			return
		}
		s.logger.Debug("background refetch completed",
			zap.String(logging.FieldQueryKey, key),
			zap.Uint64(logging.FieldQueryHash, xxhash.Sum64String(key)),
		)
	}()
}

// flightKey scopes shared loads to one generation of key, so a load started
// before a Remove is never joined by a fetch made after it.
func flightKey(key string, gen uint64) string {
	return key + "@" + strconv.FormatUint(gen, 10)
}

// matchesPrefix reports whether key is prefix or a deeper key under it. An
// empty prefix matches every key.
func matchesPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	return key == prefix || strings.HasPrefix(key, prefix+KeySeparator)
}
