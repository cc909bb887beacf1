package mutations

import (
	"context"
	"net/http"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/internal/logging"
	"github.com/goliatone/go-finance-cache/strategies"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs mutations against the finance API and applies the matching
// cache updates to a query cache.
type Service struct {
	cache     cache.QueryCache
	transport api.Transport
	logger    *zap.Logger
	newGUID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithGUIDGenerator replaces the generator used for new transaction guids.
func WithGUIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newGUID = fn
		}
	}
}

// New creates a Service. A nil logger disables logging.
func New(c cache.QueryCache, transport api.Transport, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		cache:     c,
		transport: transport,
		logger:    logger.With(zap.String(logging.FieldComponent, logging.ComponentMutations)),
		newGUID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the query cache the service keeps consistent.
func (s *Service) Cache() cache.QueryCache {
	return s.cache
}

func (s *Service) hook(name string) *zap.Logger {
	return logging.ForHook(s.logger, name)
}

// send issues a mutating request and returns the record echoed by the server,
// or fallback when the server answered without a body.
func send[T any](ctx context.Context, s *Service, hook, method, path string, body T) (T, error) {
	out, err := api.Call[T](ctx, s.transport, method, path, body)
	if err != nil {
		s.hook(hook).Warn("request failed",
			zap.String(logging.FieldMethod, method),
			zap.String(logging.FieldPath, path),
			zap.Int(logging.FieldStatusCode, api.StatusOf(err)),
			zap.Error(err),
		)
		var zero T
		return zero, err
	}
	if out == nil {
		return body, nil
	}
	return *out, nil
}

// remove issues a DELETE request.
func (s *Service) remove(ctx context.Context, hook, path string) error {
	if _, err := s.transport.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		s.hook(hook).Warn("request failed",
			zap.String(logging.FieldMethod, http.MethodDelete),
			zap.String(logging.FieldPath, path),
			zap.Int(logging.FieldStatusCode, api.StatusOf(err)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// settle invalidates the keys attached to ctx with WithInvalidation. It runs
// after the entity's own cache updates.
func (s *Service) settle(ctx context.Context) {
	strategies.InvalidateRelated(s.cache, invalidationsFromContext(ctx)...)
}
