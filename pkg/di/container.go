package di

import (
	"context"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/config"
	"github.com/goliatone/go-finance-cache/internal/logging"
	"github.com/goliatone/go-finance-cache/mutations"
	"go.uber.org/zap"
)

// Container wires the logger, the query cache, the API transport and the
// mutation service from a single configuration. It owns the query cache and
// closes it on Close.
type Container struct {
	config        config.Config
	logger        *zap.Logger
	queryCache    cache.QueryCache
	keySerializer cache.KeySerializer
	transport     api.Transport
	service       *mutations.Service
}

// Option overrides a component the container would otherwise build.
type Option func(*Container)

// WithLogger uses logger instead of one built from the logging config.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithTransport uses transport instead of an HTTP client for the API base URL.
func WithTransport(transport api.Transport) Option {
	return func(c *Container) {
		c.transport = transport
	}
}

// NewContainer validates cfg and builds every component.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.logger = logger
	}

	queryCache, err := cache.NewQueryCache(cfg.Cache, c.logger)
	if err != nil {
		return nil, err
	}
	c.queryCache = queryCache
	c.keySerializer = cache.NewDefaultKeySerializer()

	if c.transport == nil {
		client, err := api.New(cfg.APIBaseURL,
			api.WithTimeout(cfg.APITimeout),
			api.WithCSRF(cfg.CSRFHeader, staticToken(cfg.CSRFToken)),
			api.WithLogger(c.logger),
		)
		if err != nil {
			queryCache.Close()
			return nil, err
		}
		c.transport = client
	}

	c.service = mutations.New(c.queryCache, c.transport, c.logger)
	return c, nil
}

// NewContainerWithDefaults creates a container from config.DefaultConfig.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(config.DefaultConfig(), opts...)
}

// QueryCache returns the shared query cache.
func (c *Container) QueryCache() cache.QueryCache {
	return c.queryCache
}

// KeySerializer returns the serializer that turns query keys into cache keys.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Transport returns the API transport.
func (c *Container) Transport() api.Transport {
	return c.transport
}

// Mutations returns the mutation service.
func (c *Container) Mutations() *mutations.Service {
	return c.service
}

// Logger returns the root logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns a copy of the configuration the container was built from.
func (c *Container) Config() config.Config {
	return c.config
}

// Close stops background refetches and flushes the logger.
func (c *Container) Close() error {
	err := c.queryCache.Close()
	_ = c.logger.Sync()
	return err
}

func staticToken(token string) api.TokenSource {
	if token == "" {
		return nil
	}
	return func(context.Context) (string, error) {
		return token, nil
	}
}
