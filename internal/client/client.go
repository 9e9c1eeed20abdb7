package client

import (
	"context"
	"errors"
	"time"

	"github.com/vzahanych/openweather-client/internal/cache"
	"github.com/vzahanych/openweather-client/internal/config"
	"github.com/vzahanych/openweather-client/internal/openweather"
	"github.com/vzahanych/openweather-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Mode selects how the client keeps cache entries fresh.
type Mode string

const (
	// ModeOnDemand fetches synchronously whenever the cached entry is stale
	// or missing.
	ModeOnDemand Mode = "on_demand"
	// ModePolling relies on a background Poller to refresh every cached city
	// on a fixed interval.
	ModePolling Mode = "polling"
)

var (
	// ErrInvalidMode is returned by New for an unrecognized mode.
	ErrInvalidMode = errors.New("mode must be one of on_demand or polling")
	// ErrDuplicateInstance is returned by Registry.Register when a client is
	// already live for the API key.
	ErrDuplicateInstance = errors.New("a client for this API key already exists")
)

// MetricsRecorder receives cache and provider counters.
type MetricsRecorder interface {
	RecordCacheHit(ctx context.Context, cacheType string)
	RecordCacheMiss(ctx context.Context, cacheType string)
	RecordProviderCall(ctx context.Context, success bool)
}

// Client serves current weather by city, backed by a file-mirrored bounded
// cache and the OpenWeatherMap API.
type Client struct {
	mode    Mode
	api     openweather.API
	store   *cache.Store
	ttl     time.Duration
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder
}

// New validates the mode and loads the cache file. It does not start any
// background work; polling-mode callers start a Poller separately.
func New(cfg config.ClientConfig, api openweather.API, logger *zap.Logger, tele *telemetry.Telemetry) (*Client, error) {
	mode := Mode(cfg.Mode)
	if mode != ModeOnDemand && mode != ModePolling {
		logger.Error("Mode must be one of on_demand or polling",
			zap.String("mode", cfg.Mode))
		return nil, ErrInvalidMode
	}

	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if cfg.CacheTTL <= 0 {
		ttl = 10 * time.Minute
	}

	limit := cfg.CacheLimit
	if limit <= 0 {
		limit = 10
	}

	file := cfg.CacheFile
	if file == "" {
		file = "weather_cache.json"
	}

	c := &Client{
		mode:   mode,
		api:    api,
		store:  cache.Open(file, limit, logger),
		ttl:    ttl,
		logger: logger,
		tele:   tele,
	}

	logger.Info("Initialized weather client",
		zap.String("mode", string(mode)),
		zap.String("cache_file", file),
		zap.Int("cache_limit", limit),
		zap.Duration("cache_ttl", ttl))

	return c, nil
}

func (c *Client) Mode() Mode {
	return c.mode
}

// SetMetricsRecorder sets the metrics recorder for the client.
func (c *Client) SetMetricsRecorder(metrics MetricsRecorder) {
	c.metrics = metrics
}

func (c *Client) CacheStats() map[string]interface{} {
	stats := c.store.Stats()
	stats["cache_ttl"] = c.ttl.String()
	stats["mode"] = string(c.mode)
	return stats
}

// GetWeather returns the snapshot for a city. A cached entry younger than the
// TTL is served without a network call. Otherwise the client fetches
// synchronously, caching the result. Fetch failures have already been
// classified and logged by the provider client; they surface here as nil, not
// as an error. This holds in both modes: a polling client falls back to the
// same synchronous fetch for a city the background loop has not seen yet.
func (c *Client) GetWeather(ctx context.Context, city string) *openweather.Snapshot {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "client.GetWeather")
	defer span.End()

	span.SetAttributes(attribute.String("city", city))

	entry, cached := c.store.Get(city)
	if cached && entry.Data != nil && time.Since(entry.Time) < c.ttl {
		c.logger.Debug("Using cached weather data", zap.String("city", city))
		span.SetAttributes(attribute.Bool("cache_hit", true))
		if c.metrics != nil {
			c.metrics.RecordCacheHit(ctx, "weather")
		}
		return entry.Data
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(ctx, "weather")
	}

	if !cached {
		c.store.Reserve(city)
	}

	snapshot, err := c.api.Current(ctx, city)
	if c.metrics != nil {
		c.metrics.RecordProviderCall(ctx, err == nil)
	}
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		c.tele.RecordError(ctx, err, map[string]interface{}{"city": city})
		return nil
	}

	c.store.Put(city, snapshot)
	c.logger.Info("Retrieved weather data", zap.String("city", city))
	span.SetAttributes(attribute.Bool("success", true))

	return snapshot
}

// Refresh fetches a city unconditionally and updates its cache entry. Used by
// the background poller; the entry is left untouched when the fetch fails.
func (c *Client) Refresh(ctx context.Context, city string) *openweather.Snapshot {
	snapshot, err := c.api.Current(ctx, city)
	if c.metrics != nil {
		c.metrics.RecordProviderCall(ctx, err == nil)
	}
	if err != nil {
		return nil
	}

	c.store.Put(city, snapshot)
	c.logger.Debug("Refreshed weather data", zap.String("city", city))

	return snapshot
}

// CachedCities returns the cities the background loop should refresh.
func (c *Client) CachedCities() []string {
	return c.store.Cities()
}
