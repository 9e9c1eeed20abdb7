package handlers

import (
	"context"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppMetrics holds application-level counters (cache, provider calls).
type AppMetrics struct {
	mutex          sync.RWMutex
	cacheHits      int64
	cacheMisses    int64
	providerCalls  int64
	providerErrors int64
}

type MetricsHandler struct {
	logger     *zap.Logger
	appMetrics *AppMetrics
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger:     logger,
		appMetrics: &AppMetrics{},
	}
}

// RecordCacheHit records a cache hit metric
func (h *MetricsHandler) RecordCacheHit(ctx context.Context, cacheType string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.cacheHits++
	h.appMetrics.mutex.Unlock()
}

// RecordCacheMiss records a cache miss metric
func (h *MetricsHandler) RecordCacheMiss(ctx context.Context, cacheType string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.cacheMisses++
	h.appMetrics.mutex.Unlock()
}

// RecordProviderCall records an OpenWeatherMap API call
func (h *MetricsHandler) RecordProviderCall(ctx context.Context, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.providerCalls++
	if !success {
		h.appMetrics.providerErrors++
	}
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes the counters in Prometheus text format.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.appMetrics.mutex.RLock()
	defer h.appMetrics.mutex.RUnlock()

	response := "# HELP weather_cache_hits_total Total cache hits\n"
	response += "# TYPE weather_cache_hits_total counter\n"
	response += "weather_cache_hits_total " + strconv.FormatInt(h.appMetrics.cacheHits, 10) + "\n"

	response += "\n# HELP weather_cache_miss_total Total cache misses\n"
	response += "# TYPE weather_cache_miss_total counter\n"
	response += "weather_cache_miss_total " + strconv.FormatInt(h.appMetrics.cacheMisses, 10) + "\n"

	response += "\n# HELP weather_provider_calls_total Total provider API calls\n"
	response += "# TYPE weather_provider_calls_total counter\n"
	response += "weather_provider_calls_total " + strconv.FormatInt(h.appMetrics.providerCalls, 10) + "\n"

	response += "\n# HELP weather_provider_errors_total Total provider API errors\n"
	response += "# TYPE weather_provider_errors_total counter\n"
	response += "weather_provider_errors_total " + strconv.FormatInt(h.appMetrics.providerErrors, 10) + "\n"

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, response)
}
