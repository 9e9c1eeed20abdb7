package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/openweather-client/internal/client"
	"github.com/vzahanych/openweather-client/internal/config"
	"github.com/vzahanych/openweather-client/internal/server/handlers"
	"github.com/vzahanych/openweather-client/internal/server/middlewares"
	"github.com/vzahanych/openweather-client/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	engine  *gin.Engine
	server  *http.Server
	client  *client.Client
	metrics *handlers.MetricsHandler
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

var (
	instance *Server
	once     sync.Once
)

func NewServer(weatherClient *client.Client, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)
		engine := gin.New()

		engine.Use(middlewares.RequestIDMiddleware(logger))
		engine.Use(middlewares.LoggingMiddleware(logger, time.RFC3339, true))
		engine.Use(middlewares.RecoveryMiddleware(logger, true))
		engine.Use(middlewares.TelemetryMiddleware(logger, tele))

		metrics := handlers.NewMetricsHandler(logger)
		weatherClient.SetMetricsRecorder(metrics)

		instance = &Server{
			engine:  engine,
			client:  weatherClient,
			metrics: metrics,
			logger:  logger,
			tele:    tele,
		}

		instance.setupRoutes()
	})

	return instance
}

func (s *Server) setupRoutes() {
	weather := handlers.NewWeatherHandler(s.client, s.logger)

	// Business endpoints
	s.engine.GET("/weather", weather.GetWeather)
	s.engine.GET("/cache/stats", weather.GetCacheStats)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", s.metrics.ServeMetrics)
}

func (s *Server) Start() error {
	cfg := config.GetConfig()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
