package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/openweather-client/internal/client"
	"github.com/vzahanych/openweather-client/internal/server/utils"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	client *client.Client
	logger *zap.Logger
}

func NewWeatherHandler(c *client.Client, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		client: c,
		logger: logger,
	}
}

func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger
	if requestID != "" {
		reqLogger = h.logger.With(zap.String("request_id", requestID))
	}

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if validationErrors := utils.ValidateStruct(req); validationErrors != nil {
		reqLogger.Warn("Request validation failed", zap.Any("errors", validationErrors))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid city",
			Code:    "INVALID_CITY",
			Details: validationErrors,
		})
		return
	}

	reqLogger.Info("Processing weather request", zap.String("city", req.City))

	snapshot := h.client.GetWeather(ctx, req.City)
	if snapshot == nil {
		reqLogger.Warn("Weather fetch produced no result", zap.String("city", req.City))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch weather data",
			Code:    "FETCH_FAILED",
			Details: req.City,
		})
		return
	}

	reqLogger.Info("Weather request completed successfully",
		zap.String("city", snapshot.Name))

	c.JSON(http.StatusOK, snapshot)
}

func (h *WeatherHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.CacheStats())
}
