package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vzahanych/openweather-client/internal/config"
	"github.com/vzahanych/openweather-client/pkg/telemetry"
	"go.uber.org/zap"
)

// API fetches a current-weather snapshot for a city.
type API interface {
	Current(ctx context.Context, city string) (*Snapshot, error)
}

// StatusError reports a non-200 response from the provider.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openweather: unexpected status %d", e.Status)
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewClient(cfg config.ProviderConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		tele:   tele,
	}
}

// Current issues GET {base}/data/2.5/weather?q={city}&appid={key} and maps the
// response into a Snapshot. Failures are classified and logged here; the
// returned error carries the status for callers that care.
func (c *Client) Current(ctx context.Context, city string) (*Snapshot, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather.Current")
	defer span.End()

	span.SetAttributes(attribute.String("city", city))

	u, err := url.Parse(fmt.Sprintf("%s/data/2.5/weather", c.baseURL))
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Error fetching weather data",
			zap.String("city", city),
			zap.Error(err))
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetAttributes(
			attribute.Bool("success", false),
			attribute.Int("http.status_code", resp.StatusCode),
		)
		return nil, c.classifyStatus(city, resp.StatusCode)
	}

	var payload struct {
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Visibility int `json:"visibility"`
		Wind       struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Dt  int64 `json:"dt"`
		Sys struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
		Timezone int    `json:"timezone"`
		Name     string `json:"name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Error("Error decoding weather response",
			zap.String("city", city),
			zap.Error(err))
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	snapshot := &Snapshot{
		Visibility: payload.Visibility,
		Wind:       Wind{Speed: payload.Wind.Speed},
		Datetime:   payload.Dt,
		Sys: SunTimes{
			Sunrise: payload.Sys.Sunrise,
			Sunset:  payload.Sys.Sunset,
		},
		Timezone: payload.Timezone,
		Name:     payload.Name,
		Temperature: Temperature{
			Temp:      payload.Main.Temp,
			FeelsLike: payload.Main.FeelsLike,
		},
	}
	if len(payload.Weather) > 0 {
		snapshot.Weather = Conditions{
			Main:        payload.Weather[0].Main,
			Description: payload.Weather[0].Description,
		}
	}

	span.SetAttributes(attribute.Bool("success", true))

	return snapshot, nil
}

// classifyStatus logs the provider failure according to the status taxonomy
// and returns a StatusError. No retries, no backoff.
func (c *Client) classifyStatus(city string, status int) error {
	switch status {
	case http.StatusUnauthorized:
		c.logger.Error("Unauthorized API request",
			zap.Int("status", status))
	case http.StatusNotFound:
		c.logger.Error("City not found or incorrect API request format",
			zap.String("city", city),
			zap.Int("status", status))
	case http.StatusTooManyRequests:
		c.logger.Error("Too many requests, consider reducing API call rate",
			zap.Int("status", status))
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		c.logger.Error("Provider server error",
			zap.Int("status", status))
	default:
		c.logger.Error("Unhandled HTTP error from provider",
			zap.String("city", city),
			zap.Int("status", status))
	}

	return &StatusError{Status: status}
}
