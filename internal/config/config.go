package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Provider    ProviderConfig  `mapstructure:"provider"`
	Client      ClientConfig    `mapstructure:"client"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// ProviderConfig configures access to the OpenWeatherMap current weather API.
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"`
}

// ClientConfig configures the caching weather client.
// CacheTTL and PollInterval are in seconds.
type ClientConfig struct {
	Mode         string `mapstructure:"mode"`
	CacheFile    string `mapstructure:"cache_file"`
	CacheLimit   int    `mapstructure:"cache_limit"`
	CacheTTL     int    `mapstructure:"cache_ttl"`
	PollInterval int    `mapstructure:"poll_interval"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Provider: ProviderConfig{
			BaseURL: "https://api.openweathermap.org",
			APIKey:  "",
			Timeout: 10,
		},
		Client: ClientConfig{
			Mode:         "on_demand",
			CacheFile:    "weather_cache.json",
			CacheLimit:   10,
			CacheTTL:     600,
			PollInterval: 600,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
