package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/openweather-client/internal/client"
	"github.com/vzahanych/openweather-client/internal/config"
	"github.com/vzahanych/openweather-client/internal/openweather"
	"github.com/vzahanych/openweather-client/pkg/logger"
	"github.com/vzahanych/openweather-client/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	log        *zap.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openweather",
		Short: "OpenWeatherMap client with a file-backed cache",
		Long:  `A client for the OpenWeatherMap current weather API with a capacity-bounded, file-mirrored cache and optional background refresh of cached cities.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(fetchCmd)
	cmd.AddCommand(pollCmd)
	cmd.AddCommand(serveCmd)

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if log != nil {
			log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		}
		cancel()
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Having config in atomic allows changing it during runtime
	config.SetConfig(cfg)

	log, err = logger.New(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	tele, err = telemetry.New(context.Background(), cfg.Telemetry)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
	}

	return nil
}

// newRegisteredClient builds a weather client in the given mode and claims
// its API key in the default registry. The returned release func must be
// called before the process constructs another client for the same key.
func newRegisteredClient(mode client.Mode) (*client.Client, func(), error) {
	cfg := config.GetConfig()

	if cfg.Provider.APIKey == "" {
		return nil, nil, fmt.Errorf("an API key is required (set OWC_PROVIDER_API_KEY or provider.api_key)")
	}

	api := openweather.NewClient(cfg.Provider, log, tele)

	clientCfg := cfg.Client
	clientCfg.Mode = string(mode)

	c, err := client.New(clientCfg, api, log, tele)
	if err != nil {
		return nil, nil, err
	}

	if err := client.DefaultRegistry.Register(cfg.Provider.APIKey, c); err != nil {
		return nil, nil, err
	}

	release := func() {
		client.DefaultRegistry.Release(cfg.Provider.APIKey)
	}

	return c, release, nil
}
