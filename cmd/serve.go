package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/openweather-client/internal/client"
	"github.com/vzahanych/openweather-client/internal/config"
	"github.com/vzahanych/openweather-client/internal/server"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the weather HTTP server",
	Long:  `Start an HTTP server exposing the cached weather client. The client mode comes from the configuration; in polling mode the background refresh loop is started alongside the server.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting weather server",
		zap.String("config_path", configPath),
		zap.String("mode", cfg.Client.Mode),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	c, release, err := newRegisteredClient(client.Mode(cfg.Client.Mode))
	if err != nil {
		return err
	}
	defer release()

	if c.Mode() == client.ModePolling {
		poller, err := client.NewPoller(c, time.Duration(cfg.Client.PollInterval)*time.Second, log)
		if err != nil {
			return err
		}
		if err := poller.Start(); err != nil {
			return err
		}
		defer poller.Stop()
	}

	srv := server.NewServer(c, log, tele)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
