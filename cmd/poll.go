package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/openweather-client/internal/client"
	"github.com/vzahanych/openweather-client/internal/config"
	"go.uber.org/zap"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Keep cached cities fresh in the background",
	Long:  `Run in polling mode: every poll interval, fetch fresh data concurrently for every city in the cache, persisting each entry as its fetch completes. Runs until interrupted.`,
	RunE:  runPoll,
}

func runPoll(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	c, release, err := newRegisteredClient(client.ModePolling)
	if err != nil {
		return err
	}
	defer release()

	interval := time.Duration(cfg.Client.PollInterval) * time.Second

	poller, err := client.NewPoller(c, interval, log)
	if err != nil {
		return err
	}

	if err := poller.Start(); err != nil {
		return err
	}

	log.Info("Polling for weather updates",
		zap.Duration("interval", interval),
		zap.Int("cached_cities", len(c.CachedCities())))

	<-cmd.Context().Done()

	poller.Stop()
	return nil
}
