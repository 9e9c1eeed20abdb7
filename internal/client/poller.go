package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// ErrNotPolling is returned by NewPoller for a client not in polling mode.
var ErrNotPolling = errors.New("poller requires a polling mode client")

const fetchTimeout = 30 * time.Second

// Poller refreshes every cached city on a fixed interval. Fetches within one
// cycle run concurrently; each entry is persisted as its fetch completes.
type Poller struct {
	scheduler *gocron.Scheduler
	client    *Client
	interval  time.Duration
	logger    *zap.Logger
}

func NewPoller(c *Client, interval time.Duration, logger *zap.Logger) (*Poller, error) {
	if c.Mode() != ModePolling {
		return nil, ErrNotPolling
	}

	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &Poller{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    c,
		interval:  interval,
		logger:    logger,
	}, nil
}

// Start schedules the refresh job, runs the first cycle immediately, and
// returns; refresh cycles continue in the background until Stop.
func (p *Poller) Start() error {
	_, err := p.scheduler.Every(p.interval).StartImmediately().Do(p.refreshAll)
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	p.logger.Info("Background refresh started", zap.Duration("interval", p.interval))
	return nil
}

// Stop cancels the refresh loop. In-flight fetches finish their cycle.
func (p *Poller) Stop() {
	p.scheduler.Stop()
	p.logger.Info("Background refresh stopped")
}

func (p *Poller) refreshAll() {
	cities := p.client.CachedCities()
	if len(cities) == 0 {
		p.logger.Debug("No cached cities to refresh")
		return
	}

	p.logger.Info("Running background refresh cycle", zap.Int("cities", len(cities)))

	var wg sync.WaitGroup
	for _, city := range cities {
		wg.Add(1)
		go func(city string) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()

			if p.client.Refresh(ctx, city) == nil {
				p.logger.Warn("Background refresh failed", zap.String("city", city))
			}
		}(city)
	}
	wg.Wait()

	p.logger.Info("Background refresh cycle completed", zap.Int("cities", len(cities)))
}
