package controller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
)

// RunPeriodicSyncChecks drives the poll loop on a fixed interval until the
// shutdown channel closes. Intended to be started as a goroutine from main.
func (c *controller) RunPeriodicSyncChecks(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	ticker := time.NewTicker(frequency)
	defer wg.Done()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
			c.checkAllGuilds(ctx)
			cancel()
		}
	}
}

// checkAllGuilds feeds every guild through a worker queue. The worker count
// and inter-guild delay are the tick's backpressure knobs; the default of
// one worker keeps guilds strictly sequential.
func (c *controller) checkAllGuilds(ctx context.Context) {
	guilds, err := c.db.ListGuilds(ctx)
	if err != nil {
		log.Printf("error listing guilds for sync tick: %v", err)
		return
	}
	if len(guilds) == 0 {
		return
	}

	workers := c.cfg.GuildWorkers
	if workers < 1 {
		workers = 1
	}

	queue := make(chan model.GuildSyncState)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range queue {
				c.checkGuild(ctx, g.GuildID)
				if c.cfg.GuildDelay > 0 {
					select {
					case <-c.clock.After(c.cfg.GuildDelay):
					case <-ctx.Done():
					}
				}
			}
		}()
	}

	for _, g := range guilds {
		queue <- g
	}
	close(queue)
	wg.Wait()
}

// checkGuild contains one guild's failures so they cannot leak into the
// rest of the tick or crash the process.
func (c *controller) checkGuild(ctx context.Context, guildID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic during sync for guild %s: %v", guildID, r)
		}
	}()

	_, err := c.SyncGuild(ctx, guildID)
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, ErrNotEligible), errors.Is(err, ErrNoNewRound), errors.Is(err, ErrSyncInProgress):
		// Normal outcomes for most ticks, not worth a log line.
	case errors.Is(err, ErrNoSignal):
		log.Printf("no leaderboard signal for guild %s, will retry next tick", guildID)
	default:
		log.Printf("error syncing guild %s: %v", guildID, err)
	}
}
