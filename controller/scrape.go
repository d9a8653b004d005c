package controller

import (
	"context"
	"log"
	"sync"

	"github.com/TmRxJD/tower-tracker/towerhub"
)

// scrapeRoster fetches every player page in batches of cfg.BatchSize.
// Batches never overlap: each one's fetches run concurrently, are awaited,
// and then the stagger delay passes before the next batch starts. A failed
// or timed-out fetch only loses that one player.
func (c *controller) scrapeRoster(ctx context.Context, runID string, ids []string) []*towerhub.PlayerResult {
	results := make([]*towerhub.PlayerResult, 0, len(ids))
	var mu sync.Mutex

	for start := 0; start < len(ids); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(ids) {
			end = len(ids)
		}

		var wg sync.WaitGroup
		for _, id := range ids[start:end] {
			wg.Add(1)
			go func(playerID string) {
				defer wg.Done()
				fctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
				defer cancel()

				res, err := c.hub.PlayerResult(fctx, playerID)
				if err != nil {
					log.Printf("sync %s: error fetching player %s: %v", runID, playerID, err)
					return
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}(id)
		}
		wg.Wait()

		if end < len(ids) && c.cfg.StaggerDelay > 0 {
			select {
			case <-c.clock.After(c.cfg.StaggerDelay):
			case <-ctx.Done():
				return results
			}
		}
	}
	return results
}
