package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
	"github.com/TmRxJD/tower-tracker/towerhub"
	"github.com/itbasis/go-clock"
)

// stubHub lets scrape tests control per-player outcomes and observe how many
// fetches are in flight at once.
type stubHub struct {
	mu      sync.Mutex
	calls   []string
	failing map[string]bool

	inflight    int32
	maxInflight int32
}

func (s *stubHub) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	return nil, errors.New("not implemented")
}

func (s *stubHub) PlayerResult(ctx context.Context, playerID string) (*towerhub.PlayerResult, error) {
	cur := atomic.AddInt32(&s.inflight, 1)
	defer atomic.AddInt32(&s.inflight, -1)
	for {
		max := atomic.LoadInt32(&s.maxInflight)
		if cur <= max || atomic.CompareAndSwapInt32(&s.maxInflight, max, cur) {
			break
		}
	}

	// Give the other fetches in the batch time to start.
	time.Sleep(10 * time.Millisecond)

	s.mu.Lock()
	s.calls = append(s.calls, playerID)
	failing := s.failing[playerID]
	s.mu.Unlock()

	if failing {
		return nil, errors.New("upstream 500")
	}
	return &towerhub.PlayerResult{PlayerID: playerID, Status: towerhub.StatusFound}, nil
}

func scrapeController(hub towerhub.Client, batchSize int) *controller {
	cfg := DefaultSyncConfig()
	cfg.BatchSize = batchSize
	cfg.StaggerDelay = 0
	cfg.FetchTimeout = time.Second
	return &controller{clock: clock.New(), hub: hub, cfg: cfg}
}

func TestScrapeRoster_boundedConcurrency(t *testing.T) {
	hub := &stubHub{}
	c := scrapeController(hub, 2)

	ids := []string{"P1", "P2", "P3", "P4", "P5"}
	results := c.scrapeRoster(context.Background(), "run-1", ids)

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if hub.maxInflight > 2 {
		t.Errorf("expected at most 2 concurrent fetches, saw %d", hub.maxInflight)
	}
	if len(hub.calls) != 5 {
		t.Errorf("expected every player fetched exactly once, got %d calls", len(hub.calls))
	}
}

func TestScrapeRoster_failuresOnlyLoseThatPlayer(t *testing.T) {
	hub := &stubHub{failing: map[string]bool{"P2": true, "P4": true}}
	c := scrapeController(hub, 2)

	results := c.scrapeRoster(context.Background(), "run-1", []string{"P1", "P2", "P3", "P4", "P5"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results with 2 failures, got %d", len(results))
	}
	for _, r := range results {
		if r.PlayerID == "P2" || r.PlayerID == "P4" {
			t.Errorf("failed player %s should not appear in results", r.PlayerID)
		}
	}
}

func TestScrapeRoster_empty(t *testing.T) {
	c := scrapeController(&stubHub{}, 3)
	if results := c.scrapeRoster(context.Background(), "run-1", nil); len(results) != 0 {
		t.Errorf("expected no results for an empty roster, got %d", len(results))
	}
}
