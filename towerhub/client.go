// Package towerhub is the client for the external tower-stats website. The
// sync pipeline only depends on the narrow Client interface; everything
// page-shaped (endpoints, status mapping, malformed bodies) stays in here.
package towerhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
	"golang.org/x/time/rate"
)

const TowerHubURL = "https://thetowerstats.app"

type Client interface {
	// Leaderboard returns the current global top-N, best wave first.
	Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
	// PlayerResult fetches one player's page. Transport failures are
	// returned as errors; an unrecognized page shape or an unknown player
	// comes back as a PlayerResult with the matching Status instead.
	PlayerResult(ctx context.Context, playerID string) (*PlayerResult, error)
}

type client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New() Client {
	return &client{
		url: TowerHubURL,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
		// Keep a polite pace against the site regardless of how the
		// orchestrator batches its requests.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// NewForTest returns a client pointed at url with the rate limit effectively
// disabled so tests run at full speed.
func NewForTest(url string) Client {
	return &client{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

type leaderboardRow struct {
	Rank int32  `json:"rank"`
	Name string `json:"name"`
	Wave int32  `json:"wave"`
}

func (c *client) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/tournament/leaderboard", c.url), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating http request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rows []leaderboardRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("error parsing leaderboard response: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, model.LeaderboardEntry{Rank: r.Rank, Name: r.Name, Wave: r.Wave})
	}
	return entries, nil
}

type playerPage struct {
	PlayerID    string `json:"player_id"`
	Tournaments []struct {
		Name       string   `json:"name"`
		Wave       int32    `json:"wave"`
		Rank       int32    `json:"rank"`
		League     string   `json:"league"`
		Patch      string   `json:"patch"`
		Conditions []string `json:"conditions"`
	} `json:"tournaments"`
}

func (c *client) PlayerResult(ctx context.Context, playerID string) (*PlayerResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/player/%s", c.url, playerID), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating http request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &PlayerResult{PlayerID: playerID, Status: StatusNotFound}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var page playerPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		// An unexpected page shape is "no data", not a pipeline error.
		return &PlayerResult{PlayerID: playerID, Status: StatusParseError}, nil
	}

	result := &PlayerResult{PlayerID: playerID, Status: StatusFound}
	if len(page.Tournaments) > 0 {
		// The site lists the most recent tournament first; only that row
		// matters for ingestion.
		t := page.Tournaments[0]
		result.Round = &Round{
			Name:       t.Name,
			Wave:       t.Wave,
			Rank:       t.Rank,
			League:     t.League,
			Patch:      t.Patch,
			Conditions: t.Conditions,
		}
	}
	return result, nil
}
