package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/TmRxJD/tower-tracker/db"
	"github.com/TmRxJD/tower-tracker/model"
	"github.com/TmRxJD/tower-tracker/schedule"
	"github.com/TmRxJD/tower-tracker/towerhub"
	"github.com/itbasis/go-clock"
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	AddGuild(ctx context.Context, guildID, notifyChannelID string) error
	RemoveGuild(ctx context.Context, guildID string) error
	GetGuild(ctx context.Context, guildID string) (*model.GuildSyncState, error)
	ListGuilds(ctx context.Context) ([]model.GuildSyncState, error)

	AddPlayer(ctx context.Context, p *model.TrackedPlayer) error
	RemovePlayer(ctx context.Context, guildID, playerID string) error
	ListPlayers(ctx context.Context, guildID string) ([]model.TrackedPlayer, error)

	GetResults(ctx context.Context, guildID string, roundDate time.Time) ([]model.TournamentResult, error)
	ListRoundDates(ctx context.Context, guildID string) ([]time.Time, error)

	// SyncGuild runs the full ingestion pipeline for one guild: eligibility
	// gate, change detection, scraping, normalization, persistence, state
	// update, notification. It is idempotent and safe to invoke out-of-band;
	// a run that is not due returns one of the Err* sentinels.
	SyncGuild(ctx context.Context, guildID string) (*SyncReport, error)
	RunPeriodicSyncChecks(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup)
}

var (
	// ErrSyncInProgress means another run for the same guild holds the
	// in-flight lease.
	ErrSyncInProgress = errors.New("sync already in progress for guild")
	// ErrNotEligible means one of the timing gate conditions failed.
	ErrNotEligible = errors.New("guild not eligible for sync")
	// ErrNoSignal means the leaderboard could not be read this tick.
	// Detection is simply retried on the next eligible tick.
	ErrNoSignal = errors.New("no leaderboard signal")
	// ErrNoNewRound means the leaderboard fingerprint is unchanged.
	ErrNoNewRound = errors.New("no new round detected")
)

// Notifier is the external presentation collaborator a finished round is
// handed to. The pipeline has no knowledge of how or where the report is
// displayed.
type Notifier interface {
	RoundFinished(ctx context.Context, guild *model.GuildSyncState, report *SyncReport) error
}

// SyncReport is the finished record set of one ingestion run, ordered best
// wave first, plus the derived round-wide aggregates.
type SyncReport struct {
	RunID       string
	GuildID     string
	RoundDate   time.Time
	Fingerprint int64
	Patch       string
	Conditions  []string
	Results     []model.TournamentResult
}

// SyncConfig carries the timing and backpressure parameters of the
// pipeline. The backpressure values are deliberate politeness toward the
// stats site, not correctness requirements.
type SyncConfig struct {
	Timetable     schedule.Timetable
	RoundDuration time.Duration
	// GraceDelay gives the site time to finalize results after a round ends.
	GraceDelay         time.Duration
	MinRecheckInterval time.Duration

	// BatchSize is the number of concurrently in-flight player fetches.
	BatchSize int
	// StaggerDelay is slept between scrape batches.
	StaggerDelay time.Duration
	FetchTimeout time.Duration

	// GuildWorkers is the number of guilds processed concurrently per tick.
	GuildWorkers int
	// GuildDelay is slept by each worker between guilds.
	GuildDelay time.Duration
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Timetable:          schedule.DefaultTimetable,
		RoundDuration:      schedule.DefaultRoundDuration,
		GraceDelay:         2 * time.Hour,
		MinRecheckInterval: 30 * time.Minute,
		BatchSize:          3,
		StaggerDelay:       5 * time.Second,
		FetchTimeout:       30 * time.Second,
		GuildWorkers:       1,
		GuildDelay:         10 * time.Second,
	}
}

type controller struct {
	clock    clock.Clock
	db       db.DB
	hub      towerhub.Client
	notifier Notifier
	cfg      SyncConfig

	// inflight is the per-guild run lease. The last_checked gate prevents
	// scheduling duplicate runs across ticks; this guards against direct
	// concurrent invocations.
	mu       sync.Mutex
	inflight map[string]bool
}

func New(clock clock.Clock, db db.DB, hub towerhub.Client, notifier Notifier, cfg SyncConfig) (C, error) {
	if cfg.BatchSize < 1 {
		return nil, errors.New("batch size must be at least 1")
	}
	if len(cfg.Timetable) == 0 {
		return nil, errors.New("timetable must have at least one start slot")
	}
	c := &controller{
		clock:    clock,
		db:       db,
		hub:      hub,
		notifier: notifier,
		cfg:      cfg,
		inflight: make(map[string]bool),
	}
	return c, nil
}

func (c *controller) AddGuild(ctx context.Context, guildID, notifyChannelID string) error {
	return c.db.AddGuild(ctx, guildID, notifyChannelID)
}

func (c *controller) RemoveGuild(ctx context.Context, guildID string) error {
	return c.db.RemoveGuild(ctx, guildID)
}

func (c *controller) GetGuild(ctx context.Context, guildID string) (*model.GuildSyncState, error) {
	return c.db.GetGuild(ctx, guildID)
}

func (c *controller) ListGuilds(ctx context.Context) ([]model.GuildSyncState, error) {
	return c.db.ListGuilds(ctx)
}

func (c *controller) AddPlayer(ctx context.Context, p *model.TrackedPlayer) error {
	if p.PlayerID == "" {
		return errors.New("player id is required")
	}
	if p.DisplayName == "" {
		p.DisplayName = p.PlayerID
	}
	return c.db.AddPlayer(ctx, p)
}

func (c *controller) RemovePlayer(ctx context.Context, guildID, playerID string) error {
	return c.db.RemovePlayer(ctx, guildID, playerID)
}

func (c *controller) ListPlayers(ctx context.Context, guildID string) ([]model.TrackedPlayer, error) {
	return c.db.ListPlayers(ctx, guildID)
}

func (c *controller) GetResults(ctx context.Context, guildID string, roundDate time.Time) ([]model.TournamentResult, error) {
	return c.db.GetResults(ctx, guildID, roundDate)
}

func (c *controller) ListRoundDates(ctx context.Context, guildID string) ([]time.Time, error) {
	return c.db.ListRoundDates(ctx, guildID)
}

func (c *controller) acquire(guildID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[guildID] {
		return false
	}
	c.inflight[guildID] = true
	return true
}

func (c *controller) release(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, guildID)
}
