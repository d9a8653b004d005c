package mockcontroller

import (
	"context"
	"sync"
	"time"

	"github.com/TmRxJD/tower-tracker/controller"
	"github.com/TmRxJD/tower-tracker/model"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) AddGuild(ctx context.Context, guildID, notifyChannelID string) error {
	args := c.Called(ctx, guildID, notifyChannelID)
	return args.Error(0)
}

func (c *C) RemoveGuild(ctx context.Context, guildID string) error {
	args := c.Called(ctx, guildID)
	return args.Error(0)
}

func (c *C) GetGuild(ctx context.Context, guildID string) (*model.GuildSyncState, error) {
	args := c.Called(ctx, guildID)

	var g *model.GuildSyncState
	if args.Get(0) != nil {
		g = args.Get(0).(*model.GuildSyncState)
	}
	return g, args.Error(1)
}

func (c *C) ListGuilds(ctx context.Context) ([]model.GuildSyncState, error) {
	args := c.Called(ctx)

	var r []model.GuildSyncState
	if args.Get(0) != nil {
		r = args.Get(0).([]model.GuildSyncState)
	}
	return r, args.Error(1)
}

func (c *C) AddPlayer(ctx context.Context, p *model.TrackedPlayer) error {
	args := c.Called(ctx, p)
	return args.Error(0)
}

func (c *C) RemovePlayer(ctx context.Context, guildID, playerID string) error {
	args := c.Called(ctx, guildID, playerID)
	return args.Error(0)
}

func (c *C) ListPlayers(ctx context.Context, guildID string) ([]model.TrackedPlayer, error) {
	args := c.Called(ctx, guildID)

	var r []model.TrackedPlayer
	if args.Get(0) != nil {
		r = args.Get(0).([]model.TrackedPlayer)
	}
	return r, args.Error(1)
}

func (c *C) GetResults(ctx context.Context, guildID string, roundDate time.Time) ([]model.TournamentResult, error) {
	args := c.Called(ctx, guildID, roundDate)

	var r []model.TournamentResult
	if args.Get(0) != nil {
		r = args.Get(0).([]model.TournamentResult)
	}
	return r, args.Error(1)
}

func (c *C) ListRoundDates(ctx context.Context, guildID string) ([]time.Time, error) {
	args := c.Called(ctx, guildID)

	var r []time.Time
	if args.Get(0) != nil {
		r = args.Get(0).([]time.Time)
	}
	return r, args.Error(1)
}

func (c *C) SyncGuild(ctx context.Context, guildID string) (*controller.SyncReport, error) {
	args := c.Called(ctx, guildID)

	var r *controller.SyncReport
	if args.Get(0) != nil {
		r = args.Get(0).(*controller.SyncReport)
	}
	return r, args.Error(1)
}

func (c *C) RunPeriodicSyncChecks(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	c.Called(frequency, shutdown, wg)
}
