package mockdb

import (
	"context"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
	"github.com/stretchr/testify/mock"
)

type DB struct {
	mock.Mock
}

func (db *DB) AddGuild(ctx context.Context, guildID, notifyChannelID string) error {
	args := db.Called(ctx, guildID, notifyChannelID)
	return args.Error(0)
}

func (db *DB) RemoveGuild(ctx context.Context, guildID string) error {
	args := db.Called(ctx, guildID)
	return args.Error(0)
}

func (db *DB) GetGuild(ctx context.Context, guildID string) (*model.GuildSyncState, error) {
	args := db.Called(ctx, guildID)

	var g *model.GuildSyncState
	if args.Get(0) != nil {
		g = args.Get(0).(*model.GuildSyncState)
	}
	return g, args.Error(1)
}

func (db *DB) ListGuilds(ctx context.Context) ([]model.GuildSyncState, error) {
	args := db.Called(ctx)

	var r []model.GuildSyncState
	if args.Get(0) != nil {
		r = args.Get(0).([]model.GuildSyncState)
	}
	return r, args.Error(1)
}

func (db *DB) UpdateLastChecked(ctx context.Context, guildID string) error {
	args := db.Called(ctx, guildID)
	return args.Error(0)
}

func (db *DB) UpdateSyncState(ctx context.Context, guildID string, fingerprint int64, roundDate time.Time) error {
	args := db.Called(ctx, guildID, fingerprint, roundDate)
	return args.Error(0)
}

func (db *DB) AddPlayer(ctx context.Context, p *model.TrackedPlayer) error {
	args := db.Called(ctx, p)
	return args.Error(0)
}

func (db *DB) RemovePlayer(ctx context.Context, guildID, playerID string) error {
	args := db.Called(ctx, guildID, playerID)
	return args.Error(0)
}

func (db *DB) ListPlayers(ctx context.Context, guildID string) ([]model.TrackedPlayer, error) {
	args := db.Called(ctx, guildID)

	var r []model.TrackedPlayer
	if args.Get(0) != nil {
		r = args.Get(0).([]model.TrackedPlayer)
	}
	return r, args.Error(1)
}

func (db *DB) SaveResults(ctx context.Context, results []model.TournamentResult) error {
	args := db.Called(ctx, results)
	return args.Error(0)
}

func (db *DB) GetResults(ctx context.Context, guildID string, roundDate time.Time) ([]model.TournamentResult, error) {
	args := db.Called(ctx, guildID, roundDate)

	var r []model.TournamentResult
	if args.Get(0) != nil {
		r = args.Get(0).([]model.TournamentResult)
	}
	return r, args.Error(1)
}

func (db *DB) ListRoundDates(ctx context.Context, guildID string) ([]time.Time, error) {
	args := db.Called(ctx, guildID)

	var r []time.Time
	if args.Get(0) != nil {
		r = args.Get(0).([]time.Time)
	}
	return r, args.Error(1)
}
