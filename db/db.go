package db

import (
	"context"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
)

type DB interface {
	// AddGuild opts a guild into tracking, creating its sync state row.
	AddGuild(ctx context.Context, guildID, notifyChannelID string) error
	// RemoveGuild drops the guild's sync state and roster. Historical
	// tournament results are kept.
	RemoveGuild(ctx context.Context, guildID string) error
	GetGuild(ctx context.Context, guildID string) (*model.GuildSyncState, error)
	ListGuilds(ctx context.Context) ([]model.GuildSyncState, error)

	// UpdateLastChecked stamps the guild's last_checked with the current
	// clock reading. Called before change detection runs so an overlapping
	// tick cannot schedule a second check.
	UpdateLastChecked(ctx context.Context, guildID string) error
	// UpdateSyncState records a completed ingestion: the new leaderboard
	// fingerprint and the round that was ingested. Only called after
	// SaveResults has committed.
	UpdateSyncState(ctx context.Context, guildID string, fingerprint int64, roundDate time.Time) error

	// AddPlayer inserts or updates a roster entry.
	AddPlayer(ctx context.Context, p *model.TrackedPlayer) error
	RemovePlayer(ctx context.Context, guildID, playerID string) error
	ListPlayers(ctx context.Context, guildID string) ([]model.TrackedPlayer, error)

	// SaveResults writes one ingestion run's records in a single
	// transaction, replacing on (guild_id, player_id, round_date) conflict.
	// Either the whole batch commits or none of it does.
	SaveResults(ctx context.Context, results []model.TournamentResult) error
	// GetResults returns a guild's records for one round, best wave first.
	GetResults(ctx context.Context, guildID string, roundDate time.Time) ([]model.TournamentResult, error)
	// ListRoundDates returns the 20 most recent ingested round dates for a
	// guild, newest first.
	ListRoundDates(ctx context.Context, guildID string) ([]time.Time, error)
}
