package model

import "time"

// GuildSyncState is the per-guild synchronization record. One row per guild,
// created when the guild opts in and updated only by the sync pipeline.
type GuildSyncState struct {
	GuildID         string
	NotifyChannelID string
	LastChecked     time.Time
	LastIngested    time.Time
	// LastFingerprint is the change-detection digest of the global
	// leaderboard at the last successful ingestion. It is a change signal,
	// not a security digest.
	LastFingerprint int64
	Created         time.Time
}

// TrackedPlayer is a guild roster entry. The same player id may be tracked
// by any number of guilds independently.
type TrackedPlayer struct {
	GuildID     string
	PlayerID    string
	DiscordID   string
	DisplayName string
	// WatchOnly players are scraped and displayed alongside the roster but
	// are not guild members.
	WatchOnly bool
	Created   time.Time
}
