package model

// LeaderboardEntry is one row of the global top-N tournament leaderboard.
// Snapshots are only ever reduced to a fingerprint, never persisted.
type LeaderboardEntry struct {
	Rank int32
	Name string
	Wave int32
}
