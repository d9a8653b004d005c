package model

import (
	"strings"
	"time"
)

// TournamentResult is one player's outcome for one tournament round, as
// recorded by one tracking guild. Rows are unique on
// (GuildID, PlayerID, RoundDate) and re-ingesting the same round replaces
// them rather than duplicating them.
type TournamentResult struct {
	GuildID     string
	PlayerID    string
	DiscordID   string
	DisplayName string
	// RoundDate is the end instant of the round this result belongs to,
	// computed from the tournament timetable, not read from the site.
	RoundDate  time.Time
	RoundName  string
	Wave       int32
	Rank       int32
	League     string
	Patch      string
	Conditions []string
	// WatchOnly marks watch-list players. Display only, no effect on
	// persistence.
	WatchOnly bool
	Observed  time.Time
}

func (r *TournamentResult) FormattedConditions() string {
	if len(r.Conditions) == 0 {
		return "none"
	}
	return strings.Join(r.Conditions, ", ")
}
