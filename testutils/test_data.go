package testutils

import "github.com/TmRxJD/tower-tracker/model"

// Player ids use the in-game code format.
const (
	IDAstra  = "A1B2C3D4E5"
	IDBolt   = "B2C3D4E5F6"
	IDCinder = "C3D4E5F607"
	IDDrift  = "D4E5F60718"
	IDEmber  = "E5F6071829"
)

const (
	TestGuildID   = "200000000000000001"
	TestChannelID = "300000000000000001"
)

func TestRoster(guildID string) []*model.TrackedPlayer {
	return []*model.TrackedPlayer{
		{GuildID: guildID, PlayerID: IDAstra, DiscordID: "100000000000000001", DisplayName: "Astra"},
		{GuildID: guildID, PlayerID: IDBolt, DiscordID: "100000000000000002", DisplayName: "Bolt"},
		{GuildID: guildID, PlayerID: IDCinder, DiscordID: "100000000000000003", DisplayName: "Cinder"},
		{GuildID: guildID, PlayerID: IDDrift, DisplayName: "Drift"},
		// Ember is a player of interest, not a guild member.
		{GuildID: guildID, PlayerID: IDEmber, DisplayName: "Ember", WatchOnly: true},
	}
}

func TestLeaderboard() []model.LeaderboardEntry {
	return []model.LeaderboardEntry{
		{Rank: 1, Name: "Skye", Wave: 9180},
		{Rank: 2, Name: "Astra", Wave: 8872},
		{Rank: 3, Name: "Onyx", Wave: 8515},
		{Rank: 4, Name: "Bolt", Wave: 8244},
		{Rank: 5, Name: "Vex", Wave: 8101},
	}
}
