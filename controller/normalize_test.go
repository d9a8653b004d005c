package controller

import (
	"testing"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
	"github.com/TmRxJD/tower-tracker/testutils"
	"github.com/TmRxJD/tower-tracker/towerhub"
)

func rosterFixture() []model.TrackedPlayer {
	roster := make([]model.TrackedPlayer, 0, 5)
	for _, p := range testutils.TestRoster(testutils.TestGuildID) {
		roster = append(roster, *p)
	}
	return roster
}

func found(id string, round *towerhub.Round) *towerhub.PlayerResult {
	return &towerhub.PlayerResult{PlayerID: id, Status: towerhub.StatusFound, Round: round}
}

func TestNormalizeResults(t *testing.T) {
	c := &controller{}
	guild := &model.GuildSyncState{GuildID: testutils.TestGuildID}
	roundDate := time.Date(2024, time.August, 7, 4, 0, 0, 0, time.UTC)

	raw := []*towerhub.PlayerResult{
		found(testutils.IDAstra, &towerhub.Round{
			Name: "Tournament #312", Wave: 5210, Rank: 14, League: "Legend",
			Patch: "26.4", Conditions: []string{"Razor Wind", "Berserk Mobs"},
		}),
		// No patch or conditions on this page, both get backfilled.
		found(testutils.IDBolt, &towerhub.Round{
			Name: "Tournament #312", Wave: 6180, Rank: 6, League: "Legend",
		}),
		found(testutils.IDEmber, &towerhub.Round{
			Name: "Tournament #312", Wave: 4099, Rank: 55, League: "Champion",
			Patch: "26.4", Conditions: []string{"Razor Wind", "Berserk Mobs"},
		}),
		// Found player with no tournament history is excluded.
		found(testutils.IDCinder, nil),
		{PlayerID: testutils.IDDrift, Status: towerhub.StatusNotFound},
		{PlayerID: "GHOSTPLAYER", Status: towerhub.StatusParseError},
	}

	report := &SyncReport{GuildID: guild.GuildID, RoundDate: roundDate}
	results := c.normalizeResults("run-1", guild, roundDate, rosterFixture(), raw, report)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Ordered best wave first.
	expectedOrder := []string{testutils.IDBolt, testutils.IDAstra, testutils.IDEmber}
	for i, id := range expectedOrder {
		if results[i].PlayerID != id {
			t.Errorf("expected result %d to be %s, got %s", i, id, results[i].PlayerID)
		}
	}

	if report.Patch != "26.4" {
		t.Errorf("expected round patch 26.4, got %q", report.Patch)
	}
	if len(report.Conditions) != 2 {
		t.Errorf("expected 2 battle conditions, got %v", report.Conditions)
	}

	for _, r := range results {
		if r.Patch != "26.4" {
			t.Errorf("expected patch backfilled for %s, got %q", r.PlayerID, r.Patch)
		}
		if len(r.Conditions) != 2 {
			t.Errorf("expected conditions backfilled for %s, got %v", r.PlayerID, r.Conditions)
		}
		if !r.RoundDate.Equal(roundDate) {
			t.Errorf("unexpected round date for %s: %v", r.PlayerID, r.RoundDate)
		}
	}

	for _, r := range results {
		switch r.PlayerID {
		case testutils.IDEmber:
			if !r.WatchOnly {
				t.Errorf("expected %s to be watch-only", r.PlayerID)
			}
		default:
			if r.WatchOnly {
				t.Errorf("expected %s to be a tracked member", r.PlayerID)
			}
		}
	}

	if results[1].DiscordID == "" {
		t.Errorf("expected discord id carried over from the roster")
	}
}

func TestNormalizeResults_patchMismatchKeepsFirst(t *testing.T) {
	c := &controller{}
	guild := &model.GuildSyncState{GuildID: testutils.TestGuildID}
	roundDate := time.Date(2024, time.August, 7, 4, 0, 0, 0, time.UTC)

	raw := []*towerhub.PlayerResult{
		found(testutils.IDAstra, &towerhub.Round{Name: "T", Wave: 100, Rank: 1, League: "Legend", Patch: "26.4"}),
		found(testutils.IDBolt, &towerhub.Round{Name: "T", Wave: 90, Rank: 2, League: "Legend", Patch: "26.5"}),
	}

	report := &SyncReport{GuildID: guild.GuildID, RoundDate: roundDate}
	results := c.normalizeResults("run-1", guild, roundDate, rosterFixture(), raw, report)

	if report.Patch != "26.4" {
		t.Errorf("expected the first supplied patch to win, got %q", report.Patch)
	}
	// Each player keeps what their own page reported.
	for _, r := range results {
		if r.PlayerID == testutils.IDBolt && r.Patch != "26.5" {
			t.Errorf("expected Bolt to keep patch 26.5, got %q", r.Patch)
		}
	}
}

func TestNormalizeResults_unknownPlayerStillRecorded(t *testing.T) {
	// A raw result for an id missing from the roster map falls back to the
	// player id as display name. Can happen when the roster shrinks while a
	// scrape is in flight.
	c := &controller{}
	guild := &model.GuildSyncState{GuildID: testutils.TestGuildID}
	roundDate := time.Date(2024, time.August, 7, 4, 0, 0, 0, time.UTC)

	raw := []*towerhub.PlayerResult{
		found("XWING12345", &towerhub.Round{Name: "T", Wave: 100, Rank: 1, League: "Gold"}),
	}

	report := &SyncReport{GuildID: guild.GuildID, RoundDate: roundDate}
	results := c.normalizeResults("run-1", guild, roundDate, nil, raw, report)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DisplayName != "XWING12345" {
		t.Errorf("expected display name to fall back to the id, got %q", results[0].DisplayName)
	}
}
