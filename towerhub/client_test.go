package towerhub

import (
	"context"
	"testing"

	"github.com/TmRxJD/tower-tracker/model"
	"github.com/TmRxJD/tower-tracker/testutils"
)

func TestLeaderboard(t *testing.T) {
	fake := testutils.NewFakeTowerHubServer()
	defer fake.Close()
	fake.SetLeaderboard([]model.LeaderboardEntry{
		{Rank: 1, Name: "Skye", Wave: 9120},
		{Rank: 2, Name: "Torin", Wave: 8744},
	})

	c := NewForTest(fake.URL())
	entries, err := c.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("error fetching leaderboard: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("leaderboard size not as expected. wanted: 2, got: %d", len(entries))
	}
	if entries[0].Rank != 1 || entries[0].Name != "Skye" || entries[0].Wave != 9120 {
		t.Errorf("first entry not as expected: %+v", entries[0])
	}
	if entries[1].Name != "Torin" {
		t.Errorf("second entry not as expected: %+v", entries[1])
	}
}

func TestLeaderboard_empty(t *testing.T) {
	fake := testutils.NewFakeTowerHubServer()
	defer fake.Close()

	c := NewForTest(fake.URL())
	entries, err := c.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("error fetching leaderboard: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty leaderboard, got: %d entries", len(entries))
	}
}

func TestPlayerResult(t *testing.T) {
	fake := testutils.NewFakeTowerHubServer()
	defer fake.Close()

	fake.SetPlayerRound("AAA111", testutils.FakeRound{
		Name:       "Tournament #312",
		Wave:       5210,
		Rank:       14,
		League:     "Legend",
		Patch:      "26.4",
		Conditions: []string{"Razor Wind", "Berserk Mobs"},
	})
	fake.SetPlayerNoHistory("BBB222")
	fake.GarblePlayer("CCC333")

	c := NewForTest(fake.URL())
	ctx := context.Background()

	tests := map[string]struct {
		playerID       string
		expectedStatus Status
		expectRound    bool
	}{
		"player with a recent round": {playerID: "AAA111", expectedStatus: StatusFound, expectRound: true},
		"player with no history":     {playerID: "BBB222", expectedStatus: StatusFound},
		"unknown player":             {playerID: "ZZZ999", expectedStatus: StatusNotFound},
		"maintenance page":           {playerID: "CCC333", expectedStatus: StatusParseError},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := c.PlayerResult(ctx, tc.playerID)
			if err != nil {
				t.Fatalf("error fetching player: %v", err)
			}
			if result.PlayerID != tc.playerID {
				t.Errorf("PlayerID not as expected. wanted: '%s', got: '%s'", tc.playerID, result.PlayerID)
			}
			if result.Status != tc.expectedStatus {
				t.Errorf("Status not as expected. wanted: '%s', got: '%s'", tc.expectedStatus, result.Status)
			}
			if tc.expectRound && result.Round == nil {
				t.Fatal("expected a round, got nil")
			}
			if !tc.expectRound && result.Round != nil {
				t.Errorf("expected no round, got: %+v", result.Round)
			}
		})
	}
}

func TestPlayerResult_roundFields(t *testing.T) {
	fake := testutils.NewFakeTowerHubServer()
	defer fake.Close()
	fake.SetPlayerRound("AAA111", testutils.FakeRound{
		Name:       "Tournament #312",
		Wave:       5210,
		Rank:       14,
		League:     "Legend",
		Patch:      "26.4",
		Conditions: []string{"Razor Wind", "Berserk Mobs"},
	})

	c := NewForTest(fake.URL())
	result, err := c.PlayerResult(context.Background(), "AAA111")
	if err != nil {
		t.Fatalf("error fetching player: %v", err)
	}

	r := result.Round
	if r.Name != "Tournament #312" {
		t.Errorf("Name not as expected: '%s'", r.Name)
	}
	if r.Wave != 5210 || r.Rank != 14 {
		t.Errorf("Wave/Rank not as expected: %d/%d", r.Wave, r.Rank)
	}
	if r.League != "Legend" || r.Patch != "26.4" {
		t.Errorf("League/Patch not as expected: '%s'/'%s'", r.League, r.Patch)
	}
	if len(r.Conditions) != 2 || r.Conditions[0] != "Razor Wind" {
		t.Errorf("Conditions not as expected: %v", r.Conditions)
	}
}

func TestPlayerResult_serverError(t *testing.T) {
	fake := testutils.NewFakeTowerHubServer()
	defer fake.Close()
	fake.FailPlayer("AAA111")

	c := NewForTest(fake.URL())
	_, err := c.PlayerResult(context.Background(), "AAA111")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
