package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/TmRxJD/tower-tracker/model"
	"github.com/go-chi/chi/v5"
)

// FakeRound is the wire shape of one tournament row on a fake player page.
type FakeRound struct {
	Name       string   `json:"name"`
	Wave       int32    `json:"wave"`
	Rank       int32    `json:"rank"`
	League     string   `json:"league"`
	Patch      string   `json:"patch"`
	Conditions []string `json:"conditions"`
}

type fakePlayer struct {
	rounds  []FakeRound
	fail    bool
	garbage bool
}

// FakeTowerHubServer is the fake stats site. State is mutable so tests can
// change the leaderboard between ticks or make individual player fetches
// fail.
type FakeTowerHubServer struct {
	s *httptest.Server

	mu          sync.Mutex
	leaderboard []model.LeaderboardEntry
	players     map[string]*fakePlayer
}

func NewFakeTowerHubServer() *FakeTowerHubServer {
	f := &FakeTowerHubServer{
		players: make(map[string]*fakePlayer),
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/tournament/leaderboard", f.leaderboardHandler)
		r.Get("/player/{playerID}", f.playerHandler)
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeTowerHubServer) Close() {
	f.s.Close()
}

func (f *FakeTowerHubServer) URL() string {
	return f.s.URL
}

func (f *FakeTowerHubServer) SetLeaderboard(entries []model.LeaderboardEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaderboard = entries
}

// SetPlayerRound installs a player page whose most recent tournament row is
// round.
func (f *FakeTowerHubServer) SetPlayerRound(playerID string, round FakeRound) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[playerID] = &fakePlayer{rounds: []FakeRound{round}}
}

// SetPlayerNoHistory installs a player page with no tournament rows.
func (f *FakeTowerHubServer) SetPlayerNoHistory(playerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[playerID] = &fakePlayer{}
}

// FailPlayer makes fetches for playerID return a 500.
func (f *FakeTowerHubServer) FailPlayer(playerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[playerID] = &fakePlayer{fail: true}
}

// GarblePlayer makes the player page respond with a body that is not valid
// JSON.
func (f *FakeTowerHubServer) GarblePlayer(playerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[playerID] = &fakePlayer{garbage: true}
}

func (f *FakeTowerHubServer) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	entries := f.leaderboard
	f.mu.Unlock()

	rows := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]any{"rank": e.Rank, "name": e.Name, "wave": e.Wave})
	}
	w.Header().Add("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func (f *FakeTowerHubServer) playerHandler(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	f.mu.Lock()
	p, ok := f.players[playerID]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "player not found"}`))
		return
	}
	if p.fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if p.garbage {
		w.Header().Add("Content-Type", "text/html")
		w.Write([]byte("<html>unexpected maintenance page</html>"))
		return
	}

	w.Header().Add("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"player_id":   playerID,
		"tournaments": p.rounds,
	})
}
