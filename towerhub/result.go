package towerhub

import "fmt"

// Status reports whether a player page could be read. It replaces the old
// habit of scanning rendered page text for a "not found" phrase; callers
// never see page copy.
type Status int

const (
	// StatusFound means the player exists. Round may still be nil when the
	// player has no tournament history.
	StatusFound Status = iota
	StatusNotFound
	StatusParseError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not-found"
	case StatusParseError:
		return "parse-error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Round is the raw extraction of a player's most recent tournament row.
type Round struct {
	Name       string
	Wave       int32
	Rank       int32
	League     string
	Patch      string
	Conditions []string
}

// PlayerResult is one per-player fetch outcome.
type PlayerResult struct {
	PlayerID string
	Status   Status
	Round    *Round
}
