package controller

import (
	"fmt"
	"hash/fnv"

	"github.com/TmRxJD/tower-tracker/model"
)

// fingerprint folds a leaderboard snapshot into an order-sensitive 64-bit
// digest. It is only a change signal: collisions are tolerated, but any
// change to a single entry's rank, name, or wave must change the value.
func fingerprint(entries []model.LeaderboardEntry) int64 {
	h := fnv.New64a()
	for _, e := range entries {
		fmt.Fprintf(h, "%d:%s:%d\n", e.Rank, e.Name, e.Wave)
	}
	return int64(h.Sum64())
}
