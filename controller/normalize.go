package controller

import (
	"log"
	"sort"
	"strings"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
	"github.com/TmRxJD/tower-tracker/towerhub"
)

// normalizeResults turns raw per-player extractions into the round's record
// set, best wave first. Players that were not found, failed to parse, or
// have no tournament row are excluded without error. The round-wide patch
// and battle conditions are taken from the first extraction that supplies
// them; a later extraction that disagrees is logged but not corrected.
func (c *controller) normalizeResults(runID string, guild *model.GuildSyncState, roundDate time.Time,
	roster []model.TrackedPlayer, raw []*towerhub.PlayerResult, report *SyncReport) []model.TournamentResult {

	byID := make(map[string]model.TrackedPlayer, len(roster))
	for _, p := range roster {
		byID[p.PlayerID] = p
	}

	results := make([]model.TournamentResult, 0, len(raw))
	for _, r := range raw {
		if r.Status != towerhub.StatusFound {
			log.Printf("sync %s: player %s skipped (%s)", runID, r.PlayerID, r.Status)
			continue
		}
		if r.Round == nil {
			// Found, but no tournament history. Not an error.
			continue
		}

		if r.Round.Patch != "" {
			if report.Patch == "" {
				report.Patch = r.Round.Patch
			} else if report.Patch != r.Round.Patch {
				log.Printf("sync %s: player %s reports patch %s, round uses %s", runID, r.PlayerID, r.Round.Patch, report.Patch)
			}
		}
		if len(r.Round.Conditions) > 0 {
			if len(report.Conditions) == 0 {
				report.Conditions = r.Round.Conditions
			} else if strings.Join(report.Conditions, ",") != strings.Join(r.Round.Conditions, ",") {
				log.Printf("sync %s: player %s reports different battle conditions", runID, r.PlayerID)
			}
		}

		tracked := byID[r.PlayerID]
		displayName := tracked.DisplayName
		if displayName == "" {
			displayName = r.PlayerID
		}

		results = append(results, model.TournamentResult{
			GuildID:     guild.GuildID,
			PlayerID:    r.PlayerID,
			DiscordID:   tracked.DiscordID,
			DisplayName: displayName,
			RoundDate:   roundDate,
			RoundName:   r.Round.Name,
			Wave:        r.Round.Wave,
			Rank:        r.Round.Rank,
			League:      r.Round.League,
			Patch:       r.Round.Patch,
			Conditions:  r.Round.Conditions,
			WatchOnly:   tracked.WatchOnly,
		})
	}

	// Backfill the round-wide values for players whose pages omitted them.
	for i := range results {
		if results[i].Patch == "" {
			results[i].Patch = report.Patch
		}
		if len(results[i].Conditions) == 0 {
			results[i].Conditions = report.Conditions
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Wave != results[j].Wave {
			return results[i].Wave > results[j].Wave
		}
		return results[i].PlayerID < results[j].PlayerID
	})
	return results
}
