package controller

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
	"github.com/TmRxJD/tower-tracker/schedule"
	"github.com/google/uuid"
)

func (c *controller) SyncGuild(ctx context.Context, guildID string) (*SyncReport, error) {
	if !c.acquire(guildID) {
		return nil, ErrSyncInProgress
	}
	defer c.release(guildID)

	guild, err := c.db.GetGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now().UTC()
	if err := checkEligibility(now, guild, c.cfg); err != nil {
		return nil, err
	}

	// Mark the check before detection runs so an overlapping tick cannot
	// schedule a second one.
	if err := c.db.UpdateLastChecked(ctx, guildID); err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	entries, err := c.hub.Leaderboard(ctx)
	if err != nil {
		log.Printf("sync %s: error fetching leaderboard for guild %s: %v", runID, guildID, err)
		return nil, ErrNoSignal
	}
	if len(entries) == 0 {
		// Prefer missing an update over double-posting one.
		return nil, ErrNoSignal
	}

	fp := fingerprint(entries)
	if fp == guild.LastFingerprint {
		return nil, ErrNoNewRound
	}

	roundDate := schedule.LastRoundEnd(now, c.cfg.Timetable, c.cfg.RoundDuration)
	log.Printf("sync %s: new round detected for guild %s, round %s", runID, guildID, roundDate.Format(time.DateTime))

	roster, err := c.db.ListPlayers(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error loading roster for guild %s: %w", guildID, err)
	}

	raw := c.scrapeRoster(ctx, runID, dedupeRoster(roster))

	report := &SyncReport{
		RunID:       runID,
		GuildID:     guildID,
		RoundDate:   roundDate,
		Fingerprint: fp,
	}
	report.Results = c.normalizeResults(runID, guild, roundDate, roster, raw, report)

	// All scraping and normalization is done before anything is written.
	// Results commit in one transaction; the sync state only advances after
	// that commit, so a crash in between re-detects and re-upserts the same
	// round harmlessly next tick.
	if len(report.Results) > 0 {
		if err := c.db.SaveResults(ctx, report.Results); err != nil {
			return nil, fmt.Errorf("error persisting results for guild %s: %w", guildID, err)
		}
	}
	if err := c.db.UpdateSyncState(ctx, guildID, fp, roundDate); err != nil {
		return nil, fmt.Errorf("error updating sync state for guild %s: %w", guildID, err)
	}

	// Notification is at-most-once: it happens after the state update, so a
	// crash right here loses the announcement but can never repeat it.
	if c.notifier != nil && len(report.Results) > 0 {
		if err := c.notifier.RoundFinished(ctx, guild, report); err != nil {
			log.Printf("sync %s: error notifying guild %s: %v", runID, guildID, err)
		}
	}

	log.Printf("sync %s: ingested %d results for guild %s", runID, len(report.Results), guildID)
	return report, nil
}

// checkEligibility is the four-condition timing gate. All four must hold.
func checkEligibility(now time.Time, guild *model.GuildSyncState, cfg SyncConfig) error {
	roundEnd := schedule.LastRoundEnd(now, cfg.Timetable, cfg.RoundDuration)
	if roundEnd.IsZero() {
		return fmt.Errorf("%w: no completed round", ErrNotEligible)
	}
	if now.Before(roundEnd.Add(cfg.GraceDelay)) {
		return fmt.Errorf("%w: inside grace delay", ErrNotEligible)
	}
	if !guild.LastIngested.Before(roundEnd) {
		return fmt.Errorf("%w: round already ingested", ErrNotEligible)
	}
	// The first start after the round being ingested. Once that round has
	// begun there is no point rechecking the previous one.
	if next := schedule.NextRoundStart(roundEnd, cfg.Timetable); !next.IsZero() && !now.Before(next) {
		return fmt.Errorf("%w: next round already started", ErrNotEligible)
	}
	if !guild.LastChecked.IsZero() && now.Sub(guild.LastChecked) < cfg.MinRecheckInterval {
		return fmt.Errorf("%w: checked too recently", ErrNotEligible)
	}
	return nil
}

// dedupeRoster returns the union of tracked members and watch-list players,
// deduplicated by player id, in roster order.
func dedupeRoster(roster []model.TrackedPlayer) []string {
	seen := make(map[string]bool, len(roster))
	ids := make([]string, 0, len(roster))
	for _, p := range roster {
		if seen[p.PlayerID] {
			continue
		}
		seen[p.PlayerID] = true
		ids = append(ids, p.PlayerID)
	}
	return ids
}
