package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TmRxJD/tower-tracker/model"
	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrGuildNotFound  error = errors.New("guild not found")
	ErrGuildExists    error = errors.New("guild already exists")
	ErrPlayerNotFound error = errors.New("player not found")
)

func New(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func (db *postgresDB) AddGuild(ctx context.Context, guildID, notifyChannelID string) error {
	const query = `INSERT INTO guild_sync_state (guild_id, notify_channel)
					VALUES (@guildID, @notifyChannel)
					ON CONFLICT (guild_id) DO NOTHING`

	args := pgx.NamedArgs{
		"guildID":       guildID,
		"notifyChannel": notifyChannelID,
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error adding guild %s: %w", guildID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGuildExists
	}
	return nil
}

func (db *postgresDB) RemoveGuild(ctx context.Context, guildID string) error {
	const query = `DELETE FROM guild_sync_state WHERE guild_id=@guildID`

	tag, err := db.pool.Exec(ctx, query, pgx.NamedArgs{"guildID": guildID})
	if err != nil {
		return fmt.Errorf("error removing guild %s: %w", guildID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGuildNotFound
	}
	return nil
}

func (db *postgresDB) GetGuild(ctx context.Context, guildID string) (*model.GuildSyncState, error) {
	const query = `SELECT guild_id, notify_channel, last_checked, last_ingested, last_fingerprint, created
					FROM guild_sync_state WHERE guild_id=@guildID`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"guildID": guildID})
	g, err := scanGuild(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGuildNotFound
		}
		return nil, fmt.Errorf("error scanning guild %s: %w", guildID, err)
	}
	return g, nil
}

func (db *postgresDB) ListGuilds(ctx context.Context) ([]model.GuildSyncState, error) {
	const query = `SELECT guild_id, notify_channel, last_checked, last_ingested, last_fingerprint, created
					FROM guild_sync_state ORDER BY created`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing guilds: %w", err)
	}

	results := make([]model.GuildSyncState, 0, 8)
	for rows.Next() {
		g, err := scanGuild(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *g)
	}
	return results, nil
}

func (db *postgresDB) UpdateLastChecked(ctx context.Context, guildID string) error {
	const query = `UPDATE guild_sync_state SET last_checked=@now WHERE guild_id=@guildID`

	args := pgx.NamedArgs{
		"guildID": guildID,
		"now":     timestamptz(db.clock.Now().UTC()),
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error updating last checked for guild %s: %w", guildID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGuildNotFound
	}
	return nil
}

func (db *postgresDB) UpdateSyncState(ctx context.Context, guildID string, fingerprint int64, roundDate time.Time) error {
	const query = `UPDATE guild_sync_state
					SET last_fingerprint=@fingerprint, last_ingested=@roundDate
					WHERE guild_id=@guildID`

	args := pgx.NamedArgs{
		"guildID":     guildID,
		"fingerprint": fingerprint,
		"roundDate":   timestamptz(roundDate),
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error updating sync state for guild %s: %w", guildID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGuildNotFound
	}
	return nil
}

func (db *postgresDB) AddPlayer(ctx context.Context, p *model.TrackedPlayer) error {
	if p == nil {
		return errors.New("AddPlayer - player is nil")
	}
	const query = `INSERT INTO tracked_players (guild_id, player_id, discord_id, display_name, watch_only)
					VALUES (@guildID, @playerID, @discordID, @displayName, @watchOnly)
					ON CONFLICT (guild_id, player_id) DO UPDATE
						SET discord_id=EXCLUDED.discord_id,
							display_name=EXCLUDED.display_name,
							watch_only=EXCLUDED.watch_only`

	args := pgx.NamedArgs{
		"guildID":  p.GuildID,
		"playerID": p.PlayerID,
		"discordID": sql.NullString{
			String: p.DiscordID,
			Valid:  p.DiscordID != "",
		},
		"displayName": p.DisplayName,
		"watchOnly":   p.WatchOnly,
	}
	_, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error adding player %s to guild %s: %w", p.PlayerID, p.GuildID, err)
	}
	return nil
}

func (db *postgresDB) RemovePlayer(ctx context.Context, guildID, playerID string) error {
	const query = `DELETE FROM tracked_players WHERE guild_id=@guildID AND player_id=@playerID`

	args := pgx.NamedArgs{
		"guildID":  guildID,
		"playerID": playerID,
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error removing player %s from guild %s: %w", playerID, guildID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (db *postgresDB) ListPlayers(ctx context.Context, guildID string) ([]model.TrackedPlayer, error) {
	const query = `SELECT guild_id, player_id, discord_id, display_name, watch_only, created
					FROM tracked_players WHERE guild_id=@guildID ORDER BY display_name`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"guildID": guildID})
	if err != nil {
		return nil, fmt.Errorf("error listing players for guild %s: %w", guildID, err)
	}

	results := make([]model.TrackedPlayer, 0, 16)
	for rows.Next() {
		var p model.TrackedPlayer
		var discordID sql.NullString
		var created pgtype.Timestamptz
		err := rows.Scan(&p.GuildID, &p.PlayerID, &discordID, &p.DisplayName, &p.WatchOnly, &created)
		if err != nil {
			return nil, fmt.Errorf("error scanning tracked player: %w", err)
		}
		p.DiscordID = valueOrEmpty(discordID)
		p.Created = created.Time
		results = append(results, p)
	}
	return results, nil
}

func (db *postgresDB) SaveResults(ctx context.Context, results []model.TournamentResult) error {
	const query = `INSERT INTO tournament_results (
		guild_id,
		player_id,
		discord_id,
		display_name,
		round_date,
		round_name,
		wave,
		rank,
		league,
		patch,
		conditions,
		watch_only,
		observed
	) VALUES (
		@guildID,
		@playerID,
		@discordID,
		@displayName,
		@roundDate,
		@roundName,
		@wave,
		@rank,
		@league,
		@patch,
		@conditions,
		@watchOnly,
		@observed
	) ON CONFLICT (guild_id, player_id, round_date) DO UPDATE
		SET discord_id=EXCLUDED.discord_id,
			display_name=EXCLUDED.display_name,
			round_name=EXCLUDED.round_name,
			wave=EXCLUDED.wave,
			rank=EXCLUDED.rank,
			league=EXCLUDED.league,
			patch=EXCLUDED.patch,
			conditions=EXCLUDED.conditions,
			watch_only=EXCLUDED.watch_only,
			observed=EXCLUDED.observed`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	observed := db.clock.Now().UTC()
	for i := range results {
		args := namedArgsForResult(&results[i], observed)
		if _, err := tx.Exec(ctx, query, args); err != nil {
			return fmt.Errorf("error upserting result for player %s: %w", results[i].PlayerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing results transaction: %w", err)
	}
	return nil
}

func (db *postgresDB) GetResults(ctx context.Context, guildID string, roundDate time.Time) ([]model.TournamentResult, error) {
	const query = `SELECT guild_id, player_id, discord_id, display_name, round_date, round_name,
						wave, rank, league, patch, conditions, watch_only, observed
					FROM tournament_results
					WHERE guild_id=@guildID AND round_date=@roundDate
					ORDER BY wave DESC, player_id`

	args := pgx.NamedArgs{
		"guildID":   guildID,
		"roundDate": timestamptz(roundDate),
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying results: %w", err)
	}

	results := make([]model.TournamentResult, 0, 16)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}

func (db *postgresDB) ListRoundDates(ctx context.Context, guildID string) ([]time.Time, error) {
	const query = `SELECT DISTINCT round_date FROM tournament_results
					WHERE guild_id=@guildID ORDER BY round_date DESC LIMIT 20`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"guildID": guildID})
	if err != nil {
		return nil, fmt.Errorf("error listing round dates: %w", err)
	}

	dates := make([]time.Time, 0, 20)
	for rows.Next() {
		var d pgtype.Timestamptz
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("error scanning round date: %w", err)
		}
		dates = append(dates, d.Time)
	}
	return dates, nil
}

func scanGuild(row pgx.Row) (*model.GuildSyncState, error) {
	var g model.GuildSyncState
	var lastChecked, lastIngested, created pgtype.Timestamptz
	err := row.Scan(
		&g.GuildID,
		&g.NotifyChannelID,
		&lastChecked,
		&lastIngested,
		&g.LastFingerprint,
		&created)
	if err != nil {
		return nil, err
	}

	g.LastChecked = lastChecked.Time
	g.LastIngested = lastIngested.Time
	g.Created = created.Time
	return &g, nil
}

func scanResult(row pgx.Row) (*model.TournamentResult, error) {
	var r model.TournamentResult
	var discordID, patch, conditions sql.NullString
	var roundDate, observed pgtype.Timestamptz
	err := row.Scan(
		&r.GuildID,
		&r.PlayerID,
		&discordID,
		&r.DisplayName,
		&roundDate,
		&r.RoundName,
		&r.Wave,
		&r.Rank,
		&r.League,
		&patch,
		&conditions,
		&r.WatchOnly,
		&observed)
	if err != nil {
		return nil, fmt.Errorf("error scanning tournament result: %w", err)
	}

	r.DiscordID = valueOrEmpty(discordID)
	r.Patch = valueOrEmpty(patch)
	r.Conditions = splitConditions(valueOrEmpty(conditions))
	r.RoundDate = roundDate.Time
	r.Observed = observed.Time
	return &r, nil
}

func namedArgsForResult(r *model.TournamentResult, observed time.Time) pgx.NamedArgs {
	return pgx.NamedArgs{
		"guildID":  r.GuildID,
		"playerID": r.PlayerID,
		"discordID": sql.NullString{
			String: r.DiscordID,
			Valid:  r.DiscordID != "",
		},
		"displayName": r.DisplayName,
		"roundDate":   timestamptz(r.RoundDate),
		"roundName":   r.RoundName,
		"wave":        r.Wave,
		"rank":        r.Rank,
		"league":      r.League,
		"patch": sql.NullString{
			String: r.Patch,
			Valid:  r.Patch != "",
		},
		"conditions": sql.NullString{
			String: strings.Join(r.Conditions, ","),
			Valid:  len(r.Conditions) > 0,
		},
		"watchOnly": r.WatchOnly,
		"observed":  timestamptz(observed),
	}
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:             t,
		InfinityModifier: pgtype.Finite,
		Valid:            !t.IsZero(),
	}
}

func splitConditions(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func valueOrEmpty(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}
