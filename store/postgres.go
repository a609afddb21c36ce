package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS guild_settings (
    guild_id TEXT PRIMARY KEY,
    muted_role_id TEXT NOT NULL DEFAULT '',
    muted_channel_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS moderation_actions (
    action_id BIGSERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    channel_id TEXT NOT NULL,
    moderator_id TEXT NOT NULL,
    target_id TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS moderation_actions_guild_idx ON moderation_actions (guild_id, created_at DESC);`

// Postgres is the lib/pq backed Store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to dbURL and makes sure the schema exists.
func NewPostgres(ctx context.Context, dbURL string) (*Postgres, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) GuildSettings(ctx context.Context, guildID string) (GuildSettings, error) {
	gs := GuildSettings{GuildID: guildID}
	err := p.db.QueryRowContext(ctx,
		"SELECT muted_role_id, muted_channel_id FROM guild_settings WHERE guild_id = $1", guildID,
	).Scan(&gs.MutedRoleID, &gs.MutedChannelID)
	if err == sql.ErrNoRows {
		return gs, nil
	}
	if err != nil {
		return gs, fmt.Errorf("error loading settings for guild %s: %w", guildID, err)
	}
	return gs, nil
}

func (p *Postgres) SaveMutedRole(ctx context.Context, guildID, roleID string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, muted_role_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id)
		DO UPDATE SET muted_role_id = $2`,
		guildID, roleID)
	if err != nil {
		return fmt.Errorf("error saving muted role for guild %s: %w", guildID, err)
	}
	return nil
}

func (p *Postgres) SaveMutedChannel(ctx context.Context, guildID, channelID string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, muted_channel_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id)
		DO UPDATE SET muted_channel_id = $2`,
		guildID, channelID)
	if err != nil {
		return fmt.Errorf("error saving muted channel for guild %s: %w", guildID, err)
	}
	return nil
}

func (p *Postgres) RecordAction(ctx context.Context, a Action) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO moderation_actions (guild_id, channel_id, moderator_id, target_id, kind, reason)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.GuildID, a.ChannelID, a.ModeratorID, a.TargetID, a.Kind, a.Reason)
	if err != nil {
		return fmt.Errorf("error recording %s action: %w", a.Kind, err)
	}
	return nil
}

// Actions returns the newest actions of a guild first. A limit of zero or less
// returns all of them.
func (p *Postgres) Actions(ctx context.Context, guildID string, limit int) ([]Action, error) {
	query, args := actionsQuery(guildID, limit)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying actions: %w", err)
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.GuildID, &a.ChannelID, &a.ModeratorID, &a.TargetID, &a.Kind, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning action: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func actionsQuery(guildID string, limit int) (string, []any) {
	query := `
		SELECT guild_id, channel_id, moderator_id, target_id, kind, reason, created_at
		FROM moderation_actions
		WHERE guild_id = $1
		ORDER BY created_at DESC, action_id DESC`
	if limit <= 0 {
		return query, []any{guildID}
	}
	return query + "\n\t\tLIMIT $2", []any{guildID, limit}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
