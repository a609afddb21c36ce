package store

import (
	"context"
	"time"
)

// Action kinds recorded in the moderation log.
const (
	KindBan       = "ban"
	KindSoftban   = "softban"
	KindUnban     = "unban"
	KindKick      = "kick"
	KindMute      = "mute"
	KindUnmute    = "unmute"
	KindVoiceMute = "voicemute"
	KindVUnmute   = "vunmute"
	KindBlock     = "block"
	KindUnblock   = "unblock"
	KindPurge     = "purge"
	KindSlowmode  = "slowmode"
)

// GuildSettings holds the per-guild IDs the bot bootstraps lazily.
// Empty strings mean "not created yet".
type GuildSettings struct {
	GuildID        string
	MutedRoleID    string
	MutedChannelID string
}

// Action is one entry of the moderation log.
type Action struct {
	GuildID     string
	ChannelID   string
	ModeratorID string
	TargetID    string
	Kind        string
	Reason      string
	CreatedAt   time.Time
}

// Store persists guild settings and the moderation log.
type Store interface {
	GuildSettings(ctx context.Context, guildID string) (GuildSettings, error)
	SaveMutedRole(ctx context.Context, guildID, roleID string) error
	SaveMutedChannel(ctx context.Context, guildID, channelID string) error
	RecordAction(ctx context.Context, action Action) error
	Actions(ctx context.Context, guildID string, limit int) ([]Action, error)
	Close() error
}
