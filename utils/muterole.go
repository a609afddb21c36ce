package utils

import (
	"context"
	"fmt"
	"sync"

	"modbot/discord"
	"modbot/store"

	"github.com/bwmarrin/discordgo"
	"github.com/puzpuzpuz/xsync"
	"go.uber.org/zap"
)

// MutedDeny is what the Muted role is denied on every channel.
const MutedDeny = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory

// MuteSetup describes what Ensure found or had to build.
type MuteSetup struct {
	Role    *discordgo.Role
	Created bool

	// FailedChannels lists channels whose deny overwrite could not be applied.
	FailedChannels []string
	// RestrictErr is set when the channel list itself could not be fetched.
	RestrictErr error

	ChannelID  string
	ChannelErr error
}

// Partial reports whether any part of the setup failed.
func (m *MuteSetup) Partial() bool {
	return len(m.FailedChannels) > 0 || m.RestrictErr != nil || m.ChannelErr != nil
}

// MutedRoles keeps the canonical Muted role of each guild. The role is keyed by
// its ID (persisted through the store); the name is only used to adopt a role that
// existed before the bot first saw the guild. Bootstrap is serialized per guild.
type MutedRoles struct {
	store       store.Store
	log         *zap.SugaredLogger
	roleName    string
	channelName string

	locks    *xsync.MapOf[string, *sync.Mutex]
	roles    *xsync.MapOf[string, string]
	channels *xsync.MapOf[string, string]
}

func NewMutedRoles(st store.Store, log *zap.SugaredLogger, roleName, channelName string) *MutedRoles {
	return &MutedRoles{
		store:       st,
		log:         log,
		roleName:    roleName,
		channelName: channelName,
		locks:       xsync.NewMapOf[*sync.Mutex](),
		roles:       xsync.NewMapOf[string](),
		channels:    xsync.NewMapOf[string](),
	}
}

func (r *MutedRoles) lock(guildID string) func() {
	mu, _ := r.locks.LoadOrCompute(guildID, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	return mu.Unlock
}

// Lookup returns the canonical Muted role of the guild, or nil when there is none.
// It never creates anything.
func (r *MutedRoles) Lookup(ctx context.Context, s discord.Session, guildID string) (*discordgo.Role, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("error fetching guild roles: %w", err)
	}
	return r.find(ctx, guildID, roles), nil
}

// Ensure returns the canonical Muted role, creating and configuring it on first
// use. Only a failure to fetch or create the role is returned as an error; channel
// setup problems are reported in the MuteSetup.
func (r *MutedRoles) Ensure(ctx context.Context, s discord.Session, guildID string) (*MuteSetup, error) {
	unlock := r.lock(guildID)
	defer unlock()

	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("error fetching guild roles: %w", err)
	}

	setup := &MuteSetup{Role: r.find(ctx, guildID, roles)}
	if setup.Role == nil {
		noPerms := int64(0)
		role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{
			Name:        r.roleName,
			Permissions: &noPerms,
		}, discordgo.WithAuditLogReason("To use for muting"))
		if err != nil {
			return nil, fmt.Errorf("error creating muted role: %w", err)
		}
		r.log.Infow("Created muted role", "guild_id", guildID, "role_id", role.ID)
		r.remember(ctx, guildID, role.ID)
		setup.Role = role
		setup.Created = true
	}

	channels, err := s.GuildChannels(guildID)
	if err != nil {
		r.log.Errorw("Error fetching guild channels", "guild_id", guildID, "error", err)
		setup.RestrictErr = fmt.Errorf("error fetching guild channels: %w", err)
		setup.ChannelErr = setup.RestrictErr
		return setup, nil
	}

	companion := r.findChannel(ctx, guildID, channels)
	if setup.Created {
		setup.FailedChannels = r.restrictChannels(s, guildID, setup.Role.ID, channels, companion)
	}
	setup.ChannelID, setup.ChannelErr = r.ensureChannel(ctx, s, guildID, setup, companion)
	return setup, nil
}

func (r *MutedRoles) find(ctx context.Context, guildID string, roles []*discordgo.Role) *discordgo.Role {
	id, ok := r.roles.Load(guildID)
	if !ok {
		gs, err := r.store.GuildSettings(ctx, guildID)
		if err != nil {
			r.log.Warnw("Error loading guild settings", "guild_id", guildID, "error", err)
		}
		id = gs.MutedRoleID
	}

	if id != "" {
		for _, role := range roles {
			if role.ID == id {
				r.roles.Store(guildID, id)
				return role
			}
		}
		// deleted from the guild since we stored it
		r.log.Infow("Stored muted role no longer exists", "guild_id", guildID, "role_id", id)
		r.roles.Delete(guildID)
	}

	for _, role := range roles {
		if role.Name == r.roleName {
			r.remember(ctx, guildID, role.ID)
			return role
		}
	}
	return nil
}

func (r *MutedRoles) remember(ctx context.Context, guildID, roleID string) {
	r.roles.Store(guildID, roleID)
	if err := r.store.SaveMutedRole(ctx, guildID, roleID); err != nil {
		r.log.Warnw("Error saving muted role", "guild_id", guildID, "role_id", roleID, "error", err)
	}
}

// restrictChannels denies the Muted role on every channel but the companion one.
// A failing channel does not stop the others.
func (r *MutedRoles) restrictChannels(s discord.Session, guildID, roleID string, channels []*discordgo.Channel, companion *discordgo.Channel) []string {
	var failed []string
	for _, channel := range channels {
		if companion != nil && channel.ID == companion.ID {
			continue
		}
		err := s.ChannelPermissionSet(channel.ID, roleID, discordgo.PermissionOverwriteTypeRole, 0, MutedDeny)
		if err != nil {
			r.log.Errorw("Error restricting muted role in channel",
				"guild_id", guildID, "channel_id", channel.ID, "role_id", roleID, "error", err)
			failed = append(failed, channel.ID)
		}
	}
	return failed
}

func (r *MutedRoles) findChannel(ctx context.Context, guildID string, channels []*discordgo.Channel) *discordgo.Channel {
	id, ok := r.channels.Load(guildID)
	if !ok {
		gs, err := r.store.GuildSettings(ctx, guildID)
		if err != nil {
			r.log.Warnw("Error loading guild settings", "guild_id", guildID, "error", err)
		}
		id = gs.MutedChannelID
	}

	if id != "" {
		for _, channel := range channels {
			if channel.ID == id {
				return channel
			}
		}
		// deleted from the guild since we stored it
		r.log.Infow("Stored muted channel no longer exists", "guild_id", guildID, "channel_id", id)
		r.channels.Delete(guildID)
	}
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildText && channel.Name == r.channelName {
			return channel
		}
	}
	return nil
}

// ensureChannel makes sure the companion text channel exists and lets the Muted
// role read it. Failures are returned, never swallowed.
func (r *MutedRoles) ensureChannel(ctx context.Context, s discord.Session, guildID string, setup *MuteSetup, companion *discordgo.Channel) (string, error) {
	roleID := setup.Role.ID

	if companion != nil {
		if setup.Created {
			err := s.ChannelPermissionSet(companion.ID, roleID, discordgo.PermissionOverwriteTypeRole,
				discordgo.PermissionViewChannel|discordgo.PermissionReadMessageHistory, 0)
			if err != nil {
				r.log.Errorw("Error opening muted channel to muted role",
					"guild_id", guildID, "channel_id", companion.ID, "error", err)
				return companion.ID, fmt.Errorf("error updating #%s permissions: %w", r.channelName, err)
			}
		}
		r.rememberChannel(ctx, guildID, companion.ID)
		return companion.ID, nil
	}

	me, err := s.GetBotUser()
	if err != nil {
		r.log.Errorw("Error fetching bot user", "guild_id", guildID, "error", err)
		return "", fmt.Errorf("error fetching bot user: %w", err)
	}

	channel, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: r.channelName,
		Type: discordgo.ChannelTypeGuildText,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				// @everyone shares the guild ID
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionReadMessageHistory,
			},
			{
				ID:    me.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
			},
			{
				ID:    roleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionReadMessageHistory,
			},
		},
	})
	if err != nil {
		r.log.Errorw("Error creating muted channel", "guild_id", guildID, "error", err)
		return "", fmt.Errorf("error creating #%s: %w", r.channelName, err)
	}

	r.log.Infow("Created muted channel", "guild_id", guildID, "channel_id", channel.ID)
	r.rememberChannel(ctx, guildID, channel.ID)
	return channel.ID, nil
}

func (r *MutedRoles) rememberChannel(ctx context.Context, guildID, channelID string) {
	if prev, ok := r.channels.Load(guildID); ok && prev == channelID {
		return
	}
	r.channels.Store(guildID, channelID)
	if err := r.store.SaveMutedChannel(ctx, guildID, channelID); err != nil {
		r.log.Warnw("Error saving muted channel", "guild_id", guildID, "channel_id", channelID, "error", err)
	}
}
