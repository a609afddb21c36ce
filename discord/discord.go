package discord

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Session is the slice of the discordgo REST API the moderation commands use.
type Session interface {
	// Messages
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error

	// Channels
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error

	// Guild
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildRoleCreate(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)

	// Members
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMembersSearch(guildID, query string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error
	GuildMemberMute(guildID, userID string, mute bool, options ...discordgo.RequestOption) error
	GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error
	GuildBanDelete(guildID, userID string, options ...discordgo.RequestOption) error

	GetBotUser() (*discordgo.User, error)

	AddHandler(handler interface{}) func()
	Open() error
	Close() error
}

// DiscordSession is the Session backed by a live *discordgo.Session.
type DiscordSession struct {
	session *discordgo.Session
	logger  *zap.SugaredLogger
}

// NewDiscordSession wraps session.
func NewDiscordSession(session *discordgo.Session, logger *zap.SugaredLogger) *DiscordSession {
	return &DiscordSession{session: session, logger: logger}
}

// Underlying returns the wrapped discordgo session.
func (d *DiscordSession) Underlying() *discordgo.Session {
	return d.session
}

// AddHandler wraps the discordgo AddHandler method.
func (d *DiscordSession) AddHandler(handler interface{}) func() {
	return d.session.AddHandler(handler)
}

// Open wraps the discordgo Open method.
func (d *DiscordSession) Open() error {
	d.logger.Info("Opening discord websocket connection")
	return d.session.Open()
}

// Close wraps the discordgo Close method.
func (d *DiscordSession) Close() error {
	d.logger.Info("Closing discord websocket connection")
	return d.session.Close()
}

// GetBotUser returns the bot's own user, preferring the gateway state.
func (d *DiscordSession) GetBotUser() (*discordgo.User, error) {
	if d.session.State != nil && d.session.State.User != nil {
		return d.session.State.User, nil
	}
	return d.session.User("@me")
}

func (d *DiscordSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return d.session.ChannelMessageSend(channelID, content, options...)
}

func (d *DiscordSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return d.session.ChannelMessageSendEmbed(channelID, embed, options...)
}

func (d *DiscordSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	return d.session.ChannelMessages(channelID, limit, beforeID, afterID, aroundID, options...)
}

func (d *DiscordSession) ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error {
	return d.session.ChannelMessagesBulkDelete(channelID, messages, options...)
}

func (d *DiscordSession) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	return d.session.ChannelMessageDelete(channelID, messageID, options...)
}

func (d *DiscordSession) ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return d.session.ChannelEdit(channelID, data, options...)
}

func (d *DiscordSession) ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error {
	return d.session.ChannelPermissionSet(channelID, targetID, targetType, allow, deny, options...)
}

func (d *DiscordSession) Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	return d.session.Guild(guildID, options...)
}

func (d *DiscordSession) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return d.session.GuildRoles(guildID, options...)
}

func (d *DiscordSession) GuildRoleCreate(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
	return d.session.GuildRoleCreate(guildID, params, options...)
}

func (d *DiscordSession) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return d.session.GuildChannels(guildID, options...)
}

func (d *DiscordSession) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return d.session.GuildChannelCreateComplex(guildID, data, options...)
}

func (d *DiscordSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	return d.session.GuildMember(guildID, userID, options...)
}

func (d *DiscordSession) GuildMembersSearch(guildID, query string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	return d.session.GuildMembersSearch(guildID, query, limit, options...)
}

func (d *DiscordSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return d.session.GuildMemberRoleAdd(guildID, userID, roleID, options...)
}

func (d *DiscordSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return d.session.GuildMemberRoleRemove(guildID, userID, roleID, options...)
}

func (d *DiscordSession) GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error {
	return d.session.GuildMemberDeleteWithReason(guildID, userID, reason, options...)
}

func (d *DiscordSession) GuildMemberMute(guildID, userID string, mute bool, options ...discordgo.RequestOption) error {
	return d.session.GuildMemberMute(guildID, userID, mute, options...)
}

func (d *DiscordSession) GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error {
	return d.session.GuildBanCreateWithReason(guildID, userID, reason, days, options...)
}

func (d *DiscordSession) GuildBanDelete(guildID, userID string, options ...discordgo.RequestOption) error {
	return d.session.GuildBanDelete(guildID, userID, options...)
}
