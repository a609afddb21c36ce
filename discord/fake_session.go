package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// FakeSession is a programmable stub for the Session interface. Every method
// records its name in a trace and delegates to the matching Func field when set.
type FakeSession struct {
	mu    sync.Mutex
	trace []string

	// --- Message Methods ---
	ChannelMessageSendFunc        func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbedFunc   func(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessagesFunc           func(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDeleteFunc func(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDeleteFunc      func(channelID, messageID string, options ...discordgo.RequestOption) error

	// --- Channel Methods ---
	ChannelEditFunc          func(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelPermissionSetFunc func(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error

	// --- Guild Methods ---
	GuildFunc                     func(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildRolesFunc                func(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildRoleCreateFunc           func(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildChannelsFunc             func(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplexFunc func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)

	// --- Member Methods ---
	GuildMemberFunc                 func(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMembersSearchFunc          func(guildID, query string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildMemberRoleAddFunc          func(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemoveFunc       func(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberDeleteWithReasonFunc func(guildID, userID, reason string, options ...discordgo.RequestOption) error
	GuildMemberMuteFunc             func(guildID, userID string, mute bool, options ...discordgo.RequestOption) error
	GuildBanCreateWithReasonFunc    func(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error
	GuildBanDeleteFunc              func(guildID, userID string, options ...discordgo.RequestOption) error

	GetBotUserFunc func() (*discordgo.User, error)

	// --- Handler/Lifecycle Methods ---
	AddHandlerFunc func(handler interface{}) func()
	OpenFunc       func() error
	CloseFunc      func() error
}

// NewFakeSession initializes a new FakeSession with an empty trace.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		trace: []string{},
	}
}

func (f *FakeSession) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeSession) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Calls returns how many times method was invoked.
func (f *FakeSession) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, step := range f.trace {
		if step == method {
			n++
		}
	}
	return n
}

// --- Message Methods Implementation ---

func (f *FakeSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageSend")
	if f.ChannelMessageSendFunc != nil {
		return f.ChannelMessageSendFunc(channelID, content, options...)
	}
	return &discordgo.Message{ID: "fake-msg-123", ChannelID: channelID, Content: content}, nil
}

func (f *FakeSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageSendEmbed")
	if f.ChannelMessageSendEmbedFunc != nil {
		return f.ChannelMessageSendEmbedFunc(channelID, embed, options...)
	}
	return &discordgo.Message{ID: "fake-msg-123", ChannelID: channelID, Embeds: []*discordgo.MessageEmbed{embed}}, nil
}

func (f *FakeSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.record("ChannelMessages")
	if f.ChannelMessagesFunc != nil {
		return f.ChannelMessagesFunc(channelID, limit, beforeID, afterID, aroundID, options...)
	}
	return []*discordgo.Message{}, nil
}

func (f *FakeSession) ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error {
	f.record("ChannelMessagesBulkDelete")
	if f.ChannelMessagesBulkDeleteFunc != nil {
		return f.ChannelMessagesBulkDeleteFunc(channelID, messages, options...)
	}
	return nil
}

func (f *FakeSession) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	f.record("ChannelMessageDelete")
	if f.ChannelMessageDeleteFunc != nil {
		return f.ChannelMessageDeleteFunc(channelID, messageID, options...)
	}
	return nil
}

// --- Channel Methods Implementation ---

func (f *FakeSession) ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.record("ChannelEdit")
	if f.ChannelEditFunc != nil {
		return f.ChannelEditFunc(channelID, data, options...)
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func (f *FakeSession) ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error {
	f.record("ChannelPermissionSet")
	if f.ChannelPermissionSetFunc != nil {
		return f.ChannelPermissionSetFunc(channelID, targetID, targetType, allow, deny, options...)
	}
	return nil
}

// --- Guild Methods Implementation ---

func (f *FakeSession) Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	f.record("Guild")
	if f.GuildFunc != nil {
		return f.GuildFunc(guildID, options...)
	}
	return &discordgo.Guild{ID: guildID, Name: "Fake Guild"}, nil
}

func (f *FakeSession) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	f.record("GuildRoles")
	if f.GuildRolesFunc != nil {
		return f.GuildRolesFunc(guildID, options...)
	}
	return []*discordgo.Role{}, nil
}

func (f *FakeSession) GuildRoleCreate(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
	f.record("GuildRoleCreate")
	if f.GuildRoleCreateFunc != nil {
		return f.GuildRoleCreateFunc(guildID, params, options...)
	}
	return &discordgo.Role{ID: "fake-role-123", Name: params.Name}, nil
}

func (f *FakeSession) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	f.record("GuildChannels")
	if f.GuildChannelsFunc != nil {
		return f.GuildChannelsFunc(guildID, options...)
	}
	return []*discordgo.Channel{}, nil
}

func (f *FakeSession) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.record("GuildChannelCreateComplex")
	if f.GuildChannelCreateComplexFunc != nil {
		return f.GuildChannelCreateComplexFunc(guildID, data, options...)
	}
	return &discordgo.Channel{ID: "fake-channel-123", GuildID: guildID, Name: data.Name, Type: data.Type}, nil
}

// --- Member Methods Implementation ---

func (f *FakeSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.record("GuildMember")
	if f.GuildMemberFunc != nil {
		return f.GuildMemberFunc(guildID, userID, options...)
	}
	return &discordgo.Member{GuildID: guildID, User: &discordgo.User{ID: userID}}, nil
}

func (f *FakeSession) GuildMembersSearch(guildID, query string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	f.record("GuildMembersSearch")
	if f.GuildMembersSearchFunc != nil {
		return f.GuildMembersSearchFunc(guildID, query, limit, options...)
	}
	return []*discordgo.Member{}, nil
}

func (f *FakeSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.record("GuildMemberRoleAdd")
	if f.GuildMemberRoleAddFunc != nil {
		return f.GuildMemberRoleAddFunc(guildID, userID, roleID, options...)
	}
	return nil
}

func (f *FakeSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.record("GuildMemberRoleRemove")
	if f.GuildMemberRoleRemoveFunc != nil {
		return f.GuildMemberRoleRemoveFunc(guildID, userID, roleID, options...)
	}
	return nil
}

func (f *FakeSession) GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error {
	f.record("GuildMemberDeleteWithReason")
	if f.GuildMemberDeleteWithReasonFunc != nil {
		return f.GuildMemberDeleteWithReasonFunc(guildID, userID, reason, options...)
	}
	return nil
}

func (f *FakeSession) GuildMemberMute(guildID, userID string, mute bool, options ...discordgo.RequestOption) error {
	f.record("GuildMemberMute")
	if f.GuildMemberMuteFunc != nil {
		return f.GuildMemberMuteFunc(guildID, userID, mute, options...)
	}
	return nil
}

func (f *FakeSession) GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error {
	f.record("GuildBanCreateWithReason")
	if f.GuildBanCreateWithReasonFunc != nil {
		return f.GuildBanCreateWithReasonFunc(guildID, userID, reason, days, options...)
	}
	return nil
}

func (f *FakeSession) GuildBanDelete(guildID, userID string, options ...discordgo.RequestOption) error {
	f.record("GuildBanDelete")
	if f.GuildBanDeleteFunc != nil {
		return f.GuildBanDeleteFunc(guildID, userID, options...)
	}
	return nil
}

func (f *FakeSession) GetBotUser() (*discordgo.User, error) {
	f.record("GetBotUser")
	if f.GetBotUserFunc != nil {
		return f.GetBotUserFunc()
	}
	return &discordgo.User{ID: "bot-user-id", Username: "modbot", Bot: true}, nil
}

// --- Handler/Lifecycle Methods Implementation ---

func (f *FakeSession) AddHandler(handler interface{}) func() {
	f.record("AddHandler")
	if f.AddHandlerFunc != nil {
		return f.AddHandlerFunc(handler)
	}
	return func() {}
}

func (f *FakeSession) Open() error {
	f.record("Open")
	if f.OpenFunc != nil {
		return f.OpenFunc()
	}
	return nil
}

func (f *FakeSession) Close() error {
	f.record("Close")
	if f.CloseFunc != nil {
		return f.CloseFunc()
	}
	return nil
}

var _ Session = (*FakeSession)(nil)
var _ Session = (*DiscordSession)(nil)
