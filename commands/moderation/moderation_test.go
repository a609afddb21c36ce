package moderation

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"modbot/bot"
	"modbot/commands"
	"modbot/config"
	"modbot/discord"
	"modbot/store"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	guildID   = "500"
	channelID = "600"
	aliceID   = "1001"
	staffID   = "1002"
	modID     = "1003"
	commandID = "9000"
)

type harness struct {
	t     *testing.T
	b     *bot.Bot
	fake  *discord.FakeSession
	st    *store.Memory
	guild *discordgo.Guild

	mu      sync.Mutex
	members map[string]*discordgo.Member
	sent    []string
	errors  []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st := store.NewMemory()
	h := &harness{
		t:    t,
		st:   st,
		b:    bot.New(config.Default(), st, zap.NewNop().Sugar()),
		fake: discord.NewFakeSession(),
		guild: &discordgo.Guild{
			ID:      guildID,
			OwnerID: "1",
			Roles: []*discordgo.Role{
				{ID: guildID, Name: "@everyone", Permissions: discordgo.PermissionSendMessages},
				{ID: "staff-role", Name: "Helpers", Permissions: discordgo.PermissionManageMessages},
				{ID: "mod-role", Name: "Moderators", Permissions: discordgo.PermissionBanMembers |
					discordgo.PermissionKickMembers | discordgo.PermissionManageRoles |
					discordgo.PermissionManageMessages | discordgo.PermissionManageChannels |
					discordgo.PermissionVoiceMuteMembers},
			},
		},
		members: map[string]*discordgo.Member{
			aliceID: {User: &discordgo.User{ID: aliceID, Username: "alice", Discriminator: "0"}},
			staffID: {User: &discordgo.User{ID: staffID, Username: "helper", Discriminator: "0"}, Nick: "Helpful", Roles: []string{"staff-role"}},
			modID:   {User: &discordgo.User{ID: modID, Username: "mod", Discriminator: "0"}, Roles: []string{"mod-role"}},
		},
	}

	h.fake.GuildFunc = func(string, ...discordgo.RequestOption) (*discordgo.Guild, error) {
		return h.guild, nil
	}
	h.fake.GuildRolesFunc = func(string, ...discordgo.RequestOption) ([]*discordgo.Role, error) {
		return h.guild.Roles, nil
	}
	h.fake.GuildMemberFunc = func(_, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if member, ok := h.members[userID]; ok {
			return member, nil
		}
		return nil, restError(http.StatusNotFound)
	}
	h.fake.GuildMembersSearchFunc = func(_, query string, _ int, _ ...discordgo.RequestOption) ([]*discordgo.Member, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		var out []*discordgo.Member
		for _, member := range h.members {
			if strings.HasPrefix(strings.ToLower(member.User.Username), strings.ToLower(query)) ||
				strings.HasPrefix(strings.ToLower(member.Nick), strings.ToLower(query)) {
				out = append(out, member)
			}
		}
		return out, nil
	}
	h.fake.ChannelMessageSendFunc = func(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.sent = append(h.sent, content)
		return &discordgo.Message{ID: "reply", ChannelID: channelID, Content: content}, nil
	}
	h.fake.ChannelMessageSendEmbedFunc = func(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.errors = append(h.errors, embed.Description)
		return &discordgo.Message{ID: "reply", ChannelID: channelID}, nil
	}
	return h
}

func restError(status int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: status}}
}

// run dispatches content as if the moderator typed it.
func (h *harness) run(content string) {
	h.runAs(modID, content)
}

func (h *harness) runAs(authorID, content string) {
	h.t.Helper()
	author := h.members[authorID]
	commands.Dispatch(context.Background(), h.b, h.fake, &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ID:        commandID,
			ChannelID: channelID,
			GuildID:   guildID,
			Content:   content,
			Author:    author.User,
			Member:    &discordgo.Member{Roles: author.Roles},
		},
	})
}

func (h *harness) lastSent() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(h.t, h.sent, "no reply sent")
	return h.sent[len(h.sent)-1]
}

func (h *harness) lastError() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(h.t, h.errors, "no error reply sent")
	return h.errors[len(h.errors)-1]
}

func (h *harness) actions() []store.Action {
	actions, err := h.st.Actions(context.Background(), guildID, 0)
	require.NoError(h.t, err)
	return actions
}

var mutations = []string{
	"GuildBanCreateWithReason",
	"GuildBanDelete",
	"GuildMemberDeleteWithReason",
	"GuildMemberRoleAdd",
	"GuildMemberRoleRemove",
	"GuildMemberMute",
	"GuildRoleCreate",
	"ChannelPermissionSet",
	"ChannelEdit",
	"ChannelMessagesBulkDelete",
	"ChannelMessageDelete",
}

func (h *harness) assertNoMutations() {
	h.t.Helper()
	for _, method := range mutations {
		assert.Zero(h.t, h.fake.Calls(method), method)
	}
}

func TestStaffCannotBeTargeted(t *testing.T) {
	for _, command := range []string{"ban", "softban", "kick", "mute", "voicemute", "block", "unblock"} {
		t.Run(command, func(t *testing.T) {
			h := newHarness(t)
			h.run("." + command + " <@" + staffID + "> reason")

			assert.Equal(t, staffTarget, h.lastError())
			h.assertNoMutations()
			assert.Empty(t, h.actions())
		})
	}
}

func TestStaffMatchedByNickname(t *testing.T) {
	h := newHarness(t)
	h.run(".ban helpful")

	assert.Equal(t, staffTarget, h.lastError())
	h.assertNoMutations()
}

func TestMissingUser(t *testing.T) {
	for _, command := range []string{"ban", "softban", "kick", "mute", "unmute", "block", "unblock", "unban"} {
		t.Run(command, func(t *testing.T) {
			h := newHarness(t)
			h.run("." + command)

			assert.Equal(t, commands.MissingUser, h.lastError())
			h.assertNoMutations()
		})
	}
}

func TestUnknownMember(t *testing.T) {
	h := newHarness(t)
	h.run(".kick nobody")
	assert.Equal(t, `Member "nobody" not found.`, h.lastError())

	h.run(".kick <@4242>")
	assert.Equal(t, `Member "<@4242>" not found.`, h.lastError())
	h.assertNoMutations()
}

func TestInvokerNeedsPermission(t *testing.T) {
	h := newHarness(t)
	h.runAs(aliceID, ".ban <@"+staffID+">")

	assert.Equal(t, commands.NoPermission, h.lastError())
	h.assertNoMutations()
	assert.Zero(t, h.fake.Calls("GuildMember"))
}

func TestBan(t *testing.T) {
	h := newHarness(t)
	var gotUser, gotReason string
	var gotDays int
	h.fake.GuildBanCreateWithReasonFunc = func(_, userID, reason string, days int, _ ...discordgo.RequestOption) error {
		gotUser, gotReason, gotDays = userID, reason, days
		return nil
	}

	h.run(".ban alice being rude")

	assert.Equal(t, aliceID, gotUser)
	assert.Equal(t, "By mod for being rude", gotReason)
	assert.Zero(t, gotDays)
	assert.Equal(t, "<@1001> was banned for: being rude.", h.lastSent())

	actions := h.actions()
	require.Len(t, actions, 1)
	assert.Equal(t, store.KindBan, actions[0].Kind)
	assert.Equal(t, aliceID, actions[0].TargetID)
	assert.Equal(t, modID, actions[0].ModeratorID)
	assert.Equal(t, "being rude", actions[0].Reason)
}

func TestBanDefaultsReason(t *testing.T) {
	h := newHarness(t)
	h.run(".ban <@!1001>")
	assert.Equal(t, "<@1001> was banned for: None Specified.", h.lastSent())
}

func TestBanForbidden(t *testing.T) {
	h := newHarness(t)
	h.fake.GuildBanCreateWithReasonFunc = func(string, string, string, int, ...discordgo.RequestOption) error {
		return restError(http.StatusForbidden)
	}

	h.run(".ban alice")

	assert.Equal(t, "Are you trying to ban someone higher than the bot?", h.lastError())
	assert.Empty(t, h.sent)
	assert.Empty(t, h.actions())
}

func TestBanUnexpectedError(t *testing.T) {
	h := newHarness(t)
	h.fake.GuildBanCreateWithReasonFunc = func(string, string, string, int, ...discordgo.RequestOption) error {
		return restError(http.StatusInternalServerError)
	}

	h.run(".ban alice")

	assert.Equal(t, "An error occurred. Please try again.", h.lastError())
}

func TestSoftban(t *testing.T) {
	h := newHarness(t)
	var days int
	h.fake.GuildBanCreateWithReasonFunc = func(_, _, _ string, d int, _ ...discordgo.RequestOption) error {
		days = d
		return nil
	}

	h.run(".softban alice")

	assert.Equal(t, 1, days)
	trace := h.fake.Trace()
	ban, unban := -1, -1
	for i, step := range trace {
		switch step {
		case "GuildBanCreateWithReason":
			ban = i
		case "GuildBanDelete":
			unban = i
		}
	}
	require.NotEqual(t, -1, unban)
	assert.Less(t, ban, unban)
	assert.Equal(t, "<@1001> was soft-banned for: None Specified.", h.lastSent())
}

func TestSoftbanForbidden(t *testing.T) {
	h := newHarness(t)
	h.fake.GuildBanCreateWithReasonFunc = func(string, string, string, int, ...discordgo.RequestOption) error {
		return restError(http.StatusForbidden)
	}

	h.run(".softban alice")

	assert.Equal(t, "Are you trying to soft-ban someone higher than the bot?", h.lastError())
	assert.Zero(t, h.fake.Calls("GuildBanDelete"))
}

func TestUnban(t *testing.T) {
	h := newHarness(t)
	h.run(".unban 1001 appealed")
	assert.Equal(t, "Unbanned user <@1001>", h.lastSent())

	h.fake.GuildBanDeleteFunc = func(string, string, ...discordgo.RequestOption) error {
		return restError(http.StatusNotFound)
	}
	h.run(".unban 1001")
	assert.Equal(t, "<@1001> is not banned.", h.lastError())
}

func TestKick(t *testing.T) {
	h := newHarness(t)
	var gotReason string
	h.fake.GuildMemberDeleteWithReasonFunc = func(_, _, reason string, _ ...discordgo.RequestOption) error {
		gotReason = reason
		return nil
	}

	h.run(`.kick alice "off topic" again`)

	assert.Equal(t, "By mod for off topic again", gotReason)
	assert.Equal(t, "<@1001> was kicked for: off topic again.", h.lastSent())
}

func TestKickForbidden(t *testing.T) {
	h := newHarness(t)
	h.fake.GuildMemberDeleteWithReasonFunc = func(string, string, string, ...discordgo.RequestOption) error {
		return &discordgo.RESTError{
			Response: &http.Response{StatusCode: http.StatusBadRequest},
			Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
		}
	}

	h.run(".kick alice")

	assert.Equal(t, "Are you trying to kick someone higher than the bot?", h.lastError())
}

func TestMuteCreatesRoleAndAppliesIt(t *testing.T) {
	h := newHarness(t)
	var added string
	h.fake.GuildMemberRoleAddFunc = func(_, userID, roleID string, _ ...discordgo.RequestOption) error {
		assert.Equal(t, aliceID, userID)
		added = roleID
		return nil
	}

	h.run(".mute alice spamming")

	assert.Equal(t, 1, h.fake.Calls("GuildRoleCreate"))
	assert.Equal(t, "fake-role-123", added)
	assert.Equal(t, "<@1001> has been muted for spamming", h.lastSent())
	assert.Empty(t, h.errors)

	gs, err := h.st.GuildSettings(context.Background(), guildID)
	require.NoError(t, err)
	assert.Equal(t, "fake-role-123", gs.MutedRoleID)
}

func TestMuteReusesExistingRole(t *testing.T) {
	h := newHarness(t)
	h.guild.Roles = append(h.guild.Roles, &discordgo.Role{ID: "muted-role", Name: "Muted"})
	h.fake.GuildChannelsFunc = func(string, ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
		return []*discordgo.Channel{{ID: "700", Name: "muted", Type: discordgo.ChannelTypeGuildText}}, nil
	}

	h.run(".mute alice")

	assert.Zero(t, h.fake.Calls("GuildRoleCreate"))
	assert.Zero(t, h.fake.Calls("GuildChannelCreateComplex"))
	assert.Equal(t, "<@1001> has been muted for None Specified", h.lastSent())
}

func TestMuteRoleCreationForbidden(t *testing.T) {
	h := newHarness(t)
	h.fake.GuildRoleCreateFunc = func(string, *discordgo.RoleParams, ...discordgo.RequestOption) (*discordgo.Role, error) {
		return nil, restError(http.StatusForbidden)
	}

	h.run(".mute alice")

	assert.Equal(t, "I have no permissions to make a muted role", h.lastError())
	assert.Zero(t, h.fake.Calls("GuildMemberRoleAdd"))
	assert.Zero(t, h.fake.Calls("ChannelPermissionSet"))
}

func TestMuteReportsPartialSetup(t *testing.T) {
	h := newHarness(t)
	h.fake.GuildChannelsFunc = func(string, ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
		return []*discordgo.Channel{
			{ID: "701", Name: "general", Type: discordgo.ChannelTypeGuildText},
			{ID: "702", Name: "staff", Type: discordgo.ChannelTypeGuildText},
		}, nil
	}
	h.fake.ChannelPermissionSetFunc = func(channelID, _ string, _ discordgo.PermissionOverwriteType, _, _ int64, _ ...discordgo.RequestOption) error {
		if channelID == "702" {
			return restError(http.StatusForbidden)
		}
		return nil
	}
	h.fake.GuildChannelCreateComplexFunc = func(string, discordgo.GuildChannelCreateData, ...discordgo.RequestOption) (*discordgo.Channel, error) {
		return nil, restError(http.StatusForbidden)
	}

	h.run(".mute alice spamming")

	reply := h.lastSent()
	assert.True(t, strings.HasPrefix(reply, "<@1001> has been muted for spamming\n"), reply)
	assert.Contains(t, reply, "Could not restrict the Muted role in: <#702>")
	assert.Contains(t, reply, "Could not set up the #muted channel.")
	assert.Equal(t, 1, h.fake.Calls("GuildMemberRoleAdd"))
}

func TestUnmuteRequiresMutedMember(t *testing.T) {
	h := newHarness(t)
	h.guild.Roles = append(h.guild.Roles, &discordgo.Role{ID: "muted-role", Name: "Muted"})

	h.run(".unmute alice")

	assert.Equal(t, "The user was not muted.", h.lastError())
	assert.Zero(t, h.fake.Calls("GuildMemberRoleRemove"))
}

func TestUnmuteWithoutMutedRole(t *testing.T) {
	h := newHarness(t)
	h.run(".unmute alice")

	assert.Equal(t, "The user was not muted.", h.lastError())
	assert.Zero(t, h.fake.Calls("GuildRoleCreate"))
}

func TestUnmute(t *testing.T) {
	h := newHarness(t)
	h.guild.Roles = append(h.guild.Roles, &discordgo.Role{ID: "muted-role", Name: "Muted"})
	h.members[aliceID].Roles = []string{"muted-role"}
	var removed string
	h.fake.GuildMemberRoleRemoveFunc = func(_, _, roleID string, _ ...discordgo.RequestOption) error {
		removed = roleID
		return nil
	}

	h.run(".um alice")

	assert.Equal(t, "muted-role", removed)
	assert.Equal(t, "<@1001> has been unmuted", h.lastSent())
	actions := h.actions()
	require.Len(t, actions, 1)
	assert.Equal(t, store.KindUnmute, actions[0].Kind)
}

func TestVoiceMute(t *testing.T) {
	h := newHarness(t)
	var states []bool
	h.fake.GuildMemberMuteFunc = func(_, _ string, mute bool, _ ...discordgo.RequestOption) error {
		states = append(states, mute)
		return nil
	}

	h.run(".vm alice loud")
	assert.Equal(t, "<@1001> has been voice muted for loud", h.lastSent())
	h.run(".vunmute alice")
	assert.Equal(t, "<@1001> has been voice unmuted", h.lastSent())
	assert.Equal(t, []bool{true, false}, states)
}

// pagedChannel serves ChannelMessages from a channel holding total messages.
func pagedChannel(h *harness, total int) *[]int {
	var pages []int
	served := 0
	h.fake.ChannelMessagesFunc = func(_ string, limit int, beforeID, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
		assert.NotEmpty(h.t, beforeID)
		pages = append(pages, limit)
		var out []*discordgo.Message
		for i := 0; i < limit && served < total; i++ {
			served++
			out = append(out, &discordgo.Message{ID: strconv.Itoa(served)})
		}
		return out, nil
	}
	return &pages
}

func TestPurgeDeletesLimitPlusCommand(t *testing.T) {
	h := newHarness(t)
	pagedChannel(h, 500)
	var deleted []string
	h.fake.ChannelMessagesBulkDeleteFunc = func(_ string, ids []string, _ ...discordgo.RequestOption) error {
		deleted = append(deleted, ids...)
		return nil
	}

	h.run(".purge 5")

	require.Len(t, deleted, 6)
	assert.Equal(t, commandID, deleted[0])
	assert.Equal(t, "Bulk deleted `5` messages", h.lastSent())
}

func TestPurgePagesAndLeftover(t *testing.T) {
	h := newHarness(t)
	pages := pagedChannel(h, 500)
	var bulks []int
	h.fake.ChannelMessagesBulkDeleteFunc = func(_ string, ids []string, _ ...discordgo.RequestOption) error {
		bulks = append(bulks, len(ids))
		return nil
	}

	h.run(".purge 100")

	assert.Equal(t, []int{100}, *pages)
	assert.Equal(t, []int{100}, bulks)
	assert.Equal(t, 1, h.fake.Calls("ChannelMessageDelete"))
	assert.Equal(t, "Bulk deleted `100` messages", h.lastSent())
}

func TestPurgeLargeLimit(t *testing.T) {
	h := newHarness(t)
	pages := pagedChannel(h, 500)
	var total int
	h.fake.ChannelMessagesBulkDeleteFunc = func(_ string, ids []string, _ ...discordgo.RequestOption) error {
		total += len(ids)
		return nil
	}

	h.run(".purge 250")

	assert.Equal(t, []int{100, 100, 50}, *pages)
	assert.Equal(t, 251, total)
}

func TestPurgeRejectsBadLimit(t *testing.T) {
	for _, arg := range []string{"abc", "0", "-3"} {
		t.Run(arg, func(t *testing.T) {
			h := newHarness(t)
			h.run(".purge " + arg)

			assert.Equal(t, "The limit must be a positive number.", h.lastError())
			assert.Zero(t, h.fake.Calls("ChannelMessages"))
			h.assertNoMutations()
		})
	}
}

func TestPurgeForbidden(t *testing.T) {
	h := newHarness(t)
	pagedChannel(h, 10)
	h.fake.ChannelMessagesBulkDeleteFunc = func(string, []string, ...discordgo.RequestOption) error {
		return restError(http.StatusForbidden)
	}

	h.run(".purge 3")

	assert.Equal(t, "I need the Manage Messages permission to purge messages.", h.lastError())
}

func TestBlockAndUnblock(t *testing.T) {
	h := newHarness(t)
	type overwrite struct {
		channel, target string
		kind            discordgo.PermissionOverwriteType
		allow, deny     int64
	}
	var got []overwrite
	h.fake.ChannelPermissionSetFunc = func(channelID, targetID string, kind discordgo.PermissionOverwriteType, allow, deny int64, _ ...discordgo.RequestOption) error {
		got = append(got, overwrite{channelID, targetID, kind, allow, deny})
		return nil
	}

	h.run(".block alice")
	assert.Equal(t, "<@1001> has been blocked from this channel", h.lastSent())
	h.run(".unblock alice")
	assert.Equal(t, "<@1001> has been unblocked in this channel", h.lastSent())

	require.Len(t, got, 2)
	assert.Equal(t, overwrite{channelID, aliceID, discordgo.PermissionOverwriteTypeMember, 0, discordgo.PermissionSendMessages}, got[0])
	assert.Equal(t, overwrite{channelID, aliceID, discordgo.PermissionOverwriteTypeMember, discordgo.PermissionSendMessages, 0}, got[1])
}

func TestSlowmode(t *testing.T) {
	h := newHarness(t)
	var delay *int
	h.fake.ChannelEditFunc = func(id string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
		assert.Equal(t, channelID, id)
		delay = data.RateLimitPerUser
		return &discordgo.Channel{ID: id}, nil
	}

	h.run(".slowmode 30")

	require.NotNil(t, delay)
	assert.Equal(t, 30, *delay)
	assert.Equal(t, "Set the slowmode delay in this channel to 30 seconds!", h.lastSent())
}

func TestSlowmodeRejectsNegative(t *testing.T) {
	h := newHarness(t)
	h.run(".slowmode -1")

	assert.Equal(t, "The delay must be a whole number of seconds, zero or more.", h.lastError())
	assert.Zero(t, h.fake.Calls("ChannelEdit"))
}
