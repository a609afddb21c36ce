package discord

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDiscordSession_GuildBanDelete_ForwardsAuditReason(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotReason string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotReason = r.Header.Get("X-Audit-Log-Reason")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	originalEndpointGuilds := discordgo.EndpointGuilds
	discordgo.EndpointGuilds = server.URL + "/guilds/"
	t.Cleanup(func() {
		discordgo.EndpointGuilds = originalEndpointGuilds
	})

	underlying, err := discordgo.New("Bot unit-test-token")
	require.NoError(t, err)
	underlying.Client = server.Client()

	session := NewDiscordSession(underlying, zap.NewNop().Sugar())
	err = session.GuildBanDelete("guild-1", "user-2", discordgo.WithAuditLogReason("Temporarily Banned"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/guilds/guild-1/bans/user-2", gotPath)
	assert.Contains(t, gotReason, "Temporarily")
}

func TestFakeSession_RecordsCalls(t *testing.T) {
	fake := NewFakeSession()

	_, _ = fake.ChannelMessageSend("c", "hi")
	_ = fake.GuildMemberRoleAdd("g", "u", "r")
	_, _ = fake.ChannelMessageSend("c", "again")

	assert.Equal(t, []string{"ChannelMessageSend", "GuildMemberRoleAdd", "ChannelMessageSend"}, fake.Trace())
	assert.Equal(t, 2, fake.Calls("ChannelMessageSend"))
	assert.Equal(t, 0, fake.Calls("GuildBanDelete"))
}
