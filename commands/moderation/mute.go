package moderation

import (
	"context"
	"fmt"
	"strings"

	"modbot/bot"
	"modbot/commands"
	"modbot/discord"
	"modbot/store"
	"modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// Mute gives a member the Muted role, setting the role up first if needed.
func Mute(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	member, err := punishable(s, m, args)
	if err != nil {
		return err
	}
	reason := utils.ReasonOrDefault(reasonFrom(args))

	setup, err := b.Muted.Ensure(ctx, s, m.GuildID)
	if err != nil {
		return commands.Forbidden(err, "I have no permissions to make a muted role")
	}

	err = s.GuildMemberRoleAdd(m.GuildID, member.User.ID, setup.Role.ID, discordgo.WithAuditLogReason(auditReason(m, reason)))
	if err != nil {
		return commands.Forbidden(err, "I cannot give out the Muted role, is it above my highest role?")
	}

	b.Log.Infow("Muted member", "guild_id", m.GuildID, "user_id", member.User.ID, "moderator_id", m.Author.ID)
	b.Record(ctx, newAction(m, member.User.ID, store.KindMute, reason))

	message := fmt.Sprintf("%s has been muted for %s", utils.Mention(member.User.ID), reason)
	if setup.Partial() {
		message += "\n" + setupWarning(setup, b.Config.Moderation.MutedChannelName)
	}
	_, err = s.ChannelMessageSend(m.ChannelID, message)
	return err
}

// Unmute takes the Muted role away from a muted member.
func Unmute(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	token, err := targetToken(args)
	if err != nil {
		return err
	}
	member, role, err := Muted(ctx, b, s, m, token)
	if err != nil {
		return err
	}

	err = s.GuildMemberRoleRemove(m.GuildID, member.User.ID, role.ID, discordgo.WithAuditLogReason(auditReason(m, utils.NoReason)))
	if err != nil {
		return commands.Forbidden(err, "I cannot take away the Muted role, is it above my highest role?")
	}

	b.Log.Infow("Unmuted member", "guild_id", m.GuildID, "user_id", member.User.ID, "moderator_id", m.Author.ID)
	b.Record(ctx, newAction(m, member.User.ID, store.KindUnmute, ""))
	return reply(s, m, "%s has been unmuted", utils.Mention(member.User.ID))
}

// setupWarning lists what went wrong while configuring the Muted role.
func setupWarning(setup *utils.MuteSetup, channelName string) string {
	var lines []string
	if len(setup.FailedChannels) > 0 {
		mentions := make([]string, len(setup.FailedChannels))
		for i, id := range setup.FailedChannels {
			mentions[i] = "<#" + id + ">"
		}
		lines = append(lines, "Could not restrict the Muted role in: "+strings.Join(mentions, ", "))
	}
	if setup.RestrictErr != nil {
		lines = append(lines, "Could not list the channels to restrict the Muted role in.")
	}
	if setup.ChannelErr != nil && setup.ChannelErr != setup.RestrictErr {
		lines = append(lines, fmt.Sprintf("Could not set up the #%s channel.", channelName))
	}
	return strings.Join(lines, "\n")
}
