package moderation

import (
	"context"

	"modbot/bot"
	"modbot/commands"
	"modbot/discord"
	"modbot/store"
	"modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// VoiceMute server-mutes a member in voice channels.
func VoiceMute(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	member, err := punishable(s, m, args)
	if err != nil {
		return err
	}
	reason := utils.ReasonOrDefault(reasonFrom(args))

	err = s.GuildMemberMute(m.GuildID, member.User.ID, true, discordgo.WithAuditLogReason(auditReason(m, reason)))
	if err != nil {
		return commands.Forbidden(err, "I need the Mute Members permission to voice mute users.")
	}

	b.Record(ctx, newAction(m, member.User.ID, store.KindVoiceMute, reason))
	return reply(s, m, "%s has been voice muted for %s", utils.Mention(member.User.ID), reason)
}

// VoiceUnmute lifts a voice server-mute.
func VoiceUnmute(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	token, err := targetToken(args)
	if err != nil {
		return err
	}
	member, err := resolveMember(s, m.GuildID, token)
	if err != nil {
		return err
	}

	err = s.GuildMemberMute(m.GuildID, member.User.ID, false)
	if err != nil {
		return commands.Forbidden(err, "I need the Mute Members permission to voice unmute users.")
	}

	b.Record(ctx, newAction(m, member.User.ID, store.KindVUnmute, ""))
	return reply(s, m, "%s has been voice unmuted", utils.Mention(member.User.ID))
}
