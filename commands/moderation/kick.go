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

// Kick removes a member from the guild.
func Kick(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	member, err := punishable(s, m, args)
	if err != nil {
		return err
	}
	reason := utils.ReasonOrDefault(reasonFrom(args))

	if err := s.GuildMemberDeleteWithReason(m.GuildID, member.User.ID, auditReason(m, reason)); err != nil {
		return commands.Forbidden(err, "Are you trying to kick someone higher than the bot?")
	}

	b.Log.Infow("Kicked member", "guild_id", m.GuildID, "user_id", member.User.ID, "moderator_id", m.Author.ID)
	b.Record(ctx, newAction(m, member.User.ID, store.KindKick, reason))
	return reply(s, m, "%s was kicked for: %s.", utils.Mention(member.User.ID), reason)
}
