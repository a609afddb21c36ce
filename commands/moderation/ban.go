package moderation

import (
	"context"
	"fmt"

	"modbot/bot"
	"modbot/commands"
	"modbot/discord"
	"modbot/store"
	"modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// Ban removes a member from the guild permanently.
func Ban(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	member, err := punishable(s, m, args)
	if err != nil {
		return err
	}
	reason := utils.ReasonOrDefault(reasonFrom(args))

	err = s.GuildBanCreateWithReason(m.GuildID, member.User.ID, auditReason(m, reason), 0)
	if err != nil {
		return commands.Forbidden(err, "Are you trying to ban someone higher than the bot?")
	}

	b.Log.Infow("Banned member", "guild_id", m.GuildID, "user_id", member.User.ID, "moderator_id", m.Author.ID)
	b.Record(ctx, newAction(m, member.User.ID, store.KindBan, reason))
	return reply(s, m, "%s was banned for: %s.", utils.Mention(member.User.ID), reason)
}

// Softban bans a member, deleting a day of their messages, and lifts the ban at once.
func Softban(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	member, err := punishable(s, m, args)
	if err != nil {
		return err
	}
	reason := utils.ReasonOrDefault(reasonFrom(args))
	userID := member.User.ID

	err = s.GuildBanCreateWithReason(m.GuildID, userID, auditReason(m, reason), 1)
	if err != nil {
		return commands.Forbidden(err, "Are you trying to soft-ban someone higher than the bot?")
	}

	if err := s.GuildBanDelete(m.GuildID, userID, discordgo.WithAuditLogReason("Temporarily Banned")); err != nil {
		b.Log.Errorw("Error lifting soft-ban", "guild_id", m.GuildID, "user_id", userID, "error", err)
		b.Record(ctx, newAction(m, userID, store.KindBan, reason))
		return commands.Forbidden(
			fmt.Errorf("error lifting soft-ban of %s: %w", userID, err),
			fmt.Sprintf("%s was banned but the ban could not be lifted, unban them manually.", utils.Mention(userID)),
		)
	}

	b.Log.Infow("Soft-banned member", "guild_id", m.GuildID, "user_id", userID, "moderator_id", m.Author.ID)
	b.Record(ctx, newAction(m, userID, store.KindSoftban, reason))
	return reply(s, m, "%s was soft-banned for: %s.", utils.Mention(userID), reason)
}

// Unban lifts the ban of a user given by mention or ID.
func Unban(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	token, err := targetToken(args)
	if err != nil {
		return err
	}
	userID, err := utils.ExtractUserID(token)
	if err != nil {
		return commands.Argumentf("Please specify a valid user ID to unban.")
	}
	reason := utils.ReasonOrDefault(reasonFrom(args))

	err = s.GuildBanDelete(m.GuildID, userID, discordgo.WithAuditLogReason(auditReason(m, reason)))
	if err != nil {
		if utils.IsNotFound(err) {
			return commands.Argumentf("%s is not banned.", utils.Mention(userID))
		}
		return commands.Forbidden(err, "I need the Ban Members permission to unban users.")
	}

	b.Record(ctx, newAction(m, userID, store.KindUnban, reason))
	return reply(s, m, "Unbanned user %s", utils.Mention(userID))
}
