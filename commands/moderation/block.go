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

const overwriteForbidden = "I need the Manage Roles permission to change this channel's permissions."

// Block denies a member Send Messages in the current channel.
func Block(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	member, err := punishable(s, m, args)
	if err != nil {
		return err
	}

	err = s.ChannelPermissionSet(m.ChannelID, member.User.ID, discordgo.PermissionOverwriteTypeMember,
		0, discordgo.PermissionSendMessages, discordgo.WithAuditLogReason(auditReason(m, utils.NoReason)))
	if err != nil {
		return commands.Forbidden(err, overwriteForbidden)
	}

	b.Record(ctx, newAction(m, member.User.ID, store.KindBlock, ""))
	return reply(s, m, "%s has been blocked from this channel", utils.Mention(member.User.ID))
}

// Unblock explicitly allows a member Send Messages in the current channel.
func Unblock(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	member, err := punishable(s, m, args)
	if err != nil {
		return err
	}

	err = s.ChannelPermissionSet(m.ChannelID, member.User.ID, discordgo.PermissionOverwriteTypeMember,
		discordgo.PermissionSendMessages, 0, discordgo.WithAuditLogReason(auditReason(m, utils.NoReason)))
	if err != nil {
		return commands.Forbidden(err, overwriteForbidden)
	}

	b.Record(ctx, newAction(m, member.User.ID, store.KindUnblock, ""))
	return reply(s, m, "%s has been unblocked in this channel", utils.Mention(member.User.ID))
}
