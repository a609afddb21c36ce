package moderation

import (
	"context"
	"strconv"

	"modbot/bot"
	"modbot/commands"
	"modbot/discord"
	"modbot/store"
	"modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// Slowmode sets the per-user message delay of the current channel. Zero turns it off.
func Slowmode(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 {
		return commands.Argumentf("Usage: %sslowmode <seconds>", b.Config.Discord.Prefix)
	}
	seconds, err := strconv.Atoi(args[1])
	if err != nil || seconds < 0 {
		return commands.Argumentf("The delay must be a whole number of seconds, zero or more.")
	}

	_, err = s.ChannelEdit(m.ChannelID, &discordgo.ChannelEdit{RateLimitPerUser: &seconds},
		discordgo.WithAuditLogReason(auditReason(m, utils.NoReason)))
	if err != nil {
		return commands.Forbidden(err, "I need the Manage Channels permission to change the slowmode.")
	}

	b.Record(ctx, newAction(m, "", store.KindSlowmode, strconv.Itoa(seconds)))
	return reply(s, m, "Set the slowmode delay in this channel to %d seconds!", seconds)
}
