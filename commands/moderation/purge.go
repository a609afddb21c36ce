package moderation

import (
	"context"
	"fmt"
	"strconv"

	"modbot/bot"
	"modbot/commands"
	"modbot/discord"
	"modbot/store"

	"github.com/bwmarrin/discordgo"
)

// bulkLimit is the most messages Discord fetches or bulk deletes per request.
const bulkLimit = 100

// Purge deletes the invoking message and the limit messages before it.
func Purge(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 {
		return commands.Argumentf("Usage: %spurge <limit>", b.Config.Discord.Prefix)
	}
	limit, err := strconv.Atoi(args[1])
	if err != nil || limit <= 0 {
		return commands.Argumentf("The limit must be a positive number.")
	}

	ids, err := collectMessages(s, m.ChannelID, m.ID, limit)
	if err != nil {
		return commands.Forbidden(err, "I need the Read Message History permission to purge messages.")
	}
	if err := deleteMessages(s, m.ChannelID, ids); err != nil {
		return commands.Forbidden(err, "I need the Manage Messages permission to purge messages.")
	}

	b.Log.Infow("Purged messages", "guild_id", m.GuildID, "channel_id", m.ChannelID, "count", len(ids), "moderator_id", m.Author.ID)
	b.Record(ctx, newAction(m, "", store.KindPurge, strconv.Itoa(limit)))
	return reply(s, m, "Bulk deleted `%d` messages", limit)
}

// collectMessages returns the invoking message followed by up to limit message
// IDs before it, newest first.
func collectMessages(s discord.Session, channelID, invokingID string, limit int) ([]string, error) {
	ids := []string{invokingID}
	before := invokingID
	for remaining := limit; remaining > 0; {
		page := min(remaining, bulkLimit)
		messages, err := s.ChannelMessages(channelID, page, before, "", "")
		if err != nil {
			return nil, fmt.Errorf("error fetching messages: %w", err)
		}
		for _, msg := range messages {
			ids = append(ids, msg.ID)
		}
		if len(messages) < page {
			break
		}
		before = messages[len(messages)-1].ID
		remaining -= len(messages)
	}
	return ids, nil
}

// deleteMessages removes ids in chunks of bulkLimit. Bulk delete needs at least
// two messages, so a lone leftover is deleted on its own.
func deleteMessages(s discord.Session, channelID string, ids []string) error {
	for start := 0; start < len(ids); start += bulkLimit {
		chunk := ids[start:min(start+bulkLimit, len(ids))]
		var err error
		if len(chunk) == 1 {
			err = s.ChannelMessageDelete(channelID, chunk[0])
		} else {
			err = s.ChannelMessagesBulkDelete(channelID, chunk)
		}
		if err != nil {
			return fmt.Errorf("error deleting messages: %w", err)
		}
	}
	return nil
}
