package help

import (
	"context"
	"fmt"
	"strings"

	"modbot/bot"
	"modbot/commands"
	"modbot/discord"

	"github.com/bwmarrin/discordgo"
)

// CommandList lists every command with its description, optionally for one category.
func CommandList(_ context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	var category string
	if len(args) > 1 {
		category = strings.ToLower(args[1])
	}

	title := "Commands"
	embed := &discordgo.MessageEmbed{Color: embedColor}
	for _, cmdInfo := range commands.AllCommands() {
		if category != "" && strings.ToLower(cmdInfo.Category) != category {
			continue
		}
		if category != "" {
			title = fmt.Sprintf("Commands - %s", cmdInfo.Category)
		}

		description := cmdInfo.Description
		if description == "" {
			description = "No description available"
		}

		// Add aliases if they exist
		aliasText := ""
		if len(cmdInfo.Aliases) > 0 {
			aliasText = fmt.Sprintf(" (Aliases: %s)", strings.Join(cmdInfo.Aliases, ", "))
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s%s%s", b.Config.Discord.Prefix, cmdInfo.Name, aliasText),
			Value: description,
		})
	}

	if len(embed.Fields) == 0 {
		return commands.Argumentf("Invalid category. Use `%scommandlist` to see all commands.", b.Config.Discord.Prefix)
	}
	embed.Title = title

	_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	return err
}
