package help

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"modbot/bot"
	"modbot/commands"
	"modbot/discord"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x00ff00

// Help shows the command categories, or the usage of one command.
func Help(_ context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error {
	prefix := b.Config.Discord.Prefix

	if len(args) > 1 {
		commandName := commands.Resolve(strings.ToLower(strings.TrimPrefix(args[1], prefix)))

		commandInfo, exists := commands.CommandDetails[commandName]
		if !exists {
			return commands.Argumentf("Command `%s` not found.", commandName)
		}

		_, err := s.ChannelMessageSendEmbed(m.ChannelID, commandEmbed(commandInfo))
		return err
	}

	// General help - show categories
	embed := &discordgo.MessageEmbed{
		Title:       "Help",
		Description: fmt.Sprintf("Here is a list of command categories. For more information on a specific command, type `%shelp <command>`.", prefix),
		Color:       embedColor,
	}

	for _, category := range categories() {
		var names []string
		for _, cmd := range commands.AllCommands() {
			if cmd.Category == category {
				names = append(names, "`"+cmd.Name+"`")
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  category,
			Value: strings.Join(names, ", "),
		})
	}

	_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	return err
}

func commandEmbed(info commands.CommandInfo) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Help: %s", info.Name),
		Description: info.Description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Usage",
				Value: fmt.Sprintf("`%s`", info.Usage),
			},
		},
	}

	// Add aliases if they exist
	if len(info.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Aliases",
			Value: strings.Join(info.Aliases, ", "),
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Category",
		Value: info.Category,
	})
	return embed
}

func categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, module := range commands.RegisteredModules {
		if module.Category != "" && !seen[module.Category] {
			seen[module.Category] = true
			out = append(out, module.Category)
		}
	}
	sort.Strings(out)
	return out
}
