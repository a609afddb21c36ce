package commands

import (
	"context"
	"errors"
	"strings"

	"modbot/bot"
	"modbot/discord"
	"modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// NoPermission is sent when the invoker lacks the command's permission.
const NoPermission = "You do not have permission to use this command."

// Handler adapts Dispatch to a discordgo MessageCreate handler.
func Handler(b *bot.Bot, s discord.Session) func(*discordgo.Session, *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		Dispatch(context.Background(), b, s, m)
	}
}

// Dispatch parses a prefixed guild message and runs the matching command.
func Dispatch(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	prefix := b.Config.Discord.Prefix
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	// Process commands that start with the prefix
	args := utils.SplitArgs(strings.TrimPrefix(m.Content, prefix))
	if len(args) == 0 {
		return
	}
	name := Resolve(strings.ToLower(args[0]))

	handler, ok := CommandMap[name]
	if !ok {
		return
	}
	// Moderation only makes sense inside a guild
	if m.GuildID == "" {
		return
	}

	b.Log.Debugw("Dispatching command", "command", name, "guild_id", m.GuildID, "author_id", m.Author.ID)

	if info, ok := CommandDetails[name]; ok && info.Permission != 0 {
		allowed, err := invokerHas(s, m, info.Permission)
		if err != nil {
			Respond(b, s, m, name, err)
			return
		}
		if !allowed {
			Respond(b, s, m, name, &ArgumentError{Message: NoPermission})
			return
		}
	}

	Respond(b, s, m, name, handler(ctx, b, s, m, args))
}

func invokerHas(s discord.Session, m *discordgo.MessageCreate, permission int64) (bool, error) {
	guild, err := s.Guild(m.GuildID)
	if err != nil {
		return false, err
	}

	var roles []string
	if m.Member != nil {
		roles = m.Member.Roles
	} else {
		member, err := s.GuildMember(m.GuildID, m.Author.ID)
		if err != nil {
			return false, err
		}
		roles = member.Roles
	}

	perms := utils.MemberPermissions(guild, m.Author.ID, roles)
	return utils.HasPermission(perms, permission), nil
}

// Respond is the single error hook for commands: argument and capability errors
// are answered with their message, anything else is logged and answered generically.
func Respond(b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, command string, err error) {
	if err == nil {
		return
	}

	var (
		argErr *ArgumentError
		capErr *CapabilityError
		reply  string
	)
	switch {
	case errors.As(err, &argErr):
		reply = argErr.Message
	case errors.As(err, &capErr):
		b.Log.Warnw("Missing permissions for command",
			"command", command, "guild_id", m.GuildID, "channel_id", m.ChannelID, "error", capErr.Err)
		reply = capErr.Message
	default:
		b.Log.Errorw("Error running command",
			"command", command, "guild_id", m.GuildID, "channel_id", m.ChannelID, "error", err)
		reply = "An error occurred. Please try again."
	}

	if _, sendErr := s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed(m, reply)); sendErr != nil {
		b.Log.Errorw("Error sending reply", "command", command, "channel_id", m.ChannelID, "error", sendErr)
	}
}
