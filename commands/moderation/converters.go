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

const (
	staffTarget = "You cannot use these commands against staff members"
	notMuted    = "The user was not muted."
)

// resolveMember turns a mention, ID or name into a guild member. A token that
// matches nobody yields an ArgumentError.
func resolveMember(s discord.Session, guildID, token string) (*discordgo.Member, error) {
	if id, err := utils.ExtractUserID(token); err == nil {
		member, err := s.GuildMember(guildID, id)
		if err != nil {
			if utils.IsNotFound(err) {
				return nil, commands.Argumentf("Member \"%s\" not found.", token)
			}
			return nil, fmt.Errorf("error fetching member %s: %w", id, err)
		}
		return member, nil
	}

	name := strings.TrimPrefix(token, "@")
	query, _, _ := strings.Cut(name, "#")
	members, err := s.GuildMembersSearch(guildID, query, 25)
	if err != nil {
		return nil, fmt.Errorf("error searching members for %q: %w", query, err)
	}
	for _, member := range members {
		if member.User == nil {
			continue
		}
		if strings.EqualFold(member.User.Username, name) ||
			strings.EqualFold(member.User.String(), name) ||
			(member.User.GlobalName != "" && strings.EqualFold(member.User.GlobalName, name)) ||
			(member.Nick != "" && strings.EqualFold(member.Nick, name)) {
			return member, nil
		}
	}
	return nil, commands.Argumentf("Member \"%s\" not found.", token)
}

// targetToken returns the first argument after the command name.
func targetToken(args []string) (string, error) {
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		return "", &commands.ArgumentError{Message: commands.MissingUser}
	}
	return args[1], nil
}

// reasonFrom joins everything after the target.
func reasonFrom(args []string) string {
	if len(args) < 3 {
		return ""
	}
	return strings.Join(args[2:], " ")
}

// NonStaff resolves token and refuses members that can manage messages.
func NonStaff(s discord.Session, m *discordgo.MessageCreate, token string) (*discordgo.Member, error) {
	member, err := resolveMember(s, m.GuildID, token)
	if err != nil {
		return nil, err
	}
	guild, err := s.Guild(m.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error fetching guild: %w", err)
	}
	if utils.IsStaff(guild, member) {
		return nil, &commands.ArgumentError{Message: staffTarget}
	}
	return member, nil
}

// Muted resolves token and succeeds only if the member holds the canonical Muted
// role, which is returned alongside.
func Muted(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, token string) (*discordgo.Member, *discordgo.Role, error) {
	member, err := resolveMember(s, m.GuildID, token)
	if err != nil {
		return nil, nil, err
	}
	role, err := b.Muted.Lookup(ctx, s, m.GuildID)
	if err != nil {
		return nil, nil, err
	}
	if role == nil || !utils.HasRole(member, role.ID) {
		return nil, nil, &commands.ArgumentError{Message: notMuted}
	}
	return member, role, nil
}

// punishable is the common prologue of the staff-gated commands.
func punishable(s discord.Session, m *discordgo.MessageCreate, args []string) (*discordgo.Member, error) {
	token, err := targetToken(args)
	if err != nil {
		return nil, err
	}
	return NonStaff(s, m, token)
}

func newAction(m *discordgo.MessageCreate, targetID, kind, reason string) store.Action {
	return store.Action{
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		ModeratorID: m.Author.ID,
		TargetID:    targetID,
		Kind:        kind,
		Reason:      reason,
	}
}

func auditReason(m *discordgo.MessageCreate, reason string) string {
	return fmt.Sprintf("By %s for %s", m.Author.Username, reason)
}

func reply(s discord.Session, m *discordgo.MessageCreate, format string, args ...any) error {
	_, err := s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(format, args...))
	return err
}
