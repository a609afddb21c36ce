package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/snowflake"
)

// NoReason is shown wherever a moderator did not give a reason.
const NoReason = "None Specified"

// ExtractUserID extracts the user ID from a mention (<@id> or <@!id>) or a bare ID.
func ExtractUserID(token string) (string, error) {
	id := token
	if strings.HasPrefix(token, "<@") && strings.HasSuffix(token, ">") {
		id = strings.TrimPrefix(strings.TrimSuffix(token, ">"), "<@")
		// Remove the nickname exclamation mark if present
		id = strings.TrimPrefix(id, "!")
	}

	// Validate that the user ID is a valid Snowflake (Discord ID)
	sf, err := snowflake.ParseString(id)
	if err != nil || sf <= 0 {
		return "", fmt.Errorf("invalid user ID %q", token)
	}
	return sf.String(), nil
}

// Mention formats a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// ReasonOrDefault returns reason, or NoReason when it is blank.
func ReasonOrDefault(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return NoReason
	}
	return reason
}

// SplitArgs splits a command line on whitespace. Text inside double quotes is kept
// as one argument with the quotes removed.
func SplitArgs(content string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range content {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}

// MemberPermissions computes the guild-level permissions of a member from the
// @everyone role and the member's roles. The owner and administrators get everything.
func MemberPermissions(guild *discordgo.Guild, userID string, roleIDs []string) int64 {
	if guild.OwnerID != "" && guild.OwnerID == userID {
		return discordgo.PermissionAll
	}

	var perms int64
	for _, role := range guild.Roles {
		if role.ID == guild.ID {
			perms |= role.Permissions
			break
		}
	}
	for _, roleID := range roleIDs {
		for _, role := range guild.Roles {
			if role.ID == roleID {
				perms |= role.Permissions
				break
			}
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}

// HasPermission reports whether perms includes every bit of permission.
func HasPermission(perms, permission int64) bool {
	return perms&permission == permission
}

// IsStaff reports whether the member can manage messages, which shields it from
// the punitive commands.
func IsStaff(guild *discordgo.Guild, member *discordgo.Member) bool {
	userID := ""
	if member.User != nil {
		userID = member.User.ID
	}
	return HasPermission(MemberPermissions(guild, userID, member.Roles), discordgo.PermissionManageMessages)
}

// HasRole reports whether the member holds roleID.
func HasRole(member *discordgo.Member, roleID string) bool {
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// IsForbidden reports whether Discord refused the request because the bot lacks
// the permission or hierarchy position to perform it.
func IsForbidden(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingPermissions {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether Discord answered 404 for the request.
func IsNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

// ErrorEmbed builds the red embed every failed command answers with.
func ErrorEmbed(m *discordgo.MessageCreate, message string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       0xFF0000, // Red bar on the left
	}
	if m != nil && m.Author != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Requested by %s", m.Author.Username),
			IconURL: m.Author.AvatarURL(""),
		}
	}
	return embed
}

var permissionNames = []struct {
	bit  int64
	name string
}{
	{discordgo.PermissionAdministrator, "Administrator"},
	{discordgo.PermissionBanMembers, "Ban Members"},
	{discordgo.PermissionKickMembers, "Kick Members"},
	{discordgo.PermissionManageRoles, "Manage Roles"},
	{discordgo.PermissionManageChannels, "Manage Channels"},
	{discordgo.PermissionManageMessages, "Manage Messages"},
	{discordgo.PermissionVoiceMuteMembers, "Mute Members"},
}

// PermissionName renders the named bits of perms, or "-" when there are none.
func PermissionName(perms int64) string {
	var names []string
	for _, p := range permissionNames {
		if perms&p.bit != 0 {
			names = append(names, p.name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
