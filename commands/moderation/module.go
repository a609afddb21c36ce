package moderation

import (
	"modbot/commands"

	"github.com/bwmarrin/discordgo"
)

func init() {
	module := &commands.ModuleInfo{
		Name:        "Moderation",
		Description: "Server moderation commands for managing users and channels",
		Category:    "Moderation",
		Commands: []commands.CommandInfo{
			{
				Name:        "ban",
				Description: "Bans a member from the server",
				Usage:       ".ban <user> [reason]",
				Permission:  discordgo.PermissionBanMembers,
			},
			{
				Name:        "softban",
				Description: "Bans and immediately unbans a member, clearing their recent messages",
				Usage:       ".softban <user> [reason]",
				Permission:  discordgo.PermissionBanMembers,
			},
			{
				Name:        "unban",
				Description: "Lifts a ban",
				Usage:       ".unban <user id> [reason]",
				Permission:  discordgo.PermissionBanMembers,
			},
			{
				Name:        "kick",
				Description: "Kicks a member from the server",
				Usage:       ".kick <user> [reason]",
				Permission:  discordgo.PermissionKickMembers,
			},
			{
				Name:        "mute",
				Aliases:     []string{"m"},
				Description: "Mutes a member in every channel",
				Usage:       ".mute <user> [reason]",
				Permission:  discordgo.PermissionManageRoles,
			},
			{
				Name:        "unmute",
				Aliases:     []string{"um"},
				Description: "Unmutes a muted member",
				Usage:       ".unmute <user>",
				Permission:  discordgo.PermissionManageRoles,
			},
			{
				Name:        "voicemute",
				Aliases:     []string{"vm"},
				Description: "Server-mutes a member in voice channels",
				Usage:       ".voicemute <user> [reason]",
				Permission:  discordgo.PermissionVoiceMuteMembers,
			},
			{
				Name:        "vunmute",
				Aliases:     []string{"vum"},
				Description: "Lifts a voice server-mute",
				Usage:       ".vunmute <user>",
				Permission:  discordgo.PermissionVoiceMuteMembers,
			},
			{
				Name:        "purge",
				Description: "Bulk deletes messages in this channel",
				Usage:       ".purge <limit>",
				Permission:  discordgo.PermissionManageMessages,
			},
			{
				Name:        "block",
				Description: "Prevents a member from chatting in this channel",
				Usage:       ".block <user>",
				Permission:  discordgo.PermissionManageChannels,
			},
			{
				Name:        "unblock",
				Description: "Lets a blocked member chat in this channel again",
				Usage:       ".unblock <user>",
				Permission:  discordgo.PermissionManageChannels,
			},
			{
				Name:        "slowmode",
				Description: "Sets the slowmode delay of this channel",
				Usage:       ".slowmode <seconds>",
				Permission:  discordgo.PermissionManageChannels,
			},
		},
	}

	commands.RegisterModule(module)

	// Register command handlers
	commands.RegisterCommand("ban", Ban)
	commands.RegisterCommand("softban", Softban)
	commands.RegisterCommand("unban", Unban)
	commands.RegisterCommand("kick", Kick)
	commands.RegisterCommand("mute", Mute)
	commands.RegisterCommand("unmute", Unmute)
	commands.RegisterCommand("voicemute", VoiceMute)
	commands.RegisterCommand("vunmute", VoiceUnmute)
	commands.RegisterCommand("purge", Purge)
	commands.RegisterCommand("block", Block)
	commands.RegisterCommand("unblock", Unblock)
	commands.RegisterCommand("slowmode", Slowmode)
}
