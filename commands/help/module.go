package help

import (
	"modbot/commands"
)

func init() {
	module := &commands.ModuleInfo{
		Name:        "Help",
		Description: "Help system with command documentation",
		Category:    "General",
		Commands: []commands.CommandInfo{
			{
				Name:        "help",
				Aliases:     []string{"h"},
				Description: "Displays help information for commands",
				Usage:       ".help [command]",
			},
			{
				Name:        "commandlist",
				Aliases:     []string{"cl"},
				Description: "Lists all available commands",
				Usage:       ".commandlist [category]",
			},
		},
	}

	commands.RegisterModule(module)

	// Register command handlers
	commands.RegisterCommand("help", Help)
	commands.RegisterCommand("commandlist", CommandList)
}
