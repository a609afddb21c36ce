package commands

import (
	"context"
	"sort"

	"modbot/bot"
	"modbot/discord"

	"github.com/bwmarrin/discordgo"
)

// CommandFunc defines the signature for command handlers. A returned error is
// turned into a reply by Respond.
type CommandFunc func(ctx context.Context, b *bot.Bot, s discord.Session, m *discordgo.MessageCreate, args []string) error

// CommandInfo holds detailed information about a command
type CommandInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
	Usage       string   `json:"usage"`
	Category    string   `json:"category"`
	// Permission the invoker must hold in the guild. Zero means anyone.
	Permission int64 `json:"permission"`
}

// ModuleInfo represents a complete module with its commands and metadata
type ModuleInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Commands    []CommandInfo `json:"commands"`
}

// Global registries, filled from init functions.
var (
	RegisteredModules = make(map[string]*ModuleInfo)
	CommandDetails    = make(map[string]CommandInfo) // Auto-compiled from modules
	CommandMap        = make(map[string]CommandFunc)
	CommandAliases    = make(map[string]string)
)

// RegisterCommand registers a handler under name and its aliases.
func RegisterCommand(name string, handler CommandFunc, aliases ...string) {
	CommandMap[name] = handler
	for _, alias := range aliases {
		CommandAliases[alias] = name
	}
}

// RegisterModule registers a complete module and auto-compiles command info
func RegisterModule(module *ModuleInfo) {
	RegisteredModules[module.Name] = module

	for _, cmd := range module.Commands {
		if cmd.Category == "" {
			cmd.Category = module.Category
		}
		CommandDetails[cmd.Name] = cmd
		for _, alias := range cmd.Aliases {
			CommandAliases[alias] = cmd.Name
		}
	}
}

// Resolve maps a command name or alias to its canonical name.
func Resolve(name string) string {
	if actual, ok := CommandAliases[name]; ok {
		return actual
	}
	return name
}

// AllCommands returns every documented command sorted by name.
func AllCommands() []CommandInfo {
	out := make([]CommandInfo, 0, len(CommandDetails))
	for _, info := range CommandDetails {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetCommandsByModule returns all commands in a specific module
func GetCommandsByModule(moduleName string) []CommandInfo {
	if module, exists := RegisteredModules[moduleName]; exists {
		return module.Commands
	}
	return []CommandInfo{}
}
