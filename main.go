package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "modbot/commands/help"
	_ "modbot/commands/moderation"
)

var (
	configPath string
	envPath    string
)

var rootCmd = &cobra.Command{
	Use:   "modbot",
	Short: "Discord moderation bot",
	Long: `A prefix-command moderation bot for Discord servers: ban, kick, mute,
purge, channel blocks and slowmode.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Path to the .env file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(historyCmd)
}
