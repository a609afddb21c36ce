package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"modbot/bot"
	"modbot/config"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <guild-id>",
	Short: "Show the moderation log of a guild",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show, 0 for all")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set, there is no stored history")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := bot.OpenStore(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	actions, err := st.Actions(ctx, args[0], historyLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tMODERATOR\tTARGET\tREASON")
	for _, a := range actions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.CreatedAt.Format(time.RFC3339), a.Kind, a.ModeratorID, a.TargetID, a.Reason)
	}
	return w.Flush()
}
