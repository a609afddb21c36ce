package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"modbot/bot"
	"modbot/commands"
	"modbot/config"
	"modbot/discord"
	"modbot/logging"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and start handling commands",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return err
	}
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := bot.OpenStore(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	client, err := bot.NewSession(cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	b := bot.New(cfg, st, log)
	session := discord.NewDiscordSession(client, log)
	session.AddHandler(commands.Handler(b, session))

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer session.Close()

	log.Infow("Bot is running. Press Ctrl+C to exit.", "prefix", cfg.Discord.Prefix, "commands", len(commands.CommandMap))
	<-ctx.Done()
	log.Info("Shutting down")
	return nil
}
