package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the bot settings.
type Config struct {
	Discord    DiscordConfig    `yaml:"discord"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Moderation ModerationConfig `yaml:"moderation"`
}

// DiscordConfig holds Discord configuration.
type DiscordConfig struct {
	Token  string `yaml:"token"`
	Prefix string `yaml:"prefix"`
}

// DatabaseConfig holds the Postgres connection string. Empty keeps state in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// ModerationConfig names the role and channel the mute command bootstraps.
type ModerationConfig struct {
	MutedRoleName    string `yaml:"muted_role_name"`
	MutedChannelName string `yaml:"muted_channel_name"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Discord: DiscordConfig{Prefix: "."},
		Log:     LogConfig{Level: "info", Encoding: "console"},
		Moderation: ModerationConfig{
			MutedRoleName:    "Muted",
			MutedChannelName: "muted",
		},
	}
}

// Load reads the YAML file at filename (a missing file is not an error), then the
// .env file at envFile, then applies environment overrides.
func Load(filename, envFile string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("BOT_PREFIX"); v != "" {
		cfg.Discord.Prefix = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_ENCODING"); v != "" {
		cfg.Log.Encoding = v
	}
}

// Validate fills blank optional fields with defaults.
func (c *Config) Validate() error {
	def := Default()
	if c.Discord.Prefix == "" {
		c.Discord.Prefix = def.Discord.Prefix
	}
	if c.Moderation.MutedRoleName == "" {
		c.Moderation.MutedRoleName = def.Moderation.MutedRoleName
	}
	if c.Moderation.MutedChannelName == "" {
		c.Moderation.MutedChannelName = def.Moderation.MutedChannelName
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = def.Log.Encoding
	}
	return nil
}

// ErrMissingToken is returned by RequireToken when no bot token is configured.
var ErrMissingToken = errors.New("discord token is required (DISCORD_TOKEN or discord.token)")

// RequireToken fails unless a bot token is configured. Only commands that connect
// to Discord need one.
func (c *Config) RequireToken() error {
	if c.Discord.Token == "" {
		return ErrMissingToken
	}
	return nil
}
