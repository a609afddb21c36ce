package bot

import (
	"context"

	"modbot/config"
	"modbot/store"
	"modbot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot carries the dependencies shared by every command handler. The Discord
// session is passed to handlers separately.
type Bot struct {
	Config *config.Config
	Store  store.Store
	Log    *zap.SugaredLogger
	Muted  *utils.MutedRoles
}

func New(cfg *config.Config, st store.Store, log *zap.SugaredLogger) *Bot {
	return &Bot{
		Config: cfg,
		Store:  st,
		Log:    log,
		Muted:  utils.NewMutedRoles(st, log, cfg.Moderation.MutedRoleName, cfg.Moderation.MutedChannelName),
	}
}

// NewSession creates the discordgo session with the intents prefix commands need.
func NewSession(token string) (*discordgo.Session, error) {
	client, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	client.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent
	return client, nil
}

// OpenStore picks Postgres when a database URL is configured and memory otherwise.
func OpenStore(ctx context.Context, dbURL string) (store.Store, error) {
	if dbURL == "" {
		return store.NewMemory(), nil
	}
	pg, err := store.NewPostgres(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	return pg, nil
}

// Record appends an action to the moderation log. Failures are logged only.
func (b *Bot) Record(ctx context.Context, action store.Action) {
	if err := b.Store.RecordAction(ctx, action); err != nil {
		b.Log.Warnw("Error recording moderation action", "kind", action.Kind, "guild_id", action.GuildID, "error", err)
	}
}
