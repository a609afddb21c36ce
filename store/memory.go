package store

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
)

// Memory is a process-local Store, used when no DATABASE_URL is configured.
type Memory struct {
	settings *xsync.MapOf[string, GuildSettings]

	// mu serializes settings updates and guards actions.
	mu      sync.Mutex
	actions []Action
}

func NewMemory() *Memory {
	return &Memory{settings: xsync.NewMapOf[GuildSettings]()}
}

func (m *Memory) GuildSettings(_ context.Context, guildID string) (GuildSettings, error) {
	gs, ok := m.settings.Load(guildID)
	if !ok {
		return GuildSettings{GuildID: guildID}, nil
	}
	return gs, nil
}

func (m *Memory) SaveMutedRole(_ context.Context, guildID, roleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, _ := m.settings.Load(guildID)
	gs.GuildID = guildID
	gs.MutedRoleID = roleID
	m.settings.Store(guildID, gs)
	return nil
}

func (m *Memory) SaveMutedChannel(_ context.Context, guildID, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, _ := m.settings.Load(guildID)
	gs.GuildID = guildID
	gs.MutedChannelID = channelID
	m.settings.Store(guildID, gs)
	return nil
}

func (m *Memory) RecordAction(_ context.Context, action Action) error {
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
	return nil
}

// Actions returns the newest actions of a guild first.
func (m *Memory) Actions(_ context.Context, guildID string, limit int) ([]Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Action
	for i := len(m.actions) - 1; i >= 0; i-- {
		if m.actions[i].GuildID != guildID {
			continue
		}
		out = append(out, m.actions[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
