package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage implements Repository using one JSON file per channel.
// It is meant for local development where no Firestore project exists.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based webhook repository
func NewFileStorage(basePath string) (Repository, error) {
	webhookPath := filepath.Join(basePath, "webhooks")
	if err := os.MkdirAll(webhookPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create webhooks directory").Wrap(err)
	}

	return &FileStorage{basePath: webhookPath}, nil
}

func (s *FileStorage) path(guildID, channelID string) (string, error) {
	name := domain.Key(guildID, channelID) + ".json"
	if filepath.Base(name) != name {
		return "", oops.With("guild_id", guildID, "channel_id", channelID).New("invalid webhook key")
	}
	return filepath.Join(s.basePath, name), nil
}

func (s *FileStorage) Set(_ context.Context, webhook *domain.ChannelWebhook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(webhook.GuildID, webhook.ChannelID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(webhook, "", "  ")
	if err != nil {
		return oops.With("key", webhook.Key(), "context", "failed to marshal webhook").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return oops.With("key", webhook.Key(), "context", "failed to write webhook").Wrap(err)
	}
	return nil
}

func (s *FileStorage) Get(_ context.Context, guildID, channelID string) (*domain.ChannelWebhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(guildID, channelID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrConfigNotFound
		}
		return nil, oops.With("guild_id", guildID, "channel_id", channelID, "context", "failed to read webhook").Wrap(err)
	}

	var webhook domain.ChannelWebhook
	if err := json.Unmarshal(data, &webhook); err != nil {
		return nil, oops.With("guild_id", guildID, "channel_id", channelID, "context", "failed to unmarshal webhook").Wrap(err)
	}

	return &webhook, nil
}

func (s *FileStorage) Delete(_ context.Context, guildID, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(guildID, channelID)
	if err != nil {
		return false, err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, oops.With("guild_id", guildID, "channel_id", channelID, "context", "failed to delete webhook").Wrap(err)
	}
	return true, nil
}

// ListByGuild filters on the stored guild_id field, not on the file name.
func (s *FileStorage) ListByGuild(_ context.Context, guildID string) ([]*domain.ChannelWebhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("directory", s.basePath, "context", "failed to read webhooks directory").Wrap(err)
	}

	webhooks := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (*domain.ChannelWebhook, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return nil, false
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			return nil, false
		}

		var webhook domain.ChannelWebhook
		if err := json.Unmarshal(data, &webhook); err != nil {
			return nil, false
		}

		return &webhook, webhook.GuildID == guildID
	})

	sort.Slice(webhooks, func(i, j int) bool {
		return webhooks[i].ChannelID < webhooks[j].ChannelID
	})

	return webhooks, nil
}

func (s *FileStorage) Close() error {
	return nil
}
