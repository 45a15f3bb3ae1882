package repository

import (
	"context"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/domain"
)

// Repository persists per-channel webhook configuration.
// Get returns errors.ErrConfigNotFound when nothing is stored for the pair.
// Delete reports whether a document existed.
type Repository interface {
	Set(ctx context.Context, webhook *domain.ChannelWebhook) error
	Get(ctx context.Context, guildID, channelID string) (*domain.ChannelWebhook, error)
	Delete(ctx context.Context, guildID, channelID string) (bool, error)
	ListByGuild(ctx context.Context, guildID string) ([]*domain.ChannelWebhook, error)
	Close() error
}
