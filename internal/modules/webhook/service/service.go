package service

import (
	"context"
	stdErrors "errors"
	"net/url"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/repository"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/errors"
	"github.com/samber/oops"
)

// Service handles webhook configuration. A nil repository means the store
// could not be reached at startup; every operation then returns
// errors.ErrDatabaseNotInitialized.
type Service struct {
	repo repository.Repository
}

// New creates a new webhook service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Available reports whether the configuration store is usable.
func (s *Service) Available() bool {
	return s.repo != nil
}

// SetWebhook stores url for the channel, replacing any previous value.
// The replaced URL is returned, or "" when the channel was not configured.
func (s *Service) SetWebhook(ctx context.Context, guildID, channelID, webhookURL string) (string, error) {
	if !s.Available() {
		return "", errors.ErrDatabaseNotInitialized
	}
	if err := ValidateURL(webhookURL); err != nil {
		return "", err
	}

	previous, _, err := s.GetWebhook(ctx, guildID, channelID)
	if err != nil {
		return "", err
	}

	webhook := &domain.ChannelWebhook{
		WebhookURL: webhookURL,
		GuildID:    guildID,
		ChannelID:  channelID,
	}
	if err := s.repo.Set(ctx, webhook); err != nil {
		return "", oops.With("guild_id", guildID, "channel_id", channelID, "context", "failed to save webhook").Wrap(err)
	}

	if previous == webhookURL {
		return "", nil
	}
	return previous, nil
}

// GetWebhook returns the configured URL and whether one exists.
func (s *Service) GetWebhook(ctx context.Context, guildID, channelID string) (string, bool, error) {
	if !s.Available() {
		return "", false, errors.ErrDatabaseNotInitialized
	}

	webhook, err := s.repo.Get(ctx, guildID, channelID)
	if err != nil {
		if stdErrors.Is(err, errors.ErrConfigNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if webhook.WebhookURL == "" {
		return "", false, nil
	}
	return webhook.WebhookURL, true, nil
}

// RemoveWebhook deletes the channel configuration and reports whether one existed.
func (s *Service) RemoveWebhook(ctx context.Context, guildID, channelID string) (bool, error) {
	if !s.Available() {
		return false, errors.ErrDatabaseNotInitialized
	}
	return s.repo.Delete(ctx, guildID, channelID)
}

// ListWebhooks returns every configured channel of a guild.
func (s *Service) ListWebhooks(ctx context.Context, guildID string) ([]*domain.ChannelWebhook, error) {
	if !s.Available() {
		return nil, errors.ErrDatabaseNotInitialized
	}
	return s.repo.ListByGuild(ctx, guildID)
}

// Close releases the underlying store.
func (s *Service) Close() error {
	if !s.Available() {
		return nil
	}
	return s.repo.Close()
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return oops.With("url", raw).Wrap(stdErrors.Join(errors.ErrInvalidWebhookURL, err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return oops.With("url", raw).Wrap(errors.ErrInvalidWebhookURL)
	}
	return nil
}
