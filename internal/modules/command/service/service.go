package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/command/domain"
	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	webhookDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	GenericErrorReply = "An unexpected error occurred while executing this command. Please try again later."
	PrivacyPolicy     = "**Privacy Policy for N8N Discord Trigger Bot**\n\n" +
		"This bot is designed to forward messages to your configured n8n webhook for automation purposes. " +
		"It only processes messages that are direct messages (DMs) to the bot, " +
		"mentions of the bot, or messages in channels where a webhook has been explicitly `/setup`.\n\n" +
		"**Data Collected:**\n" +
		"- **Message Content:** Messages that trigger the bot (DMs, mentions, or in setup channels) are forwarded to your n8n instance.\n" +
		"- **User and Channel Information:** User ID, username, channel ID, channel name, guild ID, and guild name are included in the forwarded payload.\n" +
		"- **Webhook Configurations:** The bot stores the n8n webhook URL for each channel that uses the `/setup` command. This data is stored in a secure Firestore database.\n\n" +
		"**Data Usage:**\n" +
		"- The collected data is solely used to facilitate the automation process via your n8n instance.\n" +
		"- We do not store your message content. Besides webhook configurations, the bot keeps a delivery log described below.\n\n" +
		"**Delivery Log:**\n" +
		"- For each forwarded message the bot records the channel, message ID, author tag, trigger type and delivery status. " +
		"The latest 200 entries per server are kept and published as that server's activity feed. " +
		"Direct message deliveries are logged but never published. Message content and webhook URLs are not recorded.\n\n" +
		"**Data Storage:**\n" +
		"- Webhook configurations are stored in Google Cloud Firestore.\n" +
		"- The delivery log is stored on the bot host's disk.\n" +
		"- Your n8n instance is responsible for how it processes and stores the data it receives.\n\n" +
		"**Your Control:**\n" +
		"- You can `/remove` the webhook configuration from any channel at any time.\n" +
		"- You are responsible for the data handling practices of your n8n instance.\n\n" +
		"For any questions regarding data privacy, please contact the bot administrator."
)

// WebhookStore is the configuration store as seen by commands.
type WebhookStore interface {
	Available() bool
	SetWebhook(ctx context.Context, guildID, channelID, url string) (string, error)
	GetWebhook(ctx context.Context, guildID, channelID string) (string, bool, error)
	RemoveWebhook(ctx context.Context, guildID, channelID string) (bool, error)
	ListWebhooks(ctx context.Context, guildID string) ([]*webhookDomain.ChannelWebhook, error)
}

// StatsProvider reports platform statistics.
type StatsProvider interface {
	Stats() domain.Stats
}

// Service executes administrative commands
type Service struct {
	webhooks  WebhookStore
	globalURL string

	mu    sync.RWMutex
	stats StatsProvider
}

// New creates a new command service
func New(webhooks WebhookStore, globalURL string) *Service {
	return &Service{webhooks: webhooks, globalURL: globalURL}
}

// SetStatsProvider sets the source of /stats once the session exists
func (s *Service) SetStatsProvider(p StatsProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = p
}

// RequiredPermissions lists what a caller needs to run a command.
func RequiredPermissions(name domain.CommandName) []messageDomain.Permission {
	switch name {
	case domain.CommandNameSetup, domain.CommandNameRemove, domain.CommandNameList:
		return []messageDomain.Permission{messageDomain.PermissionManageChannels}
	default:
		return nil
	}
}

// guildOnly reports whether a command needs a server context.
func guildOnly(name domain.CommandName) bool {
	switch name {
	case domain.CommandNamePrivacy, domain.CommandNameStats:
		return false
	default:
		return true
	}
}

// Execute runs a command and converts every failure into a reply.
func (s *Service) Execute(ctx context.Context, inv *domain.Invocation) *domain.Reply {
	reply, err := s.run(ctx, inv)
	if err == nil {
		return reply
	}

	var missing *messageDomain.MissingPermissionsError
	if stdErrors.As(err, &missing) {
		names := lo.Map(missing.Missing, func(p messageDomain.Permission, _ int) string {
			return p.String()
		})
		return &domain.Reply{
			Text:      "You don't have the required permissions to use this command. You need: " + strings.Join(names, " "),
			Ephemeral: true,
		}
	}

	slog.Error("An error occurred during command execution",
		"error", err, "command", inv.Name, "guild_id", inv.GuildID, "channel_id", inv.ChannelID, "user_id", inv.UserID)
	return &domain.Reply{Text: GenericErrorReply, Ephemeral: true}
}

func (s *Service) run(ctx context.Context, inv *domain.Invocation) (*domain.Reply, error) {
	if guildOnly(inv.Name) && !inv.InGuild() {
		text := "This command can only be used in a server channel."
		if inv.Name == domain.CommandNameList {
			text = "This command can only be used in a server."
		}
		return ephemeral(text), nil
	}

	if required := RequiredPermissions(inv.Name); len(required) > 0 {
		if missing := messageDomain.Missing(inv.Permissions, required...); len(missing) > 0 {
			return nil, &messageDomain.MissingPermissionsError{Missing: missing}
		}
	}

	switch inv.Name {
	case domain.CommandNameSetup:
		return s.Setup(ctx, inv)
	case domain.CommandNameRemove:
		return s.Remove(ctx, inv)
	case domain.CommandNameList:
		return s.List(ctx, inv)
	case domain.CommandNameStatus:
		return s.Status(ctx, inv)
	case domain.CommandNamePrivacy:
		return ephemeral(PrivacyPolicy), nil
	case domain.CommandNameStats:
		return s.Stats()
	default:
		return nil, oops.With("command", inv.Name).Errorf("unknown command %q", inv.Name)
	}
}

// Setup stores the global URL, or the url option, for the invoking channel.
func (s *Service) Setup(ctx context.Context, inv *domain.Invocation) (*domain.Reply, error) {
	if !s.webhooks.Available() {
		return ephemeral("Database not initialized. Cannot set up webhook."), nil
	}

	target := strings.TrimSpace(inv.Options[domain.OptionURL])
	if target == "" {
		if s.globalURL == "" {
			return ephemeral("Error: Global WEBHOOK_URL is not configured. Please set it in environment variables."), nil
		}
		target = s.globalURL
	}

	previous, err := s.webhooks.SetWebhook(ctx, inv.GuildID, inv.ChannelID, target)
	if err != nil {
		if stdErrors.Is(err, errors.ErrInvalidWebhookURL) {
			return ephemeral(fmt.Sprintf("Error: `%s` is not a valid http(s) URL.", target)), nil
		}
		slog.Error("Failed to set up webhook", "error", err, "guild_id", inv.GuildID, "channel_id", inv.ChannelID)
		return ephemeral("Failed to set up webhook. Please check bot permissions or database connection."), nil
	}

	slog.Info("Webhook setup",
		"channel", inv.ChannelName, "channel_id", inv.ChannelID, "guild", inv.GuildName, "guild_id", inv.GuildID, "replaced", previous)

	text := fmt.Sprintf("Successfully set up n8n webhook for this channel (`%s`). "+
		"Messages sent here will now be forwarded to n8n.", inv.ChannelName)
	if previous != "" {
		text += fmt.Sprintf(" Replaced previous webhook `%s`.", previous)
	}
	return &domain.Reply{Text: text}, nil
}

// Remove deletes the invoking channel's configuration.
func (s *Service) Remove(ctx context.Context, inv *domain.Invocation) (*domain.Reply, error) {
	if !s.webhooks.Available() {
		return ephemeral("Database not initialized. Cannot remove webhook."), nil
	}

	removed, err := s.webhooks.RemoveWebhook(ctx, inv.GuildID, inv.ChannelID)
	if err != nil {
		slog.Error("Failed to remove webhook", "error", err, "guild_id", inv.GuildID, "channel_id", inv.ChannelID)
		return ephemeral("Failed to remove webhook. Please check bot permissions or database connection."), nil
	}
	if !removed {
		return ephemeral("No n8n webhook is set up for this channel."), nil
	}

	slog.Info("Webhook removed",
		"channel", inv.ChannelName, "channel_id", inv.ChannelID, "guild", inv.GuildName, "guild_id", inv.GuildID)

	return &domain.Reply{Text: fmt.Sprintf("Successfully removed n8n webhook from this channel (`%s`). "+
		"Messages will no longer be forwarded to n8n from here.", inv.ChannelName)}, nil
}

// List enumerates the guild's configured channels.
func (s *Service) List(ctx context.Context, inv *domain.Invocation) (*domain.Reply, error) {
	if !s.webhooks.Available() {
		return ephemeral("Database not initialized. Cannot list webhooks."), nil
	}

	webhooks, err := s.webhooks.ListWebhooks(ctx, inv.GuildID)
	if err != nil {
		return nil, oops.With("guild_id", inv.GuildID, "context", "failed to list webhooks").Wrap(err)
	}
	if len(webhooks) == 0 {
		return ephemeral("No n8n webhooks are set up in this server."), nil
	}

	var text strings.Builder
	text.WriteString("N8N Webhooks configured in this server:\n")
	for _, webhook := range webhooks {
		name := fmt.Sprintf("Unknown Channel (%s)", webhook.ChannelID)
		if inv.Channels != nil {
			if resolved, ok := inv.Channels.ChannelName(webhook.ChannelID); ok {
				name = resolved
			}
		}
		url := webhook.WebhookURL
		if url == "" {
			url = "N/A"
		}
		text.WriteString(fmt.Sprintf("- **#%s**: `%s`\n", name, url))
	}

	return ephemeral(text.String()), nil
}

// Status reports whether the invoking channel is configured. Open to anyone.
func (s *Service) Status(ctx context.Context, inv *domain.Invocation) (*domain.Reply, error) {
	if !s.webhooks.Available() {
		return ephemeral("Database not initialized. Cannot check status."), nil
	}

	url, ok, err := s.webhooks.GetWebhook(ctx, inv.GuildID, inv.ChannelID)
	if err != nil {
		return nil, oops.With("guild_id", inv.GuildID, "channel_id", inv.ChannelID, "context", "failed to read webhook").Wrap(err)
	}

	if ok {
		return ephemeral(fmt.Sprintf("N8N webhook is **ACTIVE** for this channel (`#%s`). "+
			"Messages are forwarded to: `%s`", inv.ChannelName, url)), nil
	}
	return ephemeral(fmt.Sprintf("N8N webhook is **INACTIVE** for this channel (`#%s`). "+
		"Use `/setup` to configure it.", inv.ChannelName)), nil
}

// Stats renders server count, member count and gateway latency.
func (s *Service) Stats() (*domain.Reply, error) {
	s.mu.RLock()
	provider := s.stats
	s.mu.RUnlock()

	if provider == nil {
		return nil, oops.New("stats provider not set")
	}

	stats := provider.Stats()
	return ephemeral(fmt.Sprintf("**Bot Statistics:**\n"+
		"- Servers: %d\n"+
		"- Total Members (across all joined servers): %d\n"+
		"- Latency: %dms", stats.Guilds, stats.Members, stats.Latency.Milliseconds())), nil
}

func ephemeral(text string) *domain.Reply {
	return &domain.Reply{Text: text, Ephemeral: true}
}
