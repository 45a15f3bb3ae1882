package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	deliveryDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/domain"
	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	payloadDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/payload/domain"
	routingDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/routing/domain"
	routingService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/routing/service"
)

const MisconfiguredReply = "Error: No webhook URL configured for this channel or globally. Please use `/setup`."

// WebhookLookup reads per-channel configuration.
type WebhookLookup interface {
	Available() bool
	GetWebhook(ctx context.Context, guildID, channelID string) (string, bool, error)
}

// PayloadBuilder maps messages to webhook bodies.
type PayloadBuilder interface {
	Build(msg *messageDomain.Message, reason routingDomain.TriggerReason) *payloadDomain.Payload
}

// Deliverer posts payloads.
type Deliverer interface {
	Deliver(ctx context.Context, url string, payload *payloadDomain.Payload) (*deliveryDomain.Result, error)
}

// Recorder keeps delivery history.
type Recorder interface {
	Record(msg *messageDomain.Message, reason routingDomain.TriggerReason, result *deliveryDomain.Result, err error)
}

// Outcome is what happened to one message. Reply, when set, must be shown
// in the message's channel.
type Outcome struct {
	Decision routingDomain.Decision
	Result   *deliveryDomain.Result
	Reply    string
}

// Service forwards qualifying messages to their webhook
type Service struct {
	webhooks  WebhookLookup
	builder   PayloadBuilder
	deliverer Deliverer
	recorder  Recorder
	globalURL string
}

// New creates a new relay service. recorder may be nil.
func New(webhooks WebhookLookup, builder PayloadBuilder, deliverer Deliverer, recorder Recorder, globalURL string) *Service {
	return &Service{
		webhooks:  webhooks,
		builder:   builder,
		deliverer: deliverer,
		recorder:  recorder,
		globalURL: globalURL,
	}
}

// HandleMessage routes msg and, when it qualifies, delivers it.
func (s *Service) HandleMessage(ctx context.Context, msg *messageDomain.Message) Outcome {
	decision := routingService.Decide(msg, s.lookup(ctx), s.globalURL)
	outcome := Outcome{Decision: decision}

	switch decision.Action {
	case routingDomain.ActionIgnore, routingDomain.ActionSkip:
		return outcome
	case routingDomain.ActionMisconfigured:
		slog.Warn("No webhook URL defined for channel or globally, skipping webhook send",
			"channel_id", msg.ChannelID, "guild_id", msg.GuildID, "reason", decision.Reason)
		outcome.Reply = MisconfiguredReply
		return outcome
	}

	slog.Info("Processing message",
		"author", msg.Author.Tag, "channel", channelLabel(msg), "guild_id", msg.GuildID, "reason", decision.Reason)

	payload := s.builder.Build(msg, decision.Reason)
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		if body, err := json.MarshalIndent(payload, "", "  "); err == nil {
			slog.Debug("Sending payload to webhook", "payload", string(body))
		}
	}

	result, err := s.deliverer.Deliver(ctx, decision.URL, payload)
	if s.recorder != nil {
		s.recorder.Record(msg, decision.Reason, result, err)
	}
	if err != nil {
		slog.Error("Failed to send webhook", "error", err, "message_id", msg.ID, "channel_id", msg.ChannelID)
		outcome.Reply = fmt.Sprintf("Error sending message to webhook: %s", deliveryDomain.ErrorText(err))
		return outcome
	}

	outcome.Result = result
	return outcome
}

// lookup adapts the webhook store to the routing engine. Store errors are
// logged and treated as "not configured" so the global URL keeps working.
func (s *Service) lookup(ctx context.Context) routingService.Lookup {
	if s.webhooks == nil || !s.webhooks.Available() {
		return nil
	}
	return func(guildID, channelID string) (string, bool) {
		url, ok, err := s.webhooks.GetWebhook(ctx, guildID, channelID)
		if err != nil {
			slog.Error("Failed to look up channel webhook", "error", err, "guild_id", guildID, "channel_id", channelID)
			return "", false
		}
		return url, ok
	}
}

func channelLabel(msg *messageDomain.Message) string {
	if msg.IsDirect() || msg.ChannelName == "" {
		return "DM"
	}
	return msg.ChannelName
}
