package service

import (
	"strings"
	"sync/atomic"
	"time"

	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/payload/domain"
	routingDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/routing/domain"
	"github.com/samber/lo"
)

// DMChannelName labels channels that have no name.
const DMChannelName = "DM"

// Builder turns messages into webhook payloads.
type Builder struct {
	botID atomic.Value
}

// New creates a payload builder for the bot with the given user id.
func New(botID string) *Builder {
	b := &Builder{}
	b.SetBotID(botID)
	return b
}

// SetBotID updates the bot identity once the gateway session is ready.
func (b *Builder) SetBotID(botID string) {
	b.botID.Store(botID)
}

// BotID returns the identity whose mentions are stripped.
func (b *Builder) BotID() string {
	id, _ := b.botID.Load().(string)
	return id
}

// Build maps msg to a payload. It has no side effects.
func (b *Builder) Build(msg *messageDomain.Message, reason routingDomain.TriggerReason) *domain.Payload {
	channelName := msg.ChannelName
	if channelName == "" {
		channelName = DMChannelName
	}

	payload := &domain.Payload{
		User: domain.User{
			ID:            msg.Author.ID,
			Username:      msg.Author.Username,
			Discriminator: msg.Author.Discriminator,
			Tag:           msg.Author.Tag,
		},
		Content:         b.CleanContent(msg.Content),
		OriginalContent: msg.Content,
		Channel: domain.Channel{
			ID:   msg.ChannelID,
			Name: channelName,
			Type: msg.ChannelKind,
		},
		MessageID: msg.ID,
		Timestamp: msg.CreatedAt.UTC().Format(time.RFC3339Nano),
		Source:    reason.String(),
		IsAdmin:   msg.IsAdmin(),
	}

	if !msg.IsDirect() {
		payload.Guild = domain.Guild{
			ID:   lo.ToPtr(msg.GuildID),
			Name: lo.ToPtr(msg.GuildName),
		}
		if msg.Link != "" {
			payload.MessageLink = lo.ToPtr(msg.Link)
		}
	}

	return payload
}

// CleanContent removes every literal "<@botID>" and trims the result. The
// nickname form and mentions of other users are left untouched.
func (b *Builder) CleanContent(content string) string {
	botID := b.BotID()
	if botID == "" {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(strings.ReplaceAll(content, "<@"+botID+">", ""))
}
