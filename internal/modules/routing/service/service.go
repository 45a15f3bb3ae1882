package service

import (
	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/routing/domain"
)

// Lookup returns the URL configured for a guild channel, if any.
type Lookup func(guildID, channelID string) (string, bool)

// Decide classifies a message and resolves its destination.
//
// Triggers are checked in order: direct message, bot mention, configured
// channel. The channel URL wins over globalURL whenever both exist.
func Decide(msg *messageDomain.Message, lookup Lookup, globalURL string) domain.Decision {
	if msg.Author.Bot {
		return domain.Decision{Action: domain.ActionIgnore}
	}

	var channelURL string
	if !msg.IsDirect() && lookup != nil {
		if url, ok := lookup(msg.GuildID, msg.ChannelID); ok {
			channelURL = url
		}
	}

	var reason domain.TriggerReason
	switch {
	case msg.IsDirect():
		reason = domain.TriggerReasonDm
	case msg.MentionsBot:
		reason = domain.TriggerReasonMention
	case channelURL != "":
		reason = domain.TriggerReasonChannelTrigger
	default:
		return domain.Decision{Action: domain.ActionSkip}
	}

	target := channelURL
	if target == "" {
		target = globalURL
	}
	if target == "" {
		return domain.Decision{Action: domain.ActionMisconfigured, Reason: reason}
	}

	return domain.Decision{Action: domain.ActionForward, URL: target, Reason: reason}
}
