package domain

import (
	"fmt"
	"time"
)

// Author is the sender of a message.
type Author struct {
	ID            string
	Username      string
	Discriminator string
	Tag           string
	Bot           bool
}

// Message is one inbound chat message. GuildID is empty for direct messages.
type Message struct {
	ID          string
	Author      Author
	Content     string
	ChannelID   string
	ChannelName string
	ChannelKind string
	GuildID     string
	GuildName   string
	CreatedAt   time.Time
	Link        string
	MentionsBot bool
	// Permissions are the author's guild permissions; nil for direct messages.
	Permissions PermissionSet
}

// IsDirect reports whether the message was sent outside a guild.
func (m *Message) IsDirect() bool {
	return m.GuildID == ""
}

// IsAdmin reports whether the author holds the administrator permission.
func (m *Message) IsAdmin() bool {
	if m.IsDirect() || m.Permissions == nil {
		return false
	}
	return m.Permissions.Has(PermissionAdministrator)
}

// MentionTokens returns the raw forms a mention of userID takes in message
// text. Both count as a mention; only the first is stripped from payloads.
func MentionTokens(userID string) []string {
	return []string{
		fmt.Sprintf("<@%s>", userID),
		fmt.Sprintf("<@!%s>", userID),
	}
}

// MessageLink builds the jump URL of a guild message.
func MessageLink(guildID, channelID, messageID string) string {
	if guildID == "" {
		return ""
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
