package domain

import (
	"time"

	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
)

// OptionURL is the optional setup argument overriding the global URL.
const OptionURL = "url"

// ChannelResolver resolves channel names within the invoking guild.
type ChannelResolver interface {
	ChannelName(channelID string) (string, bool)
}

// Invocation is one command call, independent of how it was issued.
// GuildID is empty when the command was used in a direct message.
type Invocation struct {
	Name        CommandName
	GuildID     string
	GuildName   string
	ChannelID   string
	ChannelName string
	UserID      string
	Permissions messageDomain.PermissionSet
	Options     map[string]string
	Channels    ChannelResolver
}

// InGuild reports whether the command was issued inside a server.
func (i *Invocation) InGuild() bool {
	return i.GuildID != ""
}

// Reply is the text sent back. Ephemeral replies are shown to the caller only.
type Reply struct {
	Text      string
	Ephemeral bool
}

// Stats summarizes the bot's reach.
type Stats struct {
	Guilds  int
	Members int
	Latency time.Duration
}
