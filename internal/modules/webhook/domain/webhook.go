package domain

import "fmt"

// ChannelWebhook is the persisted forwarding target of one guild channel.
// Field names match the documents written by earlier deployments.
type ChannelWebhook struct {
	WebhookURL string `json:"webhook_url" firestore:"webhook_url"`
	GuildID    string `json:"guild_id" firestore:"guild_id"`
	ChannelID  string `json:"channel_id" firestore:"channel_id"`
}

// Key returns the document id for the webhook.
func (w *ChannelWebhook) Key() string {
	return Key(w.GuildID, w.ChannelID)
}

// Key builds the synthetic "{guild}-{channel}" document id.
func Key(guildID, channelID string) string {
	return fmt.Sprintf("%s-%s", guildID, channelID)
}
