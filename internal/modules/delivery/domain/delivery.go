package domain

import (
	"errors"
	"net/url"
	"time"
)

// Result describes a webhook response. Any status code counts as delivered.
type Result struct {
	StatusCode int
	Duration   time.Duration
}

// Record is one forward attempt kept for the activity feed.
// It holds neither message content nor the webhook URL.
type Record struct {
	ID          string    `json:"id"`
	GuildID     string    `json:"guild_id"`
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	MessageID   string    `json:"message_id"`
	MessageLink string    `json:"message_link,omitempty"`
	AuthorTag   string    `json:"author_tag"`
	Reason      string    `json:"reason"`
	StatusCode  int       `json:"status_code,omitempty"`
	Error       string    `json:"error,omitempty"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// Succeeded reports whether the webhook answered at all.
func (r *Record) Succeeded() bool {
	return r.Error == ""
}

// ErrorText describes a delivery failure without the request URL, which may
// embed a secret token.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err.Error()
	}
	if urlErr.Timeout() {
		return "request timed out"
	}
	if urlErr.Err == nil {
		return "request failed"
	}
	return urlErr.Err.Error()
}
