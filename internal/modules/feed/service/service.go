package service

import (
	"fmt"
	"html"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/repository"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/errors"
	"github.com/samber/oops"
)

// FeedSize is the number of records rendered per feed.
const FeedSize = 50

// RecordSource provides recent delivery records.
type RecordSource interface {
	Recent(guildID string, limit int) ([]*domain.Record, error)
}

// Service renders delivery activity as RSS
type Service struct {
	records RecordSource
}

// New creates a new feed service
func New(records RecordSource) *Service {
	return &Service{records: records}
}

// GenerateFeed builds the activity feed of a guild. Direct message history
// is never published.
func (s *Service) GenerateFeed(guildID string, baseURL string) (*feeds.Feed, error) {
	if guildID == "" || guildID == repository.DirectMessagesDir {
		return nil, errors.ErrFeedNotFound
	}

	records, err := s.records.Recent(guildID, FeedSize)
	if err != nil {
		return nil, oops.With("guild_id", guildID, "context", "failed to get records").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Webhook deliveries for server %s", guildID),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/feed/%s", baseURL, guildID)},
		Description: "Messages forwarded to n8n, newest first",
		Author:      &feeds.Author{Name: "n8n-discord-trigger"},
		Created:     time.Now(),
	}
	if len(records) > 0 {
		feed.Updated = records[0].DeliveredAt
	}

	feed.Items = make([]*feeds.Item, 0, len(records))
	for _, record := range records {
		feed.Items = append(feed.Items, recordToFeedItem(record))
	}

	return feed, nil
}

func recordToFeedItem(record *domain.Record) *feeds.Item {
	outcome := fmt.Sprintf("HTTP %d", record.StatusCode)
	if !record.Succeeded() {
		outcome = "failed: " + record.Error
	}

	channel := record.ChannelName
	if channel == "" {
		channel = "DM"
	}

	description := fmt.Sprintf("Message %s in #%s (%s) by %s: %s",
		record.MessageID, channel, record.Reason, record.AuthorTag, outcome)

	item := &feeds.Item{
		Title:       fmt.Sprintf("#%s %s", channel, outcome),
		Description: description,
		Content:     fmt.Sprintf("<p>%s</p>", html.EscapeString(description)),
		Author:      &feeds.Author{Name: record.AuthorTag},
		Created:     record.DeliveredAt,
		Id:          record.ID,
		Link:        &feeds.Link{Href: record.MessageLink},
	}

	return item
}
