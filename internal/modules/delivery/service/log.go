package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/repository"
	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	routingDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/routing/domain"
	"github.com/samber/oops"
)

// Log records forward attempts for the activity feed.
type Log struct {
	repo repository.Repository
	now  func() time.Time
}

// NewLog creates a delivery log. A nil repository disables recording.
func NewLog(repo repository.Repository) *Log {
	return &Log{repo: repo, now: time.Now}
}

// Record stores the outcome of one attempt. Failures are logged only.
func (l *Log) Record(msg *messageDomain.Message, reason routingDomain.TriggerReason, result *domain.Result, deliveryErr error) {
	if l == nil || l.repo == nil {
		return
	}

	record := &domain.Record{
		ID:          uuid.NewString(),
		GuildID:     msg.GuildID,
		ChannelID:   msg.ChannelID,
		ChannelName: msg.ChannelName,
		MessageID:   msg.ID,
		MessageLink: msg.Link,
		AuthorTag:   msg.Author.Tag,
		Reason:      reason.String(),
		DeliveredAt: l.now(),
	}
	if result != nil {
		record.StatusCode = result.StatusCode
	}
	if deliveryErr != nil {
		record.Error = domain.ErrorText(deliveryErr)
	}

	if err := l.repo.SaveRecord(record); err != nil {
		slog.Error("Failed to record delivery", "error", err, "message_id", msg.ID)
	}
}

// Recent returns the newest records of a guild; "" selects direct messages.
func (l *Log) Recent(guildID string, limit int) ([]*domain.Record, error) {
	if l == nil || l.repo == nil {
		return []*domain.Record{}, nil
	}
	records, err := l.repo.GetRecords(guildID, limit)
	if err != nil {
		return nil, oops.With("guild_id", guildID, "context", "failed to load delivery records").Wrap(err)
	}
	return records, nil
}
