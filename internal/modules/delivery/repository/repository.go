package repository

import (
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/domain"
)

// Repository keeps recent delivery records per guild.
type Repository interface {
	SaveRecord(record *domain.Record) error
	GetRecords(guildID string, limit int) ([]*domain.Record, error)
}
