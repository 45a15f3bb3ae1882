package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DirectMessagesDir holds records of messages without a guild.
const DirectMessagesDir = "dm"

// FileStorage implements Repository with one JSON file per record, pruned
// to the newest maxRecords per guild.
type FileStorage struct {
	basePath   string
	maxRecords int
	mu         sync.RWMutex
}

// NewFileStorage creates a new file-based delivery log
func NewFileStorage(basePath string, maxRecords int) (Repository, error) {
	deliveryPath := filepath.Join(basePath, "deliveries")
	if err := os.MkdirAll(deliveryPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create deliveries directory").Wrap(err)
	}

	return &FileStorage{basePath: deliveryPath, maxRecords: maxRecords}, nil
}

func (s *FileStorage) dir(guildID string) (string, error) {
	if guildID == "" {
		guildID = DirectMessagesDir
	}
	if filepath.Base(guildID) != guildID {
		return "", oops.With("guild_id", guildID).New("invalid guild id")
	}
	return filepath.Join(s.basePath, guildID), nil
}

func (s *FileStorage) SaveRecord(record *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordDir, err := s.dir(record.GuildID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(recordDir, 0755); err != nil {
		return oops.With("record_dir", recordDir, "context", "failed to create record directory").Wrap(err)
	}

	// Zero-padded nanoseconds keep directory order chronological
	name := fmt.Sprintf("%020d-%s.json", record.DeliveredAt.UnixNano(), record.ID)
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return oops.With("record_id", record.ID, "context", "failed to marshal record").Wrap(err)
	}
	if err := os.WriteFile(filepath.Join(recordDir, name), data, 0644); err != nil {
		return oops.With("record_id", record.ID, "context", "failed to write record").Wrap(err)
	}

	return s.prune(recordDir)
}

func (s *FileStorage) prune(recordDir string) error {
	if s.maxRecords <= 0 {
		return nil
	}

	names, err := recordFiles(recordDir)
	if err != nil {
		return oops.With("record_dir", recordDir, "context", "failed to read record directory").Wrap(err)
	}
	if len(names) <= s.maxRecords {
		return nil
	}

	for _, name := range names[:len(names)-s.maxRecords] {
		if err := os.Remove(filepath.Join(recordDir, name)); err != nil && !os.IsNotExist(err) {
			return oops.With("file", name, "context", "failed to prune record").Wrap(err)
		}
	}
	return nil
}

// GetRecords returns up to limit records, newest first.
func (s *FileStorage) GetRecords(guildID string, limit int) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recordDir, err := s.dir(guildID)
	if err != nil {
		return nil, err
	}

	names, err := recordFiles(recordDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Record{}, nil
		}
		return nil, oops.With("record_dir", recordDir, "context", "failed to read record directory").Wrap(err)
	}

	names = lo.Reverse(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	records := lo.FilterMap(names, func(name string, _ int) (*domain.Record, bool) {
		data, err := os.ReadFile(filepath.Join(recordDir, name))
		if err != nil {
			return nil, false
		}
		var record domain.Record
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, false
		}
		return &record, true
	})

	return records, nil
}

func recordFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), !entry.IsDir() && filepath.Ext(entry.Name()) == ".json"
	})
	sort.Strings(names)
	return names, nil
}
