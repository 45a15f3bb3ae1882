package service

import (
	"errors"
	"testing"
	"time"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/repository"
	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	routingDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/routing/domain"
)

func TestLog_RecordsOutcomeWithoutContent(t *testing.T) {
	repo, err := repository.NewFileStorage(t.TempDir(), 10)
	if err != nil {
		t.Fatal(err)
	}
	log := NewLog(repo)
	log.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }

	msg := &messageDomain.Message{
		ID:          "m1",
		GuildID:     "g1",
		ChannelID:   "c1",
		ChannelName: "ops",
		Content:     "secret text",
		Author:      messageDomain.Author{Tag: "alice"},
	}
	log.Record(msg, routingDomain.TriggerReasonMention, &domain.Result{StatusCode: 202}, nil)
	log.Record(msg, routingDomain.TriggerReasonMention, nil, errors.New("connection refused"))

	records, err := log.Recent("g1", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	var ok, failed int
	for _, r := range records {
		if r.ID == "" {
			t.Error("record id should be set")
		}
		if r.Reason != "mention" || r.ChannelName != "ops" || r.AuthorTag != "alice" {
			t.Errorf("record = %+v", r)
		}
		if r.Succeeded() {
			ok++
			if r.StatusCode != 202 {
				t.Errorf("status = %d", r.StatusCode)
			}
		} else {
			failed++
			if r.Error != "connection refused" {
				t.Errorf("error = %q", r.Error)
			}
		}
	}
	if ok != 1 || failed != 1 {
		t.Errorf("ok=%d failed=%d", ok, failed)
	}
}

func TestLog_NilRepository(t *testing.T) {
	log := NewLog(nil)
	log.Record(&messageDomain.Message{}, routingDomain.TriggerReasonDm, nil, nil)
	records, err := log.Recent("g1", 10)
	if err != nil || len(records) != 0 {
		t.Fatalf("Recent = %v, %v", records, err)
	}
}
