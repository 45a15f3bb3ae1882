package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/domain"
	sharedErrors "github.com/reshetovitsme/n8n-discord-trigger/internal/shared/errors"
)

// exercise runs the behaviour every Repository must share.
func exercise(t *testing.T, repo Repository) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.Get(ctx, "g-none", "c-none")
		if !errors.Is(err, sharedErrors.ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		in := &domain.ChannelWebhook{WebhookURL: "https://x/h1", GuildID: "100", ChannelID: "200"}
		if err := repo.Set(ctx, in); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := repo.Get(ctx, "100", "200")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if *got != *in {
			t.Errorf("got %+v, want %+v", got, in)
		}
	})

	t.Run("set replaces", func(t *testing.T) {
		if err := repo.Set(ctx, &domain.ChannelWebhook{WebhookURL: "https://x/h2", GuildID: "100", ChannelID: "200"}); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := repo.Get(ctx, "100", "200")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.WebhookURL != "https://x/h2" {
			t.Errorf("url = %q", got.WebhookURL)
		}
	})

	t.Run("list by guild", func(t *testing.T) {
		for _, w := range []*domain.ChannelWebhook{
			{WebhookURL: "https://x/a", GuildID: "100", ChannelID: "201"},
			{WebhookURL: "https://x/b", GuildID: "300", ChannelID: "200"},
			{WebhookURL: "https://x/c", GuildID: "1000", ChannelID: "1"},
		} {
			if err := repo.Set(ctx, w); err != nil {
				t.Fatalf("Set: %v", err)
			}
		}

		list, err := repo.ListByGuild(ctx, "100")
		if err != nil {
			t.Fatalf("ListByGuild: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 webhooks for guild 100, got %d", len(list))
		}
		for _, w := range list {
			if w.GuildID != "100" {
				t.Errorf("unexpected guild %q in result", w.GuildID)
			}
		}

		none, err := repo.ListByGuild(ctx, "999")
		if err != nil {
			t.Fatalf("ListByGuild: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected empty list, got %d", len(none))
		}
	})

	t.Run("delete", func(t *testing.T) {
		existed, err := repo.Delete(ctx, "100", "200")
		if err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if !existed {
			t.Error("expected Delete to report an existing document")
		}
		if _, err := repo.Get(ctx, "100", "200"); !errors.Is(err, sharedErrors.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound after delete, got %v", err)
		}

		existed, err = repo.Delete(ctx, "100", "200")
		if err != nil {
			t.Fatalf("second Delete: %v", err)
		}
		if existed {
			t.Error("second Delete should report nothing removed")
		}
	})
}

func TestFileStorage(t *testing.T) {
	repo, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	defer repo.Close()

	exercise(t, repo)
}

func TestFileStorage_RejectsPathSeparators(t *testing.T) {
	repo, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	err = repo.Set(context.Background(), &domain.ChannelWebhook{WebhookURL: "https://x", GuildID: "../..", ChannelID: "etc/passwd"})
	if err == nil {
		t.Fatal("expected an error for a key containing path separators")
	}
}

func TestFirestoreStorage(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := fmt.Sprintf("discord_webhooks_test_%d", time.Now().UnixNano())
	repo, err := NewFirestoreStorage(ctx, "relay-test", collection)
	if err != nil {
		t.Fatalf("NewFirestoreStorage: %v", err)
	}
	defer repo.Close()

	exercise(t, repo)
}
