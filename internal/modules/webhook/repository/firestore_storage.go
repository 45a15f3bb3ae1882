package repository

import (
	"context"
	stdErrors "errors"

	"cloud.google.com/go/firestore"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/domain"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/errors"
	"github.com/samber/oops"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStorage implements Repository on a Firestore collection.
// Documents are addressed by "{guild_id}-{channel_id}" and carry guild_id
// so a guild can be listed with an equality filter.
type FirestoreStorage struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStorage connects to Firestore. An empty projectID lets the
// client detect it from the credentials or the emulator environment.
func NewFirestoreStorage(ctx context.Context, projectID, collection string, opts ...option.ClientOption) (Repository, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, oops.With("project_id", projectID, "context", "failed to create firestore client").Wrap(err)
	}

	return &FirestoreStorage{client: client, collection: collection}, nil
}

func (s *FirestoreStorage) doc(guildID, channelID string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(domain.Key(guildID, channelID))
}

func (s *FirestoreStorage) Set(ctx context.Context, webhook *domain.ChannelWebhook) error {
	if _, err := s.doc(webhook.GuildID, webhook.ChannelID).Set(ctx, webhook); err != nil {
		return oops.With("key", webhook.Key(), "context", "failed to write webhook").Wrap(err)
	}
	return nil
}

func (s *FirestoreStorage) Get(ctx context.Context, guildID, channelID string) (*domain.ChannelWebhook, error) {
	snap, err := s.doc(guildID, channelID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.ErrConfigNotFound
		}
		return nil, oops.With("guild_id", guildID, "channel_id", channelID, "context", "failed to read webhook").Wrap(err)
	}

	var webhook domain.ChannelWebhook
	if err := snap.DataTo(&webhook); err != nil {
		return nil, oops.With("guild_id", guildID, "channel_id", channelID, "context", "failed to decode webhook").Wrap(err)
	}
	return &webhook, nil
}

func (s *FirestoreStorage) Delete(ctx context.Context, guildID, channelID string) (bool, error) {
	_, err := s.doc(guildID, channelID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, oops.With("guild_id", guildID, "channel_id", channelID, "context", "failed to delete webhook").Wrap(err)
	}
	return true, nil
}

func (s *FirestoreStorage) ListByGuild(ctx context.Context, guildID string) ([]*domain.ChannelWebhook, error) {
	iter := s.client.Collection(s.collection).Where("guild_id", "==", guildID).Documents(ctx)
	defer iter.Stop()

	var webhooks []*domain.ChannelWebhook
	for {
		snap, err := iter.Next()
		if stdErrors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, oops.With("guild_id", guildID, "context", "failed to query webhooks").Wrap(err)
		}

		var webhook domain.ChannelWebhook
		if err := snap.DataTo(&webhook); err != nil {
			return nil, oops.With("guild_id", guildID, "document", snap.Ref.ID, "context", "failed to decode webhook").Wrap(err)
		}
		webhooks = append(webhooks, &webhook)
	}

	return webhooks, nil
}

func (s *FirestoreStorage) Close() error {
	return s.client.Close()
}
