package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	commandService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/command/service"
	deliveryRepo "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/repository"
	deliveryService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/service"
	feedService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/feed/service"
	payloadService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/payload/service"
	relayService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/relay/service"
	webhookRepo "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/repository"
	webhookService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/service"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/config"
	discordHandler "github.com/reshetovitsme/n8n-discord-trigger/internal/transport/discord"
	httpServer "github.com/reshetovitsme/n8n-discord-trigger/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"google.golang.org/api/option"
)

// maxDeliveryRecords bounds the delivery history kept per guild.
const maxDeliveryRecords = 200

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		if cfg.WebhookURL == "" {
			slog.Warn("WEBHOOK_URL is not set. Mentions and DMs will fail unless a channel has its own webhook.")
		}
		return cfg, nil
	})

	// Register Webhook Service. A store that fails to connect leaves the
	// service in degraded mode rather than failing startup.
	do.Provide(injector, func(i do.Injector) (*webhookService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := newWebhookRepository(cfg)
		if err != nil {
			slog.Error("Error initializing webhook store, per-channel webhooks are disabled", "error", err, "driver", cfg.StorageDriver)
			return webhookService.New(nil), nil
		}
		slog.Info("Webhook store initialized", "driver", cfg.StorageDriver)
		return webhookService.New(repo), nil
	})

	// Register Delivery Repository
	do.Provide(injector, func(i do.Injector) (deliveryRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := deliveryRepo.NewFileStorage(cfg.StoragePath, maxDeliveryRecords)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize delivery repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Delivery Log. Without a writable storage path the relay
	// still runs, it just keeps no history.
	do.Provide(injector, func(i do.Injector) (*deliveryService.Log, error) {
		repo, err := do.Invoke[deliveryRepo.Repository](i)
		if err != nil {
			slog.Warn("Delivery history disabled", "error", err)
			return deliveryService.NewLog(nil), nil
		}
		return deliveryService.NewLog(repo), nil
	})

	// Register Delivery Client
	do.Provide(injector, func(i do.Injector) (*deliveryService.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return deliveryService.New(cfg.WebhookTimeoutDuration()), nil
	})

	// Register Payload Builder. The bot ID is filled in once the gateway is ready.
	do.Provide(injector, func(i do.Injector) (*payloadService.Builder, error) {
		return payloadService.New(""), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		log := do.MustInvoke[*deliveryService.Log](i)
		return feedService.New(log), nil
	})

	// Register Relay Service
	do.Provide(injector, func(i do.Injector) (*relayService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return relayService.New(
			do.MustInvoke[*webhookService.Service](i),
			do.MustInvoke[*payloadService.Builder](i),
			do.MustInvoke[*deliveryService.Client](i),
			do.MustInvoke[*deliveryService.Log](i),
			cfg.WebhookURL,
		), nil
	})

	// Register Command Service
	do.Provide(injector, func(i do.Injector) (*commandService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return commandService.New(do.MustInvoke[*webhookService.Service](i), cfg.WebhookURL), nil
	})

	// Register Discord Handler
	do.Provide(injector, func(i do.Injector) (*discordHandler.Handler, error) {
		return discordHandler.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*relayService.Service](i),
			do.MustInvoke[*commandService.Service](i),
			do.MustInvoke[*payloadService.Builder](i),
		), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(cfg, do.MustInvoke[*feedService.Service](i), do.MustInvoke[*webhookService.Service](i))
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Session (needs the handler so events are attached before Open)
	do.Provide(injector, func(i do.Injector) (*discordgo.Session, error) {
		handler := do.MustInvoke[*discordHandler.Handler](i)
		session, err := handler.NewSession()
		if err != nil {
			return nil, err
		}
		return session, nil
	})

	return injector, nil
}

func newWebhookRepository(cfg *config.Config) (webhookRepo.Repository, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverFile:
		return webhookRepo.NewFileStorage(cfg.StoragePath)
	default:
		// The client keeps ctx for token refresh, so it must outlive startup.
		return webhookRepo.NewFirestoreStorage(context.Background(), cfg.ProjectID(), cfg.FirestoreCollection,
			option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountKey)))
	}
}

// invoked reports whether a T was already built, so shutdown never
// constructs a service just to close it.
func invoked[T any](injector do.Injector) bool {
	name := do.NameOf[T]()
	return lo.ContainsBy(injector.ListInvokedServices(), func(d do.ServiceDescription) bool {
		return d.Service == name
	})
}

// Shutdown gracefully shuts down the services that were started
func Shutdown(injector do.Injector) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if invoked[*discordgo.Session](injector) {
		if session, err := do.Invoke[*discordgo.Session](injector); err == nil && session != nil {
			if err := session.Close(); err != nil {
				slog.Error("Error closing discord session", "error", err)
			}
		}
	}

	if invoked[*httpServer.Server](injector) {
		if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
			if err := server.Shutdown(ctx); err != nil {
				slog.Error("Error shutting down HTTP server", "error", err)
			}
		}
	}

	if invoked[*webhookService.Service](injector) {
		if webhooks, err := do.Invoke[*webhookService.Service](injector); err == nil && webhooks != nil {
			if err := webhooks.Close(); err != nil {
				return oops.With("context", "failed to close webhook store").Wrap(err)
			}
		}
	}

	return nil
}
