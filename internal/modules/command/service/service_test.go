package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/command/domain"
	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	webhookDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/domain"
	webhookRepo "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/repository"
	webhookService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/webhook/service"
)

const global = "https://n8n.example/webhook/global"

var manager = messageDomain.Permissions(messageDomain.PermissionManageChannels)

type channels map[string]string

func (c channels) ChannelName(id string) (string, bool) {
	name, ok := c[id]
	return name, ok
}

type fixedStats domain.Stats

func (f fixedStats) Stats() domain.Stats { return domain.Stats(f) }

func newService(t *testing.T, globalURL string) (*Service, *webhookService.Service) {
	t.Helper()
	repo, err := webhookRepo.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := webhookService.New(repo)
	return New(store, globalURL), store
}

func invocation(name domain.CommandName, perms messageDomain.PermissionSet) *domain.Invocation {
	return &domain.Invocation{
		Name:        name,
		GuildID:     "g1",
		GuildName:   "Acme",
		ChannelID:   "c1",
		ChannelName: "ops",
		UserID:      "u1",
		Permissions: perms,
		Channels:    channels{"c1": "ops", "c2": "alerts"},
	}
}

func TestExecute_SetupStatusRemove(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, global)

	reply := svc.Execute(ctx, invocation(domain.CommandNameSetup, manager))
	if reply.Ephemeral || !strings.HasPrefix(reply.Text, "Successfully set up n8n webhook for this channel (`ops`)") {
		t.Fatalf("setup reply = %+v", reply)
	}
	url, ok, err := store.GetWebhook(ctx, "g1", "c1")
	if err != nil || !ok || url != global {
		t.Fatalf("stored = %q %v %v", url, ok, err)
	}

	reply = svc.Execute(ctx, invocation(domain.CommandNameStatus, nil))
	if !reply.Ephemeral || !strings.Contains(reply.Text, "**ACTIVE**") || !strings.Contains(reply.Text, global) {
		t.Fatalf("status reply = %+v", reply)
	}

	reply = svc.Execute(ctx, invocation(domain.CommandNameRemove, manager))
	if reply.Ephemeral || !strings.HasPrefix(reply.Text, "Successfully removed n8n webhook") {
		t.Fatalf("remove reply = %+v", reply)
	}

	reply = svc.Execute(ctx, invocation(domain.CommandNameStatus, nil))
	if !strings.Contains(reply.Text, "**INACTIVE**") {
		t.Fatalf("status after remove = %+v", reply)
	}

	reply = svc.Execute(ctx, invocation(domain.CommandNameRemove, manager))
	if !reply.Ephemeral || reply.Text != "No n8n webhook is set up for this channel." {
		t.Fatalf("second remove = %+v", reply)
	}
}

func TestExecute_SetupWithURLOptionAndOverwrite(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, global)

	if reply := svc.Execute(ctx, invocation(domain.CommandNameSetup, manager)); reply.Ephemeral {
		t.Fatalf("setup failed: %+v", reply)
	}

	inv := invocation(domain.CommandNameSetup, manager)
	inv.Options = map[string]string{domain.OptionURL: "https://n8n.example/webhook/ops"}
	reply := svc.Execute(ctx, inv)
	if !strings.Contains(reply.Text, "Replaced previous webhook `"+global+"`") {
		t.Fatalf("overwrite should be reported, got %q", reply.Text)
	}
	url, _, _ := store.GetWebhook(ctx, "g1", "c1")
	if url != "https://n8n.example/webhook/ops" {
		t.Errorf("stored url = %q", url)
	}

	inv.Options[domain.OptionURL] = "ftp://nope"
	reply = svc.Execute(ctx, inv)
	if !reply.Ephemeral || !strings.Contains(reply.Text, "not a valid http(s) URL") {
		t.Errorf("invalid url reply = %+v", reply)
	}
}

func TestExecute_SetupWithoutGlobalURL(t *testing.T) {
	svc, _ := newService(t, "")
	reply := svc.Execute(context.Background(), invocation(domain.CommandNameSetup, manager))
	if !reply.Ephemeral || !strings.Contains(reply.Text, "Global WEBHOOK_URL is not configured") {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestExecute_PermissionDenied(t *testing.T) {
	svc, _ := newService(t, global)
	for _, name := range []domain.CommandName{domain.CommandNameSetup, domain.CommandNameRemove, domain.CommandNameList} {
		reply := svc.Execute(context.Background(), invocation(name, messageDomain.Permissions(0)))
		want := "You don't have the required permissions to use this command. You need: manage_channels"
		if !reply.Ephemeral || reply.Text != want {
			t.Errorf("%s reply = %+v", name, reply)
		}
	}
}

func TestExecute_AdministratorPasses(t *testing.T) {
	svc, _ := newService(t, global)
	reply := svc.Execute(context.Background(), invocation(domain.CommandNameSetup, messageDomain.Permissions(messageDomain.PermissionAdministrator)))
	if reply.Ephemeral {
		t.Fatalf("administrator should be allowed, got %+v", reply)
	}
}

func TestExecute_GuildOnly(t *testing.T) {
	svc, _ := newService(t, global)
	inv := invocation(domain.CommandNameStatus, nil)
	inv.GuildID = ""
	reply := svc.Execute(context.Background(), inv)
	if !reply.Ephemeral || reply.Text != "This command can only be used in a server channel." {
		t.Fatalf("reply = %+v", reply)
	}

	inv.Name = domain.CommandNameList
	reply = svc.Execute(context.Background(), inv)
	if reply.Text != "This command can only be used in a server." {
		t.Fatalf("list reply = %+v", reply)
	}
}

func TestExecute_DatabaseNotInitialized(t *testing.T) {
	svc := New(webhookService.New(nil), global)
	tests := map[domain.CommandName]string{
		domain.CommandNameSetup:  "Database not initialized. Cannot set up webhook.",
		domain.CommandNameRemove: "Database not initialized. Cannot remove webhook.",
		domain.CommandNameList:   "Database not initialized. Cannot list webhooks.",
		domain.CommandNameStatus: "Database not initialized. Cannot check status.",
	}
	for name, want := range tests {
		reply := svc.Execute(context.Background(), invocation(name, manager))
		if !reply.Ephemeral || reply.Text != want {
			t.Errorf("%s reply = %+v", name, reply)
		}
	}
}

func TestExecute_List(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, global)

	reply := svc.Execute(ctx, invocation(domain.CommandNameList, manager))
	if reply.Text != "No n8n webhooks are set up in this server." {
		t.Fatalf("empty list reply = %+v", reply)
	}

	for _, c := range []string{"c1", "c2", "c3"} {
		if _, err := store.SetWebhook(ctx, "g1", c, "https://x/"+c); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.SetWebhook(ctx, "g2", "c9", "https://x/other"); err != nil {
		t.Fatal(err)
	}

	reply = svc.Execute(ctx, invocation(domain.CommandNameList, manager))
	want := "N8N Webhooks configured in this server:\n" +
		"- **#ops**: `https://x/c1`\n" +
		"- **#alerts**: `https://x/c2`\n" +
		"- **#Unknown Channel (c3)**: `https://x/c3`\n"
	if !reply.Ephemeral || reply.Text != want {
		t.Fatalf("list reply = %q", reply.Text)
	}
}

type failingStore struct{}

func (failingStore) Available() bool { return true }
func (failingStore) SetWebhook(context.Context, string, string, string) (string, error) {
	return "", errors.New("deadline exceeded")
}
func (failingStore) GetWebhook(context.Context, string, string) (string, bool, error) {
	return "", false, errors.New("deadline exceeded")
}
func (failingStore) RemoveWebhook(context.Context, string, string) (bool, error) {
	return false, errors.New("deadline exceeded")
}
func (failingStore) ListWebhooks(context.Context, string) ([]*webhookDomain.ChannelWebhook, error) {
	return nil, errors.New("deadline exceeded")
}

func TestExecute_StoreFailures(t *testing.T) {
	svc := New(failingStore{}, global)
	ctx := context.Background()

	if reply := svc.Execute(ctx, invocation(domain.CommandNameSetup, manager)); reply.Text != "Failed to set up webhook. Please check bot permissions or database connection." {
		t.Errorf("setup reply = %q", reply.Text)
	}
	if reply := svc.Execute(ctx, invocation(domain.CommandNameRemove, manager)); reply.Text != "Failed to remove webhook. Please check bot permissions or database connection." {
		t.Errorf("remove reply = %q", reply.Text)
	}
	for _, name := range []domain.CommandName{domain.CommandNameList, domain.CommandNameStatus} {
		reply := svc.Execute(ctx, invocation(name, manager))
		if !reply.Ephemeral || reply.Text != GenericErrorReply {
			t.Errorf("%s reply = %+v", name, reply)
		}
		if strings.Contains(reply.Text, "deadline") {
			t.Errorf("%s leaked internal detail", name)
		}
	}
}

func TestExecute_PrivacyAndStats(t *testing.T) {
	svc, _ := newService(t, global)
	ctx := context.Background()

	dm := &domain.Invocation{Name: domain.CommandNamePrivacy, UserID: "u1"}
	if reply := svc.Execute(ctx, dm); !reply.Ephemeral || reply.Text != PrivacyPolicy {
		t.Errorf("privacy reply = %+v", reply)
	}
	if !strings.Contains(PrivacyPolicy, "**Delivery Log:**") || !strings.Contains(PrivacyPolicy, "webhook URLs are not recorded") {
		t.Error("privacy policy must describe the delivery log")
	}

	stats := &domain.Invocation{Name: domain.CommandNameStats, UserID: "u1"}
	if reply := svc.Execute(ctx, stats); reply.Text != GenericErrorReply {
		t.Errorf("stats without provider = %+v", reply)
	}

	svc.SetStatsProvider(fixedStats{Guilds: 3, Members: 120, Latency: 42 * time.Millisecond})
	reply := svc.Execute(ctx, stats)
	want := "**Bot Statistics:**\n- Servers: 3\n- Total Members (across all joined servers): 120\n- Latency: 42ms"
	if !reply.Ephemeral || reply.Text != want {
		t.Errorf("stats reply = %q", reply.Text)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	svc, _ := newService(t, global)
	reply := svc.Execute(context.Background(), invocation(domain.CommandName("deploy"), manager))
	if reply.Text != GenericErrorReply {
		t.Errorf("reply = %+v", reply)
	}
}
