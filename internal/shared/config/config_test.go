package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	sharedErrors "github.com/reshetovitsme/n8n-discord-trigger/internal/shared/errors"
)

// isolate runs the test in an empty directory so no stray config file is read.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"DISCORD_TOKEN", "WEBHOOK_URL", "FIREBASE_SERVICE_ACCOUNT_KEY",
		"FIRESTORE_PROJECT_ID", "STORAGE_DRIVER", "STORAGE_PATH",
		"WEBHOOK_TIMEOUT", "APP_ENV", "COMMAND_PREFIX", "HTTP_PORT",
		"FIRESTORE_COLLECTION", "DEV_GUILD_ID",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY", `{"project_id":"relay-prod"}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageDriver != StorageDriverFirestore {
		t.Errorf("storage driver = %q", cfg.StorageDriver)
	}
	if cfg.FirestoreCollection != "discord_webhooks" {
		t.Errorf("collection = %q", cfg.FirestoreCollection)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("http port = %q", cfg.HTTPPort)
	}
	if cfg.WebhookTimeoutDuration() != 10*time.Second {
		t.Errorf("timeout = %v", cfg.WebhookTimeoutDuration())
	}
	if cfg.CommandPrefix != "!" {
		t.Errorf("prefix = %q", cfg.CommandPrefix)
	}
	if cfg.AppEnv != AppEnvProduction {
		t.Errorf("app env = %q", cfg.AppEnv)
	}
	if cfg.ProjectID() != "relay-prod" {
		t.Errorf("project id = %q", cfg.ProjectID())
	}
	if cfg.WebhookURL != "" {
		t.Errorf("webhook url should be empty, got %q", cfg.WebhookURL)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	isolate(t)
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY", "{}")

	_, err := Load()
	if !errors.Is(err, sharedErrors.ErrMissingBotToken) {
		t.Fatalf("expected ErrMissingBotToken, got %v", err)
	}
}

func TestLoad_MissingFirebaseKey(t *testing.T) {
	isolate(t)
	t.Setenv("DISCORD_TOKEN", "token")

	_, err := Load()
	if !errors.Is(err, sharedErrors.ErrMissingFirebaseKey) {
		t.Fatalf("expected ErrMissingFirebaseKey, got %v", err)
	}
}

func TestLoad_FileDriverNeedsNoCredentials(t *testing.T) {
	isolate(t)
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "FILE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageDriver != StorageDriverFile {
		t.Errorf("storage driver = %q", cfg.StorageDriver)
	}
}

func TestLoad_InvalidStorageDriver(t *testing.T) {
	isolate(t)
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load()
	if !errors.Is(err, ErrInvalidStorageDriver) {
		t.Fatalf("expected ErrInvalidStorageDriver, got %v", err)
	}
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	dir := isolate(t)
	yaml := []byte("discord_token: from-file\nwebhook_url: https://n8n.example/webhook/abc\nstorage_driver: file\nwebhook_timeout: 3\napp_env: development\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DISCORD_TOKEN", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DiscordToken != "from-env" {
		t.Errorf("env should override file, got %q", cfg.DiscordToken)
	}
	if cfg.WebhookURL != "https://n8n.example/webhook/abc" {
		t.Errorf("webhook url = %q", cfg.WebhookURL)
	}
	if cfg.WebhookTimeoutDuration() != 3*time.Second {
		t.Errorf("timeout = %v", cfg.WebhookTimeoutDuration())
	}
	if !cfg.Debug() {
		t.Error("development env should enable debug")
	}
}

func TestProjectID_Override(t *testing.T) {
	cfg := &Config{FirestoreProjectID: "explicit", FirebaseServiceAccountKey: `{"project_id":"from-key"}`}
	if cfg.ProjectID() != "explicit" {
		t.Errorf("project id = %q", cfg.ProjectID())
	}
	cfg = &Config{FirebaseServiceAccountKey: "not json"}
	if cfg.ProjectID() != "" {
		t.Errorf("project id = %q", cfg.ProjectID())
	}
}
