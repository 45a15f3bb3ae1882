package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsonparser "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	DiscordToken              string        `koanf:"discord_token"`
	WebhookURL                string        `koanf:"webhook_url"`
	FirebaseServiceAccountKey string        `koanf:"firebase_service_account_key"`
	FirestoreProjectID        string        `koanf:"firestore_project_id"`
	FirestoreCollection       string        `koanf:"firestore_collection"`
	StorageDriver             StorageDriver `koanf:"storage_driver"`
	StoragePath               string        `koanf:"storage_path"`
	HTTPPort                  string        `koanf:"http_port"`
	WebhookTimeout            int           `koanf:"webhook_timeout"`
	CommandPrefix             string        `koanf:"command_prefix"`
	DevGuildID                string        `koanf:"dev_guild_id"`
	AppEnv                    AppEnv        `koanf:"app_env"`
}

// WebhookTimeoutDuration returns the outbound POST timeout.
func (c *Config) WebhookTimeoutDuration() time.Duration {
	return time.Duration(c.WebhookTimeout) * time.Second
}

// Debug reports whether verbose logging should be enabled.
func (c *Config) Debug() bool {
	return c.AppEnv == AppEnvDevelopment || c.AppEnv == AppEnvLocal
}

// ProjectID returns the configured Firestore project, falling back to the
// project_id field of the service account key.
func (c *Config) ProjectID() string {
	if c.FirestoreProjectID != "" {
		return c.FirestoreProjectID
	}
	var key struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(c.FirebaseServiceAccountKey), &key); err != nil {
		return ""
	}
	return key.ProjectID
}

func Load() (*Config, error) {
	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = jsonparser.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	defaults := map[string]any{
		"firestore_collection": "discord_webhooks",
		"storage_driver":       string(StorageDriverFirestore),
		"storage_path":         "./data",
		"http_port":            "8080",
		"webhook_timeout":      10,
		"command_prefix":       "!",
		"app_env":              string(AppEnvProduction),
	}
	for key, value := range defaults {
		if !k.Exists(key) || k.String(key) == "" {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	driver, err := ParseStorageDriver(k.String("storage_driver"))
	if err != nil {
		return nil, oops.With("storage_driver", k.String("storage_driver")).Wrap(err)
	}
	cfg.StorageDriver = driver

	if cfg.WebhookTimeout <= 0 {
		cfg.WebhookTimeout = 10
	}

	if cfg.DiscordToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	if cfg.StorageDriver == StorageDriverFirestore && cfg.FirebaseServiceAccountKey == "" {
		return nil, errors.ErrMissingFirebaseKey
	}

	return &cfg, nil
}
