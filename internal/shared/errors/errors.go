package errors

import "errors"

var (
	ErrMissingBotToken        = errors.New("DISCORD_TOKEN environment variable is required")
	ErrMissingFirebaseKey     = errors.New("FIREBASE_SERVICE_ACCOUNT_KEY environment variable is required")
	ErrDatabaseNotInitialized = errors.New("database not initialized")
	ErrConfigNotFound         = errors.New("webhook config not found")
	ErrInvalidWebhookURL      = errors.New("invalid webhook url")
	ErrGuildOnly              = errors.New("command can only be used in a server")
	ErrFeedNotFound           = errors.New("feed not found")
)
