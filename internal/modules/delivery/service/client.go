package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/reshetovitsme/n8n-discord-trigger/internal/modules/delivery/domain"
	payloadDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/payload/domain"
	"github.com/samber/oops"
)

// Client posts payloads to webhooks. It never retries.
type Client struct {
	http *http.Client
}

// New creates a delivery client with a bounded request timeout.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewWithHTTPClient wraps an existing client.
func NewWithHTTPClient(c *http.Client) *Client {
	return &Client{http: c}
}

// Deliver POSTs payload as JSON. Only transport failures are errors; the
// status code of any response is returned as-is.
func (c *Client) Deliver(ctx context.Context, url string, payload *payloadDomain.Payload) (*domain.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, oops.With("message_id", payload.MessageID, "context", "failed to marshal payload").Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, oops.With("url", url, "context", "failed to build webhook request").Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, oops.With("url", url, "message_id", payload.MessageID, "context", "webhook request failed").Wrap(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	result := &domain.Result{StatusCode: resp.StatusCode, Duration: time.Since(started)}
	slog.Info("Webhook response", "status", result.StatusCode, "message_id", payload.MessageID, "duration", result.Duration)

	return result, nil
}
