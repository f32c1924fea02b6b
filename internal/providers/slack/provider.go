package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smallbiznis/replate/internal/observability/tracing"
)

const defaultTimeout = 5 * time.Second

var (
	ErrMissingWebhookURL = errors.New("slack_webhook_url_missing")
	ErrWebhookRejected   = errors.New("slack_webhook_rejected")
)

// Provider posts plain-text messages to an incoming webhook.
type Provider interface {
	PostMessage(ctx context.Context, webhookURL string, message string) error
}

type WebhookProvider struct {
	client *http.Client
}

func NewWebhookProvider() *WebhookProvider {
	return &WebhookProvider{
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: tracing.NewTransport(http.DefaultTransport),
		},
	}
}

func (p *WebhookProvider) PostMessage(ctx context.Context, webhookURL string, message string) error {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return ErrMissingWebhookURL
	}

	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrWebhookRejected, resp.StatusCode)
	}
	return nil
}
