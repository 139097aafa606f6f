// Package notifier formats ranking snapshot messages and delivers them
// to the configured sink: a webhook if one is set, stdout otherwise.
package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aleister1102/rankwatch/internal/config"
	"github.com/aleister1102/rankwatch/internal/httpclient"
)

// Notifier delivers a formatted snapshot message to its sink.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NewFromConfig selects the notification sink. A configured webhook URL
// routes messages there; otherwise messages go to stdout.
func NewFromConfig(cfg config.NotificationConfig, client *httpclient.HTTPClient, logger zerolog.Logger) (Notifier, error) {
	if cfg.WebhookURL != "" {
		return NewWebhookNotifier(cfg.WebhookURL, client, logger)
	}
	return NewConsoleNotifier(logger), nil
}
