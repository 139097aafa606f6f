package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/aleister1102/rankwatch/internal/httpclient"
	"github.com/aleister1102/rankwatch/internal/urlhandler"
)

const maxWebhookErrorBodyLength = 200

// webhookPayload is the JSON body posted to the webhook.
type webhookPayload struct {
	Text string `json:"text"`
}

// WebhookNotifier posts snapshot messages to an HTTP webhook as
// {"text": "<message>"}.
type WebhookNotifier struct {
	webhookURL string
	client     *httpclient.HTTPClient
	logger     zerolog.Logger
}

// NewWebhookNotifier creates a WebhookNotifier for the given URL.
func NewWebhookNotifier(webhookURL string, client *httpclient.HTTPClient, logger zerolog.Logger) (*WebhookNotifier, error) {
	if err := urlhandler.ValidateURLFormat(webhookURL); err != nil {
		return nil, common.NewValidationError("webhook_url", webhookURL, "invalid webhook URL")
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     client,
		logger:     logger.With().Str("component", "WebhookNotifier").Logger(),
	}, nil
}

// Notify posts the message to the webhook. A transport failure or a
// non-2xx response is an error; the caller decides what that means for
// change detection state.
func (wn *WebhookNotifier) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Text: message})
	if err != nil {
		return common.NewNotifyError("webhook", "failed to marshal payload", err)
	}

	resp, err := wn.client.PostJSON(ctx, wn.webhookURL, body)
	if err != nil {
		return common.NewNotifyError("webhook", "request failed", err)
	}

	if !resp.IsSuccess() {
		excerpt := truncateString(string(resp.Body), maxWebhookErrorBodyLength)
		reason := fmt.Sprintf("webhook returned status %d: %s", resp.StatusCode, excerpt)
		wn.logger.Error().Int("status_code", resp.StatusCode).Str("response_body", excerpt).Msg("Webhook notification failed")
		return common.NewNotifyError("webhook", reason, nil)
	}

	wn.logger.Info().Int("status_code", resp.StatusCode).Msg("Webhook notification sent")
	return nil
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
