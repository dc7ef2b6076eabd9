// Package slack posts release notifications to a Slack incoming webhook.
package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
)

type notifier struct {
	webhookURL string
}

// NewNotifier creates a webhook-based notifier.
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{webhookURL: webhookURL}
}

// Notify posts a plain text message.
func (n *notifier) Notify(ctx context.Context, text string) error {
	if err := slack.PostWebhookContext(ctx, n.webhookURL, &slack.WebhookMessage{Text: text}); err != nil {
		return goerr.Wrap(err, "failed to post slack notification")
	}
	return nil
}
