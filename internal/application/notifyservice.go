package application

import (
	"context"

	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
	"github.com/ericfisherdev/mrcoffee/internal/domain/port/driven"
)

// NotifyService formats merge requests per channel and posts them to the
// configured webhooks.
type NotifyService struct {
	sender driven.WebhookSender
}

// NewNotifyService creates a NotifyService that posts through sender.
func NewNotifyService(sender driven.WebhookSender) *NotifyService {
	return &NotifyService{sender: sender}
}

// Payloads renders the payload of every configured channel, in delivery order.
// It makes no network calls.
func (s *NotifyService) Payloads(mrs []model.MergeRequest, cfg model.DeliveryConfig) map[model.Channel]any {
	salutation := cfg.ResolveSalutation()
	payloads := make(map[model.Channel]any, len(model.Channels))
	for _, ch := range model.Channels {
		if cfg.Target(ch) == nil {
			continue
		}
		payloads[ch] = payloadBuilders[ch](salutation, mrs)
	}
	return payloads
}

// Deliver posts the summary to Slack, then Teams, skipping channels without a
// target, and returns how many channels answered with a 2xx status.
//
// A non-2xx answer is logged and not counted; delivery continues with the next
// channel. A transport failure stops delivery and is returned as a
// *model.DeliveryError together with the count reached so far.
func (s *NotifyService) Deliver(ctx context.Context, mrs []model.MergeRequest, cfg model.DeliveryConfig) (int, error) {
	logger := LoggerFrom(ctx)
	salutation := cfg.ResolveSalutation()

	var delivered int
	for _, ch := range model.Channels {
		target := cfg.Target(ch)
		if target == nil {
			continue
		}

		logger.Info("posting merge requests", "channel", ch, "webhook", target, "merge_requests", len(mrs))

		payload := payloadBuilders[ch](salutation, mrs)
		status, err := s.sender.Send(ctx, target.WebhookURL, payload)
		if err != nil {
			return delivered, &model.DeliveryError{Channel: ch, Err: err}
		}

		if status < 200 || status > 299 {
			logger.Error("webhook rejected message", "channel", ch, "status", status)
			continue
		}
		delivered++
	}

	return delivered, nil
}
