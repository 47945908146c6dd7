package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
)

// RelayService runs the fetch-then-notify pipeline.
type RelayService struct {
	fetcher  *FetchService
	notifier *NotifyService
}

// NewRelayService creates a RelayService from its two stages.
func NewRelayService(fetcher *FetchService, notifier *NotifyService) *RelayService {
	return &RelayService{
		fetcher:  fetcher,
		notifier: notifier,
	}
}

// RunOnce fetches open merge requests once and delivers them once. A fetch
// error aborts before any delivery; a delivery transport error is returned
// with the summary reached so far.
func (s *RelayService) RunOnce(ctx context.Context, src model.SourceConfig, dst model.DeliveryConfig) (model.RunSummary, error) {
	start := time.Now()
	logger := LoggerFrom(ctx).With("run_id", uuid.NewString())
	ctx = WithLogger(ctx, logger)

	logger.Info("fetching merge requests", "source", src)

	mrs, err := s.fetcher.FetchOpen(ctx, src)
	if err != nil {
		return model.RunSummary{}, err
	}
	summary := model.RunSummary{Found: len(mrs)}
	logger.Info("merge requests found", "count", summary.Found)

	summary.Delivered, err = s.notifier.Deliver(ctx, mrs, dst)
	if err != nil {
		return summary, err
	}

	logger.Info("run complete",
		"found", summary.Found,
		"delivered", summary.Delivered,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return summary, nil
}

// Start runs the relay immediately and then on every tick of interval until
// ctx is canceled. Failed runs are logged and the loop carries on. Nothing is
// remembered between runs, so every tick re-announces all open merge requests.
func (s *RelayService) Start(ctx context.Context, src model.SourceConfig, dst model.DeliveryConfig, interval time.Duration) {
	logger := LoggerFrom(ctx)

	if _, err := s.RunOnce(ctx, src, dst); err != nil {
		logger.Error("initial run failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("relay stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx, src, dst); err != nil {
				logger.Error("relay run failed", "error", err)
			}
		}
	}
}
