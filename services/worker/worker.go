package worker

import (
	"context"
	"encoding/json"
	"time"

	"dealradar/helpers"
	"dealradar/internal/aggregator"
	"dealradar/internal/deal"
	"dealradar/internal/source"
	"dealradar/services/publisher"
)

// DealCollector is the slice of the aggregator the worker needs
type DealCollector interface {
	CollectDeals(ctx context.Context, q source.Query, opts aggregator.Options) aggregator.Response
}

// Worker periodically refreshes the deal set and publishes it downstream
type Worker struct {
	ctx       context.Context
	collector DealCollector
	publisher publisher.Publisher
	logger    helpers.LoggerInterface
	query     source.Query
	interval  time.Duration
}

// NewWorker creates a new refresh worker
func NewWorker(
	ctx context.Context,
	collector DealCollector,
	pub publisher.Publisher,
	logger helpers.LoggerInterface,
	query source.Query,
	interval time.Duration,
) *Worker {
	return &Worker{
		ctx:       ctx,
		collector: collector,
		publisher: pub,
		logger:    logger,
		query:     query,
		interval:  interval,
	}
}

// Start runs the refresh loop until the context is cancelled
func (w *Worker) Start() error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		start := time.Now()
		w.refresh()
		w.logger.LogInfo("refresh took %s", time.Since(start))

		select {
		case <-w.ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// refresh collects the current deal set and publishes every live deal
func (w *Worker) refresh() {
	resp := w.collector.CollectDeals(w.ctx, w.query, aggregator.Options{})

	published := 0
	for _, d := range resp.Data {
		// Placeholder deals are for callers, not the stream
		if d.Source == deal.FallbackSource {
			continue
		}

		data, err := json.Marshal(d)
		if err != nil {
			w.logger.LogError(d.Source, err)
			continue
		}

		if err := w.publisher.Publish(d.Source, data); err != nil {
			w.logger.LogError(d.Source, err)
			continue
		}
		published++
	}

	if published > 0 {
		w.logger.LogInfo("published %d deals", published)
	}

	if err := w.publisher.TrimStreams(); err != nil {
		w.logger.LogError("StreamTrimming", err)
	}
}
