package worker

import (
	"context"
	"log/slog"
	"time"

	"news-agent/internal/usecase"
)

const (
	runTimeout     = 10 * time.Minute
	initialBackoff = 1 * time.Second
	maxBackoff     = 5 * time.Minute
)

// IngestWorker runs the ingestion pipeline on a fixed schedule: the configured
// topics, then top headlines per configured category. A failed run backs off
// exponentially; a successful run restores the regular interval.
type IngestWorker struct {
	ingest     usecase.IngestArticlesUsecase
	topics     []string
	country    string
	categories []string
	interval   time.Duration
	logger     *slog.Logger
	stopChan   chan struct{}
	backoff    time.Duration
}

func NewIngestWorker(
	ingest usecase.IngestArticlesUsecase,
	topics []string,
	country string,
	categories []string,
	interval time.Duration,
	logger *slog.Logger,
) *IngestWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &IngestWorker{
		ingest:     ingest,
		topics:     topics,
		country:    country,
		categories: categories,
		interval:   interval,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

func (w *IngestWorker) Start() {
	w.logger.Info("Starting IngestWorker",
		"interval", w.interval.String(),
		"topics", len(w.topics))
	go w.run()
}

func (w *IngestWorker) Stop() {
	w.logger.Info("Stopping IngestWorker")
	close(w.stopChan)
}

func (w *IngestWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.runOnce()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(w.interval)
			}
		}
	}
}

func (w *IngestWorker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	var failed bool

	if len(w.topics) > 0 {
		batch, err := w.ingest.ProcessBatch(ctx, w.topics, "")
		if err != nil {
			w.logger.Error("Scheduled topic ingestion failed", "error", err)
			failed = true
		} else {
			w.logger.Info("Scheduled topic ingestion finished",
				"topics", batch.TopicsProcessed,
				"processed", batch.TotalProcessed,
				"failed", batch.TotalFailed)
		}
	}

	for _, category := range w.categories {
		result, err := w.ingest.ProcessHeadlines(ctx, w.country, category)
		if err != nil {
			w.logger.Error("Scheduled headlines ingestion failed",
				"country", w.country,
				"category", category,
				"error", err)
			failed = true
			continue
		}
		w.logger.Info("Scheduled headlines ingestion finished",
			"country", w.country,
			"category", category,
			"processed", result.ArticlesProcessed)
	}

	if failed {
		w.backoff = w.nextBackoff(w.backoff)
		w.logger.Warn("Worker backing off", "backoff", w.backoff.String())
	} else {
		w.backoff = 0
	}
}

func (w *IngestWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
