package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hoangnd/video-processing-be/internal/worker/domain"
	"github.com/hoangnd/video-processing-be/shared/rabbitmq"
)

// TaskRunner executes the full processing pipeline for one task.
type TaskRunner interface {
	Run(ctx context.Context, taskID string) error
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Runner        TaskRunner
	Concurrency   int
	PrefetchCount int
	QueueName     string
}

// Worker consumes task messages from RabbitMQ and runs the processing
// pipeline with a bounded pool of goroutines.
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	runner        TaskRunner
	concurrency   int
	prefetchCount int
	queueName     string
	workerID      string
	jobsChan      chan *domain.TaskMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		runner:        cfg.Runner,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		queueName:     cfg.QueueName,
		workerID:      fmt.Sprintf("worker-%s", uuid.New().String()[:8]),
		jobsChan:      make(chan *domain.TaskMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and processing tasks. It blocks until the
// context is canceled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Int("prefetch_count", w.prefetchCount),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker, waiting for in-flight tasks.
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
