package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neximp/backend/internal/domain/filing"
	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/domain/shared"
	"github.com/neximp/backend/internal/infrastructure/config"
)

// Task is a deferred receipt delivery request
type Task struct {
	FilingID    uuid.UUID
	Channel     receipt.Channel
	Destination string
}

// NotificationWorker delivers receipts in the background. Tasks are
// queued on a bounded channel; a full queue drops the task with a log
// entry rather than blocking the caller.
type NotificationWorker struct {
	repo     filing.Repository
	renderer *receipt.Renderer
	registry receipt.Registry
	dedupe   shared.IdempotencyStore
	cfg      config.DeliveryConfig
	logger   *zap.Logger

	queue    chan Task
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopped  bool
	stopOnce sync.Once
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(
	repo filing.Repository,
	renderer *receipt.Renderer,
	registry receipt.Registry,
	dedupe shared.IdempotencyStore,
	cfg config.DeliveryConfig,
	logger *zap.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		repo:     repo,
		renderer: renderer,
		registry: registry,
		dedupe:   dedupe,
		cfg:      cfg,
		logger:   logger.Named("notification-worker"),
		queue:    make(chan Task, cfg.QueueSize),
	}
}

// Start starts the worker goroutines
func (w *NotificationWorker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for i := 0; i < w.cfg.Workers; i++ {
		w.wg.Add(1)
		go w.runLoop(ctx)
	}

	w.logger.Info("notification worker started",
		zap.Int("workers", w.cfg.Workers),
		zap.Int("queue_size", w.cfg.QueueSize),
	)
	return nil
}

// Stop stops the worker, draining tasks already queued. Loops keep
// consuming until the queue is empty; the run context is cancelled
// only when ctx expires first, abandoning whatever remains.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()
		close(w.queue)
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("notification worker stopped")
		return nil
	case <-ctx.Done():
		if w.cancel != nil {
			w.cancel()
		}
		return ctx.Err()
	}
}

// FilingCreated enqueues the post-create receipt notification using
// the configured channel and destination. Never blocks.
func (w *NotificationWorker) FilingCreated(filingID uuid.UUID) {
	if w.cfg.NotifyDestination == "" {
		w.logger.Debug("no notify destination configured, skipping receipt notification",
			zap.String("filing_id", filingID.String()))
		return
	}
	w.Enqueue(Task{
		FilingID:    filingID,
		Channel:     receipt.Channel(w.cfg.NotifyChannel),
		Destination: w.cfg.NotifyDestination,
	})
}

// Enqueue adds a task to the queue. Returns false when the worker is
// stopped or the queue is full and the task was dropped.
func (w *NotificationWorker) Enqueue(task Task) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		w.logger.Warn("worker stopped, dropping task",
			zap.String("filing_id", task.FilingID.String()),
			zap.String("channel", task.Channel.String()),
		)
		return false
	}

	select {
	case w.queue <- task:
		return true
	default:
		w.logger.Warn("notification queue full, dropping task",
			zap.String("filing_id", task.FilingID.String()),
			zap.String("channel", task.Channel.String()),
		)
		return false
	}
}

func (w *NotificationWorker) runLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-w.queue:
			if !ok {
				return
			}
			w.process(ctx, task)
		}
	}
}

func (w *NotificationWorker) process(ctx context.Context, task Task) {
	key := fmt.Sprintf("%s:%s:%s", task.FilingID, task.Channel, task.Destination)

	if w.dedupe != nil {
		marked, err := w.dedupe.MarkProcessed(ctx, key, w.cfg.DedupeRetention)
		if err != nil {
			w.logger.Warn("dedupe store unavailable, delivering anyway",
				zap.String("key", key), zap.Error(err))
		} else if !marked {
			w.logger.Info("duplicate notification skipped",
				zap.String("filing_id", task.FilingID.String()),
				zap.String("channel", task.Channel.String()),
			)
			return
		}
	}

	var lastErr error
	for attempt := 1; attempt <= w.cfg.RetryAttempts; attempt++ {
		if ctx.Err() != nil {
			return
		}

		lastErr = w.deliver(ctx, task)
		if lastErr == nil {
			w.logger.Info("receipt notification delivered",
				zap.String("filing_id", task.FilingID.String()),
				zap.String("channel", task.Channel.String()),
				zap.Int("attempt", attempt),
			)
			return
		}

		w.logger.Warn("receipt notification attempt failed",
			zap.String("filing_id", task.FilingID.String()),
			zap.String("channel", task.Channel.String()),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)

		if attempt < w.cfg.RetryAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.cfg.RetryDelay * time.Duration(attempt)):
			}
		}
	}

	w.logger.Error("receipt notification abandoned",
		zap.String("filing_id", task.FilingID.String()),
		zap.String("channel", task.Channel.String()),
		zap.Int("attempts", w.cfg.RetryAttempts),
		zap.Error(lastErr),
	)
}

func (w *NotificationWorker) deliver(ctx context.Context, task Task) error {
	f, err := w.repo.FindByID(ctx, task.FilingID)
	if err != nil {
		return err
	}

	model, err := w.renderer.Render(f)
	if err != nil {
		return err
	}

	dispatcher, err := w.registry.Get(task.Channel)
	if err != nil {
		return err
	}

	_, err = dispatcher.Deliver(ctx, model, task.Destination)
	return err
}
