package snapshot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DRSN-tech/supply-registry/internal/cfg"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/jitter"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
)

// Flusher сохраняет изменённый реестр. Возвращает true, если запись произошла.
type Flusher interface {
	Flush(ctx context.Context) (bool, error)
}

// Worker периодически сохраняет срез реестра и делает финальное сохранение при остановке.
type Worker struct {
	flusher     Flusher
	interval    time.Duration
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	logger      logger.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewWorker(flusher Flusher, cfg *cfg.SnapshotCfg, logger logger.Logger) *Worker {
	return &Worker{
		flusher:     flusher,
		interval:    cfg.Interval,
		maxRetries:  max(cfg.MaxRetries, 1),
		baseBackoff: 200 * time.Millisecond,
		maxBackoff:  5 * time.Second,
		logger:      logger,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start запускает цикл сохранения в отдельной горутине.
func (w *Worker) Start() {
	if w.started.CompareAndSwap(false, true) {
		go w.run()
	}
}

func (w *Worker) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-ticker.C:
			if err := w.flushWithRetry(ctx); err != nil {
				w.logger.Errorf(err, "snapshot flush failed, will retry on next tick")
			}
		case <-w.stopCh:
			return
		}
	}
}

// Stop останавливает цикл и сохраняет последние изменения.
// Сигнатура подходит для closer.Func.
func (w *Worker) Stop(ctx context.Context) error {
	const op = "snapshot.Worker.Stop"

	w.stopOnce.Do(func() { close(w.stopCh) })

	if w.started.Load() {
		select {
		case <-w.doneCh:
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		}
	}

	if err := w.flushWithRetry(ctx); err != nil {
		return e.Wrap(op, err)
	}

	w.logger.Infof("snapshot worker stopped")
	return nil
}

// flushWithRetry повторяет сохранение с экспоненциальной задержкой и джиттером.
func (w *Worker) flushWithRetry(ctx context.Context) error {
	const op = "snapshot.Worker.flushWithRetry"

	var lastErr error
	for attempt := 0; attempt < w.maxRetries; attempt++ {
		saved, err := w.flusher.Flush(ctx)
		if err == nil {
			if saved {
				w.logger.Debugf("snapshot flushed (attempt %d)", attempt+1)
			}
			return nil
		}
		lastErr = err

		if attempt == w.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			w.baseBackoff,
			w.maxBackoff,
			attempt,
			jitter.DefaultJitter,
		)

		w.logger.Warnf("snapshot flush failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		}
	}

	return e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", w.maxRetries, lastErr))
}
