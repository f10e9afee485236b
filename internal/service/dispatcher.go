package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PredictionRunner is the work a dispatcher performs for each task.
type PredictionRunner interface {
	OnNewReading(ctx context.Context, userID uuid.UUID)
}

// PredictionDispatcher runs prediction tasks on a fixed worker pool fed by a
// bounded queue. Tasks run on the dispatcher's own context, never the
// submitting request's.
type PredictionDispatcher struct {
	runner PredictionRunner
	queue  chan uuid.UUID
	log    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	drops  atomic.Int64
}

var _ PredictionTrigger = (*PredictionDispatcher)(nil)

// NewPredictionDispatcher starts workers goroutines draining a queue of
// queueSize tasks.
func NewPredictionDispatcher(runner PredictionRunner, workers, queueSize int, log zerolog.Logger) *PredictionDispatcher {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &PredictionDispatcher{
		runner: runner,
		queue:  make(chan uuid.UUID, queueSize),
		log:    log.With().Str("component", "prediction_dispatcher").Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
	return d
}

// Enqueue schedules a prediction for the user. It never blocks; when the
// queue is full or the dispatcher is stopped the task is dropped.
func (d *PredictionDispatcher) Enqueue(userID uuid.UUID) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(userID, "dispatcher stopped")
		return
	}
	select {
	case d.queue <- userID:
		dispatchSubmissions.Inc()
		dispatchQueueDepth.Set(float64(len(d.queue)))
	default:
		d.drop(userID, "queue full")
	}
}

// Dropped returns the number of tasks discarded so far.
func (d *PredictionDispatcher) Dropped() int64 {
	return d.drops.Load()
}

// Stop refuses new tasks, lets the workers finish everything already queued
// and waits for them. If ctx expires first, in-flight runs are cancelled.
func (d *PredictionDispatcher) Stop(ctx context.Context) error {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *PredictionDispatcher) drop(userID uuid.UUID, reason string) {
	d.drops.Add(1)
	dispatchDropped.Inc()
	d.log.Warn().Str("user_id", userID.String()).Str("reason", reason).Msg("prediction task dropped")
}

func (d *PredictionDispatcher) work(idx int) {
	defer d.wg.Done()
	for userID := range d.queue {
		dispatchQueueDepth.Set(float64(len(d.queue)))
		d.run(idx, userID)
	}
}

func (d *PredictionDispatcher) run(idx int, userID uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Int("worker", idx).Str("user_id", userID.String()).Interface("panic", r).Msg("prediction worker panic")
		}
	}()
	d.runner.OnNewReading(d.ctx, userID)
}
