// Package worker drains the change feed into the roster history.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/activities/internal/adapters/mq/queue"
	"github.com/okian/activities/pkg/logger"
	"github.com/okian/activities/pkg/metrics"
)

// poolShutdownTimeout bounds how long Shutdown waits for workers to drain.
const poolShutdownTimeout = 30 * time.Second

// Event abstracts what workers read off the queue.
type Event = queue.Event

// Recorder stores a roster change.
type Recorder interface {
	Record(ctx context.Context, c Event) error
}

// Queue defines how workers receive changes.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// InMemoryWorker records changes read from a queue.
type InMemoryWorker struct {
	queue    Queue
	recorder Recorder
	name     string

	processed atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes changes until the queue closes, ctx is canceled or Stop is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	changes := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := w.process(ctx, c); err != nil {
				w.logger.Error(ctx, "error recording change", logger.Error(err))
			}
		}
	}
}

// Stop makes Run return without draining the queue.
func (w *InMemoryWorker) Stop() {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Processed returns the number of changes this worker recorded.
func (w *InMemoryWorker) Processed() int64 {
	return w.processed.Load()
}

func (w *InMemoryWorker) process(ctx context.Context, c Event) error {
	if err := w.recorder.Record(ctx, c); err != nil {
		metrics.RecordErrorByComponent("feed", "record_failed")
		return fmt.Errorf("record change %s: %w", c.ID, err)
	}
	w.processed.Add(1)

	delay := time.Since(c.At)
	metrics.RecordFeedProcessed(float64(delay.Microseconds()) / 1000)
	w.logger.Debug(ctx, "recorded change",
		logger.String("id", c.ID),
		logger.String("kind", string(c.Kind)),
		logger.String("activity", c.Activity),
		logger.String("email", c.Email),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. Values below one become one.
func NewPool(workerCount int, q Queue, recorder Recorder, l logger.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if l == nil {
		l = logger.Nop()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  l.Named("feed"),
	}
	for i := range workerCount {
		pool.workers[i] = NewInMemoryWorker(q, recorder,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(pool.logger),
		)
	}
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateFeedWorkerCount(len(p.workers))
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns the number of changes recorded by all workers.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Stop aborts all workers without draining the queue.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}
	for _, w := range p.workers {
		<-w.Done()
	}
	metrics.UpdateFeedWorkerCount(0)
}

// Shutdown closes the queue and waits for workers to drain what is left.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var err error
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			w.Stop()
			err = fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
		}
	}
	metrics.UpdateFeedWorkerCount(0)
	return err
}
