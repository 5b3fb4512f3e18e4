// Package service provides the activity directory service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/activities/internal/adapters/mq/queue"
	"github.com/okian/activities/internal/adapters/mq/worker"
	"github.com/okian/activities/internal/adapters/repository"
	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/pkg/logger"
	"github.com/okian/activities/pkg/metrics"
)

// Service owns the activity directory and the roster change feed.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	seed    model.Directory
	history *repository.History
	feed    *queue.InMemoryQueue
	pool    *worker.Pool

	feedQueueSize   int
	feedWorkerCount int
	historySize     int

	started bool
	logger  logger.Logger
}

// New constructs a Service. The directory is usable immediately; the change
// feed only drains into history once Start is called.
func New(opts ...Option) *Service {
	s := &Service{
		feedQueueSize:   1024,
		feedWorkerCount: 1,
		historySize:     500,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		storeOpts := []repository.Option{}
		if s.seed != nil {
			storeOpts = append(storeOpts, repository.WithSeed(s.seed))
		}
		s.store = repository.NewMemoryStore(storeOpts...)
	}
	s.history = repository.NewHistory(s.historySize)
	s.feed = queue.NewInMemoryQueue(queue.WithCapacity(s.feedQueueSize))
	s.logger = s.logger.Named("directory")
	return s
}

// Start launches the change feed workers. The workers outlive ctx so that
// Stop can drain whatever is still queued.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.feed.IsClosed() {
		s.feed = queue.NewInMemoryQueue(queue.WithCapacity(s.feedQueueSize))
	}
	s.pool = worker.NewPool(s.feedWorkerCount, s.feed, s.history, s.logger)
	s.pool.Start(context.WithoutCancel(ctx))
	s.started = true

	activities, participants := s.store.Count(ctx)
	s.logger.Info(ctx, "activity directory started",
		logger.Int("activities", activities),
		logger.Int("participants", participants),
		logger.Int("feedWorkers", s.feedWorkerCount),
		logger.Int("feedQueueSize", s.feedQueueSize),
		logger.Int("historySize", s.historySize),
	)
	return nil
}

// Stop drains the change feed and stops its workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "change feed did not drain", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "activity directory stopped")
}

// List returns the whole directory as currently held.
func (s *Service) List(ctx context.Context) model.Directory {
	return s.store.List(ctx)
}

// Signup enrolls email in activity.
func (s *Service) Signup(ctx context.Context, activity, email string) (string, error) {
	const op = "directory.signup"
	change, err := s.store.Signup(ctx, activity, email)
	if err != nil {
		s.reject(ctx, "signup", activity, email, err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordSignup(activity)
	s.publish(ctx, change)
	s.logger.Info(ctx, "participant signed up", logger.String("activity", activity), logger.String("email", email))
	return fmt.Sprintf("Signed up %s for %s", email, activity), nil
}

// Unregister withdraws email from activity.
func (s *Service) Unregister(ctx context.Context, activity, email string) (string, error) {
	const op = "directory.unregister"
	change, err := s.store.Unregister(ctx, activity, email)
	if err != nil {
		s.reject(ctx, "unregister", activity, email, err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordUnregister(activity)
	s.publish(ctx, change)
	s.logger.Info(ctx, "participant unregistered", logger.String("activity", activity), logger.String("email", email))
	return fmt.Sprintf("Unregistered %s from %s", email, activity), nil
}

// Reset restores the directory to its seed and forgets recorded changes.
func (s *Service) Reset(ctx context.Context) {
	s.store.Reset(ctx)
	s.history.Clear(ctx)
	s.logger.Info(ctx, "activity directory reset to seed")
}

// Changes returns up to limit recent roster changes, newest first. A limit
// above the history size returns the whole history.
func (s *Service) Changes(ctx context.Context, limit int) ([]model.Change, error) {
	const op = "directory.changes"
	if limit < 1 {
		return nil, fmt.Errorf("%s: %w: must be at least 1", op, ErrInvalidLimit)
	}
	return s.history.Recent(ctx, min(limit, s.history.Cap())), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	activities, participants := s.store.Count(ctx)
	metrics.UpdateDirectorySize(activities, participants)

	stats := map[string]interface{}{
		"started":         s.started,
		"activities":      activities,
		"participants":    participants,
		"feedQueueSize":   s.feedQueueSize,
		"feedQueueLength": s.feed.Len(ctx),
		"feedWorkerCount": s.feedWorkerCount,
		"historyLength":   s.history.Len(ctx),
	}
	if s.pool != nil {
		stats["feedProcessed"] = s.pool.Processed()
	}
	return stats
}

// publish hands a change to the feed. The roster has already changed, so a
// refused change is logged and counted but never reported to the caller.
func (s *Service) publish(ctx context.Context, c model.Change) {
	s.mu.RLock()
	feed := s.feed
	s.mu.RUnlock()

	if err := feed.Enqueue(context.WithoutCancel(ctx), c); err != nil {
		s.logger.Warn(ctx, "dropped roster change",
			logger.String("id", c.ID),
			logger.String("activity", c.Activity),
			logger.Error(err),
		)
	}
}

func (s *Service) reject(ctx context.Context, operation, activity, email string, err error) {
	reason := "unknown"
	switch {
	case errors.Is(err, model.ErrActivityNotFound):
		reason = "activity_not_found"
	case errors.Is(err, model.ErrAlreadySignedUp):
		reason = "already_signed_up"
	case errors.Is(err, model.ErrNotSignedUp):
		reason = "not_registered"
	}
	metrics.RecordRejected(operation, reason)
	s.logger.Debug(ctx, "roster operation rejected",
		logger.String("operation", operation),
		logger.String("activity", activity),
		logger.String("email", email),
		logger.String("reason", reason),
	)
}
