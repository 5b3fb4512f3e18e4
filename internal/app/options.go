package service

import (
	"github.com/okian/activities/internal/adapters/repository"
	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the in-memory directory.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSeed sets the catalog the default store starts from and resets to.
// Ignored when WithStore is also given.
func WithSeed(seed model.Directory) Option {
	return func(s *Service) {
		if seed != nil {
			s.seed = seed
		}
	}
}

// WithFeedQueueSize bounds the change feed queue.
func WithFeedQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.feedQueueSize = size
		}
	}
}

// WithFeedWorkerCount sets the number of change feed workers.
func WithFeedWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.feedWorkerCount = count
		}
	}
}

// WithHistorySize sets how many recent changes are kept.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historySize = size
		}
	}
}
