package repository

import "github.com/okian/activities/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithSeed replaces the built-in seed. The store keeps its own copy.
func WithSeed(seed model.Directory) Option {
	return func(s *MemoryStore) {
		if seed != nil {
			s.seed = seed.Clone()
		}
	}
}
