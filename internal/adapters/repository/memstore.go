package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/pkg/metrics"
)

// MemoryStore is the process-lifetime activity directory.
//
// Every check-then-mutate runs under the write lock, so concurrent signups
// for the same email cannot both pass the duplicate check. Readers get deep
// copies and never observe a roster mid-update. Changes are stamped inside
// the same critical section with strictly increasing times, so ordering
// changes by At replays them in the order the directory applied them.
type MemoryStore struct {
	mu   sync.RWMutex
	dir  model.Directory
	seed model.Directory
	last time.Time
}

// NewMemoryStore creates a store populated from the seed.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{seed: DefaultSeed()}
	for _, opt := range opts {
		opt(s)
	}
	s.dir = s.seed.Clone()
	s.publishSizes()
	return s
}

// List returns a deep copy of the directory.
func (s *MemoryStore) List(_ context.Context) model.Directory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.Clone()
}

// Get returns a copy of one activity.
func (s *MemoryStore) Get(_ context.Context, name string) (model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.dir[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	return a.Clone(), nil
}

// Signup appends email to the roster of name. Capacity is not checked.
func (s *MemoryStore) Signup(_ context.Context, name, email string) (model.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.dir[name]
	if !ok {
		return model.Change{}, ErrActivityNotFound
	}
	if !a.Add(email) {
		return model.Change{}, ErrAlreadySignedUp
	}
	s.dir[name] = a
	metrics.UpdateRosterSize(name, len(a.Participants))
	metrics.UpdateDirectorySize(len(s.dir), s.dir.Participants())
	return s.stamp(model.ChangeSignup, name, email), nil
}

// Unregister removes email from the roster of name.
func (s *MemoryStore) Unregister(_ context.Context, name, email string) (model.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.dir[name]
	if !ok {
		return model.Change{}, ErrActivityNotFound
	}
	if !a.Remove(email) {
		return model.Change{}, ErrNotSignedUp
	}
	s.dir[name] = a
	metrics.UpdateRosterSize(name, len(a.Participants))
	metrics.UpdateDirectorySize(len(s.dir), s.dir.Participants())
	return s.stamp(model.ChangeUnregister, name, email), nil
}

// stamp builds the change for a mutation. Callers hold the write lock.
func (s *MemoryStore) stamp(kind model.ChangeKind, name, email string) model.Change {
	c := model.NewChange(kind, name, email)
	if !c.At.After(s.last) {
		c.At = s.last.Add(time.Nanosecond)
	}
	s.last = c.At
	return c
}

// Reset restores the directory to a fresh copy of the seed.
func (s *MemoryStore) Reset(_ context.Context) {
	s.mu.Lock()
	s.dir = s.seed.Clone()
	s.mu.Unlock()
	metrics.RecordDirectoryReset()
	s.publishSizes()
}

// Count returns the number of activities and of roster entries.
func (s *MemoryStore) Count(_ context.Context) (activities, participants int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dir), s.dir.Participants()
}

func (s *MemoryStore) publishSizes() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, a := range s.dir {
		metrics.UpdateRosterSize(name, len(a.Participants))
	}
	metrics.UpdateDirectorySize(len(s.dir), s.dir.Participants())
}
