package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/activities/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	c := model.NewChange(model.ChangeSignup, "Chess Club", "a@mergington.edu")
	if err := q.Enqueue(ctx, c); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.ID != c.ID || got.Email != "a@mergington.edu" {
		t.Errorf("unexpected change: %+v", got)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for i := range 2 {
		if err := q.Enqueue(ctx, model.NewChange(model.ChangeSignup, "Gym Class", fmt.Sprintf("s%d@x", i))); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}
	if err := q.Enqueue(ctx, model.NewChange(model.ChangeSignup, "Gym Class", "s3@x")); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, model.NewChange(model.ChangeSignup, "Gym Class", "x@x")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	const producers, perProducer = 10, 100

	var consumed sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)
	for range 4 {
		consumed.Add(1)
		go func() {
			defer consumed.Done()
			for c := range q.Dequeue(ctx) {
				mu.Lock()
				seen[c.ID] = true
				mu.Unlock()
			}
		}()
	}

	var produced sync.WaitGroup
	for p := range producers {
		produced.Add(1)
		go func(p int) {
			defer produced.Done()
			for j := range perProducer {
				c := model.NewChange(model.ChangeSignup, "Chess Club", fmt.Sprintf("s%d_%d@x", p, j))
				for q.Enqueue(ctx, c) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(p)
	}
	produced.Wait()
	_ = q.Close()
	consumed.Wait()

	if len(seen) != producers*perProducer {
		t.Errorf("expected %d distinct changes, got %d", producers*perProducer, len(seen))
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	_ = q.Enqueue(ctx, model.NewChange(model.ChangeSignup, "Chess Club", "a@x"))
	_ = q.Enqueue(ctx, model.NewChange(model.ChangeUnregister, "Chess Club", "a@x"))

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, model.NewChange(model.ChangeSignup, "Chess Club", "b@x")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// buffered changes are still delivered, then the channel closes
	drained := 0
	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case _, ok := <-q.Dequeue(ctx):
			if !ok {
				if drained != 2 {
					t.Errorf("expected 2 buffered changes, got %d", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained++
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
