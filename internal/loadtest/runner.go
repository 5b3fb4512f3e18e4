package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/activities/pkg/logger"
)

// Run executes a load test: every student tries to sign up Attempts times
// at once, exactly one attempt must win, then the student unregisters.
// Afterwards the directory must match the snapshot taken before the run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting roster load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("students", cfg.Students),
		logger.Int("attempts", cfg.Attempts),
		logger.Int("workers", cfg.Workers))

	if err := c.health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	baseline, err := c.activities(ctx)
	if err != nil {
		return stats, err
	}
	if len(baseline) == 0 {
		return stats, ErrNoActivities
	}

	students := generateStudents(ctx, cfg.Students, cfg.Domain, baseline)
	exercise(ctx, c, cfg, students, stats)

	final, err := c.activities(ctx)
	if err != nil {
		return stats, err
	}
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	stats.Activities = len(final)
	stats.Participants = final.Participants()
	displayFinalStats(ctx, stats)

	if stats.Unexpected > 0 {
		return stats, fmt.Errorf("%w: %d", ErrUnexpected, stats.Unexpected)
	}
	if err := verifyRosters(baseline, final); err != nil {
		return stats, err
	}
	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// exercise runs every student through a worker pool.
func exercise(ctx context.Context, c *client, cfg *Config, students []student, stats *Stats) {
	var requests, signups, unregisters, rejected, unexpected atomic.Int64

	work := make(chan student, cfg.Workers*2)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range work {
				if ctx.Err() != nil {
					return
				}
				won, lost, failed := raceSignups(ctx, c, s, cfg.Attempts)
				requests.Add(int64(cfg.Attempts))
				signups.Add(int64(won))
				rejected.Add(int64(lost))
				unexpected.Add(int64(failed))
				if won != 1 {
					unexpected.Add(1)
					logger.Get().Warn(ctx, "signup race did not yield one winner",
						logger.String("email", s.Email),
						logger.String("activity", s.Activity),
						logger.Int("winners", won))
				}

				status, err := c.unregister(ctx, s.Activity, s.Email)
				requests.Add(1)
				if err != nil || status != http.StatusOK {
					unexpected.Add(1)
					continue
				}
				unregisters.Add(1)
				if cfg.Verbose {
					logger.Get().Debug(ctx, "student cycled", logger.String("email", s.Email), logger.String("activity", s.Activity))
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, s := range students {
			select {
			case <-ctx.Done():
				return
			case work <- s:
			}
		}
	}()
	wg.Wait()

	stats.Requests = int(requests.Load())
	stats.Signups = int(signups.Load())
	stats.Unregisters = int(unregisters.Load())
	stats.Rejected = int(rejected.Load())
	stats.Unexpected = int(unexpected.Load())
}

// raceSignups fires attempts concurrent signups for one student and counts
// 200s, 400s and anything else.
func raceSignups(ctx context.Context, c *client, s student, attempts int) (won, lost, failed int) {
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := c.signup(ctx, s.Activity, s.Email)
			if err != nil {
				status = 0
			}
			statuses[i] = status
		}()
	}
	wg.Wait()

	for _, status := range statuses {
		switch status {
		case http.StatusOK:
			won++
		case http.StatusBadRequest:
			lost++
		default:
			failed++
		}
	}
	return won, lost, failed
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("requests", stats.Requests),
		logger.Int("signups", stats.Signups),
		logger.Int("unregisters", stats.Unregisters),
		logger.Int("rejected", stats.Rejected),
		logger.Int("unexpected", stats.Unexpected),
		logger.Int("activities", stats.Activities),
		logger.Int("participants", stats.Participants),
		logger.String("duration", stats.Duration.String()),
		logger.Any("requestsPerSecond", perSecond))
}
