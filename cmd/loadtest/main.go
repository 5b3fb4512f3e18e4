package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/activities/internal/loadtest"
	"github.com/okian/activities/pkg/logger"
)

// Default configuration constants.
const (
	defaultStudents    = 500
	defaultAttempts    = 3
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8000", "Base URL of the service")
		students = flag.Int("students", defaultStudents, "Number of synthetic students")
		attempts = flag.Int("attempts", defaultAttempts, "Concurrent signup attempts per student")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		domain   = flag.String("domain", "mergington.edu", "Email domain for synthetic students")
		format   = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &loadtest.Config{
		BaseURL:  *baseURL,
		Students: max(1, *students),
		Attempts: max(1, *attempts),
		Workers:  max(1, *workers),
		Timeout:  *timeout,
		Domain:   *domain,
		Verbose:  *verbose,
	}
	if _, err := loadtest.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("load test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
