// Package loadtest drives concurrent signup and unregister traffic against
// a running activities service and checks the rosters survive it intact.
package loadtest

import (
	"errors"
	"time"
)

// Errors returned by Run.
var (
	ErrUnhealthy    = errors.New("service is not healthy")
	ErrNoActivities = errors.New("service lists no activities")
	ErrUnexpected   = errors.New("unexpected responses")
	ErrRosterDrift  = errors.New("rosters differ from baseline")
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Students int           // Number of synthetic students
	Attempts int           // Concurrent signups per student, only one may succeed
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Domain   string        // Email domain for synthetic students
	Verbose  bool
}

// Stats holds the outcome of a run.
type Stats struct {
	Requests     int
	Signups      int
	Unregisters  int
	Rejected     int // expected 400s from duplicate signup attempts
	Unexpected   int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	Activities   int
	Participants int
}

// student is one synthetic participant and the activity it targets.
type student struct {
	Email    string
	Activity string
}
