package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store persists the history of pipeline runs
type Store interface {
	Close() error

	// Runs
	CreateRun(ctx context.Context, r Run) error
	FinishRun(ctx context.Context, id string, res Result) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Stages
	AddStageReport(ctx context.Context, runID string, s StageReport) error
	StageReports(ctx context.Context, runID string) ([]StageReport, error)
}

// Status of a run
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded pipeline invocation
type Run struct {
	ID         string
	SourcePath string
	TargetPath string
	ConfigPath string // empty for the default pipeline
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
	Status     Status
	Input      int
	Output     int
	Error      string
}

// Result closes a run
type Result struct {
	Status     Status
	Input      int
	Output     int
	Error      string
	FinishedAt time.Time
}

// StageReport is the outcome of one stage within a run
type StageReport struct {
	Position int
	Name     string
	Kind     string
	In       int
	Out      int
	Duration time.Duration
}

// IDs hands out run identifiers. ULIDs sort by creation time, so listing
// runs by ID lists them chronologically.
type IDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDs creates an ID generator
func NewIDs() *IDs {
	return &IDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a fresh run ID.
func (g *IDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}
