// Package state records check runs in a local SQLite database so that
// successive runs can be compared. Recording is an audit trail only: it never
// changes what a check reports.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one recorded check.
type Run struct {
	ID             string    `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	Root           string    `json:"root"`
	RuleSetHash    string    `json:"ruleset_hash"`
	FileCount      int       `json:"file_count"`
	EdgeCount      int       `json:"edge_count"`
	ViolationCount int       `json:"violation_count"`
}

// Diff compares the violations of two runs.
type Diff struct {
	From     *Run             `json:"from"`
	To       *Run             `json:"to"`
	New      []core.Violation `json:"new"`
	Resolved []core.Violation `json:"resolved"`
}

// Store persists check runs.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	RecordRun(ctx context.Context, root string, report *boundaries.Report) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	RunViolations(ctx context.Context, runID string) ([]core.Violation, error)
	DiffRuns(ctx context.Context, fromID, toID string) (*Diff, error)
	PruneRuns(ctx context.Context, keep int) (int, error)
}
