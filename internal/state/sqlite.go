package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Open opens a connection to the SQLite database, creating its directory.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := "file::memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened state store", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema brings the schema up to date.
func (s *SQLiteStore) InitSchema() error {
	if err := s.Migrate(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// RecordRun stores a report's summary and its violations in one transaction.
func (s *SQLiteStore) RecordRun(ctx context.Context, root string, report *boundaries.Report) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:             uuid.New().String(),
		StartedAt:      s.now(),
		Root:           root,
		RuleSetHash:    report.RuleSetHash,
		FileCount:      len(report.Files),
		EdgeCount:      len(report.Edges),
		ViolationCount: len(report.Violations),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, root, ruleset_hash, file_count, edge_count, violation_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(timeLayout), run.Root, run.RuleSetHash,
		run.FileCount, run.EdgeCount, run.ViolationCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO violations (run_id, seq, edge_index, from_path, to_path, from_type, to_type, reason, mismatches)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare violation insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for seq, v := range report.Violations {
		mismatches, err := encodeMismatches(v.Mismatches)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, run.ID, seq, v.EdgeIndex, v.From, v.To,
			v.FromType, v.ToType, string(v.Reason), mismatches); err != nil {
			return nil, fmt.Errorf("failed to record violation %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("recorded run", "id", run.ID, "violations", run.ViolationCount)
	return run, nil
}

const runColumns = `id, started_at, root, ruleset_hash, file_count, edge_count, violation_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var startedAt string
	if err := row.Scan(&run.ID, &startedAt, &run.Root, &run.RuleSetHash,
		&run.FileCount, &run.EdgeCount, &run.ViolationCount); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("bad started_at %q: %w", startedAt, err)
	}
	run.StartedAt = t
	return run, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunViolations returns a run's violations in their original order.
func (s *SQLiteStore) RunViolations(ctx context.Context, runID string) ([]core.Violation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT edge_index, from_path, to_path, from_type, to_type, reason, mismatches
		 FROM violations WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.Violation
	for rows.Next() {
		var v core.Violation
		var reason, mismatches string
		if err := rows.Scan(&v.EdgeIndex, &v.From, &v.To, &v.FromType, &v.ToType, &reason, &mismatches); err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		v.Reason = core.Reason(reason)
		if v.Mismatches, err = decodeMismatches(mismatches); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DiffRuns compares two recorded runs.
func (s *SQLiteStore) DiffRuns(ctx context.Context, fromID, toID string) (*Diff, error) {
	from, err := s.GetRun(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetRun(ctx, toID)
	if err != nil {
		return nil, err
	}

	before, err := s.RunViolations(ctx, fromID)
	if err != nil {
		return nil, err
	}
	after, err := s.RunViolations(ctx, toID)
	if err != nil {
		return nil, err
	}

	d := DiffViolations(before, after)
	d.From, d.To = from, to
	return &d, nil
}

// PruneRuns deletes all but the newest keep runs and returns how many were
// removed. keep <= 0 disables pruning.
func (s *SQLiteStore) PruneRuns(ctx context.Context, keep int) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	if keep <= 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug("pruned runs", "removed", n, "kept", keep)
	}
	return int(n), nil
}

func encodeMismatches(m []core.CaptureMismatch) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode mismatches: %w", err)
	}
	return string(data), nil
}

func decodeMismatches(s string) ([]core.CaptureMismatch, error) {
	if s == "" {
		return nil, nil
	}
	var m []core.CaptureMismatch
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("failed to decode mismatches: %w", err)
	}
	return m, nil
}
