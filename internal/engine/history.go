package engine

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/layerlint/internal/state"
	"github.com/leapstack-labs/layerlint/pkg/boundaries"
)

// History returns the run history store, opening and migrating it on first
// use.
func (e *Engine) History() (state.Store, error) {
	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	if e.store != nil {
		return e.store, nil
	}

	path := e.project.History.Path
	e.logger.Debug("opening history store", "path", path)

	store := state.NewSQLiteStore(e.logger)
	if err := store.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	e.store = store
	return store, nil
}

func (e *Engine) record(ctx context.Context, report *boundaries.Report) (*state.Run, error) {
	store, err := e.History()
	if err != nil {
		return nil, err
	}

	run, err := store.RecordRun(ctx, e.root, report)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	removed, err := store.PruneRuns(ctx, e.project.History.Keep)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		e.logger.Debug("pruned history", "removed", removed)
	}
	return run, nil
}
