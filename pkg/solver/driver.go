package solver

import (
	"context"

	"github.com/gitrdm/edgetile/internal/workerpool"
	"github.com/gitrdm/edgetile/pkg/puzzle"
)

// sharedStateReporter wraps a StepReporter so every placement at or
// beyond minDepth also updates a SharedSearchState's best-depth-so-far,
// and delegates everything else unchanged. One is installed per worker
// engine.
type sharedStateReporter struct {
	inner    StepReporter
	shared   *SharedSearchState
	board    *puzzle.Board
	minDepth int
}

func (r *sharedStateReporter) Placed(e puzzle.TrailEntry, depth int, forced bool) {
	if depth >= r.minDepth {
		r.shared.ReportDepth(depth, r.board)
	}
	r.inner.Placed(e, depth, forced)
}
func (r *sharedStateReporter) BacktrackedFrom(e puzzle.TrailEntry, depth int) {
	r.inner.BacktrackedFrom(e, depth)
}
func (r *sharedStateReporter) Solved(stats Stats) { r.inner.Solved(stats) }
func (r *sharedStateReporter) Progress(stats Stats) { r.inner.Progress(stats) }

// WorkerResult is one worker's outcome, returned to the driver's caller
// for diagnostics even when it lost the race to another worker.
type WorkerResult struct {
	WorkerID int
	Board    *puzzle.Board
	Err      error
	Stats    Stats
}

// ParallelDriver runs N independently-seeded SearchEngines over the
// same puzzle concurrently: no work-stealing, no shared search tree —
// each worker diversifies by OrderMode (workers also get distinct seeds,
// which candidate ordering does not use) and races to a solution. The
// first to find a solution cancels the rest at their next stability
// boundary; a worker that exhausts its search does not stop the others.
// Modeled on the teacher's parallel.go fixed-worker-count racing pattern (ParallelSolve dispatching N FDStore copies), adapted
// from FD variable assignment to tiling-board search.
type ParallelDriver struct {
	rows, cols int
	tiles      []puzzle.Tile
	baseCfg    Config
	numWorkers int
	reporter   StepReporter
}

// NewParallelDriver builds a driver that will run numWorkers engines,
// each a variation of baseCfg (RandomSeed and OrderMode are
// diversified per worker; other fields are shared).
func NewParallelDriver(rows, cols int, tiles []puzzle.Tile, baseCfg Config, numWorkers int, reporter StepReporter) *ParallelDriver {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if reporter == nil {
		reporter = NilReporter{}
	}
	return &ParallelDriver{rows: rows, cols: cols, tiles: tiles, baseCfg: baseCfg, numWorkers: numWorkers, reporter: reporter}
}

// diversify returns worker i's configuration: a distinct seed always,
// and a rotating OrderMode so not every worker runs identical LCV.
func (d *ParallelDriver) diversify(i int) Config {
	cfg := d.baseCfg
	cfg.RandomSeed = d.baseCfg.RandomSeed + int64(i)*2654435761
	modes := [...]OrderMode{OrderLCV, OrderAscending, OrderDescending}
	cfg.OrderMode = modes[i%len(modes)]
	return cfg
}

// Run launches all workers and returns once the first solution is
// found, every worker exhausts its search, or ctx is cancelled. The
// shared state is exposed so a caller can poll BestBoard for
// checkpointing while workers are still running.
func (d *ParallelDriver) Run(ctx context.Context, shared *SharedSearchState) ([]WorkerResult, *puzzle.Board, error) {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := workerpool.New(d.numWorkers)
	tasks := make([]workerpool.Task, d.numWorkers)
	for i := 0; i < d.numWorkers; i++ {
		id := i
		tasks[id] = func(taskCtx context.Context, workerID int) any {
			cfg := d.diversify(workerID)
			engine := NewSearchEngine(d.rows, d.cols, d.tiles, cfg, nil)
			engine.reporter = &sharedStateReporter{inner: d.reporter, shared: shared, board: engine.Board(), minDepth: cfg.MinDepthForReport}

			board, err := engine.Solve(taskCtx)
			if err == nil {
				if shared.MarkSolved(board) {
					cancel()
				}
			}
			return WorkerResult{WorkerID: workerID, Board: board, Err: err, Stats: engine.Stats().Snapshot()}
		}
	}
	raw := pool.Run(workerCtx, tasks)

	results := make([]WorkerResult, len(raw))
	for i, r := range raw {
		if r.Panic != nil {
			results[i] = WorkerResult{WorkerID: r.WorkerID, Err: &InvariantViolation{Where: "ParallelDriver.Run", Detail: "worker panicked"}}
			continue
		}
		results[i] = r.Value.(WorkerResult)
	}

	if sol := shared.Solution(); sol != nil {
		return results, sol, nil
	}
	if ctx.Err() != nil {
		return results, nil, ctx.Err()
	}
	return results, nil, ErrNoSolution
}
