// Command edgetile solves edge-matching tiling puzzles from a tile pool
// file, optionally checkpointing progress and running a diversified
// parallel search. This is the external collaborator that wires
// pkg/solver's core to a terminal: argument parsing, file I/O, signal
// handling, and rendering all live here, never inside pkg/puzzle or
// pkg/solver.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gitrdm/edgetile/internal/checkpointio"
	"github.com/gitrdm/edgetile/internal/metricsstore"
	"github.com/gitrdm/edgetile/internal/poolio"
	"github.com/gitrdm/edgetile/internal/render"
	"github.com/gitrdm/edgetile/pkg/puzzle"
	"github.com/gitrdm/edgetile/pkg/solver"
)

// version is the CLI's reported version; overridden at build time with
// -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	verbose      bool
	quiet        bool
	parallel     bool
	both         bool
	threads      int
	timeoutSecs  int
	noSingletons bool
	minDepth     int
	puzzleID     string
}

func main() {
	opts := &options{}
	root := newRootCmd(opts)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("edgetile: %v", err))
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edgetile <puzzle>",
		Short: "Solve edge-matching tiling puzzles",
		Long: `edgetile solves edge-matching tiling puzzles (in the spirit of
Eternity II): an R*C grid filled with a pool of unique square tiles so
that every adjacent pair of edges matches and every border edge is 0.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.puzzleID = args[0]
			}
			return run(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("edgetile {{.Version}}\n")

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable step logging")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	cmd.Flags().BoolVarP(&opts.parallel, "parallel", "p", false, "use the diversified parallel driver")
	cmd.Flags().BoolVar(&opts.both, "both", false, "run sequential then parallel and compare timings")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", defaultThreads(), "worker count for --parallel")
	cmd.Flags().IntVar(&opts.timeoutSecs, "timeout", 0, "wall-clock timeout in seconds (0 disables)")
	cmd.Flags().BoolVar(&opts.noSingletons, "no-singletons", false, "disable singleton detection")
	cmd.Flags().IntVar(&opts.minDepth, "min-depth", 0, "minimum depth to report new depth records")
	cmd.Flags().StringVar(&opts.puzzleID, "puzzle", "", "puzzle identifier (alternative to the positional argument)")

	return cmd
}

// defaultThreads implements spec §6's default: max(4, floor(0.75*cores)).
func defaultThreads() int {
	scaled := int(float64(runtime.NumCPU()) * 0.75)
	if scaled < 4 {
		return 4
	}
	return scaled
}

func run(cmd *cobra.Command, opts *options) error {
	if opts.verbose && opts.quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	if opts.puzzleID == "" {
		return fmt.Errorf("a puzzle identifier is required (positional argument or --puzzle)")
	}

	poolDir := envOr("POOL_DIR", "./data")
	savesDir := envOr("SAVES_DIR", "./saves")
	poolPath := filepath.Join(poolDir, opts.puzzleID+".txt")

	tiles, rows, cols, err := poolio.LoadWithDims(poolPath)
	if err != nil {
		return err
	}

	reporter := newReporter(opts)
	cfg := solver.DefaultConfig()
	cfg.DisableSingletons = opts.noSingletons
	cfg.MinDepthForReport = opts.minDepth

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if opts.timeoutSecs > 0 {
		cfg.Deadline = time.Now().Add(time.Duration(opts.timeoutSecs) * time.Second)
		var deadlineCancel context.CancelFunc
		ctx, deadlineCancel = context.WithDeadline(ctx, cfg.Deadline)
		defer deadlineCancel()
	}
	installSignalHandler(cancel)

	sp := newSpinner(opts)
	sp.Start()
	defer sp.Stop()

	store, storeErr := metricsstore.Open(filepath.Join(savesDir, "metrics"))
	if storeErr == nil {
		defer store.Close()
	}

	var board *puzzle.Board
	var solveErr error
	var elapsed time.Duration

	switch {
	case opts.both:
		board, solveErr, elapsed = runBoth(ctx, rows, cols, tiles, cfg, opts, reporter)
	case opts.parallel:
		board, solveErr, elapsed = runParallel(ctx, rows, cols, tiles, cfg, opts, reporter)
	default:
		board, solveErr, elapsed = runSequential(ctx, rows, cols, tiles, cfg, reporter)
	}
	sp.Stop()

	outcome, exitCode := classify(solveErr)
	if storeErr == nil {
		_ = store.Append(metricsstore.RunRecord{
			PuzzleID:  opts.puzzleID,
			Timestamp: time.Now(),
			Rows:      rows,
			Cols:      cols,
			Parallel:  opts.parallel || opts.both,
			Workers:   opts.threads,
			Outcome:   outcome,
		})
	}

	if err := writeCheckpointIfNeeded(savesDir, opts.puzzleID, board, cfg, rows, cols, len(tiles), elapsed, outcome); err != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("edgetile: checkpoint: %v", err))
	}

	if !opts.quiet && board != nil {
		render.Board(os.Stdout, board)
	}
	if !opts.quiet {
		render.Summary(os.Stdout, solveErr == nil, elapsed.Seconds())
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// runSequential always returns the engine's live board, complete or
// partial, so a timeout or cancellation still yields something to
// checkpoint: Solve itself only returns a board on success.
func runSequential(ctx context.Context, rows, cols int, tiles []puzzle.Tile, cfg solver.Config, reporter solver.StepReporter) (*puzzle.Board, error, time.Duration) {
	engine := solver.NewSearchEngine(rows, cols, tiles, cfg, reporter)
	start := time.Now()
	_, err := engine.Solve(ctx)
	return engine.Board(), err, time.Since(start)
}

// runParallel returns the shared state's best-known board when no
// worker solved the puzzle, so the CLI can still checkpoint the
// deepest partial configuration reached by any worker.
func runParallel(ctx context.Context, rows, cols int, tiles []puzzle.Tile, cfg solver.Config, opts *options, reporter solver.StepReporter) (*puzzle.Board, error, time.Duration) {
	shared := solver.NewSharedSearchState()
	driver := solver.NewParallelDriver(rows, cols, tiles, cfg, opts.threads, reporter)
	start := time.Now()
	_, board, err := driver.Run(ctx, shared)
	if board == nil {
		board = shared.BestBoard()
	}
	return board, err, time.Since(start)
}

// runBoth runs sequential then parallel over the same pool, reporting
// both timings; useful for confirming parallel search does not regress
// correctness relative to the sequential baseline.
func runBoth(ctx context.Context, rows, cols int, tiles []puzzle.Tile, cfg solver.Config, opts *options, reporter solver.StepReporter) (*puzzle.Board, error, time.Duration) {
	seqBoard, seqErr, seqElapsed := runSequential(ctx, rows, cols, tiles, cfg, reporter)
	if !opts.quiet {
		fmt.Fprintf(os.Stderr, "sequential: %v (%v)\n", outcomeLabel(seqErr), seqElapsed)
	}
	parBoard, parErr, parElapsed := runParallel(ctx, rows, cols, tiles, cfg, opts, reporter)
	if !opts.quiet {
		fmt.Fprintf(os.Stderr, "parallel:   %v (%v)\n", outcomeLabel(parErr), parElapsed)
	}
	if parErr == nil {
		return parBoard, parErr, parElapsed
	}
	return seqBoard, seqErr, seqElapsed
}

func outcomeLabel(err error) string {
	if err == nil {
		return "solved"
	}
	return err.Error()
}

func newReporter(opts *options) solver.StepReporter {
	if opts.quiet || !opts.verbose {
		return solver.NilReporter{}
	}
	return solver.NewVerboseReporter()
}

func newSpinner(opts *options) *uiSpinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " solving"
	_ = s.Color("cyan", "bold")
	return &uiSpinner{s: s, silent: opts.verbose || opts.quiet}
}

// uiSpinner suppresses the spinner under --verbose (whose step lines
// would tear against it) and under --quiet (which wants no output at
// all), matching eng618-parable-bloom's ui.Spinner gating on verbose.
type uiSpinner struct {
	s      *spinner.Spinner
	silent bool
}

func (u *uiSpinner) Start() {
	if !u.silent {
		u.s.Start()
	}
}

func (u *uiSpinner) Stop() {
	u.s.Stop()
}

func installSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
}

// classify maps a Solve/ParallelDriver.Run error to spec §6's exit
// codes and a short outcome label for metrics.
func classify(err error) (outcome string, exitCode int) {
	switch {
	case err == nil:
		return "solved", 0
	case solverIs(err, solver.ErrTimedOut):
		return "timed_out", 2
	case solverIs(err, solver.ErrCancelled):
		return "cancelled", 130
	case solverIs(err, solver.ErrNoSolution):
		return "no_solution", 1
	case solverIs(err, context.Canceled):
		return "cancelled", 130
	case solverIs(err, context.DeadlineExceeded):
		return "timed_out", 2
	default:
		return "error", 1
	}
}

func solverIs(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// writeCheckpointIfNeeded saves board as the current checkpoint unless
// the run was solved. It records the filled cells in row-major order,
// not in the order they were placed, marks none of them as forced, and
// writes no depth cursor.
func writeCheckpointIfNeeded(savesDir, puzzleID string, board *puzzle.Board, cfg solver.Config, rows, cols, numTiles int, elapsed time.Duration, outcome string) error {
	if board == nil || outcome == "solved" {
		return nil
	}
	placements := make([]puzzle.TrailEntry, 0, board.FilledCount())
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if p, ok := board.At(r, c); ok {
				placements = append(placements, puzzle.TrailEntry{Row: r, Col: c, TileID: p.TileID, Rotation: p.Rotation})
			}
		}
	}
	rec := solver.CheckpointRecord{
		Rows:              rows,
		Cols:              cols,
		NumTiles:          numTiles,
		OrderMode:         cfg.OrderMode,
		RandomSeed:        cfg.RandomSeed,
		DisableSingletons: cfg.DisableSingletons,
		Placements:        placements,
		ElapsedMillis:     elapsed.Milliseconds(),
	}
	return checkpointio.Rotate(savesDir, puzzleID, rec, false, time.Now())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
