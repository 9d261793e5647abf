// Package solver implements the constraint-satisfaction search engine:
// a backtracking solver over pkg/puzzle boards with MRV/LCV heuristics,
// AC-3 style propagation, singleton detection, symmetry breaking, and a
// diversified parallel driver with checkpoint/resume.
package solver

import "errors"

// Sentinel errors for the error kinds the core surfaces (spec §7).
// There is no DeadEnd sentinel: a dead end stays inside the engine (a
// commit or propagation that reports failure) and is recovered by
// backtracking, never returned to a caller.
var (
	// ErrInvalidPool reports a structurally broken tile pool: duplicate
	// or missing ids, wrong edge count, or P != R*C. Fatal at load.
	ErrInvalidPool = errors.New("solver: invalid tile pool")

	// ErrInvalidCheckpoint reports a checkpoint that failed to parse or
	// that describes a board violating an invariant. Fatal; the caller
	// may retry without resume.
	ErrInvalidCheckpoint = errors.New("solver: invalid checkpoint")

	// ErrTimedOut names a wall-clock timeout. SearchEngine.Solve and
	// ParallelDriver.Run report a deadline as the context's error
	// (context.DeadlineExceeded), not as this sentinel; the CLI maps
	// either one to exit code 2.
	ErrTimedOut = errors.New("solver: timed out")

	// ErrCancelled names external cancellation. SearchEngine.Solve and
	// ParallelDriver.Run report it as the context's error
	// (context.Canceled), not as this sentinel; the CLI maps either one
	// to exit code 130.
	ErrCancelled = errors.New("solver: cancelled")

	// ErrNoSolution is returned when the search tree is exhausted.
	ErrNoSolution = errors.New("solver: no solution")

	// ErrIOWrite reports a checkpoint write failure after the single
	// retry with an alternate filename has also failed. Logged and
	// non-fatal to the search itself.
	ErrIOWrite = errors.New("solver: checkpoint write failed")
)

// InvariantViolation reports a bug-indicating state discovered at
// runtime — propagation produced an illegal domain, a trail failed to
// invert, or similar. The engine never recovers from this itself; it
// aborts the current run and returns the error with diagnostic context.
type InvariantViolation struct {
	Where string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "solver: invariant violated at " + e.Where + ": " + e.Detail
}
