package solver

import (
	"sync"
	"sync/atomic"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

// SharedSearchState is the only state a ParallelDriver's workers share.
// Each worker otherwise owns a private SearchEngine (board, domains,
// trail); this struct carries just enough cross-worker signal to let
// them cooperate without a central queue: a solved flag so the rest can
// stop, a best-depth-so-far for progress reporting, and a lock-guarded
// snapshot of the deepest board reached by anyone, for checkpointing.
// Grounded on the teacher's atomic-counter SolverMonitor pattern
// (fd_monitor.go) extended with a mutex around the one field that is
// not safely representable as an atomic: the board snapshot itself.
type SharedSearchState struct {
	solved   atomic.Bool
	cancelled atomic.Bool
	bestDepth atomic.Int64

	mu        sync.Mutex
	bestBoard *puzzle.Board
	solution  *puzzle.Board
}

// NewSharedSearchState returns a zero-value shared state ready for use.
func NewSharedSearchState() *SharedSearchState {
	return &SharedSearchState{}
}

// MarkSolved records that a worker found a solution and publishes it.
// Returns false if another worker had already solved first.
func (s *SharedSearchState) MarkSolved(board *puzzle.Board) bool {
	if !s.solved.CompareAndSwap(false, true) {
		return false
	}
	s.mu.Lock()
	s.solution = board.Snapshot()
	s.mu.Unlock()
	return true
}

// Solved reports whether any worker has found a solution.
func (s *SharedSearchState) Solved() bool { return s.solved.Load() }

// Solution returns the published solution board, or nil if none yet.
func (s *SharedSearchState) Solution() *puzzle.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solution
}

// Cancel sets the cancellation flag that Cancelled reports. SearchEngine
// does not read this flag; ParallelDriver's workers stop through their
// context instead.
func (s *SharedSearchState) Cancel() { s.cancelled.Store(true) }

// Cancelled reports whether cancellation has been requested.
func (s *SharedSearchState) Cancelled() bool { return s.cancelled.Load() }

// ReportDepth publishes a worker's current depth if it is a new best,
// and, when it is, snapshots the worker's board as the best-so-far for
// checkpointing. depth ties are left to whichever worker reports first.
func (s *SharedSearchState) ReportDepth(depth int, board *puzzle.Board) {
	for {
		old := s.bestDepth.Load()
		if int64(depth) <= old {
			return
		}
		if s.bestDepth.CompareAndSwap(old, int64(depth)) {
			break
		}
	}
	s.mu.Lock()
	s.bestBoard = board.Snapshot()
	s.mu.Unlock()
}

// BestDepth returns the deepest depth any worker has reported.
func (s *SharedSearchState) BestDepth() int { return int(s.bestDepth.Load()) }

// BestBoard returns a snapshot of the deepest board reached so far, for
// checkpoint encoding, or nil if nothing has been reported yet.
func (s *SharedSearchState) BestBoard() *puzzle.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestBoard
}
