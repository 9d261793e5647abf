package solver

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats holds a point-in-time snapshot of a Statistics collector. Every
// field is a plain value, safe to copy and hand to a monitoring feed.
type Stats struct {
	NodesExplored    int64
	Backtracks       int64
	SolutionsFound   int64
	SearchTime       time.Duration
	MaxDepth         int64
	PropagationCount int64
	PropagationTime  time.Duration
	Removals         int64
	PeakTrailSize    int64
	FitChecks        int64
	FirstCandidates  []int // candidate counts for the first few depths
	TriedCandidates  []int // how many of those have been tried so far
}

// Statistics is a lock-free counter collector modeled directly on the
// teacher's SolverMonitor (fd_monitor.go): every method is safe to call
// on a nil receiver, and the counters use atomic operations instead of a
// mutex. The depth-progress table and the search time are plain fields,
// written only by the engine that owns the collector; each ParallelDriver
// worker has its own Statistics.
type Statistics struct {
	nodesExplored    atomic.Int64
	backtracks       atomic.Int64
	solutionsFound   atomic.Int64
	maxDepth         atomic.Int64
	propagationCount atomic.Int64
	propagationNanos atomic.Int64
	removals         atomic.Int64
	peakTrailSize    atomic.Int64
	fitChecks        atomic.Int64
	propStart        atomic.Int64

	startTime  time.Time
	searchTime time.Duration

	// depthProgress tracks, for the first few levels, how many
	// candidates the active cell had and how many were tried — fuel for
	// the ProgressReporter's weighted percentage (spec §6).
	depthProgress []depthCount
}

type depthCount struct {
	total int
	tried int
}

// maxTrackedDepths bounds how many shallow levels get progress tracking;
// deeper levels contribute nothing distinguishable to the weighted
// percentage anyway.
const maxTrackedDepths = 8

// NewStatistics creates a fresh collector with its clock started.
func NewStatistics() *Statistics {
	return &Statistics{startTime: time.Now(), depthProgress: make([]depthCount, maxTrackedDepths)}
}

// RecordNode records exploring one search node.
func (s *Statistics) RecordNode() {
	if s == nil {
		return
	}
	s.nodesExplored.Add(1)
}

// RecordBacktrack records one backtrack.
func (s *Statistics) RecordBacktrack() {
	if s == nil {
		return
	}
	s.backtracks.Add(1)
}

// RecordSolution records finding a complete, valid board.
func (s *Statistics) RecordSolution() {
	if s == nil {
		return
	}
	s.solutionsFound.Add(1)
}

// RecordDepth records the current search depth, keeping the running max.
func (s *Statistics) RecordDepth(depth int) {
	if s == nil {
		return
	}
	casMax(&s.maxDepth, int64(depth))
}

// RecordTrailSize records the current trail length, keeping the peak.
func (s *Statistics) RecordTrailSize(size int) {
	if s == nil {
		return
	}
	casMax(&s.peakTrailSize, int64(size))
}

// RecordRemoval records the propagator removing one domain entry.
func (s *Statistics) RecordRemoval() {
	if s == nil {
		return
	}
	s.removals.Add(1)
}

// RecordFitCheck records one FitsChecker.Fits call.
func (s *Statistics) RecordFitCheck() {
	if s == nil {
		return
	}
	s.fitChecks.Add(1)
}

// StartPropagation marks the beginning of a propagation pass.
func (s *Statistics) StartPropagation() {
	if s == nil {
		return
	}
	s.propStart.Store(time.Now().UnixNano())
}

// EndPropagation marks the end of a propagation pass and accumulates
// elapsed time.
func (s *Statistics) EndPropagation() {
	if s == nil {
		return
	}
	start := s.propStart.Swap(0)
	if start != 0 {
		s.propagationNanos.Add(time.Now().UnixNano() - start)
		s.propagationCount.Add(1)
	}
}

// RecordCellCandidates records, for a tracked shallow depth, how many
// candidates the chosen cell had.
func (s *Statistics) RecordCellCandidates(depth, total int) {
	if s == nil || depth >= len(s.depthProgress) {
		return
	}
	s.depthProgress[depth] = depthCount{total: total, tried: 0}
}

// RecordCandidateTried increments the tried-count for a tracked depth.
func (s *Statistics) RecordCandidateTried(depth int) {
	if s == nil || depth >= len(s.depthProgress) {
		return
	}
	s.depthProgress[depth].tried++
}

// FinishSearch stops the wall clock. Call exactly once, from the thread
// that owns this Statistics instance.
func (s *Statistics) FinishSearch() {
	if s == nil {
		return
	}
	s.searchTime = time.Since(s.startTime)
}

// Snapshot returns a consistent point-in-time copy of the statistics.
func (s *Statistics) Snapshot() Stats {
	if s == nil {
		return Stats{}
	}
	totals := make([]int, 0, maxTrackedDepths)
	tried := make([]int, 0, maxTrackedDepths)
	for _, dp := range s.depthProgress {
		totals = append(totals, dp.total)
		tried = append(tried, dp.tried)
	}
	return Stats{
		NodesExplored:    s.nodesExplored.Load(),
		Backtracks:       s.backtracks.Load(),
		SolutionsFound:   s.solutionsFound.Load(),
		SearchTime:       s.searchTime,
		MaxDepth:         s.maxDepth.Load(),
		PropagationCount: s.propagationCount.Load(),
		PropagationTime:  time.Duration(s.propagationNanos.Load()),
		Removals:         s.removals.Load(),
		PeakTrailSize:    s.peakTrailSize.Load(),
		FitChecks:        s.fitChecks.Load(),
		FirstCandidates:  totals,
		TriedCandidates:  tried,
	}
}

// ProgressPercent estimates completion, weighting the first few depths
// by how many of their candidates have been exhausted — spec §6's
// "progress percentage (weighted by depth-candidate counts for the first
// few depths)".
func (s Stats) ProgressPercent() float64 {
	var weight, done float64
	for i, total := range s.FirstCandidates {
		if total <= 0 {
			continue
		}
		w := 1.0 / float64(i+1)
		weight += w
		done += w * float64(s.TriedCandidates[i]) / float64(total)
	}
	if weight == 0 {
		return 0
	}
	return 100 * done / weight
}

// TilesPerSecond divides nodes explored by elapsed search time.
func (s Stats) TilesPerSecond() float64 {
	secs := s.SearchTime.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.NodesExplored) / secs
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"nodes=%d backtracks=%d solutions=%d maxDepth=%d searchTime=%v propagations=%d propTime=%v removals=%d peakTrail=%d",
		s.NodesExplored, s.Backtracks, s.SolutionsFound, s.MaxDepth, s.SearchTime,
		s.PropagationCount, s.PropagationTime, s.Removals, s.PeakTrailSize,
	)
}

func casMax(addr *atomic.Int64, val int64) {
	for {
		old := addr.Load()
		if val <= old {
			return
		}
		if addr.CompareAndSwap(old, val) {
			return
		}
	}
}
