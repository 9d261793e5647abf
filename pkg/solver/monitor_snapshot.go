package solver

import (
	"time"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

// RunStatus enumerates the states a monitoring client can observe a run
// in, per the monitoring feed.
type RunStatus string

const (
	StatusRunning    RunStatus = "running"
	StatusSolved     RunStatus = "solved"
	StatusNoSolution RunStatus = "no_solution"
	StatusTimedOut   RunStatus = "timed_out"
	StatusCancelled  RunStatus = "cancelled"
)

// MonitoringSnapshot is the plain data the CLI/dashboard external
// collaborators poll or push over the monitoring feed: a config
// identifier, current progress, and enough of the board to render it.
// The core never serializes this itself; internal/monitorserve owns
// turning it into JSON.
type MonitoringSnapshot struct {
	ConfigID string
	Status   RunStatus

	Depth          int
	TotalCells     int
	ProgressPct    float64
	Elapsed        time.Duration
	TilesPerSecond float64

	Stats Stats

	// Grid is a row-major snapshot of tile ids currently placed, 0 for
	// an empty cell, sized Rows*Cols.
	Grid []int
	Rows, Cols int
}

// BuildMonitoringSnapshot assembles a snapshot from a live board and
// statistics collector.
func BuildMonitoringSnapshot(configID string, status RunStatus, board *puzzle.Board, stats Stats, elapsed time.Duration) MonitoringSnapshot {
	grid := make([]int, board.Cells())
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if p, ok := board.At(r, c); ok {
				grid[r*board.Cols()+c] = p.TileID
			}
		}
	}
	return MonitoringSnapshot{
		ConfigID:       configID,
		Status:         status,
		Depth:          board.FilledCount(),
		TotalCells:     board.Cells(),
		ProgressPct:    stats.ProgressPercent(),
		Elapsed:        elapsed,
		TilesPerSecond: stats.TilesPerSecond(),
		Stats:          stats,
		Grid:           grid,
		Rows:           board.Rows(),
		Cols:           board.Cols(),
	}
}
