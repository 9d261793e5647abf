package solver

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gitrdm/edgetile/pkg/puzzle"
)

// StepReporter is the narrow callback interface the SearchEngine drives
// as it commits and undoes placements. It carries no file or network
// knowledge of its own — an external collaborator (CLI, dashboard) wires
// an implementation in. Grounded on the teacher's fd_monitor.go pattern
// of a small interface the solver calls into rather than printing
// directly.
type StepReporter interface {
	// Placed is called once a placement has been committed and
	// propagated to a stability boundary.
	Placed(entry puzzle.TrailEntry, depth int, forced bool)
	// BacktrackedFrom is called when the engine undoes entry to resume
	// search at a shallower depth.
	BacktrackedFrom(entry puzzle.TrailEntry, depth int)
	// Solved is called exactly once, when the board is complete.
	Solved(stats Stats)
	// Progress receives a statistics snapshot for a progress report.
	// SearchEngine, ParallelDriver and the CLI never call it.
	Progress(stats Stats)
}

// NilReporter implements StepReporter with no-ops. The zero value is
// ready to use.
type NilReporter struct{}

func (NilReporter) Placed(puzzle.TrailEntry, int, bool) {}
func (NilReporter) BacktrackedFrom(puzzle.TrailEntry, int) {}
func (NilReporter) Solved(Stats) {}
func (NilReporter) Progress(Stats) {}

// VerboseReporter prints one colorized line per placement and backtrack,
// for the CLI's --verbose flag. Grounded on eng618-parable-bloom's use
// of fatih/color to distinguish status lines in terminal output.
type VerboseReporter struct {
	placed    *color.Color
	backtrack *color.Color
	solved    *color.Color
}

// NewVerboseReporter builds a VerboseReporter with the teacher's palette:
// green for forward progress, yellow for backtracking, a bold green for
// the final solution line.
func NewVerboseReporter() *VerboseReporter {
	return &VerboseReporter{
		placed:    color.New(color.FgGreen),
		backtrack: color.New(color.FgYellow),
		solved:    color.New(color.FgGreen, color.Bold),
	}
}

func (r *VerboseReporter) Placed(e puzzle.TrailEntry, depth int, forced bool) {
	tag := ""
	if forced {
		tag = " (singleton)"
	}
	r.placed.Printf("depth %d: place tile %d rot %d at (%d,%d)%s\n", depth, e.TileID, e.Rotation, e.Row, e.Col, tag)
}

func (r *VerboseReporter) BacktrackedFrom(e puzzle.TrailEntry, depth int) {
	r.backtrack.Printf("depth %d: backtrack, undo tile %d at (%d,%d)\n", depth, e.TileID, e.Row, e.Col)
}

func (r *VerboseReporter) Solved(stats Stats) {
	r.solved.Printf("solved: %s\n", stats)
}

func (r *VerboseReporter) Progress(stats Stats) {
	fmt.Printf("progress %.1f%% nodes=%d depth=%d tiles/s=%.0f\n", stats.ProgressPercent(), stats.NodesExplored, stats.MaxDepth, stats.TilesPerSecond())
}
