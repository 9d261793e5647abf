package solver

import (
	"fmt"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

// CheckpointRecord is the plain data a checkpoint file holds: enough to
// rebuild an engine's board and domains by replaying placements, plus
// the configuration that produced them. External collaborators
// (internal/checkpointio) own the text encoding; the core only produces
// and consumes this struct.
type CheckpointRecord struct {
	Rows, Cols int
	NumTiles   int

	OrderMode         OrderMode
	RandomSeed        int64
	DisableSingletons bool

	// Placements is the full commit trail in order, including cascade
	// entries forced by singleton detection. Replaying them in order
	// through an engine's normal propagation path reconstructs the
	// exact domain state the original run had at this depth, without
	// re-deciding which candidate to try at each step.
	Placements []puzzle.TrailEntry

	// DepthCursor records, for each stack frame active when the
	// checkpoint was taken, the index of the candidate committed
	// there — spec §6's "index of the last tile tried" section.
	// Diagnostic only: ReplayCheckpoint resumes by re-selecting
	// candidates fresh past the replayed placements.
	DepthCursor []int

	ElapsedMillis int64
}

// BuildCheckpointRecord captures a stability-boundary snapshot of a
// running engine: its trail and the configuration needed to resume it.
func BuildCheckpointRecord(engine *SearchEngine, cfg Config, rows, cols, numTiles int, elapsedMillis int64) CheckpointRecord {
	entries := engine.Trail().Entries()
	placements := make([]puzzle.TrailEntry, len(entries))
	copy(placements, entries)
	cursor := append([]int(nil), engine.DepthCursor()...)
	return CheckpointRecord{
		Rows:              rows,
		Cols:              cols,
		NumTiles:          numTiles,
		OrderMode:         cfg.OrderMode,
		RandomSeed:        cfg.RandomSeed,
		DisableSingletons: cfg.DisableSingletons,
		Placements:        placements,
		DepthCursor:       cursor,
		ElapsedMillis:     elapsedMillis,
	}
}

// ValidateCheckpointRecord checks structural well-formedness before an
// attempted replay: dimensions match the pool, tile ids are in range,
// and no tile id repeats across placements.
func ValidateCheckpointRecord(rec CheckpointRecord, numTiles int) error {
	if rec.Rows <= 0 || rec.Cols <= 0 {
		return fmt.Errorf("%w: non-positive board size %dx%d", ErrInvalidCheckpoint, rec.Rows, rec.Cols)
	}
	if rec.NumTiles != numTiles {
		return fmt.Errorf("%w: checkpoint pool size %d does not match loaded pool size %d", ErrInvalidCheckpoint, rec.NumTiles, numTiles)
	}
	if rec.Rows*rec.Cols != numTiles {
		return fmt.Errorf("%w: %dx%d board does not match a pool of %d tiles", ErrInvalidCheckpoint, rec.Rows, rec.Cols, numTiles)
	}
	if len(rec.Placements) > rec.Rows*rec.Cols {
		return fmt.Errorf("%w: %d placements exceed %dx%d board", ErrInvalidCheckpoint, len(rec.Placements), rec.Rows, rec.Cols)
	}
	seen := make(map[int]bool, len(rec.Placements))
	cellSeen := make(map[[2]int]bool, len(rec.Placements))
	for _, p := range rec.Placements {
		if p.TileID < 1 || p.TileID > numTiles {
			return fmt.Errorf("%w: tile id %d out of range 1..%d", ErrInvalidCheckpoint, p.TileID, numTiles)
		}
		if seen[p.TileID] {
			return fmt.Errorf("%w: tile %d placed more than once", ErrInvalidCheckpoint, p.TileID)
		}
		seen[p.TileID] = true
		key := [2]int{p.Row, p.Col}
		if cellSeen[key] {
			return fmt.Errorf("%w: cell (%d,%d) placed more than once", ErrInvalidCheckpoint, p.Row, p.Col)
		}
		cellSeen[key] = true
	}
	return nil
}

// ReplayCheckpoint rebuilds a SearchEngine by committing rec's
// placements one by one through the normal propagate-and-trail path,
// in order, without re-running MRV/LCV selection: the placements are
// already decided, only the resulting domain state needs reproducing.
// Fit-checking is skipped for the same reason fits already held in the
// run that produced the checkpoint.
func ReplayCheckpoint(tiles []puzzle.Tile, rec CheckpointRecord, cfg Config, reporter StepReporter) (*SearchEngine, error) {
	if err := ValidateCheckpointRecord(rec, len(tiles)); err != nil {
		return nil, err
	}
	engine := NewSearchEngine(rec.Rows, rec.Cols, tiles, cfg, reporter)
	for _, p := range rec.Placements {
		tileIdx, ok := engine.tileIndexByID[p.TileID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown tile id %d", ErrInvalidCheckpoint, p.TileID)
		}
		if _, ok := engine.commitOne(p.Row, p.Col, tileIdx, p.Rotation, true); !ok {
			return nil, fmt.Errorf("%w: placement of tile %d at (%d,%d) is inconsistent", ErrInvalidCheckpoint, p.TileID, p.Row, p.Col)
		}
	}
	if err := engine.board.Validate(engine.cc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCheckpoint, err)
	}
	return engine, nil
}
