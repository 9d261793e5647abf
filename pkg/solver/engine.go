package solver

import (
	"context"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

// cascadeStep is one forward step of the search: a placement (chosen or
// forced by singleton detection) together with the propagation undo it
// produced, so a whole cascade can be rolled back in one motion.
type cascadeStep struct {
	entry    puzzle.TrailEntry
	propUndo *PropagationUndo
}

// frame is one level of the engine's explicit search stack: the cell
// being branched on, its ordered candidate list, how far through it the
// engine has gotten, and (once non-nil) the cascade the currently-tried
// candidate produced. Modeled on the teacher's DFSSearch stack frame
// (search.go: snap/varID/valIdx/choices), generalized from a single FD
// assignment to a placement-plus-singleton-cascade.
type frame struct {
	row, col   int
	candidates []puzzle.TileRotation
	idx        int
	cascade    []cascadeStep
}

// SearchEngine runs the backtracking search described in the data
// model: MRV cell selection, LCV candidate ordering, AC-3 propagation,
// and singleton forcing, over one board. Each candidate is also checked
// against a SymmetryBreaker, which does not restrict the engine's anchor
// placements (see SymmetryBreaker). An engine instance is single-threaded; ParallelDriver owns one
// per worker.
type SearchEngine struct {
	board *puzzle.Board
	dm    *puzzle.DomainManager
	cc    *puzzle.CellConstraints
	tiles []puzzle.Tile

	trail      *puzzle.Trail
	fits       *FitsChecker
	propagator *ConstraintPropagator
	singleton  *SingletonDetector
	selector   CellSelector
	orderer    *CandidateOrderer
	symmetry   *SymmetryBreaker

	stats    *Statistics
	reporter StepReporter
	cfg      Config

	tileIndexByID map[int]int
	lastCursor    []int
}

// NewSearchEngine builds a ready-to-run engine for an R*C board over
// the given tile pool.
func NewSearchEngine(rows, cols int, tiles []puzzle.Tile, cfg Config, reporter StepReporter) *SearchEngine {
	if reporter == nil {
		reporter = NilReporter{}
	}
	cc := puzzle.NewCellConstraints(rows, cols)
	dm := puzzle.NewDomainManager(rows, cols, len(tiles))
	dm.Initialize(tiles, cc)
	board := puzzle.NewBoard(rows, cols, len(tiles))
	stats := NewStatistics()

	byID := make(map[int]int, len(tiles))
	for idx, t := range tiles {
		byID[t.ID] = idx
	}

	return &SearchEngine{
		board:      board,
		dm:         dm,
		cc:         cc,
		tiles:      tiles,
		trail:      puzzle.NewTrail(rows * cols),
		fits:       NewFitsChecker(cc, stats),
		propagator: NewConstraintPropagator(cc, tiles, stats),
		singleton:  NewSingletonDetector(cc, tiles),
		selector:   MRVSelector{},
		orderer:    NewCandidateOrderer(cfg.OrderMode, cfg.RandomSeed),
		symmetry:   NewSymmetryBreaker(),
		stats:         stats,
		reporter:      reporter,
		cfg:           cfg,
		tileIndexByID: byID,
	}
}

// Board returns the engine's live board. Callers must not retain it
// across further Solve calls; take Board().Snapshot() for that.
func (e *SearchEngine) Board() *puzzle.Board { return e.board }

// Stats returns the engine's live statistics collector.
func (e *SearchEngine) Stats() *Statistics { return e.stats }

// Trail returns the engine's live commit trail, for checkpoint encoding.
func (e *SearchEngine) Trail() *puzzle.Trail { return e.trail }

// DepthCursor returns, for each frame on the search stack as of the
// last cancellation, the index of the candidate committed there. It is
// diagnostic metadata for the checkpoint's depth-cursor section; the
// core's own resume path (ReplayCheckpoint) does not depend on it,
// since replayed placements are forced rather than re-selected.
func (e *SearchEngine) DepthCursor() []int { return e.lastCursor }

// Solve runs the backtracking search to completion, to ctx
// cancellation/deadline, or to exhaustion. On success it returns the
// solved board. On exhaustion it returns ErrNoSolution. On
// cancellation it returns ctx.Err(); the board and trail remain at a
// stable boundary suitable for a checkpoint.
func (e *SearchEngine) Solve(ctx context.Context) (*puzzle.Board, error) {
	if !e.cfg.DisableSingletons {
		var initial []cascadeStep
		ok := e.singleton.Run(e.board, e.dm, func(r, c, tileIdx, rotation int) bool {
			step, ok := e.commitOne(r, c, tileIdx, rotation, true)
			if !ok {
				return false
			}
			initial = append(initial, step)
			return true
		})
		if !ok {
			e.undoCascade(initial)
			e.stats.FinishSearch()
			return nil, ErrNoSolution
		}
	}

	if e.board.IsComplete() {
		e.stats.RecordSolution()
		e.stats.FinishSearch()
		e.reporter.Solved(e.stats.Snapshot())
		return e.board, nil
	}

	r, c, ok := e.selector.SelectCell(e.board, e.dm, e.cc, e.symmetry)
	if !ok {
		return nil, &InvariantViolation{Where: "Solve", Detail: "no cell selected but board incomplete"}
	}
	stack := []*frame{e.newFrame(r, c)}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.cascade != nil {
			// Returning here means the child frame exhausted its
			// candidates; undo this level's placement and try the
			// next one.
			e.undoCascade(top.cascade)
			top.cascade = nil
			continue
		}

		if err := ctx.Err(); err != nil {
			e.lastCursor = make([]int, len(stack))
			for i, f := range stack {
				e.lastCursor[i] = f.idx - 1
			}
			e.stats.FinishSearch()
			return nil, err
		}

		if top.idx >= len(top.candidates) {
			stack = stack[:len(stack)-1]
			continue
		}
		cand := top.candidates[top.idx]
		top.idx++
		if !e.symmetry.Allows(top.row, top.col, cand.Rotation) {
			continue
		}

		e.stats.RecordNode()
		cascade, ok := e.commitAndCascade(top.row, top.col, cand.TileIdx, cand.Rotation)
		if !ok {
			e.stats.RecordBacktrack()
			continue
		}
		top.cascade = cascade

		if e.board.IsComplete() {
			e.stats.RecordSolution()
			e.stats.FinishSearch()
			e.reporter.Solved(e.stats.Snapshot())
			return e.board, nil
		}

		nr, nc, ok := e.selector.SelectCell(e.board, e.dm, e.cc, e.symmetry)
		if !ok {
			return nil, &InvariantViolation{Where: "Solve", Detail: "no cell selected but board incomplete"}
		}
		stack = append(stack, e.newFrame(nr, nc))
	}

	e.stats.FinishSearch()
	return nil, ErrNoSolution
}

func (e *SearchEngine) newFrame(r, c int) *frame {
	cands := e.dm.Candidates(r, c)
	cands = e.orderer.Order(e.board, e.dm, e.cc, r, c, e.tiles, cands)
	depth := e.trail.Len()
	e.stats.RecordCellCandidates(depth, len(cands))
	return &frame{row: r, col: c, candidates: cands}
}

// commitOne places one (tileIdx, rotation) at (r,c), checking fit
// (unless forced by singleton detection, which is already arc-
// consistent by construction) and propagating. On failure it leaves no
// trace: any partial placement or propagation is undone before
// returning.
func (e *SearchEngine) commitOne(r, c, tileIdx, rotation int, forced bool) (cascadeStep, bool) {
	tile := e.tiles[tileIdx]
	edges := tile.At(rotation)
	if !forced && !e.fits.Fits(e.board, r, c, edges) {
		return cascadeStep{}, false
	}
	if err := e.board.Place(r, c, puzzle.Placement{TileID: tile.ID, Rotation: rotation, Edges: edges}); err != nil {
		return cascadeStep{}, false
	}
	entry := puzzle.TrailEntry{Row: r, Col: c, TileID: tile.ID, Rotation: rotation, Singleton: forced}
	e.trail.Push(entry)
	e.symmetry.ObserveFirstPlacement(r, c)
	e.stats.RecordDepth(e.trail.Len())
	e.stats.RecordTrailSize(e.trail.Len())
	e.stats.RecordCandidateTried(e.trail.Len() - 1)

	propUndo, ok := e.propagator.Propagate(e.board, e.dm, []puzzle.Coord{{Row: r, Col: c}})
	if !ok {
		e.propagator.Undo(e.dm, propUndo)
		e.trail.Pop()
		e.symmetry.ObserveUndo(r, c)
		_ = e.board.Remove(r, c)
		return cascadeStep{}, false
	}
	e.reporter.Placed(entry, e.trail.Len(), forced)
	return cascadeStep{entry: entry, propUndo: propUndo}, true
}

// commitAndCascade commits a chosen candidate, then runs the singleton
// detector to a fixed point, folding every forced placement it makes
// into the same cascade. The whole cascade undoes as one unit.
func (e *SearchEngine) commitAndCascade(r, c, tileIdx, rotation int) ([]cascadeStep, bool) {
	step, ok := e.commitOne(r, c, tileIdx, rotation, false)
	if !ok {
		return nil, false
	}
	cascade := []cascadeStep{step}
	if e.cfg.DisableSingletons {
		return cascade, true
	}
	ok = e.singleton.Run(e.board, e.dm, func(sr, sc, sTileIdx, sRot int) bool {
		st, ok := e.commitOne(sr, sc, sTileIdx, sRot, true)
		if !ok {
			return false
		}
		cascade = append(cascade, st)
		return true
	})
	if !ok {
		e.undoCascade(cascade)
		return nil, false
	}
	return cascade, true
}

// undoCascade reverses a cascade's placements and propagations in
// reverse order, restoring the board and domains to the state before
// the cascade began.
func (e *SearchEngine) undoCascade(cascade []cascadeStep) {
	for i := len(cascade) - 1; i >= 0; i-- {
		step := cascade[i]
		e.propagator.Undo(e.dm, step.propUndo)
		popped := e.trail.Pop()
		e.symmetry.ObserveUndo(popped.Row, popped.Col)
		_ = e.board.Remove(popped.Row, popped.Col)
		e.reporter.BacktrackedFrom(popped, e.trail.Len())
		e.stats.RecordBacktrack()
	}
}
