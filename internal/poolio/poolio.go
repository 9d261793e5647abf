// Package poolio reads and writes the tile pool text format: one tile
// per line, whitespace-separated `id N E S W`, `#` comments, ids dense
// in 1..P. It is an external collaborator — the core (pkg/puzzle,
// pkg/solver) never touches a file handle; it only ever sees the
// []puzzle.Tile this package produces.
package poolio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gitrdm/edgetile/pkg/puzzle"
	"github.com/gitrdm/edgetile/pkg/solver"
)

var puzzleInvalidPool = solver.ErrInvalidPool

// Load reads a tile pool from path. rows and cols are the caller's
// intended board dimensions; Load checks P == rows*cols.
func Load(path string, rows, cols int) ([]puzzle.Tile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("poolio: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, rows, cols)
}

// LoadWithDims loads a pool from path whose dimensions are either
// embedded in a leading `# dims R C` comment or, absent that, inferred
// as a square board from the tile count (spec §6: "embedded in the file
// header or derived by the caller").
func LoadWithDims(path string) ([]puzzle.Tile, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("poolio: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadWithDims(f)
}

// ReadWithDims behaves like Read but first determines R and C: either
// from a `# dims R C` header comment, or by requiring the tile count to
// be a perfect square.
func ReadWithDims(r io.Reader) ([]puzzle.Tile, int, int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("poolio: read: %w", err)
	}

	rows, cols, headerFound := peekDims(strings.NewReader(string(raw)))
	if !headerFound {
		count, err := countTiles(strings.NewReader(string(raw)))
		if err != nil {
			return nil, 0, 0, err
		}
		side := int(math.Round(math.Sqrt(float64(count))))
		if side*side != count {
			return nil, 0, 0, fmt.Errorf("%w: %d tiles is not a perfect square and no `# dims R C` header was given", puzzleInvalidPool, count)
		}
		rows, cols = side, side
	}

	tiles, err := Read(strings.NewReader(string(raw)), rows, cols)
	if err != nil {
		return nil, 0, 0, err
	}
	return tiles, rows, cols, nil
}

func peekDims(r io.Reader) (rows, cols int, found bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, "#"))
		if len(fields) == 3 && fields[0] == "dims" {
			r, rerr := strconv.Atoi(fields[1])
			c, cerr := strconv.Atoi(fields[2])
			if rerr == nil && cerr == nil {
				return r, c, true
			}
		}
		if !strings.HasPrefix(line, "#") {
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func countTiles(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("poolio: read: %w", err)
	}
	return n, nil
}

// Read parses a tile pool from r. Grounded on the teacher's plain
// bufio.Scanner line-parsing style (no third-party parser needed for a
// whitespace-delimited line format; see DESIGN.md for why this stays on
// bufio rather than a pack parsing library).
func Read(r io.Reader, rows, cols int) ([]puzzle.Tile, error) {
	scanner := bufio.NewScanner(r)
	seen := make(map[int]bool)
	var tiles []puzzle.Tile

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("%w: line %d: expected 5 fields, got %d", puzzleInvalidPool, lineNo, len(fields))
		}
		nums := make([]int, 5)
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: field %d %q is not an integer", puzzleInvalidPool, lineNo, i, f)
			}
			nums[i] = n
		}
		id := nums[0]
		if seen[id] {
			return nil, fmt.Errorf("%w: line %d: duplicate tile id %d", puzzleInvalidPool, lineNo, id)
		}
		seen[id] = true
		edges := puzzle.Edges{nums[1], nums[2], nums[3], nums[4]}
		tiles = append(tiles, puzzle.NewTile(id, edges))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("poolio: read: %w", err)
	}

	if len(tiles) != rows*cols {
		return nil, fmt.Errorf("%w: pool has %d tiles, board is %dx%d (%d cells)", puzzleInvalidPool, len(tiles), rows, cols, rows*cols)
	}
	for id := 1; id <= len(tiles); id++ {
		if !seen[id] {
			return nil, fmt.Errorf("%w: missing tile id %d (ids must be dense in 1..%d)", puzzleInvalidPool, id, len(tiles))
		}
	}
	return tiles, nil
}

// Write serializes tiles back to the pool text format, one line per
// tile in ascending id order.
func Write(w io.Writer, tiles []puzzle.Tile) error {
	sorted := append([]puzzle.Tile(nil), tiles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	bw := bufio.NewWriter(w)
	for _, t := range sorted {
		e := t.Edges()
		if _, err := fmt.Fprintf(bw, "%d %d %d %d %d\n", t.ID, e[puzzle.North], e[puzzle.East], e[puzzle.South], e[puzzle.West]); err != nil {
			return fmt.Errorf("poolio: write: %w", err)
		}
	}
	return bw.Flush()
}

// Save writes tiles to path, creating or truncating it.
func Save(path string, tiles []puzzle.Tile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("poolio: create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, tiles)
}
