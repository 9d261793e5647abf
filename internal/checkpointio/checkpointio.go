// Package checkpointio encodes and decodes solver.CheckpointRecord in
// the stable plain-text checkpoint format, and rotates checkpoint
// backups under conventional names. Like poolio, it is an external
// collaborator: the core never opens a file.
package checkpointio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gitrdm/edgetile/pkg/puzzle"
	"github.com/gitrdm/edgetile/pkg/solver"
)

const (
	headerSection      = "HEADER"
	placementsSection  = "PLACEMENTS"
	depthCursorSection = "DEPTH_CURSOR"
)

// Encode writes rec to w in the three-section text format: header,
// placement list, depth cursor. Each section is reproduced in a fixed
// field order so re-encoding a decoded record is byte-identical.
func Encode(w io.Writer, rec solver.CheckpointRecord, timestamp time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", headerSection)
	fmt.Fprintf(bw, "%d %d %d %d %d\n", rec.Rows, rec.Cols, rec.NumTiles, rec.ElapsedMillis, timestamp.Unix())

	fmt.Fprintf(bw, "%s\n", placementsSection)
	for _, p := range rec.Placements {
		fmt.Fprintf(bw, "%d %d %d %d\n", p.Row, p.Col, p.TileID, p.Rotation)
	}

	fmt.Fprintf(bw, "%s\n", depthCursorSection)
	for i, idx := range rec.DepthCursor {
		fmt.Fprintf(bw, "%d %d\n", i, idx)
	}

	return bw.Flush()
}

// Decode parses a checkpoint previously written by Encode. OrderMode,
// RandomSeed and DisableSingletons are not stored in the file, so they
// decode as zero values; the resuming run's own configuration supplies
// them. The returned time is the header's timestamp.
func Decode(r io.Reader) (solver.CheckpointRecord, time.Time, error) {
	scanner := bufio.NewScanner(r)
	var rec solver.CheckpointRecord
	var timestamp time.Time

	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case headerSection, placementsSection, depthCursorSection:
			section = line
			continue
		}
		fields := strings.Fields(line)
		switch section {
		case headerSection:
			nums, err := parseInts(fields, 5)
			if err != nil {
				return rec, timestamp, fmt.Errorf("%w: header: %v", solver.ErrInvalidCheckpoint, err)
			}
			rec.Rows, rec.Cols, rec.NumTiles, rec.ElapsedMillis = nums[0], nums[1], nums[2], int64(nums[3])
			timestamp = time.Unix(int64(nums[4]), 0).UTC()
		case placementsSection:
			nums, err := parseInts(fields, 4)
			if err != nil {
				return rec, timestamp, fmt.Errorf("%w: placement: %v", solver.ErrInvalidCheckpoint, err)
			}
			rec.Placements = append(rec.Placements, puzzle.TrailEntry{
				Row: nums[0], Col: nums[1], TileID: nums[2], Rotation: nums[3],
			})
		case depthCursorSection:
			nums, err := parseInts(fields, 2)
			if err != nil {
				return rec, timestamp, fmt.Errorf("%w: depth cursor: %v", solver.ErrInvalidCheckpoint, err)
			}
			for len(rec.DepthCursor) <= nums[0] {
				rec.DepthCursor = append(rec.DepthCursor, -1)
			}
			rec.DepthCursor[nums[0]] = nums[1]
		default:
			return rec, timestamp, fmt.Errorf("%w: data before any section header", solver.ErrInvalidCheckpoint)
		}
	}
	if err := scanner.Err(); err != nil {
		return rec, timestamp, fmt.Errorf("checkpointio: read: %w", err)
	}
	return rec, timestamp, nil
}

func parseInts(fields []string, n int) ([]int, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d fields, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("field %d %q is not an integer", i, f)
		}
		out[i] = v
	}
	return out, nil
}

// maxBackups is how many timestamped archives Rotate keeps per puzzle id,
// beyond the always-overwritten current_<id>.txt and best_<id>.txt.
const maxBackups = 5

// Rotate first archives the existing current_<id>.txt under dir (if any)
// under a timestamped name, then writes rec as the new current_<id>.txt
// (and, when isBest, also as best_<id>.txt), pruning all but the
// maxBackups most recent archives for this id.
func Rotate(dir, id string, rec solver.CheckpointRecord, isBest bool, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpointio: mkdir %s: %w", dir, err)
	}

	currentPath := filepath.Join(dir, fmt.Sprintf("current_%s.txt", id))
	if _, err := os.Stat(currentPath); err == nil {
		archive := filepath.Join(dir, fmt.Sprintf("current_%s_%s.txt", id, now.UTC().Format("20060102T150405")))
		if err := os.Rename(currentPath, archive); err != nil {
			return fmt.Errorf("%w: archive %s: %v", solver.ErrIOWrite, currentPath, err)
		}
	}

	if err := writeFile(currentPath, rec, now); err != nil {
		if retryErr := writeFile(currentPath+".retry", rec, now); retryErr != nil {
			return fmt.Errorf("%w: %v (retry also failed: %v)", solver.ErrIOWrite, err, retryErr)
		}
	}

	if isBest {
		bestPath := filepath.Join(dir, fmt.Sprintf("best_%s.txt", id))
		if err := writeFile(bestPath, rec, now); err != nil {
			return fmt.Errorf("%w: %v", solver.ErrIOWrite, err)
		}
	}

	return pruneArchives(dir, id)
}

func writeFile(path string, rec solver.CheckpointRecord, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Encode(f, rec, now)
}

func pruneArchives(dir, id string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("checkpointio: readdir %s: %w", dir, err)
	}
	prefix := fmt.Sprintf("current_%s_", id)
	var archives []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			archives = append(archives, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(archives)))
	for _, name := range archives[min(len(archives), maxBackups):] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("checkpointio: prune %s: %w", name, err)
		}
	}
	return nil
}
