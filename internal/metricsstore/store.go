// Package metricsstore persists historical run metrics in an embedded
// BadgerDB database, one JSON record per run keyed by puzzle id and
// timestamp. Grounded on hailam-chessplay's internal/storage/storage.go
// (badger.DefaultOptions + JSON-marshal-on-Update, JSON-unmarshal-on-View).
// This is an external collaborator: the core never touches it directly,
// the CLI records a RunRecord after each Solve/ParallelDriver.Run call.
package metricsstore

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/gitrdm/edgetile/pkg/solver"
)

// RunRecord is one completed run's worth of history, enough to answer
// "how has this puzzle's solve time trended" without re-running it.
type RunRecord struct {
	PuzzleID  string        `json:"puzzle_id"`
	Timestamp time.Time     `json:"timestamp"`
	Rows, Cols int          `json:"rows_cols"`
	Parallel  bool          `json:"parallel"`
	Workers   int           `json:"workers"`
	Outcome   string        `json:"outcome"`
	Stats     solver.Stats  `json:"stats"`
}

// Store wraps a BadgerDB handle holding RunRecords.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a metrics database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("metricsstore: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func recordKey(puzzleID string, ts time.Time) []byte {
	return []byte(fmt.Sprintf("run:%s:%020d", puzzleID, ts.UnixNano()))
}

// Append persists one completed run's record.
func (s *Store) Append(rec RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("metricsstore: marshal: %w", err)
	}
	key := recordKey(rec.PuzzleID, rec.Timestamp)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// History returns every recorded run for puzzleID in chronological
// order (Badger's lexicographic key order over the zero-padded
// nanosecond timestamp).
func (s *Store) History(puzzleID string) ([]RunRecord, error) {
	prefix := []byte(fmt.Sprintf("run:%s:", puzzleID))
	var out []RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				var rec RunRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				out = append(out, rec)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("metricsstore: history %s: %w", puzzleID, err)
	}
	return out, nil
}

// Best returns the fastest recorded solve for puzzleID, or ok=false if
// none is recorded yet.
func (s *Store) Best(puzzleID string) (rec RunRecord, ok bool, err error) {
	history, err := s.History(puzzleID)
	if err != nil {
		return RunRecord{}, false, err
	}
	for _, r := range history {
		if r.Outcome != "solved" {
			continue
		}
		if !ok || r.Stats.SearchTime < rec.Stats.SearchTime {
			rec, ok = r, true
		}
	}
	return rec, ok, nil
}
