package solver

import "time"

// OrderMode controls LCV tie-breaking and, in diversified parallel
// workers, overrides LCV entirely with a plain ascending or descending
// tile-id order (spec §4.4's "configurable order mode").
type OrderMode int

const (
	// OrderLCV ranks candidates by how many neighbor-domain entries they
	// preserve, tile id ascending on ties. The default.
	OrderLCV OrderMode = iota
	// OrderAscending ignores LCV and orders candidates by tile id.
	OrderAscending
	// OrderDescending ignores LCV and orders candidates by tile id,
	// descending.
	OrderDescending
)

// String renders the mode for CLI flags and diagnostics.
func (m OrderMode) String() string {
	switch m {
	case OrderAscending:
		return "ascending"
	case OrderDescending:
		return "descending"
	default:
		return "lcv"
	}
}

// Config holds the tunables a SearchEngine is built with. Modeled on the
// teacher's plain-struct SolverConfig/ParallelConfig (constraint_manager.go,
// parallel.go) — no file-based configuration layer, just a struct with a
// Default constructor that CLI flags populate.
type Config struct {
	// DisableSingletons turns off SingletonDetector (the CLI's
	// --no-singletons flag), useful for the forced-singleton scenario in
	// spec §8.
	DisableSingletons bool

	// OrderMode selects the LCV override for this engine's candidate
	// ordering.
	OrderMode OrderMode

	// RandomSeed seeds the CandidateOrderer's random generator. No
	// ordering mode draws from that generator, so the seed does not
	// change the candidate order: every mode breaks ties by (tile,
	// rotation) order.
	RandomSeed int64

	// Deadline, if non-zero, records the run's wall-clock deadline. Zero
	// means no timeout. SearchEngine and ParallelDriver do not read it; a
	// deadline takes effect through the context passed to Solve or Run
	// (the CLI derives that context from this value).
	Deadline time.Time

	// CheckpointEvery is carried in the configuration, but SearchEngine
	// does not read it: the engine produces no periodic checkpoints.
	CheckpointEvery int

	// MinDepthForReport mirrors the CLI's --min-depth: only depth
	// records at or beyond this value are reported.
	MinDepthForReport int
}

// DefaultConfig returns the engine's default tunables.
func DefaultConfig() Config {
	return Config{
		OrderMode:         OrderLCV,
		MinDepthForReport: 0,
	}
}

// HasDeadline reports whether a wall-clock deadline was configured.
func (c Config) HasDeadline() bool { return !c.Deadline.IsZero() }
