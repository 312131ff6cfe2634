package stn

import (
	"errors"
	"time"
)

// Sentinel errors returned by the stn package, per spec §7.
var (
	ErrNilGraph        = errors.New("stn: graph is nil")
	ErrNotInitialized  = errors.New("stn: InitAndCheck has not been run")
	ErrNegativeWeight  = errors.New("stn: Dijkstra requires non-negative edge weights")
	ErrNotConsistent   = errors.New("stn: network is not consistent")
	ErrBadTimeout      = errors.New("stn: timeout seconds must be non-negative")
)

// Algorithm selects which consistency-checking algorithm ConsistencyCheck
// runs, per spec §4.2.
type Algorithm int

const (
	// BellmanFord adds a virtual source with 0-edges to all nodes and runs
	// |V|-1 relaxation rounds plus one negative-cycle detection round.
	// Works for any signed edge weights.
	BellmanFord Algorithm = iota
	// Dijkstra requires every edge weight to be non-negative.
	Dijkstra
	// FloydWarshall computes the full all-pairs shortest-path matrix and
	// replaces the graph by its minimal-distance form.
	FloydWarshall
)

// Options configures a Checker, following the functional-options idiom.
type Options struct {
	Algorithm      Algorithm
	TimeoutSeconds int64
}

// Option is a functional option for configuring a Checker.
type Option func(*Options)

// WithAlgorithm selects the consistency-checking algorithm.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Options) { o.Algorithm = a }
}

// WithTimeoutSeconds sets a wall-clock budget for a Checker's run, per
// spec §5. A zero value means no budget. The budget is checked once,
// before the algorithm starts; a relaxation loop already running is not
// interrupted.
func WithTimeoutSeconds(seconds int64) Option {
	return func(o *Options) {
		if seconds < 0 {
			panic(ErrBadTimeout.Error())
		}
		o.TimeoutSeconds = seconds
	}
}

// DefaultOptions returns the default configuration: Bellman-Ford, no
// timeout.
func DefaultOptions() Options {
	return Options{
		Algorithm:      BellmanFord,
		TimeoutSeconds: 0,
	}
}

func (o Options) budget() (time.Duration, bool) {
	if o.TimeoutSeconds <= 0 {
		return 0, false
	}
	return time.Duration(o.TimeoutSeconds) * time.Second, true
}
