package stn

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jublebi/ostnu/status"
	"github.com/jublebi/ostnu/tnet"
)

// GraphWriter serializes a graph to w in some external format (GraphML,
// Luke text, ...). Checker.SaveGraphToFile delegates to whichever
// GraphWriter was registered via SetFOutput, keeping stn free of a direct
// dependency on the ioformat package.
type GraphWriter func(g *tnet.Graph, w io.Writer) error

// Checker is the STN algorithm object, per spec §6.3: it owns a graph and
// a status record across a sequence of operations. It is not safe for
// concurrent use by multiple goroutines (spec §5 — single-threaded core).
type Checker struct {
	g      *tnet.Graph
	status status.CheckStatus
	opts   Options
	logger zerolog.Logger

	output       io.Writer
	outputWriter GraphWriter
}

// NewChecker constructs a Checker over g with default options.
func NewChecker(g *tnet.Graph, logger zerolog.Logger, opts ...Option) *Checker {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Checker{g: g, opts: cfg, logger: logger}
}

// NewCheckerWithTimeout is the (graph, timeOutSeconds) constructor form
// named in spec §6.3.
func NewCheckerWithTimeout(g *tnet.Graph, logger zerolog.Logger, timeoutSeconds int64) *Checker {
	return NewChecker(g, logger, WithTimeoutSeconds(timeoutSeconds))
}

// SetG replaces the owned graph, clearing the status record.
func (c *Checker) SetG(g *tnet.Graph) {
	c.g = g
	c.status.Reset()
}

// GetG returns the owned graph.
func (c *Checker) GetG() *tnet.Graph { return c.g }

// GetCheckStatus returns a pointer to the live status record.
func (c *Checker) GetCheckStatus() *status.CheckStatus { return &c.status }

// SetFOutput registers the writer and serializer SaveGraphToFile will use.
func (c *Checker) SetFOutput(w io.Writer, writer GraphWriter) {
	c.output = w
	c.outputWriter = writer
}

// SaveGraphToFile serializes the owned graph via the registered
// GraphWriter. It errors if none was configured via SetFOutput.
func (c *Checker) SaveGraphToFile() error {
	if c.outputWriter == nil || c.output == nil {
		return fmt.Errorf("stn: SaveGraphToFile: no output configured")
	}
	return c.outputWriter(c.g, c.output)
}

// Reset clears the status record in place so the Checker can be reused on
// the same (or a newly assigned) graph.
func (c *Checker) Reset() { c.status.Reset() }

// InitAndCheck normalizes the owned graph, per spec §4.1.
func (c *Checker) InitAndCheck() (*status.CheckStatus, error) {
	if c.g == nil {
		return nil, ErrNilGraph
	}
	start := time.Now()
	err := tnet.InitAndCheck(c.g, c.logger)
	c.status.ExecutionTime = time.Since(start)
	if err != nil {
		return &c.status, err
	}
	c.status.Finished = true
	return &c.status, nil
}

// ConsistencyCheck runs the configured algorithm (Bellman-Ford, Dijkstra
// or Floyd-Warshall) and records the verdict in the status record. Under
// Floyd-Warshall the owned graph is replaced by its minimal-distance form,
// per spec §4.2.
func (c *Checker) ConsistencyCheck(ctx context.Context) (*status.CheckStatus, error) {
	if c.g == nil {
		return nil, ErrNilGraph
	}
	start := time.Now()
	defer func() { c.status.ExecutionTime = time.Since(start) }()

	if budget, ok := c.opts.budget(); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}
	select {
	case <-ctx.Done():
		c.status.Timeout = true
		c.status.Finished = false
		return &c.status, nil
	default:
	}

	switch c.opts.Algorithm {
	case Dijkstra:
		dist, err := dijkstra(c.g)
		if err != nil {
			return &c.status, err
		}
		c.status.Consistency = true
		c.status.Finished = true
		c.status.Distances = dist
		return &c.status, nil

	case FloydWarshall:
		// APSP cannot detect a negative cycle by a finite matrix value
		// alone; run Bellman-Ford first to get a witness if inconsistent.
		dist, witness, err := bellmanFord(c.g)
		if err != nil {
			return &c.status, err
		}
		if witness != nil {
			c.status.Consistency = false
			c.status.Finished = true
			c.status.NegativeCycle = witness
			return &c.status, fmt.Errorf("stn: ConsistencyCheck: %w", ErrNotConsistent)
		}
		m := allPairsShortestPaths(c.g)
		if err := replaceWithMinimalForm(c.g, m); err != nil {
			return &c.status, err
		}
		c.status.Consistency = true
		c.status.Finished = true
		c.status.Distances = dist
		return &c.status, nil

	default: // BellmanFord
		dist, witness, err := bellmanFord(c.g)
		if err != nil {
			return &c.status, err
		}
		c.status.Finished = true
		if witness != nil {
			c.status.Consistency = false
			c.status.NegativeCycle = witness
			return &c.status, fmt.Errorf("stn: ConsistencyCheck: %w", ErrNotConsistent)
		}
		c.status.Consistency = true
		c.status.Distances = dist
		return &c.status, nil
	}
}

// ApplyMinDispatchable transforms the owned graph into its Muscettola
// minimal-dispatchable form, per spec §4.2. It first runs a Floyd-Warshall
// consistency check itself (building the all-pairs matrix); it fails if
// the network is not consistent.
func (c *Checker) ApplyMinDispatchable(ctx context.Context) (bool, error) {
	cc, err := c.ConsistencyCheckWithAlgorithm(ctx, FloydWarshall)
	if err != nil {
		return false, err
	}
	if !cc.Consistency {
		return false, nil
	}
	m := allPairsShortestPaths(c.g)
	if err := minimalDispatchable(c.g, m); err != nil {
		return false, err
	}
	return true, nil
}

// ConsistencyCheckWithAlgorithm runs ConsistencyCheck forcing a specific
// algorithm for this one call, leaving the Checker's configured default
// algorithm untouched.
func (c *Checker) ConsistencyCheckWithAlgorithm(ctx context.Context, alg Algorithm) (*status.CheckStatus, error) {
	saved := c.opts.Algorithm
	c.opts.Algorithm = alg
	defer func() { c.opts.Algorithm = saved }()
	return c.ConsistencyCheck(ctx)
}
