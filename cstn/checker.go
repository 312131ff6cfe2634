package cstn

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jublebi/ostnu/status"
	"github.com/jublebi/ostnu/tnet"
)

// GraphWriter serializes a graph to w in some external format.
type GraphWriter func(g *tnet.Graph, w io.Writer) error

// Checker is the CSTN/CSTNU algorithm object, per spec §6.6.
type Checker struct {
	g      *tnet.Graph
	status status.CheckStatus
	opts   Options
	logger zerolog.Logger

	output       io.Writer
	outputWriter GraphWriter
}

// NewChecker constructs a Checker over g.
func NewChecker(g *tnet.Graph, logger zerolog.Logger, opts ...Option) *Checker {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Checker{g: g, opts: cfg, logger: logger}
}

// NewCheckerWithTimeout is the (graph, timeOutSeconds) constructor form.
func NewCheckerWithTimeout(g *tnet.Graph, logger zerolog.Logger, timeoutSeconds int64) *Checker {
	return NewChecker(g, logger, WithTimeoutSeconds(timeoutSeconds))
}

func (c *Checker) SetG(g *tnet.Graph)                  { c.g = g; c.status.Reset() }
func (c *Checker) GetG() *tnet.Graph                   { return c.g }
func (c *Checker) GetCheckStatus() *status.CheckStatus { return &c.status }
func (c *Checker) Reset()                              { c.status.Reset() }

func (c *Checker) SetFOutput(w io.Writer, writer GraphWriter) {
	c.output = w
	c.outputWriter = writer
}

func (c *Checker) SaveGraphToFile() error {
	if c.outputWriter == nil || c.output == nil {
		return fmt.Errorf("cstn: SaveGraphToFile: no output configured")
	}
	return c.outputWriter(c.g, c.output)
}

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

// DynamicConsistencyCheck runs the labeled-value propagation fixpoint over
// the owned graph, per spec §4.4. On success the owned graph is left with
// every derived labeled entry merged in; on failure, status.CSTNWitness
// names the node and value of the negative empty-label self-loop found.
func (c *Checker) DynamicConsistencyCheck(ctx context.Context) (*status.CheckStatus, error) {
	if c.g == nil {
		return nil, ErrNilGraph
	}
	if err := c.opts.Validate(); err != nil {
		return nil, err
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

	e := newEngine(c.g, c.opts)
	witness := e.run()

	c.status.Finished = true
	c.status.Counters = e.counts

	if witness != nil {
		c.status.Consistency = false
		c.status.CSTNWitness = witness
		return &c.status, fmt.Errorf("cstn: DynamicConsistencyCheck: %w", ErrNotControllable)
	}

	c.status.Consistency = true
	return &c.status, nil
}

// DynamicControllabilityCheck is the CSTNU-flavored name for the same
// fixpoint, kept alongside DynamicConsistencyCheck because spec §6.6 names
// both operations against this package depending on whether the owned
// graph carries contingent links.
func (c *Checker) DynamicControllabilityCheck(ctx context.Context) (*status.CheckStatus, error) {
	st, err := c.DynamicConsistencyCheck(ctx)
	if st != nil {
		st.Controllable = st.Consistency
	}
	return st, err
}
