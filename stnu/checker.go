package stnu

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/status"
	"github.com/jublebi/ostnu/stn"
	"github.com/jublebi/ostnu/tnet"
)

// GraphWriter serializes a graph to w in some external format.
type GraphWriter func(g *tnet.Graph, w io.Writer) error

// Checker is the STNU algorithm object, per spec §6.3.
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

func (c *Checker) SetG(g *tnet.Graph)             { c.g = g; c.status.Reset() }
func (c *Checker) GetG() *tnet.Graph              { return c.g }
func (c *Checker) GetCheckStatus() *status.CheckStatus { return &c.status }
func (c *Checker) Reset()                         { c.status.Reset() }

func (c *Checker) SetFOutput(w io.Writer, writer GraphWriter) {
	c.output = w
	c.outputWriter = writer
}

func (c *Checker) SaveGraphToFile() error {
	if c.outputWriter == nil || c.output == nil {
		return fmt.Errorf("stnu: SaveGraphToFile: no output configured")
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

// DynamicControllabilityCheck runs the RUL-family fixpoint engine over the
// owned graph, per spec §4.3. On success the owned graph is left with
// every derived edge tightened in; on failure, status.SRNCWitness
// describes the negative cycle found.
func (c *Checker) DynamicControllabilityCheck(ctx context.Context) (*status.CheckStatus, error) {
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

	e := newEngine(c.g, c.opts)
	e.seed()
	srnc := e.run()

	c.status.Finished = true
	c.tallyCounters(e)

	if srnc != nil {
		c.status.Controllable = false
		c.status.SRNCWitness = srnc
		return &c.status, fmt.Errorf("stnu: DynamicControllabilityCheck: %w", ErrNotControllable)
	}

	c.status.Controllable = true
	c.commitTightenings(e)
	return &c.status, nil
}

// tallyCounters fills status.Counters by scanning every record the engine
// produced; base edges (the original graph) are not counted as rule
// applications.
func (c *Checker) tallyCounters(e *engine) {
	for _, r := range e.arena.records {
		switch r.rule {
		case ruleNoCase:
			c.status.Counters.NoCase++
		case ruleUpperCase:
			c.status.Counters.UpperCase++
		case ruleLowerCase:
			c.status.Counters.LowerCase++
		case ruleCrossCase:
			c.status.Counters.CrossCase++
		case ruleLetterRemoval:
			c.status.Counters.LetterRemoval++
		}
	}
}

// commitTightenings writes every ordinary-edge tightening the engine found
// back onto the owned graph, adding a new Internal-typed ordinary edge for any
// derived (u,v) pair that had no base edge.
func (c *Checker) commitTightenings(e *engine) {
	for key, idx := range e.best {
		if key.Kind != tnet.KindOrdinary {
			continue
		}
		w := e.arena.at(idx).weight
		updated := false
		for _, ed := range c.g.OutEdges(key.From) {
			if ed.To == key.To && ed.Kind == tnet.KindOrdinary {
				if v, ok := ed.Weight.Value(); !ok || w < v {
					ed.Weight = satint.Finite(w)
				}
				updated = true
				break
			}
		}
		if !updated {
			_, _ = c.g.AddEdge(&tnet.Edge{From: key.From, To: key.To, Type: tnet.Internal, Kind: tnet.KindOrdinary, Weight: satint.Finite(w)})
		}
	}
}

// ApplyMinDispatchableESTNU minimizes the owned (already DC-checked)
// graph's ordinary-edge skeleton via the STN Muscettola transform, per
// spec §4.3 "Dispatchability minimization", while preserving contingent
// links and waits untouched.
func (c *Checker) ApplyMinDispatchableESTNU(ctx context.Context) (bool, error) {
	sc := stn.NewChecker(c.g, c.logger)
	ok, err := sc.ApplyMinDispatchable(ctx)
	if err != nil {
		return false, err
	}
	return ok, nil
}
