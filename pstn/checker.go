package pstn

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/status"
	"github.com/jublebi/ostnu/stnu"
	"github.com/jublebi/ostnu/tnet"
)

// GraphWriter serializes a graph to w in some external format.
type GraphWriter func(g *tnet.Graph, w io.Writer) error

// Checker is the PSTN algorithm object, per spec §6.3/§6.4.
type Checker struct {
	g      *tnet.Graph
	status status.PSTNCheckStatus
	opts   Options
	logger zerolog.Logger
	engine OptimizationEngine

	lastVars []*contingentVar

	output       io.Writer
	outputWriter GraphWriter
}

// NewChecker constructs a Checker over g, with a GonumEngine as the
// default OptimizationEngine.
func NewChecker(g *tnet.Graph, logger zerolog.Logger, opts ...Option) *Checker {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Checker{g: g, opts: cfg, logger: logger, engine: NewGonumEngine()}
}

// NewCheckerWithTimeout is the (graph, timeOutSeconds) constructor form.
func NewCheckerWithTimeout(g *tnet.Graph, logger zerolog.Logger, timeoutSeconds int64) *Checker {
	return NewChecker(g, logger, WithTimeoutSeconds(timeoutSeconds))
}

// SetEngine overrides the OptimizationEngine, e.g. for tests that want a
// deterministic stub instead of gonum's NelderMead.
func (c *Checker) SetEngine(e OptimizationEngine) { c.engine = e }

func (c *Checker) SetG(g *tnet.Graph)                       { c.g = g; c.status = status.PSTNCheckStatus{} }
func (c *Checker) GetG() *tnet.Graph                        { return c.g }
func (c *Checker) GetCheckStatus() *status.PSTNCheckStatus  { return &c.status }
func (c *Checker) Reset()                                   { c.status = status.PSTNCheckStatus{} }

func (c *Checker) SetFOutput(w io.Writer, writer GraphWriter) {
	c.output = w
	c.outputWriter = writer
}

func (c *Checker) SaveGraphToFile() error {
	if c.outputWriter == nil || c.output == nil {
		return fmt.Errorf("pstn: SaveGraphToFile: no output configured")
	}
	return c.outputWriter(c.g, c.output)
}

// contingentVar is one (A,C) log-normal contingent link being shrunk.
type contingentVar struct {
	aLetter    rune
	activation string
	contingent string
	mu, sigma  float64
	lower      int64
	upper      int64
}

// collectContingents finds every contingent node carrying LogNormal
// parameters, sorted by ALetter for deterministic iteration.
func collectContingents(g *tnet.Graph) []*contingentVar {
	var out []*contingentVar
	for _, name := range g.Nodes() {
		n, err := g.NodeByName(name)
		if err != nil || !n.HasContingentALetter || n.LogNormal == nil {
			continue
		}
		act, ok := g.ActivationOf(name)
		if !ok {
			continue
		}
		out = append(out, &contingentVar{
			aLetter:    n.ContingentALetter,
			activation: act,
			contingent: name,
			mu:         n.LogNormal.Mu,
			sigma:      n.LogNormal.Sigma,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].aLetter < out[j].aLetter })
	return out
}

// applyBounds writes [lower,upper] onto the (A,C) ordinary edge (upper
// bound y) and the (C,A) lower-case edge (lower bound x).
func applyBounds(g *tnet.Graph, v *contingentVar) {
	for _, ed := range g.OutEdges(v.activation) {
		if ed.To == v.contingent && ed.Kind == tnet.KindOrdinary {
			ed.Weight = satint.Finite(v.upper)
		}
	}
	for _, ed := range g.OutEdges(v.contingent) {
		if ed.To == v.activation && ed.Kind == tnet.KindLowerCase {
			ed.Weight = satint.Finite(v.lower)
		}
	}
}

// UpdateContingentBounds writes the last approximation loop's contingent
// ranges onto stnu, per spec §6.3's `updateContingentBounds(stnu)`
// operation — useful when the caller wants the solved ranges applied to
// an externally held STNU graph rather than the Checker's own clone.
func (c *Checker) UpdateContingentBounds(stnu *tnet.Graph) {
	for _, v := range c.lastVars {
		applyBounds(stnu, v)
	}
}

// BuildApproxSTNU runs the PSTN approximation loop, per spec §4.5: bind
// initial ranges, check DC, and on failure shrink the SRNC's contingent
// participants via the optimizer until DC is reached or no further
// improvement is possible.
func (c *Checker) BuildApproxSTNU(ctx context.Context) (*status.PSTNCheckStatus, error) {
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

	working := c.g.Clone()
	vars := collectContingents(working)
	c.lastVars = vars
	for _, v := range vars {
		v.lower, v.upper = defaultBounds(v.mu, v.sigma, c.opts.RangeFactor)
		applyBounds(working, v)
	}

	maxIter := c.opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 50
	}

	for iter := 0; iter < maxIter; iter++ {
		select {
		case <-ctx.Done():
			c.status.Timeout = true
			c.status.Finished = false
			return &c.status, nil
		default:
		}

		c.status.Iterations = iter + 1

		sc := stnu.NewChecker(working, c.logger)
		st, err := sc.DynamicControllabilityCheck(ctx)
		if err == nil {
			c.status.Finished = true
			c.status.Controllable = true
			c.status.Counters = st.Counters
			c.status.ProbabilityMass = totalProbabilityMass(vars)
			c.status.ExitFlag = 1
			c.g = working
			return &c.status, nil
		}

		if st.SRNCWitness == nil {
			c.status.Finished = true
			c.status.Controllable = false
			c.status.ExitFlag = -1
			return &c.status, fmt.Errorf("pstn: BuildApproxSTNU: %w", err)
		}

		participants := participatingContingents(vars, st.SRNCWitness)
		if len(participants) == 0 {
			c.status.Finished = true
			c.status.Controllable = false
			c.status.ExitFlag = -10
			return &c.status, fmt.Errorf("pstn: BuildApproxSTNU: %w", ErrNoFreeVariable)
		}

		x0, a, b, mu, sigma := buildProblem(participants, st.SRNCWitness)
		result, err := c.engine.NonLinearOptimization(x0, a, b, mu, sigma)
		if err != nil || result.ExitFlag < 1 {
			c.status.Finished = true
			c.status.Controllable = false
			c.status.ExitFlag = result.ExitFlag
			if c.status.ExitFlag == 0 {
				c.status.ExitFlag = -1
			}
			return &c.status, fmt.Errorf("pstn: BuildApproxSTNU: %w", ErrOptimizerFailed)
		}

		if !applySolution(participants, result.Solution) {
			c.status.Finished = true
			c.status.Controllable = false
			c.status.ExitFlag = -2
			return &c.status, fmt.Errorf("pstn: BuildApproxSTNU: %w", ErrInfeasible)
		}
		for _, v := range participants {
			applyBounds(working, v)
		}
	}

	c.status.Finished = false
	c.status.Controllable = false
	c.status.ExitFlag = -1
	return &c.status, fmt.Errorf("pstn: BuildApproxSTNU: exceeded %d iterations without reaching DC", maxIter)
}

func totalProbabilityMass(vars []*contingentVar) float64 {
	mass := 1.0
	for _, v := range vars {
		mass *= probabilityMass(v.mu, v.sigma, v.lower, v.upper)
	}
	return mass
}

// participatingContingents returns the subset of vars whose ALetter
// appears in the SRNC's upper- or lower-case tallies.
func participatingContingents(vars []*contingentVar, w *status.SRNC) []*contingentVar {
	var out []*contingentVar
	for _, v := range vars {
		_, inUpper := w.UpperCaseTallies[v.aLetter]
		_, inLower := w.LowerCaseTallies[v.aLetter]
		if inUpper || inLower {
			out = append(out, v)
		}
	}
	return out
}

// buildProblem assembles the optimizer inputs per spec §4.5 step 4: one
// linear constraint encoding "the cycle total becomes non-negative",
// derived from the SRNC's own weighted sum and per-letter tallies.
func buildProblem(vars []*contingentVar, w *status.SRNC) (x0 []float64, a [][]float64, b []float64, mu, sigma []float64) {
	x0 = make([]float64, 2*len(vars))
	mu = make([]float64, len(vars))
	sigma = make([]float64, len(vars))
	row := make([]float64, 2*len(vars))

	constant := float64(w.Sum)
	for i, v := range vars {
		x0[2*i] = float64(v.lower)
		x0[2*i+1] = float64(v.upper)
		mu[i] = v.mu
		sigma[i] = v.sigma

		upperTally := float64(w.UpperCaseTallies[v.aLetter])
		lowerTally := float64(w.LowerCaseTallies[v.aLetter])

		// The expanded cycle already counts -upperTally*upper and
		// +lowerTally*lower against the *current* bounds; undo that and
		// re-express the constraint as a linear function of the new
		// bounds being solved for.
		constant += upperTally*float64(v.upper) - lowerTally*float64(v.lower)

		row[2*i] = lowerTally   // coefficient of lower_i in the cycle sum
		row[2*i+1] = -upperTally // coefficient of upper_i in the cycle sum
	}

	// Constraint: constant + row·x >= 0  <=>  (-row)·x <= constant.
	aRow := make([]float64, len(row))
	for i, coef := range row {
		aRow[i] = -coef
	}
	a = [][]float64{aRow}
	b = []float64{constant}
	return x0, a, b, mu, sigma
}

// applySolution writes the optimizer's solution back into each
// participating var's [lower,upper], rejecting any non-finite or
// inverted result.
func applySolution(vars []*contingentVar, solution []float64) bool {
	if len(solution) != 2*len(vars) {
		return false
	}
	for i := range vars {
		lower := solution[2*i]
		upper := solution[2*i+1]
		// Written as negated comparisons so NaN is rejected too.
		if !(lower > 0) || !(upper > lower) || !(upper <= float64(satint.MaxMagnitude)) {
			return false
		}
		if int64(upper) <= int64(lower+0.5) {
			return false
		}
	}
	for i, v := range vars {
		v.lower = int64(solution[2*i] + 0.5)
		v.upper = int64(solution[2*i+1])
	}
	return true
}
