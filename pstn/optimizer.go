package pstn

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// OptimizationResult is the outer loop's view of an optimizer run, per
// spec §6.4.
type OptimizationResult struct {
	Solution     []float64
	OptimumValue float64
	ExitFlag     int
}

// OptimizationEngine is the external non-linear optimizer PSTN consumes,
// per spec §6.4: minimize Σᵢ(-probMassᵢ) subject to A·x ≤ b, xᵢ > 0,
// xᵢ₊₁ > xᵢ.
type OptimizationEngine interface {
	NonLinearOptimization(x0 []float64, a [][]float64, b []float64, mu, sigma []float64) (OptimizationResult, error)
}

// GonumEngine implements OptimizationEngine on top of
// gonum.org/v1/gonum/optimize. gonum's Minimize has no native support for
// general linear inequality constraints, so A·x≤b and the box constraints
// (xᵢ>0, xᵢ₊₁>xᵢ) are folded into the objective as a quadratic penalty and
// handed to the derivative-free NelderMead method, which tolerates the
// resulting non-smooth objective.
type GonumEngine struct {
	PenaltyWeight float64
}

// NewGonumEngine returns a GonumEngine with a penalty weight large enough
// to dominate the probability-mass objective (a sum over the n
// participating links, so bounded in [-n,0])
// whenever a constraint is violated.
func NewGonumEngine() *GonumEngine {
	return &GonumEngine{PenaltyWeight: 1e6}
}

func (g *GonumEngine) NonLinearOptimization(x0 []float64, a [][]float64, b []float64, mu, sigma []float64) (OptimizationResult, error) {
	n := len(x0)
	if n == 0 || n != len(mu)*2 || len(mu) != len(sigma) {
		return OptimizationResult{ExitFlag: -2}, fmt.Errorf("pstn: NonLinearOptimization: x0/mu/sigma length mismatch")
	}

	objective := func(x []float64) float64 {
		total := 0.0
		for i := range mu {
			lower, upper := x[2*i], x[2*i+1]
			total += -probabilityMass(mu[i], sigma[i], int64(lower), int64(upper))
		}
		total += g.penalty(x, a, b, mu)
		return total
	}

	problem := optimize.Problem{Func: objective}

	settings := &optimize.Settings{
		MajorIterations: 200,
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil && result == nil {
		return OptimizationResult{ExitFlag: -1}, err
	}

	exitFlag := statusToExitFlag(result.Status)
	return OptimizationResult{
		Solution:     result.X,
		OptimumValue: result.F,
		ExitFlag:     exitFlag,
	}, nil
}

// penalty adds a large quadratic cost for every violated A·x<=b row and
// every violated xi>0 / x_{2i+1}>x_{2i} box constraint.
func (g *GonumEngine) penalty(x []float64, a [][]float64, b []float64, mu []float64) float64 {
	cost := 0.0
	for row := range a {
		lhs := 0.0
		for j, coef := range a[row] {
			lhs += coef * x[j]
		}
		if violation := lhs - b[row]; violation > 0 {
			cost += g.PenaltyWeight * violation * violation
		}
	}
	for i := range mu {
		lower, upper := x[2*i], x[2*i+1]
		if lower <= 0 {
			cost += g.PenaltyWeight * (1 - lower) * (1 - lower)
		}
		if upper <= lower {
			cost += g.PenaltyWeight * (lower - upper + 1) * (lower - upper + 1)
		}
	}
	return cost
}

// statusToExitFlag maps gonum's convergence status onto the spec's
// exitFlag convention ("exitFlag >= 1 means success").
func statusToExitFlag(s optimize.Status) int {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.StepConvergence:
		return 1
	case optimize.NotTerminated:
		return 0
	default:
		return -1
	}
}
