// Package model holds the per-edge and per-node log-probability terms of
// the branch-time model.
//
// Characters mutate independently at rate r and never revert. Lineages
// divide at rate lam; a division shows up in the tree only when both
// daughters leave sampled descendants, and each lineage alive at the
// present is sampled with probability rho. Time runs from the origin at 0
// to the present at 1 on the grid described in package grid.
//
// With g(tau) = rho + (1-rho)exp(-lam*tau) and S(t) = -lam*t + 2 ln g(1-t),
// the log-probability that a lineage shows no visible division between
// times a and b is S(b) - S(a).
package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/matzehuels/branchtime/pkg/grid"
)

var negInf = math.Inf(-1)

// Model precomputes the grid-dependent terms for one parameter set.
// It is immutable and safe for concurrent use.
type Model struct {
	params      Parameters
	grid        grid.Grid
	s           []float64 // s[i+1] = S(time of index i); s[0] = S(0)
	logDivision float64
	logSampling float64
}

// New validates p and precomputes the survival curve on its grid.
func New(p Parameters) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.New(p.GridSize)
	if err != nil {
		return nil, err
	}

	m := &Model{
		params:      p,
		grid:        g,
		s:           make([]float64, g.Len()+1),
		logDivision: math.Log(math.Expm1(p.Lambda * g.Spacing())),
		logSampling: math.Log(p.SamplingProbability),
	}
	m.s[0] = m.survivalCurve(0)
	for i := range g.Len() {
		m.s[i+1] = m.survivalCurve(g.At(i))
	}
	return m, nil
}

// survivalCurve evaluates S(t).
func (m *Model) survivalCurve(t float64) float64 {
	lam, rho := m.params.Lambda, m.params.SamplingProbability
	tau := 1 - t
	lg := floats.LogSumExp([]float64{math.Log(rho), math.Log1p(-rho) - lam*tau})
	return -lam*t + 2*lg
}

// Parameters returns the parameters the model was built from.
func (m *Model) Parameters() Parameters { return m.params }

// Grid returns the time grid.
func (m *Model) Grid() grid.Grid { return m.grid }

// LogSurvival returns S(b) - S(a) for grid indices i and j, where i = -1
// stands for the origin.
func (m *Model) LogSurvival(i, j int) float64 { return m.s[j+1] - m.s[i+1] }

// Survival returns S at index i; i = -1 is the origin.
func (m *Model) Survival(i int) float64 { return m.s[i+1] }

// LogDivision is the log-probability of a visible division inside one grid
// bin, ln(exp(lam*h) - 1). With rho = 1 survival times division over a bin
// is the exponential mass of that bin.
func (m *Model) LogDivision() float64 { return m.logDivision }

// LogSampling is ln(rho); -Inf when rho = 0.
func (m *Model) LogSampling() float64 { return m.logSampling }

// LogMutation returns the log-probability that exactly d of n unmutated
// characters mutate over an edge of length dt:
//
//	ln C(n,d) + d ln(1 - exp(-r dt)) - (n-d) r dt
//
// It is -Inf when d < 0, n < 0 or d > n.
func (m *Model) LogMutation(d, n int, dt float64) float64 {
	if d < 0 || n < 0 || d > n {
		return negInf
	}
	r := m.params.MutationRate
	v := combin.LogGeneralizedBinomial(float64(n), float64(d)) - float64(n-d)*r*dt
	if d > 0 {
		v += float64(d) * math.Log(-math.Expm1(-r*dt))
	}
	return v
}

// NodeTerm is the log-probability contributed by a node placed at index i:
// sampling at the present for leaves, a visible division strictly before
// the present for internal nodes.
func (m *Model) NodeTerm(isLeaf bool, i int) float64 {
	present := m.grid.Present()
	if isLeaf {
		if i == present {
			return m.logSampling
		}
		return negInf
	}
	if i == present {
		return negInf
	}
	return m.logDivision
}

// EdgeTable fills dst with the mutation term of edge p->c by lag: dst[k-1]
// holds the term for a child k grid steps after its parent. xp and xc are
// the counts at parent and child and capc is the child's character cap.
// dst must have Grid().Len() entries.
func (m *Model) EdgeTable(xp, xc, capc int, dst []float64) {
	d, n := xc-xp, capc-xp
	for k := 1; k <= len(dst); k++ {
		dst[k-1] = m.LogMutation(d, n, m.grid.Lag(0, k))
	}
}

// RootPrior fills dst with the log-probability of the root's stem from the
// origin to each grid index: survival plus the mutations accumulated from
// zero to x. dst must have Grid().Len() entries.
func (m *Model) RootPrior(x, capr int, dst []float64) {
	for i := range dst {
		dst[i] = m.LogSurvival(-1, i) + m.LogMutation(x, capr, m.grid.Lag(-1, i))
	}
}

// SingleNodeLogLikelihood is the closed-form log-likelihood of a tree whose
// root is a leaf with x mutations out of capr characters.
func (m *Model) SingleNodeLogLikelihood(x, capr int) float64 {
	present := m.grid.Present()
	return m.LogSurvival(-1, present) + m.LogMutation(x, capr, 1) + m.logSampling
}
