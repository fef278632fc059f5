package engine

import (
	"math"
	"slices"
	"time"

	"github.com/matzehuels/branchtime/pkg/grid"
)

// Result holds the outputs of one run. It is read-only: every accessor
// returns a copy, so a Result may be shared between goroutines.
type Result struct {
	// RunID uniquely identifies the run in logs and traces.
	RunID string

	// Grid is the time grid every vector is indexed by.
	Grid grid.Grid

	// Stats contains timing and size information.
	Stats Stats

	n       int
	parent  []int
	up      []float64
	outside []float64
	down    []float64
	post    []float64
	means   []float64
	logL    float64
}

// Stats contains run statistics.
type Stats struct {
	Nodes         int
	GridSize      int
	Workers       int
	UpwardTime    time.Duration
	DownwardTime  time.Duration
	AggregateTime time.Duration
}

func (r *Result) row(slab []float64, v int) []float64 {
	t := r.Grid.Len()
	return slices.Clone(slab[v*t : (v+1)*t])
}

func (r *Result) byNode(slab []float64) map[int][]float64 {
	out := make(map[int][]float64, r.n)
	for v := range r.n {
		out[v] = r.row(slab, v)
	}
	return out
}

// N returns the number of nodes.
func (r *Result) N() int { return r.n }

// LogLikelihood returns the log-probability of all observed counts.
func (r *Result) LogLikelihood() float64 { return r.logL }

// Up returns the subtree log-likelihood of v at each grid index.
func (r *Result) Up(v int) []float64 { return r.row(r.up, v) }

// Outside returns the log-probability of everything outside v's subtree,
// jointly with v at each grid index.
func (r *Result) Outside(v int) []float64 { return r.row(r.outside, v) }

// Down returns the log joint of all observations and v at each grid index.
func (r *Result) Down(v int) []float64 { return r.row(r.down, v) }

// Posterior returns the posterior distribution of v's time over the grid.
func (r *Result) Posterior(v int) []float64 { return r.row(r.post, v) }

// PosteriorMean returns the posterior expected time of v.
func (r *Result) PosteriorMean(v int) float64 { return r.means[v] }

// PosteriorStdDev returns the posterior standard deviation of v's time.
func (r *Result) PosteriorStdDev(v int) float64 {
	t := r.Grid.Len()
	post := r.post[v*t : (v+1)*t]
	second := 0.0
	for i, p := range post {
		x := r.Grid.At(i)
		second += x * x * p
	}
	mean := r.means[v]
	return math.Sqrt(max(0, second-mean*mean))
}

// DownResults returns down vectors keyed by node.
func (r *Result) DownResults() map[int][]float64 { return r.byNode(r.down) }

// UpResults returns up vectors keyed by node.
func (r *Result) UpResults() map[int][]float64 { return r.byNode(r.up) }

// Posteriors returns posterior vectors keyed by node.
func (r *Result) Posteriors() map[int][]float64 { return r.byNode(r.post) }

// LogJoints returns log-joint vectors keyed by node. They hold the same
// values as DownResults.
func (r *Result) LogJoints() map[int][]float64 { return r.byNode(r.down) }

// PosteriorMeans returns posterior mean times keyed by node.
func (r *Result) PosteriorMeans() map[int]float64 {
	out := make(map[int]float64, r.n)
	for v, m := range r.means {
		out[v] = m
	}
	return out
}

// BranchLengths returns, for every node, the difference between its
// posterior mean time and its parent's. The root's branch runs from the
// origin at time 0.
func (r *Result) BranchLengths() map[int]float64 {
	out := make(map[int]float64, r.n)
	for v, m := range r.means {
		if p := r.parent[v]; p >= 0 {
			out[v] = m - r.means[p]
		} else {
			out[v] = m
		}
	}
	return out
}
