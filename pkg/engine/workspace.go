package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/model"
	"github.com/matzehuels/branchtime/pkg/tree"
)

var negInf = math.Inf(-1)

// workspace owns every N×T buffer of one run. Row v of a slab belongs to
// node v; a task only writes rows of the nodes it was scheduled for.
type workspace struct {
	topo *tree.Topology
	m    *model.Model
	k    int // global character count
	t    int // grid size

	s     []float64 // S at each grid index
	prior []float64 // root stem, by root index

	up      []float64
	msg     []float64 // message from a node to its parent
	edge    []float64 // mutation term of the edge into a node, by lag
	ctx     []float64 // parent context excluding the node itself
	outside []float64
	down    []float64
	post    []float64
	means   []float64

	scratch chan []float64
}

// scratchLen is the per-task scratch size in units of T.
const scratchLen = 2

func newWorkspace(topo *tree.Topology, m *model.Model, workers int) *workspace {
	n, t := topo.N(), m.Grid().Len()
	slab := func() []float64 { return make([]float64, n*t) }

	w := &workspace{
		topo:    topo,
		m:       m,
		k:       m.Parameters().Characters,
		t:       t,
		s:       make([]float64, t),
		prior:   make([]float64, t),
		up:      slab(),
		msg:     slab(),
		edge:    slab(),
		ctx:     slab(),
		outside: slab(),
		down:    slab(),
		post:    slab(),
		means:   make([]float64, n),
		scratch: make(chan []float64, workers),
	}
	for i := range w.s {
		w.s[i] = m.Survival(i)
	}
	for range workers {
		w.scratch <- make([]float64, scratchLen*t)
	}
	return w
}

func (w *workspace) row(slab []float64, v int) []float64 {
	return slab[v*w.t : (v+1)*w.t : (v+1)*w.t]
}

func (w *workspace) getScratch() []float64 { return <-w.scratch }

func (w *workspace) putScratch(b []float64) { w.scratch <- b }

// lse is floats.LogSumExp extended to the empty set.
func lse(xs []float64) float64 {
	if len(xs) == 0 {
		return negInf
	}
	return floats.LogSumExp(xs)
}

// checkVector reports the first NaN or +Inf entry of vec, or a vector that
// is -Inf at every index.
func checkVector(pass string, v int, vec []float64) error {
	finite := false
	for i, x := range vec {
		if math.IsNaN(x) || math.IsInf(x, 1) {
			return bterrors.Numerical(pass, v, i, x)
		}
		if !math.IsInf(x, -1) {
			finite = true
		}
	}
	if !finite {
		return bterrors.Numerical(pass, v, -1, negInf)
	}
	return nil
}
