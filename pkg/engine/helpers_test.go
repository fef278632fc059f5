package engine

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/branchtime/pkg/model"
	"github.com/matzehuels/branchtime/pkg/tree"
)

func mustTree(t *testing.T, parent []int, mutations []int) *tree.Topology {
	t.Helper()
	topo, err := tree.New(tree.FromParents(parent, 0, mutations))
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	return topo
}

func mustCompute(t *testing.T, topo *tree.Topology, p model.Parameters, opts Options) *Result {
	t.Helper()
	res, err := New(opts).Compute(context.Background(), topo, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return res
}

func relClose(a, b, tol float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// enumerator sums the joint probability over every admissible assignment
// of grid indices to internal nodes, with leaves at the present.
type enumerator struct {
	topo  *tree.Topology
	m     *model.Model
	k     int
	times []int
	order []int // internal nodes, preorder
	terms []float64
	byPos map[[2]int][]float64 // (node, index) -> joint terms
}

func newEnumerator(topo *tree.Topology, m *model.Model) *enumerator {
	e := &enumerator{
		topo:  topo,
		m:     m,
		k:     m.Parameters().Characters,
		times: make([]int, topo.N()),
		byPos: make(map[[2]int][]float64),
	}
	present := m.Grid().Present()
	for _, v := range topo.Preorder() {
		if topo.IsInternal(v) {
			e.order = append(e.order, v)
		} else {
			e.times[v] = present
		}
	}
	e.walk(0)
	return e
}

func (e *enumerator) walk(pos int) {
	if pos == len(e.order) {
		joint := e.joint()
		e.terms = append(e.terms, joint)
		for v, i := range e.times {
			key := [2]int{v, i}
			e.byPos[key] = append(e.byPos[key], joint)
		}
		return
	}
	v := e.order[pos]
	lo := 0
	if p := e.topo.Parent(v); p >= 0 {
		lo = e.times[p] + 1
	}
	for i := lo; i < e.m.Grid().Present(); i++ {
		e.times[v] = i
		e.walk(pos + 1)
	}
}

func (e *enumerator) joint() float64 {
	g := e.m.Grid()
	root := e.topo.Root()
	tr := e.times[root]
	sum := e.m.LogSurvival(-1, tr) + e.m.LogMutation(e.topo.Mutations(root), e.topo.Cap(root, e.k), g.Lag(-1, tr))
	for v := range e.topo.N() {
		sum += e.m.NodeTerm(e.topo.IsLeaf(v), e.times[v])
		p := e.topo.Parent(v)
		if p < 0 {
			continue
		}
		xp := e.topo.Mutations(p)
		sum += e.m.LogSurvival(e.times[p], e.times[v])
		sum += e.m.LogMutation(e.topo.Mutations(v)-xp, e.topo.Cap(v, e.k)-xp, g.Lag(e.times[p], e.times[v]))
	}
	return sum
}

func logSumExp(xs []float64) float64 {
	if len(xs) == 0 {
		return math.Inf(-1)
	}
	return floats.LogSumExp(xs)
}

func (e *enumerator) logLikelihood() float64 { return logSumExp(e.terms) }

func (e *enumerator) down(v int) []float64 {
	out := make([]float64, e.m.Grid().Len())
	for i := range out {
		out[i] = logSumExp(e.byPos[[2]int{v, i}])
	}
	return out
}
