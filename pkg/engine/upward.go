package engine

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/branchtime/pkg/observability"
)

// upward fills up, edge and msg for every node, deepest level first.
func (w *workspace) upward(ctx context.Context, workers int) error {
	for d := w.topo.NumLevels() - 1; d >= 0; d-- {
		if err := w.runLevel(ctx, workers, w.topo.Level(d), w.upNode); err != nil {
			return err
		}
	}
	return nil
}

// upNode combines the messages of v's children into up(v) and, unless v
// is the root, computes the message v sends to its parent.
func (w *workspace) upNode(v int, scratch []float64) error {
	upv := w.row(w.up, v)
	leaf := w.topo.IsLeaf(v)
	for i := range upv {
		upv[i] = w.m.NodeTerm(leaf, i)
	}
	for k := range w.topo.NumChildren(v) {
		floats.Add(upv, w.row(w.msg, w.topo.Child(v, k)))
	}
	if err := checkVector(observability.PassUpward, v, upv); err != nil {
		return err
	}

	p := w.topo.Parent(v)
	if p < 0 {
		return nil
	}

	e := w.row(w.edge, v)
	w.m.EdgeTable(w.topo.Mutations(p), w.topo.Mutations(v), w.topo.Cap(v, w.k), e)

	out := w.row(w.msg, v)
	terms := scratch[:w.t]
	for i := range out {
		n := 0
		for j := i + 1; j < w.t; j++ {
			terms[n] = w.s[j] - w.s[i] + e[j-i-1] + upv[j]
			n++
		}
		out[i] = lse(terms[:n])
	}
	return checkVector(observability.PassUpward, v, out)
}
