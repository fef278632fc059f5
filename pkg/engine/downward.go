package engine

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/branchtime/pkg/observability"
)

// downward fills outside and down for every node, root first. Each task
// owns one parent and writes the rows of all of its children.
func (w *workspace) downward(ctx context.Context, workers int) error {
	root := w.topo.Root()
	w.m.RootPrior(w.topo.Mutations(root), w.topo.Cap(root, w.k), w.prior)
	copy(w.row(w.outside, root), w.prior)
	if err := w.finishDown(root); err != nil {
		return err
	}

	parents := make([]int, 0, w.topo.N())
	for d := 0; d < w.topo.NumLevels()-1; d++ {
		parents = parents[:0]
		for _, v := range w.topo.Level(d) {
			if w.topo.IsInternal(v) {
				parents = append(parents, v)
			}
		}
		if err := w.runLevel(ctx, workers, parents, w.downChildren); err != nil {
			return err
		}
	}
	return nil
}

// downChildren computes outside and down for every child of p.
//
// The context of child c_k is the parent's own terms plus the messages of
// c_0..c_{k-1} (prefix, built in the ctx rows) and of c_{k+1}.. (suffix,
// accumulated in scratch). No message is ever subtracted.
func (w *workspace) downChildren(p int, scratch []float64) error {
	nc := w.topo.NumChildren(p)
	outp := w.row(w.outside, p)

	first := w.row(w.ctx, w.topo.Child(p, 0))
	for i := range first {
		first[i] = outp[i] + w.m.NodeTerm(false, i)
	}
	for k := 1; k < nc; k++ {
		prev := w.topo.Child(p, k-1)
		cur := w.row(w.ctx, w.topo.Child(p, k))
		floats.AddTo(cur, w.row(w.ctx, prev), w.row(w.msg, prev))
	}

	suffix := scratch[:w.t]
	clear(suffix)
	for k := nc - 1; k >= 0; k-- {
		c := w.topo.Child(p, k)
		floats.Add(w.row(w.ctx, c), suffix)
		floats.Add(suffix, w.row(w.msg, c))
	}

	terms := scratch[w.t : 2*w.t]
	for k := range nc {
		c := w.topo.Child(p, k)
		cctx, e, out := w.row(w.ctx, c), w.row(w.edge, c), w.row(w.outside, c)
		for j := range out {
			n := 0
			for i := 0; i < j; i++ {
				terms[n] = cctx[i] + w.s[j] - w.s[i] + e[j-i-1]
				n++
			}
			out[j] = lse(terms[:n])
		}
		if err := w.finishDown(c); err != nil {
			return err
		}
	}
	return nil
}

// finishDown sets down(v) = up(v) + outside(v) and checks both.
func (w *workspace) finishDown(v int) error {
	out := w.row(w.outside, v)
	if err := checkVector(observability.PassDownward, v, out); err != nil {
		return err
	}
	down := w.row(w.down, v)
	floats.AddTo(down, w.row(w.up, v), out)
	return checkVector(observability.PassDownward, v, down)
}
