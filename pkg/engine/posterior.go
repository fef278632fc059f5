package engine

import (
	"context"
	"math"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/observability"
)

// aggregate normalizes every down vector into a posterior and computes the
// posterior means. It returns the log-likelihood.
func (w *workspace) aggregate(ctx context.Context, workers int) (float64, error) {
	root := w.topo.Root()
	logL := lse(w.row(w.down, root))
	if math.IsNaN(logL) || math.IsInf(logL, 0) {
		return 0, bterrors.Numerical(observability.PassPosterior, root, -1, logL)
	}

	points := w.m.Grid().Points()
	err := w.runLevel(ctx, workers, w.topo.Preorder(), func(v int, _ []float64) error {
		down, post := w.row(w.down, v), w.row(w.post, v)
		mean := 0.0
		for i := range post {
			post[i] = math.Exp(down[i] - logL)
			mean += points[i] * post[i]
		}
		if math.IsNaN(mean) {
			return bterrors.Numerical(observability.PassPosterior, v, -1, mean)
		}
		w.means[v] = mean
		return nil
	})
	if err != nil {
		return 0, err
	}
	return logL, nil
}
