package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
)

// nodeTask processes one node with a scratch buffer of scratchLen*T floats.
type nodeTask func(v int, scratch []float64) error

// runLevel applies fn to every node of one level using up to workers
// goroutines. Cancellation is observed before the level starts and after
// it finishes; a started level always runs to completion or first error.
func (w *workspace) runLevel(ctx context.Context, workers int, nodes []int, fn nodeTask) error {
	if err := ctx.Err(); err != nil {
		return bterrors.Wrap(bterrors.ErrCodeCanceled, err, "run canceled")
	}

	if workers == 1 || len(nodes) == 1 {
		if err := w.runInline(nodes, fn); err != nil {
			return err
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, v := range nodes {
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				buf := w.getScratch()
				defer w.putScratch(buf)
				return fn(v, buf)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return bterrors.Wrap(bterrors.ErrCodeCanceled, err, "run canceled")
	}
	return nil
}

func (w *workspace) runInline(nodes []int, fn nodeTask) error {
	buf := w.getScratch()
	defer w.putScratch(buf)
	for _, v := range nodes {
		if err := fn(v, buf); err != nil {
			return err
		}
	}
	return nil
}
