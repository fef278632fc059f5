// Package grid discretizes the time axis shared by every per-node vector.
//
// Time runs from the process origin at 0 to the present at 1. A grid of
// size T has points (i+1)/T for i in [0, T): index 0 lies one step after
// the origin and index T-1 is the present, where leaves are sampled.
package grid

import (
	bterrors "github.com/matzehuels/branchtime/pkg/errors"
)

// Grid is an immutable uniform time grid. The zero value has no points.
type Grid struct {
	size int
}

// New returns a grid with t points. It fails with INVALID_PARAMETER when
// t is not positive.
func New(t int) (Grid, error) {
	if t <= 0 {
		return Grid{}, bterrors.New(bterrors.ErrCodeInvalidParameter, "grid size must be positive, got %d", t)
	}
	return Grid{size: t}, nil
}

// Len returns the number of grid points.
func (g Grid) Len() int { return g.size }

// At returns the time of point i.
func (g Grid) At(i int) float64 { return float64(i+1) / float64(g.size) }

// Points returns every grid time in increasing order.
func (g Grid) Points() []float64 {
	pts := make([]float64, g.size)
	for i := range pts {
		pts[i] = g.At(i)
	}
	return pts
}

// Spacing returns the distance between neighbouring points, 1/T.
func (g Grid) Spacing() float64 { return 1 / float64(g.size) }

// Present returns the index of the present, T-1.
func (g Grid) Present() int { return g.size - 1 }

// Lag returns the elapsed time between points i and j, (j-i)/T.
// Index -1 stands for the origin.
func (g Grid) Lag(i, j int) float64 { return float64(j-i) / float64(g.size) }
