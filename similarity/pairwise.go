package similarity

import (
	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/core/parallel"
	"github.com/recsys-go/memrec/pkg/errors"
)

// Rows below this count are not worth spreading across cores.
const parallelThreshold = 64

// Pairwise computes the symmetric row-by-row similarity matrix of X.
// Entry (i, j) is the similarity between rows i and j. The diagonal is
// the self-similarity, which is 1 for any row with support.
//
// The row pairs are spread across CPU cores.
func Pairwise(metric Metric, X mat.Matrix) (*mat.SymDense, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Pairwise")
	}

	// Copy rows out once so the kernels run on contiguous slices.
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		data[i] = row
	}

	fn := kernel(metric)
	sim := mat.NewSymDense(rows, nil)

	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := i; j < rows; j++ {
				// Workers own disjoint i ranges with j >= i, so no two
				// goroutines write the same cell.
				sim.SetSym(i, j, fn(data[i], data[j]))
			}
		}
	})

	if err := errors.CheckMatrix("Pairwise", sim, rows, rows); err != nil {
		return nil, err
	}
	return sim, nil
}
