// Package preprocessing provides interaction-matrix transformations
// applied before similarity computation.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/core/model"
	"github.com/recsys-go/memrec/pkg/errors"
)

// MeanCenterer centers each row of an interaction matrix by subtracting
// the row mean computed over the observed (nonzero) entries only. Zero
// entries stay zero: they encode missing observations, not ratings of
// zero. Centering users before user-based Pearson similarity is the
// standard normalization in memory-based collaborative filtering.
type MeanCenterer struct {
	model.BaseEstimator

	// Means holds the per-row observed means learned by Fit.
	Means []float64

	// NRows is the number of rows seen during Fit.
	NRows int

	// NCols is the number of columns seen during Fit.
	NCols int
}

// NewMeanCenterer creates a new MeanCenterer.
func NewMeanCenterer() *MeanCenterer {
	return &MeanCenterer{}
}

// Fit learns the per-row observed means.
func (c *MeanCenterer) Fit(X mat.Matrix) error {
	r, cols := X.Dims()
	if r == 0 || cols == 0 {
		return errors.NewModelError("MeanCenterer.Fit", "empty data", errors.ErrEmptyData)
	}

	c.NRows = r
	c.NCols = cols
	c.Means = make([]float64, r)

	for i := 0; i < r; i++ {
		sum := 0.0
		observed := 0
		for j := 0; j < cols; j++ {
			if v := X.At(i, j); v != 0 {
				sum += v
				observed++
			}
		}
		if observed > 0 {
			c.Means[i] = sum / float64(observed)
		}
	}

	c.SetFitted()
	return nil
}

// Transform subtracts the learned row means from the observed entries.
func (c *MeanCenterer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("MeanCenterer", "Transform")
	}

	r, cols := X.Dims()
	if r != c.NRows {
		return nil, errors.NewDimensionError("MeanCenterer.Transform", c.NRows, r, 0)
	}
	if cols != c.NCols {
		return nil, errors.NewDimensionError("MeanCenterer.Transform", c.NCols, cols, 1)
	}

	result := mat.NewDense(r, cols, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			if v := X.At(i, j); v != 0 {
				result.Set(i, j, v-c.Means[i])
			}
		}
	}
	return result, nil
}

// FitTransform runs Fit and Transform in one step.
func (c *MeanCenterer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := c.Fit(X); err != nil {
		return nil, err
	}
	return c.Transform(X)
}

// InverseTransform adds the learned row means back to nonzero entries.
// Entries that were centered exactly to zero are indistinguishable from
// missing observations and stay zero.
func (c *MeanCenterer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("MeanCenterer", "InverseTransform")
	}

	r, cols := X.Dims()
	if r != c.NRows {
		return nil, errors.NewDimensionError("MeanCenterer.InverseTransform", c.NRows, r, 0)
	}

	result := mat.NewDense(r, cols, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			if v := X.At(i, j); v != 0 {
				result.Set(i, j, v+c.Means[i])
			}
		}
	}
	return result, nil
}

// GetParams returns the transformer's parameters.
func (c *MeanCenterer) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

// String returns the transformer's string representation.
func (c *MeanCenterer) String() string {
	if !c.IsFitted() {
		return "MeanCenterer()"
	}
	return fmt.Sprintf("MeanCenterer(n_rows=%d)", c.NRows)
}

// RowMaxScaler scales each row of an interaction matrix by its maximum
// absolute value so every entry lands in [0, 1] for nonnegative play
// counts. Rows of zeros keep scale 1.
type RowMaxScaler struct {
	model.BaseEstimator

	// Scale holds the per-row divisors learned by Fit.
	Scale []float64

	// NRows is the number of rows seen during Fit.
	NRows int

	// NCols is the number of columns seen during Fit.
	NCols int
}

// NewRowMaxScaler creates a new RowMaxScaler.
func NewRowMaxScaler() *RowMaxScaler {
	return &RowMaxScaler{}
}

// Fit learns the per-row maximum absolute values.
func (s *RowMaxScaler) Fit(X mat.Matrix) error {
	r, cols := X.Dims()
	if r == 0 || cols == 0 {
		return errors.NewModelError("RowMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NRows = r
	s.NCols = cols
	s.Scale = make([]float64, r)

	for i := 0; i < r; i++ {
		maxAbs := 0.0
		for j := 0; j < cols; j++ {
			if v := math.Abs(X.At(i, j)); v > maxAbs {
				maxAbs = v
			}
		}
		if maxAbs < 1e-12 {
			maxAbs = 1.0
		}
		s.Scale[i] = maxAbs
	}

	s.SetFitted()
	return nil
}

// Transform divides every row by its learned maximum.
func (s *RowMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("RowMaxScaler", "Transform")
	}

	r, cols := X.Dims()
	if r != s.NRows {
		return nil, errors.NewDimensionError("RowMaxScaler.Transform", s.NRows, r, 0)
	}
	if cols != s.NCols {
		return nil, errors.NewDimensionError("RowMaxScaler.Transform", s.NCols, cols, 1)
	}

	result := mat.NewDense(r, cols, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			result.Set(i, j, X.At(i, j)/s.Scale[i])
		}
	}
	return result, nil
}

// FitTransform runs Fit and Transform in one step.
func (s *RowMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform multiplies every row by its learned maximum.
func (s *RowMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("RowMaxScaler", "InverseTransform")
	}

	r, cols := X.Dims()
	if r != s.NRows {
		return nil, errors.NewDimensionError("RowMaxScaler.InverseTransform", s.NRows, r, 0)
	}

	result := mat.NewDense(r, cols, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			result.Set(i, j, X.At(i, j)*s.Scale[i])
		}
	}
	return result, nil
}

// GetParams returns the transformer's parameters.
func (s *RowMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

// String returns the transformer's string representation.
func (s *RowMaxScaler) String() string {
	if !s.IsFitted() {
		return "RowMaxScaler()"
	}
	return fmt.Sprintf("RowMaxScaler(n_rows=%d)", s.NRows)
}
