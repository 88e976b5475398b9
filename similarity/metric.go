// Package similarity provides the vector similarity kernels and the
// pairwise similarity matrices used by the memory-based recommenders.
package similarity

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/pkg/errors"
)

// Metric identifies a similarity kernel.
type Metric int

const (
	// MetricCosine is cosine similarity over the full vectors, the
	// standard choice for play-count data.
	MetricCosine Metric = iota

	// MetricPearson is Pearson correlation, mean-centered over the
	// co-observed support only.
	MetricPearson

	// MetricJaccard is the Jaccard index of the nonzero supports. Play
	// counts are ignored, only presence matters.
	MetricJaccard
)

// String returns the metric name.
func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "cosine"
	case MetricPearson:
		return "pearson"
	case MetricJaccard:
		return "jaccard"
	default:
		return "unknown"
	}
}

// ParseMetric converts a metric name to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "cosine":
		return MetricCosine, nil
	case "pearson":
		return MetricPearson, nil
	case "jaccard":
		return MetricJaccard, nil
	default:
		return 0, errors.NewValidationError("metric", "must be one of cosine, pearson, jaccard", s)
	}
}

// Cosine computes the cosine similarity between two vectors. Zero-norm
// vectors have similarity 0 rather than NaN.
func Cosine(a, b mat.Vector) (float64, error) {
	if a.Len() == 0 {
		return 0, errors.NewValueError("Cosine", "empty vector")
	}
	if a.Len() != b.Len() {
		return 0, errors.NewDimensionError("Cosine", a.Len(), b.Len(), 0)
	}
	return cosineSlice(vecSlice(a), vecSlice(b)), nil
}

// Pearson computes the Pearson correlation between two vectors over
// their co-observed (both nonzero) support. Fewer than two co-observed
// entries yields 0, matching common collaborative-filtering practice.
func Pearson(a, b mat.Vector) (float64, error) {
	if a.Len() == 0 {
		return 0, errors.NewValueError("Pearson", "empty vector")
	}
	if a.Len() != b.Len() {
		return 0, errors.NewDimensionError("Pearson", a.Len(), b.Len(), 0)
	}
	return pearsonSlice(vecSlice(a), vecSlice(b)), nil
}

// Jaccard computes the Jaccard index of the nonzero supports of two
// vectors. Two empty supports yield 0.
func Jaccard(a, b mat.Vector) (float64, error) {
	if a.Len() == 0 {
		return 0, errors.NewValueError("Jaccard", "empty vector")
	}
	if a.Len() != b.Len() {
		return 0, errors.NewDimensionError("Jaccard", a.Len(), b.Len(), 0)
	}
	return jaccardSlice(vecSlice(a), vecSlice(b)), nil
}

func vecSlice(v mat.Vector) []float64 {
	if raw, ok := v.(mat.RawVectorer); ok {
		rv := raw.RawVector()
		if rv.Inc == 1 {
			return rv.Data
		}
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func cosineSlice(a, b []float64) float64 {
	dot := floats.Dot(a, b)
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

func pearsonSlice(a, b []float64) float64 {
	// Collect the co-observed support.
	common := 0
	var sumA, sumB float64
	for i := range a {
		if a[i] != 0 && b[i] != 0 {
			common++
			sumA += a[i]
			sumB += b[i]
		}
	}
	if common < 2 {
		return 0
	}
	meanA := sumA / float64(common)
	meanB := sumB / float64(common)

	var num, denA, denB float64
	for i := range a {
		if a[i] == 0 || b[i] == 0 {
			continue
		}
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		denA += da * da
		denB += db * db
	}
	if denA == 0 || denB == 0 {
		return 0
	}
	return num / (math.Sqrt(denA) * math.Sqrt(denB))
}

func jaccardSlice(a, b []float64) float64 {
	inter, union := 0, 0
	for i := range a {
		switch {
		case a[i] != 0 && b[i] != 0:
			inter++
			union++
		case a[i] != 0 || b[i] != 0:
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func kernel(m Metric) func(a, b []float64) float64 {
	switch m {
	case MetricPearson:
		return pearsonSlice
	case MetricJaccard:
		return jaccardSlice
	default:
		return cosineSlice
	}
}
