// Package neighbors provides the k-nearest-neighbors recommender, the
// estimator-style counterpart of the full-matrix predictor. Instead of
// averaging over every neighbor it restricts the weighted average to
// the k most similar rows that observed the target entry.
package neighbors

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/core/model"
	"github.com/recsys-go/memrec/pkg/errors"
	"github.com/recsys-go/memrec/pkg/log"
	"github.com/recsys-go/memrec/similarity"
)

// Neighbor is one entry of a neighborhood query: the index of the
// neighboring row (or column) and its similarity to the query.
type Neighbor struct {
	Index      int
	Similarity float64
}

// KNNRecommender is a basic k-nearest-neighbors collaborative-filtering
// estimator over a dense interaction matrix. Fit computes the pairwise
// similarity matrix; Predict aggregates the k most similar users (or
// artists) that observed the target entry.
type KNNRecommender struct {
	model.BaseEstimator

	// Hyperparameters.
	k         int
	minK      int
	metric    similarity.Metric
	userBased bool

	// Learned state.
	ratings    *mat.Dense
	sim        *mat.SymDense
	globalMean float64
}

// NewKNNRecommender creates a KNNRecommender with k=40, minK=1,
// user-based cosine similarity.
func NewKNNRecommender(options ...Option) *KNNRecommender {
	r := &KNNRecommender{
		k:         40,
		minK:      1,
		metric:    similarity.MetricCosine,
		userBased: true,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Fit stores the interaction matrix and computes the pairwise
// similarity matrix over users (user-based) or artists (item-based).
// X has users as rows and artists as columns.
func (r *KNNRecommender) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "KNNRecommender.Fit")

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("KNNRecommender.Fit", "empty data", errors.ErrEmptyData)
	}
	if r.k < 1 {
		return errors.NewValidationError("k", "must be at least 1", r.k)
	}
	if r.minK < 1 || r.minK > r.k {
		return errors.NewValidationError("min_k", "must be in [1, k]", r.minK)
	}

	start := time.Now()

	var ratings mat.Dense
	ratings.CloneFrom(X)
	r.ratings = &ratings

	axis := mat.Matrix(r.ratings)
	if !r.userBased {
		var t mat.Dense
		t.CloneFrom(r.ratings.T())
		axis = &t
	}

	sim, serr := similarity.Pairwise(r.metric, axis)
	if serr != nil {
		return errors.Wrap(serr, "KNNRecommender.Fit: computing similarity")
	}
	r.sim = sim

	// Global mean over observed entries, the minK fallback value.
	var sum float64
	var observed int
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := r.ratings.At(i, j); v != 0 {
				sum += v
				observed++
			}
		}
	}
	if observed > 0 {
		r.globalMean = sum / float64(observed)
	}

	r.SetFitted()

	log.GetLoggerWithName("neighbors").Info("knn recommender fitted",
		log.ModelNameKey, "KNNRecommender",
		log.OperationKey, log.OperationFit,
		log.MetricKey, r.metric.String(),
		log.UserBasedKey, r.userBased,
		log.NeighborsKey, r.k,
		log.UsersKey, rows,
		log.ArtistsKey, cols,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict estimates the entry (u, i) of the interaction matrix from the
// k most similar users that played artist i (user-based) or the k most
// similar artists user u played (item-based). When fewer than minK such
// neighbors exist the prediction falls back to the global observed mean
// and a ColdStartWarning is raised.
func (r *KNNRecommender) Predict(u, i int) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("KNNRecommender", "Predict")
	}

	rows, cols := r.ratings.Dims()
	if u < 0 || u >= rows {
		return 0, errors.NewDimensionError("KNNRecommender.Predict", rows, u, 0)
	}
	if i < 0 || i >= cols {
		return 0, errors.NewDimensionError("KNNRecommender.Predict", cols, i, 1)
	}

	candidates := r.observedNeighbors(u, i)
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].Similarity != candidates[b].Similarity {
			return candidates[a].Similarity > candidates[b].Similarity
		}
		return candidates[a].Index < candidates[b].Index
	})
	if len(candidates) > r.k {
		candidates = candidates[:r.k]
	}

	var num, den float64
	used := 0
	for _, nb := range candidates {
		if nb.Similarity <= 0 {
			continue
		}
		var rating float64
		if r.userBased {
			rating = r.ratings.At(nb.Index, i)
		} else {
			rating = r.ratings.At(u, nb.Index)
		}
		num += nb.Similarity * rating
		den += nb.Similarity
		used++
	}

	if used < r.minK || den == 0 {
		errors.Warn(errors.NewColdStartWarning("KNNRecommender",
			fmt.Sprintf("row %d", u), fmt.Sprintf("col %d", i), r.globalMean))
		return r.globalMean, nil
	}

	pred := errors.SafeDivide(num, den)
	if err := errors.CheckScalar("KNNRecommender.Predict", pred); err != nil {
		return 0, err
	}
	return pred, nil
}

// observedNeighbors collects the rows (user-based) or columns
// (item-based) with an observed entry at the target, paired with their
// similarity to the query.
func (r *KNNRecommender) observedNeighbors(u, i int) []Neighbor {
	rows, cols := r.ratings.Dims()
	var candidates []Neighbor
	if r.userBased {
		for v := 0; v < rows; v++ {
			if v == u || r.ratings.At(v, i) == 0 {
				continue
			}
			candidates = append(candidates, Neighbor{Index: v, Similarity: r.sim.At(u, v)})
		}
	} else {
		for j := 0; j < cols; j++ {
			if j == i || r.ratings.At(u, j) == 0 {
				continue
			}
			candidates = append(candidates, Neighbor{Index: j, Similarity: r.sim.At(i, j)})
		}
	}
	return candidates
}

// KNeighbors returns the k most similar rows (user-based) or columns
// (item-based) to the given index, regardless of which entries they
// observed.
func (r *KNNRecommender) KNeighbors(idx, k int) ([]Neighbor, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("KNNRecommender", "KNeighbors")
	}
	n, _ := r.sim.Dims()
	if idx < 0 || idx >= n {
		return nil, errors.NewDimensionError("KNNRecommender.KNeighbors", n, idx, 0)
	}
	if k < 1 {
		return nil, errors.NewValidationError("k", "must be at least 1", k)
	}

	neighbors := make([]Neighbor, 0, n-1)
	for j := 0; j < n; j++ {
		if j == idx {
			continue
		}
		neighbors = append(neighbors, Neighbor{Index: j, Similarity: r.sim.At(idx, j)})
	}
	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].Similarity != neighbors[b].Similarity {
			return neighbors[a].Similarity > neighbors[b].Similarity
		}
		return neighbors[a].Index < neighbors[b].Index
	})
	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// TestSet enumerates the unobserved (zero) entries of the fitted matrix
// as (row, col) pairs, the candidate set a recommendation pass scores.
func (r *KNNRecommender) TestSet() ([][2]int, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("KNNRecommender", "TestSet")
	}
	rows, cols := r.ratings.Dims()
	var pairs [][2]int
	for u := 0; u < rows; u++ {
		for i := 0; i < cols; i++ {
			if r.ratings.At(u, i) == 0 {
				pairs = append(pairs, [2]int{u, i})
			}
		}
	}
	return pairs, nil
}

// GlobalMean returns the mean of the observed entries seen during Fit.
func (r *KNNRecommender) GlobalMean() float64 {
	return r.globalMean
}

// GetParams returns the model's hyperparameters.
func (r *KNNRecommender) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"k":          r.k,
		"min_k":      r.minK,
		"metric":     r.metric.String(),
		"user_based": r.userBased,
	}
}

// String returns the model's string representation.
func (r *KNNRecommender) String() string {
	if !r.IsFitted() {
		return fmt.Sprintf("KNNRecommender(k=%d, min_k=%d, metric=%s, user_based=%t)",
			r.k, r.minK, r.metric, r.userBased)
	}
	rows, cols := r.ratings.Dims()
	return fmt.Sprintf("KNNRecommender(k=%d, min_k=%d, metric=%s, user_based=%t, n_users=%d, n_artists=%d)",
		r.k, r.minK, r.metric, r.userBased, rows, cols)
}
