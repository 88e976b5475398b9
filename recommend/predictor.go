// Package recommend implements the memory-based collaborative-filtering
// path: a predictor that computes the full pairwise similarity matrix
// of an interaction matrix once during Fit and derives weighted-average
// play-count predictions and ranked recommendation lists from it.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/core/model"
	"github.com/recsys-go/memrec/dataset"
	"github.com/recsys-go/memrec/pkg/errors"
	"github.com/recsys-go/memrec/pkg/log"
	"github.com/recsys-go/memrec/preprocessing"
	"github.com/recsys-go/memrec/similarity"
)

// Predictor is a memory-based collaborative-filtering model. Fit stores
// the interaction matrix and its pairwise similarity matrix; Predict
// computes similarity-weighted averages of observed play counts.
type Predictor struct {
	model.BaseEstimator

	// Hyperparameters.
	metric    similarity.Metric
	userBased bool
	normalize bool

	// Learned state.
	users   []string
	artists []string
	ratings *mat.Dense    // users × artists
	sim     *mat.SymDense // over users (user-based) or artists (item-based)

	userIndex   map[string]int
	artistIndex map[string]int
}

// NewPredictor creates a Predictor. The defaults are item-based cosine
// similarity without normalization, the configuration of the classic
// artist-to-artist recommender.
func NewPredictor(options ...Option) *Predictor {
	p := &Predictor{
		metric:    similarity.MetricCosine,
		userBased: false,
		normalize: false,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Fit computes and stores the pairwise similarity matrix of the
// interactions. Item-based models compare artist columns, user-based
// models compare user rows.
func (p *Predictor) Fit(ia *dataset.Interactions) (err error) {
	defer errors.Recover(&err, "Predictor.Fit")

	rows, cols := ia.Shape()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("Predictor.Fit", "empty data", errors.ErrEmptyData)
	}

	start := time.Now()

	p.users = append([]string(nil), ia.Users()...)
	p.artists = append([]string(nil), ia.Artists()...)

	var ratings mat.Dense
	ratings.CloneFrom(ia.Matrix())
	p.ratings = &ratings

	var axis mat.Matrix
	if p.userBased {
		axis = p.ratings
	} else {
		axis = ia.ArtistUserMatrix()
	}

	if p.normalize {
		centerer := preprocessing.NewMeanCenterer()
		centered, cerr := centerer.FitTransform(axis)
		if cerr != nil {
			return errors.Wrap(cerr, "Predictor.Fit: normalizing")
		}
		axis = centered
	}

	sim, serr := similarity.Pairwise(p.metric, axis)
	if serr != nil {
		return errors.Wrap(serr, "Predictor.Fit: computing similarity")
	}
	p.sim = sim
	p.userIndex = nil
	p.artistIndex = nil

	p.SetFitted()

	n, _ := sim.Dims()
	log.GetLoggerWithName("recommend").Info("predictor fitted",
		log.ModelNameKey, "Predictor",
		log.OperationKey, log.OperationFit,
		log.MetricKey, p.metric.String(),
		log.UserBasedKey, p.userBased,
		log.UsersKey, rows,
		log.ArtistsKey, cols,
		log.NeighborsKey, n,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (p *Predictor) ensureIndex() {
	if p.userIndex != nil {
		return
	}
	p.userIndex = make(map[string]int, len(p.users))
	for i, u := range p.users {
		p.userIndex[u] = i
	}
	p.artistIndex = make(map[string]int, len(p.artists))
	for j, a := range p.artists {
		p.artistIndex[a] = j
	}
}

// Predict estimates the play count for a (user, artist) pair as the
// similarity-weighted average of the user's observed play counts over
// neighboring artists (item-based) or of neighboring users' play counts
// for the artist (user-based). The target itself and unobserved entries
// are excluded. When no neighbor carries any similarity mass the
// prediction falls back to the observed mean and a ColdStartWarning is
// raised.
func (p *Predictor) Predict(userID, artist string) (float64, error) {
	if !p.IsFitted() {
		return 0, errors.NewNotFittedError("Predictor", "Predict")
	}
	p.ensureIndex()

	u, ok := p.userIndex[userID]
	if !ok {
		return 0, errors.NewUnknownIDError("Predictor.Predict", "user", userID)
	}
	a, ok := p.artistIndex[artist]
	if !ok {
		return 0, errors.NewUnknownIDError("Predictor.Predict", "artist", artist)
	}

	var num, den float64
	if p.userBased {
		// Neighbors are other users who played this artist.
		for v := range p.users {
			if v == u {
				continue
			}
			r := p.ratings.At(v, a)
			if r == 0 {
				continue
			}
			s := p.sim.At(u, v)
			num += s * r
			den += math.Abs(s)
		}
	} else {
		// Neighbors are other artists this user played.
		for j := range p.artists {
			if j == a {
				continue
			}
			r := p.ratings.At(u, j)
			if r == 0 {
				continue
			}
			s := p.sim.At(a, j)
			num += s * r
			den += math.Abs(s)
		}
	}

	if den == 0 {
		fallback := p.fallbackMean(u, a)
		errors.Warn(errors.NewColdStartWarning("Predictor", userID, artist, fallback))
		return fallback, nil
	}

	pred := errors.SafeDivide(num, den)
	if err := errors.CheckScalar("Predictor.Predict", pred); err != nil {
		return 0, err
	}
	return pred, nil
}

// fallbackMean returns the observed mean of the user's plays
// (item-based) or of the artist's plays (user-based); 0 when nothing
// was observed at all.
func (p *Predictor) fallbackMean(u, a int) float64 {
	var sum float64
	var n int
	if p.userBased {
		for i := range p.users {
			if r := p.ratings.At(i, a); r != 0 {
				sum += r
				n++
			}
		}
	} else {
		for j := range p.artists {
			if r := p.ratings.At(u, j); r != 0 {
				sum += r
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// PredictAll computes the dense prediction matrix with the textbook
// matrix formula: user-based P = S·R normalized by the similarity mass
// per user, item-based P = R·S normalized by the similarity mass per
// artist. Unlike Predict, the formula keeps the self-similarity term,
// which is exactly how the weighted-average equations are usually
// written out.
func (p *Predictor) PredictAll() (*mat.Dense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Predictor", "PredictAll")
	}

	rows := len(p.users)
	cols := len(p.artists)
	out := mat.NewDense(rows, cols, nil)

	if p.userBased {
		// P(u, i) = Σ_v S(u, v)·R(v, i) / Σ_v |S(u, v)|
		var prod mat.Dense
		prod.Mul(p.sim, p.ratings)
		for u := 0; u < rows; u++ {
			var mass float64
			for v := 0; v < rows; v++ {
				mass += math.Abs(p.sim.At(u, v))
			}
			for i := 0; i < cols; i++ {
				out.Set(u, i, errors.SafeDivide(prod.At(u, i), mass))
			}
		}
	} else {
		// P(u, i) = Σ_j R(u, j)·S(j, i) / Σ_j |S(j, i)|
		var prod mat.Dense
		prod.Mul(p.ratings, p.sim)
		for i := 0; i < cols; i++ {
			var mass float64
			for j := 0; j < cols; j++ {
				mass += math.Abs(p.sim.At(i, j))
			}
			for u := 0; u < rows; u++ {
				out.Set(u, i, errors.SafeDivide(prod.At(u, i), mass))
			}
		}
	}

	if err := errors.CheckMatrix("Predictor.PredictAll", out, rows, cols); err != nil {
		return nil, err
	}
	return out, nil
}

// TopN returns up to n artist recommendations for the user, ordered by
// descending predicted play count. Artists the user already played are
// excluded.
func (p *Predictor) TopN(userID string, n int) ([]model.Recommendation, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Predictor", "TopN")
	}
	if n <= 0 {
		return nil, errors.NewValidationError("n", "must be positive", n)
	}
	p.ensureIndex()

	u, ok := p.userIndex[userID]
	if !ok {
		return nil, errors.NewUnknownIDError("Predictor.TopN", "user", userID)
	}

	recs := make([]model.Recommendation, 0, len(p.artists))
	for j, artist := range p.artists {
		if p.ratings.At(u, j) != 0 {
			continue // already played
		}
		score, err := p.Predict(userID, artist)
		if err != nil {
			return nil, err
		}
		recs = append(recs, model.Recommendation{ID: artist, Score: score})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ID < recs[j].ID
	})

	if n < len(recs) {
		recs = recs[:n]
	}

	log.GetLoggerWithName("recommend").Debug("top-n computed",
		log.OperationKey, log.OperationTopN,
		log.TopNKey, len(recs),
	)
	return recs, nil
}

// SimilarArtists returns the n artists most similar to the given one.
// Only available on item-based models.
func (p *Predictor) SimilarArtists(artist string, n int) ([]model.Recommendation, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Predictor", "SimilarArtists")
	}
	if p.userBased {
		return nil, errors.NewValueError("Predictor.SimilarArtists", "model is user-based; similarity is over users")
	}
	p.ensureIndex()

	a, ok := p.artistIndex[artist]
	if !ok {
		return nil, errors.NewUnknownIDError("Predictor.SimilarArtists", "artist", artist)
	}
	return p.neighborsOf(a, p.artists, n), nil
}

// SimilarUsers returns the n users most similar to the given one. Only
// available on user-based models.
func (p *Predictor) SimilarUsers(userID string, n int) ([]model.Recommendation, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Predictor", "SimilarUsers")
	}
	if !p.userBased {
		return nil, errors.NewValueError("Predictor.SimilarUsers", "model is item-based; similarity is over artists")
	}
	p.ensureIndex()

	u, ok := p.userIndex[userID]
	if !ok {
		return nil, errors.NewUnknownIDError("Predictor.SimilarUsers", "user", userID)
	}
	return p.neighborsOf(u, p.users, n), nil
}

func (p *Predictor) neighborsOf(idx int, labels []string, n int) []model.Recommendation {
	recs := make([]model.Recommendation, 0, len(labels)-1)
	for i, label := range labels {
		if i == idx {
			continue
		}
		recs = append(recs, model.Recommendation{ID: label, Score: p.sim.At(idx, i)})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ID < recs[j].ID
	})
	if n > 0 && n < len(recs) {
		recs = recs[:n]
	}
	return recs
}

// Similarity returns the fitted pairwise similarity matrix. Rows and
// columns are users for user-based models, artists otherwise.
func (p *Predictor) Similarity() (*mat.SymDense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Predictor", "Similarity")
	}
	return p.sim, nil
}

// GetParams returns the model's hyperparameters.
func (p *Predictor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"metric":     p.metric.String(),
		"user_based": p.userBased,
		"normalize":  p.normalize,
	}
}

// String returns the model's string representation.
func (p *Predictor) String() string {
	if !p.IsFitted() {
		return fmt.Sprintf("Predictor(metric=%s, user_based=%t)", p.metric, p.userBased)
	}
	return fmt.Sprintf("Predictor(metric=%s, user_based=%t, n_users=%d, n_artists=%d)",
		p.metric, p.userBased, len(p.users), len(p.artists))
}
