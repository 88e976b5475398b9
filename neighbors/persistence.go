package neighbors

import (
	"bytes"
	"encoding/gob"

	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/core/model"
	"github.com/recsys-go/memrec/pkg/errors"
	"github.com/recsys-go/memrec/similarity"
)

// knnState is the gob-encodable snapshot of a fitted KNNRecommender.
type knnState struct {
	K          int
	MinK       int
	Metric     int
	UserBased  bool
	Rows       int
	Cols       int
	Ratings    []float64 // Rows × Cols, row-major
	Sim        []float64 // SimDim × SimDim, row-major
	SimDim     int
	GlobalMean float64
}

// Save writes the fitted model to a file.
func (r *KNNRecommender) Save(path string) error {
	return model.SaveModel(r, path)
}

// Load restores a model saved with Save.
func (r *KNNRecommender) Load(path string) error {
	return model.LoadModel(r, path)
}

// GobEncode serializes the fitted model state.
func (r *KNNRecommender) GobEncode() ([]byte, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("KNNRecommender", "GobEncode")
	}

	rows, cols := r.ratings.Dims()
	n, _ := r.sim.Dims()
	state := knnState{
		K:          r.k,
		MinK:       r.minK,
		Metric:     int(r.metric),
		UserBased:  r.userBased,
		Rows:       rows,
		Cols:       cols,
		Ratings:    append([]float64(nil), r.ratings.RawMatrix().Data...),
		Sim:        make([]float64, n*n),
		SimDim:     n,
		GlobalMean: r.globalMean,
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			state.Sim[i*n+j] = r.sim.At(i, j)
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, errors.Wrap(err, "KNNRecommender.GobEncode")
	}
	return buf.Bytes(), nil
}

// GobDecode restores a fitted model from its serialized state.
func (r *KNNRecommender) GobDecode(data []byte) error {
	var state knnState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return errors.Wrap(err, "KNNRecommender.GobDecode")
	}

	r.k = state.K
	r.minK = state.MinK
	r.metric = similarity.Metric(state.Metric)
	r.userBased = state.UserBased
	r.ratings = mat.NewDense(state.Rows, state.Cols, state.Ratings)
	r.sim = mat.NewSymDense(state.SimDim, state.Sim)
	r.globalMean = state.GlobalMean

	r.SetFitted()
	return nil
}
