package recommend

import (
	"bytes"
	"encoding/gob"

	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/core/model"
	"github.com/recsys-go/memrec/pkg/errors"
	"github.com/recsys-go/memrec/similarity"
)

// predictorState is the gob-encodable snapshot of a fitted Predictor.
// gonum matrices and unexported fields do not survive gob directly, so
// the state is flattened to raw slices and rebuilt on decode.
type predictorState struct {
	Metric    int
	UserBased bool
	Normalize bool
	Users     []string
	Artists   []string
	Ratings   []float64 // len(Users) × len(Artists), row-major
	Sim       []float64 // SimDim × SimDim, row-major
	SimDim    int
}

// Save writes the fitted model to a file.
func (p *Predictor) Save(path string) error {
	return model.SaveModel(p, path)
}

// Load restores a model saved with Save.
func (p *Predictor) Load(path string) error {
	return model.LoadModel(p, path)
}

// GobEncode serializes the fitted model state.
func (p *Predictor) GobEncode() ([]byte, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Predictor", "GobEncode")
	}

	n, _ := p.sim.Dims()
	state := predictorState{
		Metric:    int(p.metric),
		UserBased: p.userBased,
		Normalize: p.normalize,
		Users:     p.users,
		Artists:   p.artists,
		Ratings:   append([]float64(nil), p.ratings.RawMatrix().Data...),
		Sim:       make([]float64, n*n),
		SimDim:    n,
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			state.Sim[i*n+j] = p.sim.At(i, j)
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, errors.Wrap(err, "Predictor.GobEncode")
	}
	return buf.Bytes(), nil
}

// GobDecode restores a fitted model from its serialized state.
func (p *Predictor) GobDecode(data []byte) error {
	var state predictorState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return errors.Wrap(err, "Predictor.GobDecode")
	}

	p.metric = similarity.Metric(state.Metric)
	p.userBased = state.UserBased
	p.normalize = state.Normalize
	p.users = state.Users
	p.artists = state.Artists
	p.ratings = mat.NewDense(len(state.Users), len(state.Artists), state.Ratings)
	p.sim = mat.NewSymDense(state.SimDim, state.Sim)
	p.userIndex = nil
	p.artistIndex = nil

	p.SetFitted()
	return nil
}
