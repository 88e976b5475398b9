package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for models trained on an interaction matrix.
type Fitter interface {
	// Fit trains the model on the given matrix.
	Fit(X mat.Matrix) error
}

// Transformer is the interface for matrix-to-matrix data transformations.
type Transformer interface {
	// Fit learns the parameters required for the transformation.
	Fit(X mat.Matrix) error

	// Transform applies the transformation.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform runs Fit and Transform in one step.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer is a Transformer whose transformation can be undone.
type InverseTransformer interface {
	Transformer

	// InverseTransform applies the transformation in reverse.
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// Recommendation is a single scored entry of a ranked recommendation list.
type Recommendation struct {
	// ID is the recommended entity (an artist for item recommendations).
	ID string

	// Score is the predicted interaction strength. Higher is better.
	Score float64
}

// Predictor is the interface for models that score individual entries
// of the interaction matrix by position.
type Predictor interface {
	// Predict estimates the interaction strength at (row, col).
	Predict(row, col int) (float64, error)
}

// Recommender is the interface for models that produce ranked
// recommendation lists for a user.
type Recommender interface {
	// TopN returns up to n recommendations for the given user, ordered
	// by descending score, excluding entities the user already
	// interacted with.
	TopN(userID string, n int) ([]Recommendation, error)
}

// ParameterGetter is the interface for models that expose their
// hyperparameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	// Save saves the model to a file.
	Save(path string) error

	// Load loads the model from a file.
	Load(path string) error
}
