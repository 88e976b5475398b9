// Package log defines standard attribute keys for recommender operations.
//
// Using these keys consistently enables structured analysis of the
// loading → filtering → pivoting → similarity → prediction pipeline.
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.users") so log processors can group and filter on them.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of model.
	// Examples: "Predictor", "KNNRecommender", "MeanCenterer"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a model instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "top_n", "score"
	OperationKey = "rec.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "dataset", "similarity", "recommend", "neighbors"
	ComponentKey = "rec.component"
)

// Data shape and characteristics.
const (
	// RowsKey is the number of rows in a table being processed.
	RowsKey = "data.rows"

	// UsersKey is the number of distinct users.
	UsersKey = "data.users"

	// ArtistsKey is the number of distinct artists.
	ArtistsKey = "data.artists"

	// SkippedRowsKey counts malformed rows dropped during loading.
	SkippedRowsKey = "data.skipped_rows"

	// SparsityKey is the fraction of zero entries in an interaction matrix.
	SparsityKey = "data.sparsity"

	// SourceKey names the input file or reader a table came from.
	SourceKey = "data.source"
)

// Similarity and neighborhood context.
const (
	// MetricKey names the similarity metric ("cosine", "pearson", "jaccard").
	MetricKey = "sim.metric"

	// NeighborsKey is the number of neighbors considered (k).
	NeighborsKey = "sim.neighbors"

	// UserBasedKey reports whether similarity is computed over users (true)
	// or artists (false).
	UserBasedKey = "sim.user_based"
)

// Performance metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// RMSEKey records root mean squared error from an evaluation.
	RMSEKey = "metrics.rmse"

	// MAEKey records mean absolute error from an evaluation.
	MAEKey = "metrics.mae"

	// PrecisionKey records precision@k from a ranking evaluation.
	PrecisionKey = "metrics.precision"
)

// Prediction output context.
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"

	// TopNKey indicates the length of a recommendation list.
	TopNKey = "preds.top_n"
)

// Error and warning context.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "NOT_FITTED", "UNKNOWN_ID"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants for common operations.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationTopN      = "top_n"
	OperationScore     = "score"
	OperationLoad      = "load"
	OperationPivot     = "pivot"

	// Standard error codes
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorUnknownID         = "UNKNOWN_ID"
	ErrorInvalidInput      = "INVALID_INPUT"
)
