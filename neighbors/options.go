package neighbors

import "github.com/recsys-go/memrec/similarity"

// Option configures a KNNRecommender.
type Option func(*KNNRecommender)

// WithK sets the maximum number of neighbors to aggregate over.
// Default is 40.
func WithK(k int) Option {
	return func(r *KNNRecommender) {
		r.k = k
	}
}

// WithMinK sets the minimum number of neighbors required for a
// similarity-weighted prediction. Below this the prediction falls back
// to the global mean. Default is 1.
func WithMinK(minK int) Option {
	return func(r *KNNRecommender) {
		r.minK = minK
	}
}

// WithMetric sets the similarity metric. Default is cosine.
func WithMetric(m similarity.Metric) Option {
	return func(r *KNNRecommender) {
		r.metric = m
	}
}

// WithUserBased switches between user-based similarity (true, the
// default) and item-based similarity (false).
func WithUserBased(userBased bool) Option {
	return func(r *KNNRecommender) {
		r.userBased = userBased
	}
}
