package recommend

import "github.com/recsys-go/memrec/similarity"

// Option configures a Predictor.
type Option func(*Predictor)

// WithMetric sets the similarity metric. Default is cosine.
func WithMetric(m similarity.Metric) Option {
	return func(p *Predictor) {
		p.metric = m
	}
}

// WithUserBased switches between user-based similarity (true) and
// item-based similarity (false, the default). Item-based compares
// artists by their listener columns; user-based compares users by
// their play-count rows.
func WithUserBased(userBased bool) Option {
	return func(p *Predictor) {
		p.userBased = userBased
	}
}

// WithNormalize enables mean-centering of the similarity axis before
// the similarity matrix is computed. Predictions still use the raw
// play counts. Default is off.
func WithNormalize(normalize bool) Option {
	return func(p *Predictor) {
		p.normalize = normalize
	}
}
