// Package memrec implements memory-based collaborative filtering for
// the Last.fm listening-history dumps: loading the raw play-count and
// profile tables, pivoting them into a dense user-by-artist matrix,
// computing pairwise similarities and turning them into play-count
// predictions and ranked artist recommendations.
//
// # Pipeline
//
// The packages follow the shape of the data flow:
//
//   - dataset loads and filters the TSV dumps and pivots them into an
//     Interactions matrix
//   - preprocessing offers optional normalization of the matrix
//   - similarity provides the cosine, Pearson and Jaccard kernels and
//     the full pairwise similarity matrix
//   - recommend holds the memory-based Predictor built on the full
//     similarity matrix
//   - neighbors holds the k-nearest-neighbors estimator variant
//   - metrics and modelselection evaluate predictions on held-out
//     interactions
//
// # Quick Start
//
//	plays, err := dataset.LoadPlays("usersha1-artmbid-artname-plays.tsv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	profiles, err := dataset.LoadProfiles("usersha1-profile.tsv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	joined := plays.Join(profiles.Filter("f", "United Kingdom"))
//	joined = joined.FilterArtists(joined.TopArtists(200))
//
//	ia, err := dataset.Pivot(joined)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	model := recommend.NewPredictor()
//	if err := model.Fit(ia); err != nil {
//	    log.Fatal(err)
//	}
//	recs, err := model.TopN(ia.Users()[0], 10)
//
// # Error Handling
//
// All models return typed errors from pkg/errors (NotFittedError,
// DimensionError, UnknownIDError) carrying stack traces, and raise
// non-fatal conditions such as cold-start fallbacks as warnings
// through a configurable handler.
package memrec
