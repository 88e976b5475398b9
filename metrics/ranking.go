package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/pkg/errors"
)

// scoredPair couples a predicted score with the true relevance of the
// item it ranks.
type scoredPair struct {
	score     float64
	relevance float64
}

// rankedPairs pairs up predictions and relevances and sorts by
// descending predicted score. Ties keep their input order.
func rankedPairs(yTrue, yPred *mat.VecDense) []scoredPair {
	n := yTrue.Len()
	pairs := make([]scoredPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = scoredPair{score: yPred.AtVec(i), relevance: yTrue.AtVec(i)}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})
	return pairs
}

// dcg computes discounted cumulative gain over the first k pairs using
// the exponential gain (2^rel − 1) / log2(rank + 2). The pairs must
// already be in ranked order.
func dcg(pairs []scoredPair, k int) float64 {
	if k > len(pairs) {
		k = len(pairs)
	}
	var sum float64
	for i := 0; i < k; i++ {
		gain := math.Pow(2, pairs[i].relevance) - 1
		sum += gain / math.Log2(float64(i)+2)
	}
	return sum
}

// NDCG computes normalized discounted cumulative gain at cutoff k.
// k = -1 evaluates the full list. Relevance must be nonnegative. When
// the ideal DCG is zero (no relevant items at all) the metric is
// ill-defined and 0 is returned with an UndefinedMetricWarning.
func NDCG(yTrue, yPred *mat.VecDense, k int) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("NDCG", "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("NDCG", n, yPred.Len(), 0)
	}
	if k == 0 || k < -1 {
		return 0, errors.NewValidationError("k", "must be positive or -1 for the full list", k)
	}
	if k == -1 {
		k = n
	}

	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) < 0 {
			return 0, errors.NewValueError("NDCG", "relevance must be nonnegative")
		}
	}

	pairs := rankedPairs(yTrue, yPred)

	ideal := make([]scoredPair, n)
	copy(ideal, pairs)
	sort.SliceStable(ideal, func(i, j int) bool {
		return ideal[i].relevance > ideal[j].relevance
	})

	idcg := dcg(ideal, k)
	if idcg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("NDCG", "no relevant items", 0))
		return 0, nil
	}
	return dcg(pairs, k) / idcg, nil
}

// NDCGMatrix computes NDCG over matrix inputs. Only the first column
// of each matrix is used.
func NDCGMatrix(yTrue, yPred mat.Matrix, k int) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("NDCGMatrix", "nil matrix")
	}
	rTrue, cTrue := yTrue.Dims()
	rPred, _ := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("NDCGMatrix", "empty matrix")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("NDCGMatrix", rTrue, rPred, 0)
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}
	return NDCG(yTrueVec, yPredVec, k)
}

// checkBinary validates that relevance labels are 0/1.
func checkBinary(op string, yTrue *mat.VecDense) error {
	for i := 0; i < yTrue.Len(); i++ {
		if v := yTrue.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "relevance labels must be binary (0 or 1)")
		}
	}
	return nil
}

// AveragePrecision computes AP over binary relevance labels: the mean
// of precision@i taken at every rank i that holds a relevant item.
// Zero relevant items yields 0 with an UndefinedMetricWarning.
func AveragePrecision(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("AveragePrecision", "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AveragePrecision", n, yPred.Len(), 0)
	}
	if err := checkBinary("AveragePrecision", yTrue); err != nil {
		return 0, err
	}

	pairs := rankedPairs(yTrue, yPred)

	var sum float64
	relevantSeen := 0
	for i, p := range pairs {
		if p.relevance == 1 {
			relevantSeen++
			sum += float64(relevantSeen) / float64(i+1)
		}
	}
	if relevantSeen == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AveragePrecision", "no relevant items", 0))
		return 0, nil
	}
	return sum / float64(relevantSeen), nil
}

// MeanAveragePrecision computes the mean of AveragePrecision over a
// list of queries.
func MeanAveragePrecision(yTrueList, yPredList []*mat.VecDense) (float64, error) {
	if len(yTrueList) == 0 {
		return 0, errors.NewValueError("MeanAveragePrecision", "empty query list")
	}
	if len(yTrueList) != len(yPredList) {
		return 0, errors.NewDimensionError("MeanAveragePrecision", len(yTrueList), len(yPredList), 0)
	}

	var sum float64
	for i := range yTrueList {
		ap, err := AveragePrecision(yTrueList[i], yPredList[i])
		if err != nil {
			return 0, errors.Wrapf(err, "MeanAveragePrecision: query %d", i)
		}
		sum += ap
	}
	return sum / float64(len(yTrueList)), nil
}

// PrecisionAtK computes the fraction of the k highest-scored items that
// are relevant. Relevance labels must be binary.
func PrecisionAtK(yTrue, yPred *mat.VecDense, k int) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("PrecisionAtK", "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("PrecisionAtK", n, yPred.Len(), 0)
	}
	if k < 1 {
		return 0, errors.NewValidationError("k", "must be at least 1", k)
	}
	if err := checkBinary("PrecisionAtK", yTrue); err != nil {
		return 0, err
	}

	pairs := rankedPairs(yTrue, yPred)
	if k > len(pairs) {
		k = len(pairs)
	}
	hits := 0
	for i := 0; i < k; i++ {
		if pairs[i].relevance == 1 {
			hits++
		}
	}
	return float64(hits) / float64(k), nil
}

// RecallAtK computes the fraction of relevant items recovered within
// the k highest-scored items. Zero relevant items yields 0 with an
// UndefinedMetricWarning.
func RecallAtK(yTrue, yPred *mat.VecDense, k int) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("RecallAtK", "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("RecallAtK", n, yPred.Len(), 0)
	}
	if k < 1 {
		return 0, errors.NewValidationError("k", "must be at least 1", k)
	}
	if err := checkBinary("RecallAtK", yTrue); err != nil {
		return 0, err
	}

	totalRelevant := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			totalRelevant++
		}
	}
	if totalRelevant == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("RecallAtK", "no relevant items", 0))
		return 0, nil
	}

	pairs := rankedPairs(yTrue, yPred)
	if k > len(pairs) {
		k = len(pairs)
	}
	hits := 0
	for i := 0; i < k; i++ {
		if pairs[i].relevance == 1 {
			hits++
		}
	}
	return float64(hits) / float64(totalRelevant), nil
}

// HitRateAtK reports whether any relevant item appears within the k
// highest-scored items: 1 for a hit, 0 otherwise.
func HitRateAtK(yTrue, yPred *mat.VecDense, k int) (float64, error) {
	precision, err := PrecisionAtK(yTrue, yPred, k)
	if err != nil {
		return 0, err
	}
	if precision > 0 {
		return 1, nil
	}
	return 0, nil
}
