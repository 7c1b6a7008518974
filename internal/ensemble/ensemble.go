// Package ensemble scores flattened feature vectors against a trained
// tree ensemble and derives a bounded confidence from inter-member
// disagreement.
package ensemble

import (
	"fmt"
	"math"

	"github.com/yourusername/gridcast/internal/features"
	"github.com/yourusername/gridcast/internal/models"
)

// Regressor is one invokable member of a trained ensemble.
type Regressor interface {
	Predict(vector features.FlatVector) (float64, error)
}

// Ensemble is a collection of regressors scored together. Members are
// individually trained; the ensemble owns no shared state.
type Ensemble []Regressor

// Score is the outcome of scoring one vector against an ensemble.
type Score struct {
	Mean       float64
	StdDev     float64
	Confidence float64
}

// ScoreWithConfidence runs every member against the vector and reduces
// the member predictions to a mean, a population standard deviation, and
// a confidence in (0, 1):
//
//	confidence = 1 - stdDev/(stdDev + 1)
//
// Full agreement yields confidence 1; disagreement decays it smoothly
// toward 0. A single member failure invalidates the whole call.
func ScoreWithConfidence(ens Ensemble, vector features.FlatVector) (Score, error) {
	if len(ens) == 0 {
		return Score{}, fmt.Errorf("%w: ensemble has no members", models.ErrEnsembleScoring)
	}

	predictions := make([]float64, len(ens))
	for i, member := range ens {
		pred, err := member.Predict(vector)
		if err != nil {
			return Score{}, fmt.Errorf("%w: member %d: %v", models.ErrEnsembleScoring, i, err)
		}
		predictions[i] = pred
	}

	mean := average(predictions)
	sd := stdDev(predictions, mean)

	return Score{
		Mean:       mean,
		StdDev:     sd,
		Confidence: 1 - sd/(sd+1),
	}, nil
}

func average(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64, mean float64) float64 {
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}
