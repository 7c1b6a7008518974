package ensemble

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridcast/internal/features"
)

// stumpForest is two depth-one trees over a single feature. The first
// splits at 5 into leaves 10/20, the second at 5 into 12/22.
const stumpForest = `{
  "task": "race",
  "features": ["Car_SeasonAvgFinish"],
  "trees": [
    {
      "children_left": [1, -1, -1],
      "children_right": [2, -1, -1],
      "feature": [0, -2, -2],
      "threshold": [5.0, 0.0, 0.0],
      "value": [0.0, 10.0, 20.0]
    },
    {
      "children_left": [1, -1, -1],
      "children_right": [2, -1, -1],
      "feature": [0, -2, -2],
      "threshold": [5.0, 0.0, 0.0],
      "value": [0.0, 12.0, 22.0]
    }
  ]
}`

func TestParseForestAndPredict(t *testing.T) {
	forest, err := ParseForest([]byte(stumpForest))
	require.NoError(t, err)

	assert.Equal(t, "race", forest.Task)
	assert.Equal(t, []string{"Car_SeasonAvgFinish"}, forest.Features)

	members := forest.Members()
	require.Len(t, members, 2)

	low, err := members[0].Predict(features.FlatVector{"Car_SeasonAvgFinish": 3})
	require.NoError(t, err)
	assert.Equal(t, 10.0, low)

	// Threshold comparisons keep equality on the left branch.
	boundary, err := members[0].Predict(features.FlatVector{"Car_SeasonAvgFinish": 5})
	require.NoError(t, err)
	assert.Equal(t, 10.0, boundary)

	high, err := members[0].Predict(features.FlatVector{"Car_SeasonAvgFinish": 8})
	require.NoError(t, err)
	assert.Equal(t, 20.0, high)
}

func TestForestScoresThroughEnsemble(t *testing.T) {
	forest, err := ParseForest([]byte(stumpForest))
	require.NoError(t, err)

	score, err := ScoreWithConfidence(forest.Members(), features.FlatVector{"Car_SeasonAvgFinish": 8})
	require.NoError(t, err)

	assert.Equal(t, 21.0, score.Mean)
	assert.Equal(t, 1.0, score.StdDev)
	assert.Equal(t, 0.5, score.Confidence)
}

func TestPredictMissingFeature(t *testing.T) {
	forest, err := ParseForest([]byte(stumpForest))
	require.NoError(t, err)

	_, err = forest.Members()[0].Predict(features.FlatVector{"Some_Other_Key": 1})
	assert.Error(t, err)
}

func TestParseForestRejectsMalformedArtifacts(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{tree`},
		{"no trees", `{"task":"race","features":["a"],"trees":[]}`},
		{"no schema", `{"task":"race","features":[],"trees":[{"children_left":[-1],"children_right":[-1],"feature":[-2],"threshold":[0],"value":[1]}]}`},
		{"inconsistent arrays", `{"task":"race","features":["a"],"trees":[{"children_left":[1,-1,-1],"children_right":[2,-1],"feature":[0],"threshold":[0],"value":[0]}]}`},
		{"empty tree", `{"task":"race","features":["a"],"trees":[{"children_left":[],"children_right":[],"feature":[],"threshold":[],"value":[]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseForest([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadForest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "race_forest.json")
	require.NoError(t, os.WriteFile(path, []byte(stumpForest), 0o644))

	forest, err := LoadForest(path)
	require.NoError(t, err)
	assert.Len(t, forest.Members(), 2)

	_, err = LoadForest(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
