package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenEmitsEveryKey(t *testing.T) {
	var f RaceFeatures
	flat := f.Flatten()

	keys := RaceFeatureKeys()
	require.Len(t, flat, len(keys))
	for _, key := range keys {
		v, ok := flat[key]
		require.True(t, ok, "missing key %s", key)
		assert.Equal(t, 0.0, v)
	}
}

func TestFlattenKnownValuesSurvive(t *testing.T) {
	var f RaceFeatures
	f.Car.SeasonAvgFinish = ptr(3.5)
	f.Car.RecencyFinishBias[1] = ptr(7)
	f.Driver.PastPlacements.Experience = ptr(4)

	flat := f.Flatten()
	assert.Equal(t, 3.5, flat["Car_SeasonAvgFinish"])
	assert.Equal(t, 7.0, flat["Car_RecencyFinishBias_Past2"])
	assert.Equal(t, 4.0, flat["Driver_PastPlacements_Experience"])
	// Untouched leaves stay zero.
	assert.Equal(t, 0.0, flat["Team_Reliability_DNFRate"])
}

func TestQualiFlattenEmitsEveryKey(t *testing.T) {
	var f QualiFeatures
	f.Car.TeamTrackAvg = ptr(6)
	flat := f.Flatten()

	keys := QualiFeatureKeys()
	require.Len(t, flat, len(keys))
	assert.Equal(t, 6.0, flat["Car_TeamTrackAvg"])
	assert.Equal(t, 0.0, flat["Driver_TeammateGap"])
}

func TestFeatureKeysAreStable(t *testing.T) {
	keys := RaceFeatureKeys()
	assert.Equal(t, keys, RaceFeatureKeys())
	assert.Equal(t, "Car_SeasonAvgFinish", keys[0])

	seen := make(map[string]struct{})
	for _, key := range keys {
		_, dup := seen[key]
		require.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}
