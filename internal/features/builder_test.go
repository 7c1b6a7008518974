package features

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridcast/internal/history"
	"github.com/yourusername/gridcast/internal/team"
)

func TestBuildRaceVectorLogsDegradedLeaves(t *testing.T) {
	store := history.NewMemStore()
	seedTwoSeasons(store)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	b := NewBuilder(store, team.NewResolver(), log)

	q := leclercQuery()
	q.Driver = "Oliver Bearman"

	_, err := b.BuildRaceVector(context.Background(), q)
	require.NoError(t, err)

	var entry *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Data["driver"] == "Oliver Bearman" {
			entry = e
			break
		}
	}
	require.NotNil(t, entry, "expected a degraded-vector log entry")
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "race", entry.Data["task"])
	assert.Greater(t, entry.Data["unknown"], 0)
	assert.Equal(t, len(RaceFeatureKeys()), entry.Data["total"])
}
