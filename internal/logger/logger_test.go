package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestPredictionFields(t *testing.T) {
	fields := PredictionFields(2025, 14, "Dutch Grand Prix", "race")
	assert.Equal(t, 2025, fields["season"])
	assert.Equal(t, 14, fields["as_of_round"])
	assert.Equal(t, "Dutch Grand Prix", fields["race"])
	assert.Equal(t, "race", fields["task"])
}
