package history

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeasonFile(t *testing.T, dir string, season int, name, content string) {
	t.Helper()
	seasonDir := filepath.Join(dir, strconv.Itoa(season))
	require.NoError(t, os.MkdirAll(seasonDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(seasonDir, name), []byte(content), 0o644))
}

func newTestCSVStore(t *testing.T) (*CSVStore, string) {
	t.Helper()
	dir := t.TempDir()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewCSVStore(dir, log), dir
}

func TestCSVStoreSeasons(t *testing.T) {
	store, dir := newTestCSVStore(t)
	ctx := context.Background()

	writeSeasonFile(t, dir, 2024, "schedule.csv", "Race,Name\n")
	writeSeasonFile(t, dir, 2022, "schedule.csv", "Race,Name\n")
	// Non-season entries are skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fixtures"), 0o755))

	seasons, err := store.Seasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2024}, seasons)
}

func TestCSVStoreSeasonsMissingRoot(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	store := NewCSVStore(filepath.Join(t.TempDir(), "absent"), log)

	seasons, err := store.Seasons(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seasons)
}

func TestCSVStoreSchedule(t *testing.T) {
	store, dir := newTestCSVStore(t)

	// Out-of-order rows and a malformed round number.
	writeSeasonFile(t, dir, 2024, "schedule.csv",
		"Race,Name\n2,Monaco Grand Prix\nbogus,Phantom Grand Prix\n1,Bahrain Grand Prix\n")

	schedule, err := store.Schedule(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, 1, schedule[0].Round)
	assert.Equal(t, "Bahrain Grand Prix", schedule[0].Name)
	assert.Equal(t, 2, schedule[1].Round)
	assert.Equal(t, "Monaco Grand Prix", schedule[1].Name)
}

func TestCSVStoreRaceResults(t *testing.T) {
	store, dir := newTestCSVStore(t)

	writeSeasonFile(t, dir, 2024, "Monaco Grand Prix R.csv",
		"FullName,TeamName,Position,GridPosition,Status,Points,TeamColor,HeadshotUrl\n"+
			"Charles Leclerc,Ferrari,1.0,1.0,Finished,25.0,#E8002D,https://example.com/lec.png\n"+
			"Lance Stroll,Aston Martin,NaN,14.0,Retired,,#229971,\n")

	rows, err := store.RaceResults(context.Background(), 2024, "Monaco Grand Prix")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Charles Leclerc", rows[0].DriverName)
	assert.Equal(t, "Ferrari", rows[0].TeamName)
	require.NotNil(t, rows[0].FinishPosition)
	assert.Equal(t, 1.0, *rows[0].FinishPosition)
	assert.Equal(t, 25.0, *rows[0].Points)
	assert.Equal(t, "#E8002D", rows[0].TeamColor)
	assert.Equal(t, "https://example.com/lec.png", rows[0].HeadshotURL)

	// NaN finish and empty points both read as unknown, the row stays.
	assert.Nil(t, rows[1].FinishPosition)
	assert.Nil(t, rows[1].Points)
	assert.Equal(t, 14.0, *rows[1].GridPosition)
	assert.Equal(t, "Retired", rows[1].Status)
}

func TestCSVStoreRaceResultsAbsent(t *testing.T) {
	store, dir := newTestCSVStore(t)
	writeSeasonFile(t, dir, 2024, "schedule.csv", "Race,Name\n1,Bahrain Grand Prix\n")

	rows, err := store.RaceResults(context.Background(), 2024, "Bahrain Grand Prix")
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Whole season missing behaves the same.
	rows, err = store.RaceResults(context.Background(), 1999, "Bahrain Grand Prix")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVStoreHasRace(t *testing.T) {
	store, dir := newTestCSVStore(t)
	writeSeasonFile(t, dir, 2024, "Monaco Grand Prix R.csv", "FullName,TeamName\n")
	ctx := context.Background()

	ok, err := store.HasRace(ctx, 2024, "Monaco Grand Prix")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.HasRace(ctx, 2024, "Belgian Grand Prix")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSVStoreStandings(t *testing.T) {
	store, dir := newTestCSVStore(t)
	writeSeasonFile(t, dir, 2024, "Team Scores.csv",
		"Race,TeamName,Points,Placement\n1,McLaren,27.0,1.0\n1,Williams,0.0,\n")

	standings, err := store.Standings(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, standings, 2)

	assert.Equal(t, 1, standings[0].Round)
	assert.Equal(t, "McLaren", standings[0].TeamName)
	assert.Equal(t, 27.0, *standings[0].Points)
	assert.Equal(t, 1.0, *standings[0].Placement)
	assert.Nil(t, standings[1].Placement)
}

func TestCSVStorePitStops(t *testing.T) {
	store, dir := newTestCSVStore(t)
	writeSeasonFile(t, dir, 2024, "pitstops.csv",
		"Round,Team,AveragePitStop\n1,Ferrari,23.456\n1,Haas,not-a-number\n")

	stops, err := store.PitStops(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "Ferrari", stops[0].Team)
	assert.Equal(t, "23.456", stops[0].AverageDuration.String())
}

func TestCSVStoreRainFlags(t *testing.T) {
	store, dir := newTestCSVStore(t)
	writeSeasonFile(t, dir, 2024, "rain.csv",
		"Round,Race,Rain\n1,Bahrain Grand Prix,False\n2,Monaco Grand Prix,True\n")

	flags, err := store.RainFlags(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, flags, 2)
	assert.False(t, flags[0].Wet)
	assert.True(t, flags[1].Wet)
	assert.Equal(t, "Monaco Grand Prix", flags[1].RaceName)
}
