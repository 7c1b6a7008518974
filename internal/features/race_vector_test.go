package features

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridcast/internal/history"
	"github.com/yourusername/gridcast/internal/models"
)

// seedTwoSeasons builds a small but complete record: a finished 2023
// season and a 2024 season run through round 2, with the Spanish Grand
// Prix appearing in both.
func seedTwoSeasons(store *history.MemStore) {
	store.ScheduleBySeason[2023] = []models.ScheduleEntry{
		{Round: 1, Name: "Bahrain Grand Prix"},
		{Round: 2, Name: "Spanish Grand Prix"},
	}
	store.ScheduleBySeason[2024] = []models.ScheduleEntry{
		{Round: 1, Name: "Bahrain Grand Prix"},
		{Round: 2, Name: "Monaco Grand Prix"},
		{Round: 3, Name: "Spanish Grand Prix"},
	}

	addPair := func(season int, race string, winnerFinish, loserFinish float64) {
		store.AddResult(season, race, models.ResultRow{
			DriverName:     "Charles Leclerc",
			TeamName:       "Ferrari",
			GridPosition:   ptr(winnerFinish + 1),
			FinishPosition: ptr(winnerFinish),
			Status:         "Finished",
		})
		store.AddResult(season, race, models.ResultRow{
			DriverName:     "Carlos Sainz",
			TeamName:       "Ferrari",
			GridPosition:   ptr(loserFinish + 1),
			FinishPosition: ptr(loserFinish),
			Status:         "Finished",
		})
	}
	addPair(2023, "Bahrain Grand Prix", 2, 4)
	addPair(2023, "Spanish Grand Prix", 4, 6)
	addPair(2024, "Bahrain Grand Prix", 3, 5)
	addPair(2024, "Monaco Grand Prix", 1, 3)

	store.StandingsBySeason[2023] = []models.StandingRow{
		{Round: 2, TeamName: "Ferrari", Points: ptr(70), Placement: ptr(2)},
	}
	store.StandingsBySeason[2024] = []models.StandingRow{
		{Round: 1, TeamName: "Ferrari", Points: ptr(33), Placement: ptr(2)},
		{Round: 2, TeamName: "Ferrari", Points: ptr(66), Placement: ptr(1)},
	}

	store.PitStopsBySeason[2023] = []models.PitStopRow{
		{Round: 2, Team: "Ferrari", AverageDuration: decimal.NewFromFloat(24.5)},
	}
	store.PitStopsBySeason[2024] = []models.PitStopRow{
		{Round: 1, Team: "Ferrari", AverageDuration: decimal.NewFromFloat(22.0)},
		{Round: 2, Team: "Ferrari", AverageDuration: decimal.NewFromFloat(26.0)},
	}

	store.RainBySeason[2023] = []models.RainRow{
		{Round: 1, RaceName: "Bahrain Grand Prix", Wet: false},
		{Round: 2, RaceName: "Spanish Grand Prix", Wet: true},
	}
}

func leclercQuery() Query {
	return Query{
		Driver:     "Charles Leclerc",
		Team:       "Ferrari",
		Season:     2024,
		TargetRace: "Spanish Grand Prix",
		AsOfRound:  2,
	}
}

func TestBuildRaceVector(t *testing.T) {
	store := history.NewMemStore()
	seedTwoSeasons(store)
	b := newTestBuilder(store)

	f, err := b.BuildRaceVector(context.Background(), leclercQuery())
	require.NoError(t, err)

	// This season: finishes 3 and 1, grids 4 and 2.
	require.NotNil(t, f.Car.SeasonAvgFinish)
	assert.Equal(t, 2.0, *f.Car.SeasonAvgFinish)
	require.NotNil(t, f.Car.SeasonAvgStart)
	assert.Equal(t, 3.0, *f.Car.SeasonAvgStart)

	// Target is the immediate next round: window unshifted, most
	// recent first, third slot empty after only two rounds.
	assert.Equal(t, 1.0, *f.Car.RecencyFinishBias[0])
	assert.Equal(t, 3.0, *f.Car.RecencyFinishBias[1])
	assert.Nil(t, f.Car.RecencyFinishBias[2])

	// Standings snapshot at round 2.
	assert.Equal(t, 66.0, *f.Car.ConstructorsPoints)
	assert.Equal(t, 1.0, *f.Car.ConstructorsPlacement)

	// Prior-season Spanish Grand Prix: finished 4th from 5th.
	assert.Equal(t, 4.0, *f.Driver.PastPlacements.Avg)
	assert.Equal(t, 5.0, *f.Driver.PastPlacements.StartingPos)
	assert.Equal(t, 1.0, *f.Driver.PastPlacements.Experience)
	assert.Equal(t, 0.0, *f.Driver.PastPlacements.StdDev)
	assert.Equal(t, 2.0, *f.Driver.PastPlacements.TeammateGap)
	assert.Equal(t, 2.0, *f.Driver.PastPlacements.CarUsed)

	// Pit stops: (22 + 26) / 2 this season; 24.5 at the track before.
	assert.Equal(t, 24.0, *f.Team.AvgPitStopTime.ThisSeason)
	assert.Equal(t, 24.5, *f.Team.AvgPitStopTime.PastOnTrack)

	// No retirement in the two causal rounds.
	require.NotNil(t, f.Team.Reliability.DNFRate)
	assert.Equal(t, 0.0, *f.Team.Reliability.DNFRate)
	assert.Equal(t, 0.0, *f.Team.Reliability.DNSRate)

	// 2023: dry race finish 2, wet race finish 4.
	assert.Equal(t, 0.5, *f.Driver.WetWeatherMultiplier.PrevSeasons)
	// No rain flags recorded this season.
	assert.Equal(t, 1.0, *f.Driver.WetWeatherMultiplier.ThisSeason)

	// 2023 gains: (3-2) and (5-4); teammate deltas both +2.
	assert.Equal(t, 1.0, *f.Car.LuckFactor.AvgGain)
	assert.Equal(t, 2.0, *f.Car.LuckFactor.AvgLuck)
	// Finishes 2 and 4.
	assert.Equal(t, 1.0, *f.Car.LuckFactor.StdDev)
}

func TestBuildRaceVectorIgnoresFutureRounds(t *testing.T) {
	store := history.NewMemStore()
	seedTwoSeasons(store)
	b := newTestBuilder(store)
	ctx := context.Background()

	before, err := b.BuildRaceVector(ctx, leclercQuery())
	require.NoError(t, err)

	// Load the round-3 race plus future pit and rain records. Nothing
	// computed as of round 2 may move.
	store.AddResult(2024, "Spanish Grand Prix", models.ResultRow{
		DriverName:     "Charles Leclerc",
		TeamName:       "Ferrari",
		GridPosition:   ptr(1),
		FinishPosition: ptr(18),
		Status:         models.StatusRetired,
	})
	store.PitStopsBySeason[2024] = append(store.PitStopsBySeason[2024],
		models.PitStopRow{Round: 3, Team: "Ferrari", AverageDuration: decimal.NewFromFloat(90)})
	store.RainBySeason[2024] = append(store.RainBySeason[2024],
		models.RainRow{Round: 3, RaceName: "Spanish Grand Prix", Wet: true})
	store.StandingsBySeason[2024] = append(store.StandingsBySeason[2024],
		models.StandingRow{Round: 3, TeamName: "Ferrari", Points: ptr(90), Placement: ptr(1)})

	after, err := b.BuildRaceVector(ctx, leclercQuery())
	require.NoError(t, err)

	assert.Equal(t, before.Flatten(), after.Flatten())
}

func TestBuildRaceVectorLookaheadShiftsWindow(t *testing.T) {
	store := history.NewMemStore()
	seedTwoSeasons(store)
	store.ScheduleBySeason[2024] = append(store.ScheduleBySeason[2024],
		models.ScheduleEntry{Round: 4, Name: "British Grand Prix"})
	b := newTestBuilder(store)

	q := leclercQuery()
	q.TargetRace = "British Grand Prix"

	f, err := b.BuildRaceVector(context.Background(), q)
	require.NoError(t, err)

	// One round ahead: the season average fills the most recent slot.
	assert.Equal(t, 2.0, *f.Car.RecencyFinishBias[0])
	assert.Equal(t, 1.0, *f.Car.RecencyFinishBias[1])
	assert.Equal(t, 3.0, *f.Car.RecencyFinishBias[2])
}

func TestBuildRaceVectorRookieUnknowns(t *testing.T) {
	store := history.NewMemStore()
	seedTwoSeasons(store)
	b := newTestBuilder(store)

	// A driver with no record anywhere still gets a vector; the
	// history-backed metrics stay unknown and flatten to zero.
	q := leclercQuery()
	q.Driver = "Oliver Bearman"

	f, err := b.BuildRaceVector(context.Background(), q)
	require.NoError(t, err)

	assert.Nil(t, f.Car.SeasonAvgFinish)
	assert.Nil(t, f.Driver.PastPlacements.Avg)
	assert.Nil(t, f.Driver.PastPlacements.Experience)
	assert.Nil(t, f.Driver.TeammateGap)
	assert.Equal(t, 1.0, *f.Driver.WetWeatherMultiplier.PrevSeasons)

	flat := f.Flatten()
	assert.Equal(t, 0.0, flat["Car_SeasonAvgFinish"])
	assert.Equal(t, 0.0, flat["Driver_PastPlacements_Avg"])
	assert.Equal(t, 1.0, flat["Driver_WetWeatherMultiplier_PrevSeasons"])
}

func TestBuildRaceVectorReliabilityCountsRetirements(t *testing.T) {
	store := history.NewMemStore()
	seedTwoSeasons(store)
	store.ResultsBySeason[2024]["Monaco Grand Prix"][0].Status = models.StatusRetired
	b := newTestBuilder(store)

	f, err := b.BuildRaceVector(context.Background(), leclercQuery())
	require.NoError(t, err)

	assert.Equal(t, 0.5, *f.Team.Reliability.DNFRate)
	assert.Equal(t, 0.0, *f.Team.Reliability.DNSRate)
}

func TestBuildRaceVectorResolvesTeamRebrand(t *testing.T) {
	store := history.NewMemStore()
	seedTwoSeasons(store)
	// The 2023 records carry the team's former name.
	for race, rows := range store.ResultsBySeason[2023] {
		for i := range rows {
			rows[i].TeamName = "AlphaTauri"
		}
		store.ResultsBySeason[2023][race] = rows
	}
	store.StandingsBySeason[2023][0].TeamName = "AlphaTauri"
	store.PitStopsBySeason[2023][0].Team = "AlphaTauri"
	b := newTestBuilder(store)

	q := leclercQuery()
	q.Team = "Racing Bulls"

	f, err := b.BuildRaceVector(context.Background(), q)
	require.NoError(t, err)

	// Track teammate gap and pit history resolve through the rebrand.
	assert.Equal(t, 2.0, *f.Driver.PastPlacements.TeammateGap)
	assert.Equal(t, 2.0, *f.Driver.PastPlacements.CarUsed)
	assert.Equal(t, 24.5, *f.Team.AvgPitStopTime.PastOnTrack)
}
