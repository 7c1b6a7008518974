package features

import (
	"context"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridcast/internal/history"
	"github.com/yourusername/gridcast/internal/models"
	"github.com/yourusername/gridcast/internal/team"
)

// Builder computes feature vectors against an injected history store.
// Builders hold no mutable state across calls; every vector is computed
// fresh from the store.
type Builder struct {
	store  history.Store
	teams  *team.Resolver
	logger *logrus.Logger
}

// Query identifies one driver vector to build.
type Query struct {
	Driver     string
	Team       string
	Season     int
	TargetRace string
	AsOfRound  int
}

// NewBuilder creates a feature vector builder.
func NewBuilder(store history.Store, teams *team.Resolver, logger *logrus.Logger) *Builder {
	return &Builder{store: store, teams: teams, logger: logger}
}

// logUnknowns reports how many leaves of a finished vector degraded to
// unknown, so sparse history is visible without failing the build.
func (b *Builder) logUnknowns(q Query, task string, leaves []leaf) {
	unknown := 0
	for _, l := range leaves {
		if l.value == nil {
			unknown++
		}
	}
	if unknown == 0 {
		return
	}
	b.logger.WithFields(logrus.Fields{
		"driver":  q.Driver,
		"race":    q.TargetRace,
		"task":    task,
		"unknown": unknown,
		"total":   len(leaves),
	}).Debug("Feature vector has unknown leaves from missing history")
}

// positionPicker selects which position a metric reads from a result row.
type positionPicker func(models.ResultRow) *float64

func finishPosition(row models.ResultRow) *float64 { return row.FinishPosition }
func gridPosition(row models.ResultRow) *float64   { return row.GridPosition }

// meanAcc accumulates samples toward a mean that is unknown when no
// sample was observed.
type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) {
	a.sum += v
	a.n++
}

func (a *meanAcc) mean() *float64 {
	if a.n == 0 {
		return nil
	}
	v := a.sum / float64(a.n)
	return &v
}

// popStdDev computes the population standard deviation of the samples,
// unknown when there are none.
func popStdDev(samples []float64) *float64 {
	if len(samples) == 0 {
		return nil
	}
	var mean float64
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	var variance float64
	for _, s := range samples {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(samples))

	sd := math.Sqrt(variance)
	return &sd
}

func findDriverRow(rows []models.ResultRow, driver string) *models.ResultRow {
	want := strings.TrimSpace(driver)
	for i := range rows {
		if strings.TrimSpace(rows[i].DriverName) == want {
			return &rows[i]
		}
	}
	return nil
}

// teamRows returns the rows whose historical team name resolves to the
// queried team identity.
func (b *Builder) teamRows(rows []models.ResultRow, queryTeam string) []models.ResultRow {
	var matched []models.ResultRow
	for _, row := range rows {
		if b.teams.Resolves(queryTeam, row.TeamName) {
			matched = append(matched, row)
		}
	}
	return matched
}

// driverAndTeammate splits a race's resolved-team rows into the driver's
// row and the last classified teammate row. Either may be nil.
func (b *Builder) driverAndTeammate(rows []models.ResultRow, queryTeam, driver string) (driverRow, teammateRow *models.ResultRow) {
	want := strings.TrimSpace(driver)
	for i := range rows {
		if !b.teams.Resolves(queryTeam, rows[i].TeamName) {
			continue
		}
		if strings.TrimSpace(rows[i].DriverName) == want {
			driverRow = &rows[i]
		} else {
			teammateRow = &rows[i]
		}
	}
	return driverRow, teammateRow
}

// priorSeasons lists store seasons strictly before season, ascending.
func (b *Builder) priorSeasons(ctx context.Context, season int) ([]int, error) {
	seasons, err := b.store.Seasons(ctx)
	if err != nil {
		return nil, err
	}
	var prior []int
	for _, s := range seasons {
		if s < season {
			prior = append(prior, s)
		}
	}
	return prior, nil
}

// forEachCausalRace scans the causal slice and invokes fn once per race
// with its result rows. Races without results still invoke fn with an
// empty slice so callers can count checked races.
func (b *Builder) forEachCausalRace(ctx context.Context, season, asOfRound int, fn func(entry models.ScheduleEntry, rows []models.ResultRow) error) error {
	slice, err := b.causalSlice(ctx, season, asOfRound)
	if err != nil {
		return err
	}
	for _, entry := range slice {
		rows, err := b.store.RaceResults(ctx, season, entry.Name)
		if err != nil {
			return err
		}
		if err := fn(entry, rows); err != nil {
			return err
		}
	}
	return nil
}

// seasonAvg averages the driver's picked position over the causal slice.
func (b *Builder) seasonAvg(ctx context.Context, season, asOfRound int, driver string, pick positionPicker) (*float64, error) {
	var acc meanAcc
	err := b.forEachCausalRace(ctx, season, asOfRound, func(_ models.ScheduleEntry, rows []models.ResultRow) error {
		if row := findDriverRow(rows, driver); row != nil {
			if pos := pick(*row); pos != nil {
				acc.add(*pos)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc.mean(), nil
}

// teamSeasonAvg averages the picked position over every resolved-team
// row in the causal slice.
func (b *Builder) teamSeasonAvg(ctx context.Context, season, asOfRound int, queryTeam string, pick positionPicker) (*float64, error) {
	var acc meanAcc
	err := b.forEachCausalRace(ctx, season, asOfRound, func(_ models.ScheduleEntry, rows []models.ResultRow) error {
		for _, row := range b.teamRows(rows, queryTeam) {
			if pos := pick(row); pos != nil {
				acc.add(*pos)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc.mean(), nil
}

// standingsAt returns the team's points and placement as of the given
// round, unknown when no snapshot matches.
func (b *Builder) standingsAt(ctx context.Context, season, round int, queryTeam string) (points, placement *float64, err error) {
	standings, err := b.store.Standings(ctx, season)
	if err != nil {
		return nil, nil, err
	}
	for _, row := range standings {
		if row.Round == round && b.teams.Resolves(queryTeam, row.TeamName) {
			points = row.Points
			placement = row.Placement
		}
	}
	return points, placement, nil
}

// teammateGapSeason averages (teammate - driver) over the races strictly
// before asOfRound where both the driver and a resolved teammate hold a
// valid position. Positive means the driver beat the teammate.
func (b *Builder) teammateGapSeason(ctx context.Context, season, asOfRound int, queryTeam, driver string, pick positionPicker) (*float64, error) {
	var acc meanAcc
	err := b.forEachCausalRace(ctx, season, asOfRound-1, func(_ models.ScheduleEntry, rows []models.ResultRow) error {
		driverRow, teammateRow := b.driverAndTeammate(rows, queryTeam, driver)
		if driverRow == nil || teammateRow == nil {
			return nil
		}
		drv, tmt := pick(*driverRow), pick(*teammateRow)
		if drv != nil && tmt != nil {
			acc.add(*tmt - *drv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc.mean(), nil
}

// trackRoundIn resolves the target race's round within a prior season's
// schedule, nil round when the season never visited the track.
func (b *Builder) trackRoundIn(ctx context.Context, season int, targetRace string) (*int, error) {
	schedule, err := b.store.Schedule(ctx, season)
	if err != nil {
		return nil, err
	}
	for _, entry := range schedule {
		if entry.Name == targetRace {
			round := entry.Round
			return &round, nil
		}
	}
	return nil, nil
}
