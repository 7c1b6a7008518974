package features

import (
	"context"
)

// BuildQualiVector assembles the qualifying-position feature vector for
// one driver. Qualifying reads grid positions throughout and carries no
// reliability, pit-stop, or luck categories.
func (b *Builder) BuildQualiVector(ctx context.Context, q Query) (*QualiFeatures, error) {
	f := &QualiFeatures{}

	seasonAvg, err := b.seasonAvg(ctx, q.Season, q.AsOfRound, q.Driver, gridPosition)
	if err != nil {
		return nil, err
	}
	f.Car.SeasonAvgPos = seasonAvg

	ahead, err := b.aheadSteps(ctx, q.Season, q.TargetRace, q.AsOfRound)
	if err != nil {
		return nil, err
	}
	window, err := b.recencyWindow(ctx, q.Season, q.AsOfRound, q.Driver, gridPosition)
	if err != nil {
		return nil, err
	}
	f.Car.RecencyBias = shiftWindow(window, ahead, seasonAvg)

	points, placement, err := b.standingsAt(ctx, q.Season, q.AsOfRound, q.Team)
	if err != nil {
		return nil, err
	}
	f.Car.ConstructorsPoints = points
	f.Car.ConstructorsPlacement = placement

	teamCurrent, err := b.teamSeasonAvg(ctx, q.Season, q.AsOfRound, q.Team, gridPosition)
	if err != nil {
		return nil, err
	}
	f.Car.TeamCurrentAvg = teamCurrent

	gap, err := b.teammateGapSeason(ctx, q.Season, q.AsOfRound, q.Team, q.Driver, gridPosition)
	if err != nil {
		return nil, err
	}
	f.Driver.TeammateGap = gap

	prior, err := b.priorSeasons(ctx, q.Season)
	if err != nil {
		return nil, err
	}

	if err := b.fillQualiTrackHistory(ctx, prior, q, f); err != nil {
		return nil, err
	}

	prevWet, err := b.wetMultiplier(ctx, prior, noRoundBound, q.Driver, gridPosition)
	if err != nil {
		return nil, err
	}
	currWet, err := b.wetMultiplier(ctx, []int{q.Season}, q.AsOfRound, q.Driver, gridPosition)
	if err != nil {
		return nil, err
	}
	f.Driver.WetWeatherMultiplier.PrevSeasons = &prevWet
	f.Driver.WetWeatherMultiplier.ThisSeason = &currWet

	b.logUnknowns(q, "qualifying", f.leaves())
	return f, nil
}

// fillQualiTrackHistory derives the prior-season grid aggregates at the
// target track.
func (b *Builder) fillQualiTrackHistory(ctx context.Context, prior []int, q Query, f *QualiFeatures) error {
	var teamAcc, driverAcc, gapAcc meanAcc

	for _, season := range prior {
		rows, err := b.store.RaceResults(ctx, season, q.TargetRace)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}

		for _, row := range b.teamRows(rows, q.Team) {
			if row.GridPosition != nil {
				teamAcc.add(*row.GridPosition)
			}
		}

		driverRow := findDriverRow(rows, q.Driver)
		if driverRow != nil && driverRow.GridPosition != nil && *driverRow.GridPosition > 0 {
			driverAcc.add(*driverRow.GridPosition)
		}

		// The teammate gap resolves against the team the driver drove
		// for in that historical race, not the query team.
		if driverRow != nil {
			histDriver, histTeammate := b.driverAndTeammate(rows, driverRow.TeamName, q.Driver)
			if histDriver != nil && histTeammate != nil &&
				histDriver.GridPosition != nil && histTeammate.GridPosition != nil {
				gapAcc.add(*histTeammate.GridPosition - *histDriver.GridPosition)
			}
		}
	}

	f.Car.TeamTrackAvg = teamAcc.mean()
	f.Driver.PastPlacements.Avg = driverAcc.mean()
	f.Driver.PastPlacements.TeammateGap = gapAcc.mean()

	carUsed, err := b.carUsedAtTrack(ctx, prior, q.TargetRace, q.Team)
	if err != nil {
		return err
	}
	f.Driver.PastPlacements.CarUsed = carUsed
	return nil
}
