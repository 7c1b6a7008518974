package features

import (
	"context"

	"github.com/yourusername/gridcast/internal/models"
)

// BuildRaceVector assembles the race-finish feature vector for one
// driver. An unresolvable target race name fails the whole vector; any
// other data gap degrades the affected metric to unknown.
func (b *Builder) BuildRaceVector(ctx context.Context, q Query) (*RaceFeatures, error) {
	f := &RaceFeatures{}

	seasonAvgFinish, err := b.seasonAvg(ctx, q.Season, q.AsOfRound, q.Driver, finishPosition)
	if err != nil {
		return nil, err
	}
	seasonAvgStart, err := b.seasonAvg(ctx, q.Season, q.AsOfRound, q.Driver, gridPosition)
	if err != nil {
		return nil, err
	}
	f.Car.SeasonAvgFinish = seasonAvgFinish
	f.Car.SeasonAvgStart = seasonAvgStart

	ahead, err := b.aheadSteps(ctx, q.Season, q.TargetRace, q.AsOfRound)
	if err != nil {
		return nil, err
	}

	finishWindow, err := b.recencyWindow(ctx, q.Season, q.AsOfRound, q.Driver, finishPosition)
	if err != nil {
		return nil, err
	}
	startWindow, err := b.recencyWindow(ctx, q.Season, q.AsOfRound, q.Driver, gridPosition)
	if err != nil {
		return nil, err
	}
	f.Car.RecencyFinishBias = shiftWindow(finishWindow, ahead, seasonAvgFinish)
	f.Car.RecencyStartBias = shiftWindow(startWindow, ahead, seasonAvgStart)

	points, placement, err := b.standingsAt(ctx, q.Season, q.AsOfRound, q.Team)
	if err != nil {
		return nil, err
	}
	f.Car.ConstructorsPoints = points
	f.Car.ConstructorsPlacement = placement

	gap, err := b.teammateGapSeason(ctx, q.Season, q.AsOfRound, q.Team, q.Driver, finishPosition)
	if err != nil {
		return nil, err
	}
	f.Driver.TeammateGap = gap

	prior, err := b.priorSeasons(ctx, q.Season)
	if err != nil {
		return nil, err
	}

	if err := b.fillTrackHistory(ctx, prior, q, f); err != nil {
		return nil, err
	}

	thisSeasonPit, err := b.pitStopThisSeason(ctx, q.Season, q.AsOfRound, q.Team)
	if err != nil {
		return nil, err
	}
	f.Team.AvgPitStopTime.ThisSeason = &thisSeasonPit

	pastPit, err := b.pitStopPastOnTrack(ctx, prior, q.TargetRace, q.Team)
	if err != nil {
		return nil, err
	}
	f.Team.AvgPitStopTime.PastOnTrack = pastPit

	if err := b.fillReliability(ctx, q, f); err != nil {
		return nil, err
	}

	prevWet, err := b.wetMultiplier(ctx, prior, noRoundBound, q.Driver, finishPosition)
	if err != nil {
		return nil, err
	}
	currWet, err := b.wetMultiplier(ctx, []int{q.Season}, q.AsOfRound, q.Driver, finishPosition)
	if err != nil {
		return nil, err
	}
	f.Driver.WetWeatherMultiplier.PrevSeasons = &prevWet
	f.Driver.WetWeatherMultiplier.ThisSeason = &currWet

	luck, err := b.luckFactor(ctx, prior, q.Team, q.Driver)
	if err != nil {
		return nil, err
	}
	f.Car.LuckFactor = luck

	b.logUnknowns(q, "race", f.leaves())
	return f, nil
}

// fillTrackHistory derives the prior-season aggregates at the target
// track: finish average, grid average, experience, placement-change
// volatility, constructors' placement, and teammate gap.
func (b *Builder) fillTrackHistory(ctx context.Context, prior []int, q Query, f *RaceFeatures) error {
	// Finish average dilutes over every prior running of the race, not
	// just those the driver entered: absence drags the average toward
	// nothing rather than inflating it.
	var finishSum float64
	var raceFiles int

	var startAcc meanAcc
	var changeSamples []float64
	var gapAcc meanAcc

	for _, season := range prior {
		rows, err := b.store.RaceResults(ctx, season, q.TargetRace)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		raceFiles++

		driverRow, teammateRow := b.driverAndTeammate(rows, q.Team, q.Driver)
		row := findDriverRow(rows, q.Driver)
		if row != nil {
			if row.FinishPosition != nil {
				finishSum += *row.FinishPosition
			}
			if row.GridPosition != nil {
				startAcc.add(*row.GridPosition)
			}
			if row.FinishPosition != nil && row.GridPosition != nil {
				changeSamples = append(changeSamples, *row.FinishPosition-*row.GridPosition)
			}
		}
		if driverRow != nil && teammateRow != nil &&
			driverRow.FinishPosition != nil && teammateRow.FinishPosition != nil {
			gapAcc.add(*teammateRow.FinishPosition - *driverRow.FinishPosition)
		}
	}

	if raceFiles > 0 && finishSum != 0 {
		avg := finishSum / float64(raceFiles)
		f.Driver.PastPlacements.Avg = &avg
	}
	f.Driver.PastPlacements.StartingPos = startAcc.mean()
	if startAcc.n > 0 {
		exp := float64(startAcc.n)
		f.Driver.PastPlacements.Experience = &exp
	}
	f.Driver.PastPlacements.StdDev = popStdDev(changeSamples)
	f.Driver.PastPlacements.TeammateGap = gapAcc.mean()

	carUsed, err := b.carUsedAtTrack(ctx, prior, q.TargetRace, q.Team)
	if err != nil {
		return err
	}
	f.Driver.PastPlacements.CarUsed = carUsed
	return nil
}

// fillReliability computes DNF and DNS rates over the causal slice,
// excluding the target race's own historical runs. Denominator is every
// race checked, appearances or not.
func (b *Builder) fillReliability(ctx context.Context, q Query, f *RaceFeatures) error {
	var checked, dnfs, dns int
	err := b.forEachCausalRace(ctx, q.Season, q.AsOfRound, func(entry models.ScheduleEntry, rows []models.ResultRow) error {
		if entry.Name == q.TargetRace {
			return nil
		}
		checked++
		if row := findDriverRow(rows, q.Driver); row != nil {
			switch row.Status {
			case models.StatusRetired:
				dnfs++
			case models.StatusDidNotStart:
				dns++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if checked == 0 {
		return nil
	}

	dnfRate := float64(dnfs) / float64(checked)
	dnsRate := float64(dns) / float64(checked)
	f.Team.Reliability.DNFRate = &dnfRate
	f.Team.Reliability.DNSRate = &dnsRate
	return nil
}
