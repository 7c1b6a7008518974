package features

import (
	"context"
)

// noRoundBound disables the round cutoff when scanning completed prior
// seasons.
const noRoundBound = -1

// wetMultiplier computes the dry-to-wet position ratio over a set of
// rain-flagged races. maxRound bounds the scan for the in-progress
// season; before the first round every race is excluded. Pass
// noRoundBound for completed prior seasons.
//
// The ratio keeps the source formula (drySum/dryCount)/(wetSum/wetCount)
// with race counts as denominators whether or not the driver appeared.
// Any zero denominator collapses to the neutral multiplier 1.
func (b *Builder) wetMultiplier(ctx context.Context, seasons []int, maxRound int, driver string, pick positionPicker) (float64, error) {
	var wetRaces, dryRaces int
	var wetSum, drySum float64

	for _, season := range seasons {
		flags, err := b.store.RainFlags(ctx, season)
		if err != nil {
			return 0, err
		}
		for _, flag := range flags {
			if maxRound != noRoundBound && flag.Round > maxRound {
				continue
			}
			rows, err := b.store.RaceResults(ctx, season, flag.RaceName)
			if err != nil {
				return 0, err
			}
			var pos *float64
			if row := findDriverRow(rows, driver); row != nil {
				pos = pick(*row)
			}
			if flag.Wet {
				wetRaces++
				if pos != nil {
					wetSum += *pos
				}
			} else {
				dryRaces++
				if pos != nil {
					drySum += *pos
				}
			}
		}
	}

	if wetRaces == 0 || dryRaces == 0 || wetSum == 0 {
		return 1, nil
	}
	return (drySum / float64(dryRaces)) / (wetSum / float64(wetRaces)), nil
}

// pitStopThisSeason is the team's summed per-round pit-stop averages over
// the causal slice divided by asOfRound. The divisor is the round count,
// not the count of rounds with data (kept from the fitted model's
// training convention); asOfRound zero yields the defined fallback 0.
func (b *Builder) pitStopThisSeason(ctx context.Context, season, asOfRound int, queryTeam string) (float64, error) {
	if asOfRound <= 0 {
		return 0, nil
	}
	stops, err := b.store.PitStops(ctx, season)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, stop := range stops {
		if stop.Round <= asOfRound && b.teams.Resolves(queryTeam, stop.Team) {
			sum += stop.AverageDuration.InexactFloat64()
		}
	}
	return sum / float64(asOfRound), nil
}

// pitStopPastOnTrack averages the team's pit-stop time at the target
// track across prior seasons, unknown when the track has no history.
func (b *Builder) pitStopPastOnTrack(ctx context.Context, priorSeasons []int, targetRace, queryTeam string) (*float64, error) {
	var acc meanAcc
	for _, season := range priorSeasons {
		round, err := b.trackRoundIn(ctx, season, targetRace)
		if err != nil {
			return nil, err
		}
		if round == nil {
			continue
		}
		stops, err := b.store.PitStops(ctx, season)
		if err != nil {
			return nil, err
		}
		for _, stop := range stops {
			if stop.Round == *round && b.teams.Resolves(queryTeam, stop.Team) {
				acc.add(stop.AverageDuration.InexactFloat64())
				break
			}
		}
	}
	return acc.mean(), nil
}

// luckFactor scans every race of the prior seasons and derives the
// driver's grid-to-finish gain, teammate delta, and finishing-position
// volatility.
func (b *Builder) luckFactor(ctx context.Context, priorSeasons []int, queryTeam, driver string) (LuckFactor, error) {
	var gain, luck meanAcc
	var positions []float64

	for _, season := range priorSeasons {
		schedule, err := b.store.Schedule(ctx, season)
		if err != nil {
			return LuckFactor{}, err
		}
		for _, entry := range schedule {
			rows, err := b.store.RaceResults(ctx, season, entry.Name)
			if err != nil {
				return LuckFactor{}, err
			}
			driverRow, teammateRow := b.driverAndTeammate(rows, queryTeam, driver)
			if driverRow == nil {
				continue
			}

			if driverRow.FinishPosition != nil {
				positions = append(positions, *driverRow.FinishPosition)
			}
			if driverRow.GridPosition != nil && driverRow.FinishPosition != nil {
				gain.add(*driverRow.GridPosition - *driverRow.FinishPosition)
			}
			if teammateRow != nil && driverRow.FinishPosition != nil && teammateRow.FinishPosition != nil {
				luck.add(*teammateRow.FinishPosition - *driverRow.FinishPosition)
			}
		}
	}

	return LuckFactor{
		AvgGain: gain.mean(),
		AvgLuck: luck.mean(),
		StdDev:  popStdDev(positions),
	}, nil
}

// carUsedAtTrack averages the team's constructors' placement as of the
// target track's round across prior seasons. Seasons without a standings
// snapshot for the team contribute nothing to either side of the mean.
func (b *Builder) carUsedAtTrack(ctx context.Context, priorSeasons []int, targetRace, queryTeam string) (*float64, error) {
	var acc meanAcc
	for _, season := range priorSeasons {
		round, err := b.trackRoundIn(ctx, season, targetRace)
		if err != nil {
			return nil, err
		}
		if round == nil {
			continue
		}
		standings, err := b.store.Standings(ctx, season)
		if err != nil {
			return nil, err
		}
		for _, row := range standings {
			if row.Round == *round && b.teams.Resolves(queryTeam, row.TeamName) && row.Placement != nil {
				acc.add(*row.Placement)
				break
			}
		}
	}
	return acc.mean(), nil
}
