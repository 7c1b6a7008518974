package features

import (
	"context"
	"strings"

	"github.com/yourusername/gridcast/internal/models"
)

// causalSlice returns the season's races with round <= asOfRound, in
// schedule order. Every this-season metric is built from this slice;
// records from later rounds must never influence the vector.
func (b *Builder) causalSlice(ctx context.Context, season, asOfRound int) ([]models.ScheduleEntry, error) {
	schedule, err := b.store.Schedule(ctx, season)
	if err != nil {
		return nil, err
	}
	var slice []models.ScheduleEntry
	for _, entry := range schedule {
		if entry.Round <= asOfRound {
			slice = append(slice, entry)
		}
	}
	return slice, nil
}

// roundOf resolves a race name to its round in the season schedule.
// Matching is case-insensitive on trimmed names.
func (b *Builder) roundOf(ctx context.Context, season int, raceName string) (int, error) {
	schedule, err := b.store.Schedule(ctx, season)
	if err != nil {
		return 0, err
	}
	want := strings.ToLower(strings.TrimSpace(raceName))
	for _, entry := range schedule {
		if strings.ToLower(strings.TrimSpace(entry.Name)) == want {
			return entry.Round, nil
		}
	}
	return 0, models.UnresolvedRaceError(season, raceName)
}

// aheadSteps computes how many rounds beyond the next race the target
// lies. Zero means the target is the immediate next round (or already
// completed); the recency window is used unshifted.
func (b *Builder) aheadSteps(ctx context.Context, season int, targetRace string, asOfRound int) (int, error) {
	round, err := b.roundOf(ctx, season, targetRace)
	if err != nil {
		return 0, err
	}
	steps := round - asOfRound - 1
	if steps < 0 {
		steps = 0
	}
	return steps, nil
}

// shiftWindow projects a recency window forward by aheadSteps rounds:
// each step inserts the filler value at the most-recent slot and drops
// the oldest. With aheadSteps zero the window is returned unchanged.
func shiftWindow(window Window, aheadSteps int, filler *float64) Window {
	shifted := window
	for i := 0; i < aheadSteps; i++ {
		shifted = Window{filler, shifted[0], shifted[1]}
	}
	return shifted
}

// recencyWindow extracts the driver's positions over the last three
// races of the causal slice, most recent first. Races where the driver
// has no usable position leave a nil slot, as do slots beyond the number
// of races run so far.
func (b *Builder) recencyWindow(ctx context.Context, season, asOfRound int, driver string, pick positionPicker) (Window, error) {
	slice, err := b.causalSlice(ctx, season, asOfRound)
	if err != nil {
		return Window{}, err
	}

	start := len(slice) - 3
	if start < 0 {
		start = 0
	}
	recent := slice[start:]

	var window Window
	slot := 0
	for i := len(recent) - 1; i >= 0 && slot < 3; i-- {
		rows, err := b.store.RaceResults(ctx, season, recent[i].Name)
		if err != nil {
			return Window{}, err
		}
		if row := findDriverRow(rows, driver); row != nil {
			window[slot] = pick(*row)
		}
		slot++
	}
	return window, nil
}
