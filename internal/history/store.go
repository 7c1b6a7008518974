// Package history provides read-only access to the per-season record store.
//
// Accessors never raise on a missing season or race: absence is reported
// as an empty result set (or false from HasRace) so that downstream
// feature computation can degrade to unknown values. Malformed numeric
// fields parse to nil, never to zero; zero-filling is a deliberate
// downstream decision made at the flattener.
package history

import (
	"context"

	"github.com/yourusername/gridcast/internal/models"
)

// Store is the read-only query surface over a season history store.
type Store interface {
	// Seasons lists every season present in the store, ascending.
	Seasons(ctx context.Context) ([]int, error)

	// Schedule returns the season's rounds in schedule order.
	// A missing season yields an empty slice.
	Schedule(ctx context.Context, season int) ([]models.ScheduleEntry, error)

	// HasRace reports whether a result record exists for the named race.
	// Never returns an error for mere absence.
	HasRace(ctx context.Context, season int, raceName string) (bool, error)

	// RaceResults returns every driver row recorded for the named race.
	// A missing race yields an empty slice.
	RaceResults(ctx context.Context, season int, raceName string) ([]models.ResultRow, error)

	// Standings returns the running constructors' standings snapshots
	// for the season, one row per (round, team).
	Standings(ctx context.Context, season int) ([]models.StandingRow, error)

	// PitStops returns per-round average pit-stop durations per team.
	PitStops(ctx context.Context, season int) ([]models.PitStopRow, error)

	// RainFlags returns the per-round rain indicator for the season.
	RainFlags(ctx context.Context, season int) ([]models.RainRow, error)
}
