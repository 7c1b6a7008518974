package models

import (
	"errors"
	"fmt"
)

// Error taxonomy for the prediction core.
var (
	// ErrMissingHistory marks an absent season or race record. Non-fatal:
	// accessors translate it into empty result sets and feature builders
	// into unknown metrics.
	ErrMissingHistory = errors.New("history record not found")

	// ErrUnresolvedRaceName marks a target race name absent from the
	// season schedule. Fatal for the single driver vector being built.
	ErrUnresolvedRaceName = errors.New("race name not found in schedule")

	// ErrInvalidNumericField marks a positional field that failed to
	// parse. Treated as unknown, never as zero.
	ErrInvalidNumericField = errors.New("invalid numeric field")

	// ErrEnsembleScoring marks a failed ensemble member prediction.
	// A single member failure invalidates the whole scoring call.
	ErrEnsembleScoring = errors.New("ensemble scoring failed")

	// ErrNoEntrants marks a ranking request whose reference round has no
	// classified drivers to enter.
	ErrNoEntrants = errors.New("no entrants found for race")
)

// UnresolvedRaceError wraps ErrUnresolvedRaceName with the lookup context.
func UnresolvedRaceError(season int, raceName string) error {
	return fmt.Errorf("%w: %q in season %d", ErrUnresolvedRaceName, raceName, season)
}
