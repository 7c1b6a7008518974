// Package features computes point-in-time feature vectors from the
// history store. Every metric is derived only from records at or before
// the query's asOfRound; data from later rounds never leaks in.
package features

// Window is a 3-slot recency window, most recent first. A nil slot means
// the driver has no usable position for that race.
type Window [3]*float64

// LuckFactor estimates how much of a driver's results diverge from
// car/teammate-implied expectation.
type LuckFactor struct {
	AvgGain *float64 // average grid-to-finish gain, positive = gained places
	AvgLuck *float64 // average teammate finish minus driver finish
	StdDev  *float64 // population stddev of finishing positions
}

// PitStopTime holds team pit-stop averages.
type PitStopTime struct {
	ThisSeason  *float64
	PastOnTrack *float64
}

// Reliability holds retirement and non-start rates over the causal slice.
// Denominators are total races checked, not races entered: sparse records
// dilute both rates rather than hide them.
type Reliability struct {
	DNFRate *float64
	DNSRate *float64
}

// WetMultiplier is the dry-to-wet average position ratio; above 1 means
// the driver fares relatively better in the wet. Neutral value is 1.
type WetMultiplier struct {
	ThisSeason  *float64
	PrevSeasons *float64
}

// RacePastPlacements aggregates the driver's prior-season history at the
// target track.
type RacePastPlacements struct {
	Avg         *float64
	CarUsed     *float64
	TeammateGap *float64
	StartingPos *float64
	StdDev      *float64
	Experience  *float64
}

// RaceCarFeatures is the car-strength category of the race vector.
type RaceCarFeatures struct {
	SeasonAvgFinish       *float64
	SeasonAvgStart        *float64
	ConstructorsPlacement *float64
	ConstructorsPoints    *float64
	LuckFactor            LuckFactor
	RecencyFinishBias     Window
	RecencyStartBias      Window
}

// RaceTeamFeatures is the team-operations category of the race vector.
type RaceTeamFeatures struct {
	AvgPitStopTime PitStopTime
	Reliability    Reliability
}

// RaceDriverFeatures is the driver-skill category of the race vector.
type RaceDriverFeatures struct {
	PastPlacements       RacePastPlacements
	TeammateGap          *float64
	WetWeatherMultiplier WetMultiplier
}

// RaceFeatures is the full feature vector for race-finish prediction.
// The leaf set is fixed: missing data yields nil leaves, never missing
// keys, so the flattened schema is stable across queries.
type RaceFeatures struct {
	Car    RaceCarFeatures
	Team   RaceTeamFeatures
	Driver RaceDriverFeatures
}

// QualiPastPlacements aggregates prior-season qualifying history at the
// target track.
type QualiPastPlacements struct {
	Avg         *float64
	CarUsed     *float64
	TeammateGap *float64
}

// QualiCarFeatures is the car-strength category of the qualifying vector.
type QualiCarFeatures struct {
	SeasonAvgPos          *float64
	ConstructorsPlacement *float64
	ConstructorsPoints    *float64
	RecencyBias           Window
	TeamCurrentAvg        *float64
	TeamTrackAvg          *float64
}

// QualiDriverFeatures is the driver-skill category of the qualifying vector.
type QualiDriverFeatures struct {
	PastPlacements       QualiPastPlacements
	WetWeatherMultiplier WetMultiplier
	TeammateGap          *float64
}

// QualiFeatures is the full feature vector for qualifying-position
// prediction. Qualifying has no pit-stop, reliability, or luck reading,
// but carries team grid averages the race vector does not.
type QualiFeatures struct {
	Car    QualiCarFeatures
	Driver QualiDriverFeatures
}
