package features

// FlatVector is the single-level numeric mapping fed to the ensemble.
// Unknown leaves flatten to 0 here and only here; the zero is a modeling
// convention, not a recorded value.
type FlatVector map[string]float64

type leaf struct {
	key   string
	value *float64
}

// Flatten converts the race vector into its flat model input. Keys are
// Category_Metric or Category_Metric_SubMetric and are emitted for every
// leaf regardless of data availability.
func (f *RaceFeatures) Flatten() FlatVector {
	return flatten(f.leaves())
}

// Flatten converts the qualifying vector into its flat model input.
func (f *QualiFeatures) Flatten() FlatVector {
	return flatten(f.leaves())
}

// RaceFeatureKeys returns the canonical race-vector schema in flattening
// order. A model trained against this ordering scores vectors produced
// by Flatten without remapping.
func RaceFeatureKeys() []string {
	var zero RaceFeatures
	return keysOf(zero.leaves())
}

// QualiFeatureKeys returns the canonical qualifying-vector schema.
func QualiFeatureKeys() []string {
	var zero QualiFeatures
	return keysOf(zero.leaves())
}

func (f *RaceFeatures) leaves() []leaf {
	return []leaf{
		{"Car_SeasonAvgFinish", f.Car.SeasonAvgFinish},
		{"Car_SeasonAvgStart", f.Car.SeasonAvgStart},
		{"Car_ConstructorsPlacement", f.Car.ConstructorsPlacement},
		{"Car_ConstructorsPoints", f.Car.ConstructorsPoints},
		{"Car_LuckFactor_AvgGain", f.Car.LuckFactor.AvgGain},
		{"Car_LuckFactor_AvgLuck", f.Car.LuckFactor.AvgLuck},
		{"Car_LuckFactor_StdDev", f.Car.LuckFactor.StdDev},
		{"Car_RecencyFinishBias_Past1", f.Car.RecencyFinishBias[0]},
		{"Car_RecencyFinishBias_Past2", f.Car.RecencyFinishBias[1]},
		{"Car_RecencyFinishBias_Past3", f.Car.RecencyFinishBias[2]},
		{"Car_RecencyStartBias_Past1", f.Car.RecencyStartBias[0]},
		{"Car_RecencyStartBias_Past2", f.Car.RecencyStartBias[1]},
		{"Car_RecencyStartBias_Past3", f.Car.RecencyStartBias[2]},
		{"Team_AvgPitStopTime_ThisSeason", f.Team.AvgPitStopTime.ThisSeason},
		{"Team_AvgPitStopTime_PastOnTrack", f.Team.AvgPitStopTime.PastOnTrack},
		{"Team_Reliability_DNFRate", f.Team.Reliability.DNFRate},
		{"Team_Reliability_DNSRate", f.Team.Reliability.DNSRate},
		{"Driver_PastPlacements_Avg", f.Driver.PastPlacements.Avg},
		{"Driver_PastPlacements_CarUsed", f.Driver.PastPlacements.CarUsed},
		{"Driver_PastPlacements_TeammateGap", f.Driver.PastPlacements.TeammateGap},
		{"Driver_PastPlacements_StartingPos", f.Driver.PastPlacements.StartingPos},
		{"Driver_PastPlacements_StdDev", f.Driver.PastPlacements.StdDev},
		{"Driver_PastPlacements_Experience", f.Driver.PastPlacements.Experience},
		{"Driver_TeammateGap", f.Driver.TeammateGap},
		{"Driver_WetWeatherMultiplier_ThisSeason", f.Driver.WetWeatherMultiplier.ThisSeason},
		{"Driver_WetWeatherMultiplier_PrevSeasons", f.Driver.WetWeatherMultiplier.PrevSeasons},
	}
}

func (f *QualiFeatures) leaves() []leaf {
	return []leaf{
		{"Car_SeasonAvgPos", f.Car.SeasonAvgPos},
		{"Car_ConstructorsPlacement", f.Car.ConstructorsPlacement},
		{"Car_ConstructorsPoints", f.Car.ConstructorsPoints},
		{"Car_RecencyBias_Past1", f.Car.RecencyBias[0]},
		{"Car_RecencyBias_Past2", f.Car.RecencyBias[1]},
		{"Car_RecencyBias_Past3", f.Car.RecencyBias[2]},
		{"Car_TeamCurrentAvg", f.Car.TeamCurrentAvg},
		{"Car_TeamTrackAvg", f.Car.TeamTrackAvg},
		{"Driver_PastPlacements_Avg", f.Driver.PastPlacements.Avg},
		{"Driver_PastPlacements_CarUsed", f.Driver.PastPlacements.CarUsed},
		{"Driver_PastPlacements_TeammateGap", f.Driver.PastPlacements.TeammateGap},
		{"Driver_WetWeatherMultiplier_ThisSeason", f.Driver.WetWeatherMultiplier.ThisSeason},
		{"Driver_WetWeatherMultiplier_PrevSeasons", f.Driver.WetWeatherMultiplier.PrevSeasons},
		{"Driver_TeammateGap", f.Driver.TeammateGap},
	}
}

func flatten(leaves []leaf) FlatVector {
	flat := make(FlatVector, len(leaves))
	for _, l := range leaves {
		if l.value != nil {
			flat[l.key] = *l.value
		} else {
			flat[l.key] = 0
		}
	}
	return flat
}

func keysOf(leaves []leaf) []string {
	keys := make([]string, len(leaves))
	for i, l := range leaves {
		keys[i] = l.key
	}
	return keys
}
