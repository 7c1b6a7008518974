package models

import "github.com/shopspring/decimal"

// ScheduleEntry is one row of a season schedule. Rounds are unique and
// monotonically increasing within a season.
type ScheduleEntry struct {
	Round int    `json:"round"`
	Name  string `json:"name"`
}

// ResultRow is one driver's classified result in a single session.
// Position fields are nil when the record carries no parseable value
// (retirement, no classification); the accessor layer never substitutes
// zero for a missing position.
type ResultRow struct {
	DriverName     string   `json:"driver_name"`
	TeamName       string   `json:"team_name"`
	GridPosition   *float64 `json:"grid_position"`
	FinishPosition *float64 `json:"finish_position"`
	Status         string   `json:"status"`
	Points         *float64 `json:"points"`
	TeamColor      string   `json:"team_color"`
	HeadshotURL    string   `json:"headshot_url"`
}

// StandingRow is a running constructors' standing snapshot as of a round.
type StandingRow struct {
	Round     int      `json:"round"`
	TeamName  string   `json:"team_name"`
	Points    *float64 `json:"points"`
	Placement *float64 `json:"placement"`
}

// PitStopRow is a team's average pit-stop duration for one round, in seconds.
type PitStopRow struct {
	Round           int             `json:"round"`
	Team            string          `json:"team"`
	AverageDuration decimal.Decimal `json:"average_duration"`
}

// RainRow records whether rain fell during a round's race.
type RainRow struct {
	Round    int    `json:"round"`
	RaceName string `json:"race_name"`
	Wet      bool   `json:"wet"`
}

// Driver statuses as recorded by the telemetry provider.
const (
	StatusRetired     = "Retired"
	StatusDidNotStart = "Did not start"
)

// Entrant is a driver listed for a session, with presentation fields
// carried through from the record store.
type Entrant struct {
	DriverName  string `json:"driver_name"`
	TeamName    string `json:"team_name"`
	TeamColor   string `json:"team_color"`
	HeadshotURL string `json:"headshot_url"`
}
