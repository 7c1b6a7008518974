package models

import (
	"time"

	"github.com/google/uuid"
)

// Task selects which prediction target a feature vector describes.
type Task string

const (
	TaskRace       Task = "race"
	TaskQualifying Task = "qualifying"
)

// RankedEntry is one driver's position in a predicted finishing order.
// Score is the ensemble mean; lower means a better predicted position.
type RankedEntry struct {
	Driver      string  `json:"driver"`
	Team        string  `json:"team"`
	TeamColor   string  `json:"team_color,omitempty"`
	HeadshotURL string  `json:"headshot_url,omitempty"`
	Rank        int     `json:"rank"`
	Score       float64 `json:"score"`
	StdDev      float64 `json:"std_dev"`
	Confidence  float64 `json:"confidence"`
}

// RaceRanking is the full ranked result set for one prediction request.
// Entries may be fewer than the entrants when some drivers lack enough
// history to build a vector.
type RaceRanking struct {
	RequestID uuid.UUID     `json:"request_id"`
	Task      Task          `json:"task"`
	Season    int           `json:"season"`
	AsOfRound int           `json:"as_of_round"`
	RaceName  string        `json:"race_name"`
	Entries   []RankedEntry `json:"entries"`
	Skipped   []string      `json:"skipped,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
