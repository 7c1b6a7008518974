package history

import (
	"context"
	"sort"

	"github.com/yourusername/gridcast/internal/models"
)

// MemStore is an in-memory Store used by tests. Populate the exported
// maps directly; all keys are season numbers and race names.
type MemStore struct {
	ScheduleBySeason  map[int][]models.ScheduleEntry
	ResultsBySeason   map[int]map[string][]models.ResultRow
	StandingsBySeason map[int][]models.StandingRow
	PitStopsBySeason  map[int][]models.PitStopRow
	RainBySeason      map[int][]models.RainRow
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		ScheduleBySeason:  make(map[int][]models.ScheduleEntry),
		ResultsBySeason:   make(map[int]map[string][]models.ResultRow),
		StandingsBySeason: make(map[int][]models.StandingRow),
		PitStopsBySeason:  make(map[int][]models.PitStopRow),
		RainBySeason:      make(map[int][]models.RainRow),
	}
}

// AddResult appends a driver row to a race's result set.
func (m *MemStore) AddResult(season int, raceName string, row models.ResultRow) {
	if m.ResultsBySeason[season] == nil {
		m.ResultsBySeason[season] = make(map[string][]models.ResultRow)
	}
	m.ResultsBySeason[season][raceName] = append(m.ResultsBySeason[season][raceName], row)
}

func (m *MemStore) Seasons(ctx context.Context) ([]int, error) {
	seen := make(map[int]struct{})
	for season := range m.ScheduleBySeason {
		seen[season] = struct{}{}
	}
	for season := range m.ResultsBySeason {
		seen[season] = struct{}{}
	}
	seasons := make([]int, 0, len(seen))
	for season := range seen {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons, nil
}

func (m *MemStore) Schedule(ctx context.Context, season int) ([]models.ScheduleEntry, error) {
	entries := append([]models.ScheduleEntry(nil), m.ScheduleBySeason[season]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Round < entries[j].Round })
	return entries, nil
}

func (m *MemStore) HasRace(ctx context.Context, season int, raceName string) (bool, error) {
	races, ok := m.ResultsBySeason[season]
	if !ok {
		return false, nil
	}
	_, ok = races[raceName]
	return ok, nil
}

func (m *MemStore) RaceResults(ctx context.Context, season int, raceName string) ([]models.ResultRow, error) {
	races, ok := m.ResultsBySeason[season]
	if !ok {
		return nil, nil
	}
	return append([]models.ResultRow(nil), races[raceName]...), nil
}

func (m *MemStore) Standings(ctx context.Context, season int) ([]models.StandingRow, error) {
	return append([]models.StandingRow(nil), m.StandingsBySeason[season]...), nil
}

func (m *MemStore) PitStops(ctx context.Context, season int) ([]models.PitStopRow, error) {
	return append([]models.PitStopRow(nil), m.PitStopsBySeason[season]...), nil
}

func (m *MemStore) RainFlags(ctx context.Context, season int) ([]models.RainRow, error) {
	return append([]models.RainRow(nil), m.RainBySeason[season]...), nil
}
