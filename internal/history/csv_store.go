package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridcast/internal/models"
)

// File names inside a season directory.
const (
	scheduleFile  = "schedule.csv"
	standingsFile = "Team Scores.csv"
	pitStopsFile  = "pitstops.csv"
	rainFile      = "rain.csv"
)

// CSVStore reads the record store from a directory tree of per-season
// CSV files, one directory per season. It performs no caching: every
// query re-reads from disk.
type CSVStore struct {
	dataDir string
	logger  *logrus.Logger
}

// NewCSVStore creates a store rooted at dataDir.
func NewCSVStore(dataDir string, logger *logrus.Logger) *CSVStore {
	return &CSVStore{dataDir: dataDir, logger: logger}
}

// Seasons lists season directories, ascending.
func (s *CSVStore) Seasons(ctx context.Context) ([]int, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}

	var seasons []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		season, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons, nil
}

// Schedule returns the season's rounds in schedule order.
func (s *CSVStore) Schedule(ctx context.Context, season int) ([]models.ScheduleEntry, error) {
	rows, err := s.readFile(season, scheduleFile)
	if err != nil {
		return nil, err
	}

	schedule := make([]models.ScheduleEntry, 0, len(rows))
	for _, row := range rows {
		round, err := strconv.Atoi(strings.TrimSpace(row["Race"]))
		if err != nil {
			s.logMalformed(season, scheduleFile, "Race", row["Race"])
			continue
		}
		schedule = append(schedule, models.ScheduleEntry{Round: round, Name: row["Name"]})
	}
	sort.Slice(schedule, func(i, j int) bool { return schedule[i].Round < schedule[j].Round })
	return schedule, nil
}

// HasRace reports whether a result file exists for the named race.
func (s *CSVStore) HasRace(ctx context.Context, season int, raceName string) (bool, error) {
	_, err := os.Stat(s.racePath(season, raceName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat race file: %w", err)
	}
	return true, nil
}

// RaceResults returns every driver row recorded for the named race.
func (s *CSVStore) RaceResults(ctx context.Context, season int, raceName string) ([]models.ResultRow, error) {
	rows, err := s.readFile(season, raceFileName(raceName))
	if err != nil {
		return nil, err
	}

	results := make([]models.ResultRow, 0, len(rows))
	for _, row := range rows {
		results = append(results, models.ResultRow{
			DriverName:     row["FullName"],
			TeamName:       row["TeamName"],
			GridPosition:   s.parsePosition(season, raceName, "GridPosition", row["GridPosition"]),
			FinishPosition: s.parsePosition(season, raceName, "Position", row["Position"]),
			Status:         row["Status"],
			Points:         s.parsePosition(season, raceName, "Points", row["Points"]),
			TeamColor:      row["TeamColor"],
			HeadshotURL:    row["HeadshotUrl"],
		})
	}
	return results, nil
}

// Standings returns the running constructors' standings snapshots.
func (s *CSVStore) Standings(ctx context.Context, season int) ([]models.StandingRow, error) {
	rows, err := s.readFile(season, standingsFile)
	if err != nil {
		return nil, err
	}

	standings := make([]models.StandingRow, 0, len(rows))
	for _, row := range rows {
		round, err := strconv.Atoi(strings.TrimSpace(row["Race"]))
		if err != nil {
			s.logMalformed(season, standingsFile, "Race", row["Race"])
			continue
		}
		standings = append(standings, models.StandingRow{
			Round:     round,
			TeamName:  row["TeamName"],
			Points:    s.parsePosition(season, standingsFile, "Points", row["Points"]),
			Placement: s.parsePosition(season, standingsFile, "Placement", row["Placement"]),
		})
	}
	return standings, nil
}

// PitStops returns per-round average pit-stop durations per team.
func (s *CSVStore) PitStops(ctx context.Context, season int) ([]models.PitStopRow, error) {
	rows, err := s.readFile(season, pitStopsFile)
	if err != nil {
		return nil, err
	}

	stops := make([]models.PitStopRow, 0, len(rows))
	for _, row := range rows {
		round, err := strconv.Atoi(strings.TrimSpace(row["Round"]))
		if err != nil {
			s.logMalformed(season, pitStopsFile, "Round", row["Round"])
			continue
		}
		duration, err := decimal.NewFromString(strings.TrimSpace(row["AveragePitStop"]))
		if err != nil {
			s.logMalformed(season, pitStopsFile, "AveragePitStop", row["AveragePitStop"])
			continue
		}
		stops = append(stops, models.PitStopRow{
			Round:           round,
			Team:            row["Team"],
			AverageDuration: duration,
		})
	}
	return stops, nil
}

// RainFlags returns the per-round rain indicator for the season.
func (s *CSVStore) RainFlags(ctx context.Context, season int) ([]models.RainRow, error) {
	rows, err := s.readFile(season, rainFile)
	if err != nil {
		return nil, err
	}

	flags := make([]models.RainRow, 0, len(rows))
	for _, row := range rows {
		round, err := strconv.Atoi(strings.TrimSpace(row["Round"]))
		if err != nil {
			s.logMalformed(season, rainFile, "Round", row["Round"])
			continue
		}
		flags = append(flags, models.RainRow{
			Round:    round,
			RaceName: row["Race"],
			Wet:      strings.EqualFold(strings.TrimSpace(row["Rain"]), "true"),
		})
	}
	return flags, nil
}

// readFile reads a season CSV into header-keyed rows. A missing file or
// season directory is not an error and yields no rows.
func (s *CSVStore) readFile(season int, name string) ([]map[string]string, error) {
	file, err := os.Open(filepath.Join(s.dataDir, strconv.Itoa(season), name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s for season %d: %w", name, season, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header of %s for season %d: %w", name, season, err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s for season %d: %w", name, season, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parsePosition parses a numeric field to a float pointer. Empty,
// non-numeric, and NaN values are unknown and parse to nil.
func (s *CSVStore) parsePosition(season int, file, field, raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		s.logMalformed(season, file, field, raw)
		return nil
	}
	return &value
}

func (s *CSVStore) logMalformed(season int, file, field, raw string) {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"season": season,
		"file":   file,
		"field":  field,
		"value":  raw,
	}).Debug("Malformed numeric field treated as unknown")
}

func (s *CSVStore) racePath(season int, raceName string) string {
	return filepath.Join(s.dataDir, strconv.Itoa(season), raceFileName(raceName))
}

func raceFileName(raceName string) string {
	return raceName + " R.csv"
}
