package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridcast/internal/config"
	"github.com/yourusername/gridcast/internal/models"
)

// PostgresStore serves the Store interface from Postgres, the target the
// ingestion service writes into. Schema mirrors the CSV layout with one
// table per record kind, keyed by season.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// NewPostgresStore creates a connection pool and verifies connectivity.
func NewPostgresStore(ctx context.Context, cfg *config.DatabaseConfig, logger *logrus.Logger) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Ping verifies database connectivity; used by the health server.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) Seasons(ctx context.Context) ([]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT season FROM season_schedule ORDER BY season`)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []int
	for rows.Next() {
		var season int
		if err := rows.Scan(&season); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

func (s *PostgresStore) Schedule(ctx context.Context, season int) ([]models.ScheduleEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT round, name FROM season_schedule WHERE season = $1 ORDER BY round`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	var schedule []models.ScheduleEntry
	for rows.Next() {
		var entry models.ScheduleEntry
		if err := rows.Scan(&entry.Round, &entry.Name); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		schedule = append(schedule, entry)
	}
	return schedule, rows.Err()
}

func (s *PostgresStore) HasRace(ctx context.Context, season int, raceName string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM race_results WHERE season = $1 AND race_name = $2)`,
		season, raceName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check race existence: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) RaceResults(ctx context.Context, season int, raceName string) ([]models.ResultRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT driver_name, team_name, grid_position, finish_position, status, points, team_color, headshot_url
		 FROM race_results WHERE season = $1 AND race_name = $2`, season, raceName)
	if err != nil {
		return nil, fmt.Errorf("failed to query race results: %w", err)
	}
	defer rows.Close()

	var results []models.ResultRow
	for rows.Next() {
		var row models.ResultRow
		if err := rows.Scan(&row.DriverName, &row.TeamName, &row.GridPosition,
			&row.FinishPosition, &row.Status, &row.Points, &row.TeamColor, &row.HeadshotURL); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (s *PostgresStore) Standings(ctx context.Context, season int) ([]models.StandingRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT round, team_name, points, placement FROM team_standings
		 WHERE season = $1 ORDER BY round, placement`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var standings []models.StandingRow
	for rows.Next() {
		var row models.StandingRow
		if err := rows.Scan(&row.Round, &row.TeamName, &row.Points, &row.Placement); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, row)
	}
	return standings, rows.Err()
}

func (s *PostgresStore) PitStops(ctx context.Context, season int) ([]models.PitStopRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT round, team, average_duration FROM pit_stops WHERE season = $1 ORDER BY round`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query pit stops: %w", err)
	}
	defer rows.Close()

	var stops []models.PitStopRow
	for rows.Next() {
		var row models.PitStopRow
		if err := rows.Scan(&row.Round, &row.Team, &row.AverageDuration); err != nil {
			return nil, fmt.Errorf("failed to scan pit stop row: %w", err)
		}
		stops = append(stops, row)
	}
	return stops, rows.Err()
}

func (s *PostgresStore) RainFlags(ctx context.Context, season int) ([]models.RainRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT round, race_name, wet FROM rain_flags WHERE season = $1 ORDER BY round`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query rain flags: %w", err)
	}
	defer rows.Close()

	var flags []models.RainRow
	for rows.Next() {
		var row models.RainRow
		if err := rows.Scan(&row.Round, &row.RaceName, &row.Wet); err != nil {
			return nil, fmt.Errorf("failed to scan rain row: %w", err)
		}
		flags = append(flags, row)
	}
	return flags, rows.Err()
}
