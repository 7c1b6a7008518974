// Package predictor orchestrates feature building, scoring, and ranking
// for a full session.
package predictor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridcast/internal/ensemble"
	"github.com/yourusername/gridcast/internal/features"
	"github.com/yourusername/gridcast/internal/history"
	"github.com/yourusername/gridcast/internal/logger"
	"github.com/yourusername/gridcast/internal/metrics"
	"github.com/yourusername/gridcast/internal/models"
	"github.com/yourusername/gridcast/internal/team"
)

// Pipeline ranks every entrant of a race by predicted position. Each
// RankRace call allocates its own working state; concurrent calls over
// the same Pipeline are independent.
type Pipeline struct {
	store   history.Store
	builder *features.Builder
	logger  *logrus.Logger
}

// New creates a ranking pipeline.
func New(store history.Store, teams *team.Resolver, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		store:   store,
		builder: features.NewBuilder(store, teams, log),
		logger:  log,
	}
}

// Entrants returns the drivers classified in the results of the given
// round, the roster used to enter the prediction batch.
func (p *Pipeline) Entrants(ctx context.Context, season, round int) ([]models.Entrant, error) {
	schedule, err := p.store.Schedule(ctx, season)
	if err != nil {
		return nil, err
	}

	var raceName string
	for _, entry := range schedule {
		if entry.Round == round {
			raceName = entry.Name
			break
		}
	}
	if raceName == "" {
		return nil, fmt.Errorf("%w: round %d of season %d", models.ErrNoEntrants, round, season)
	}

	rows, err := p.store.RaceResults(ctx, season, raceName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no results recorded for %q", models.ErrNoEntrants, raceName)
	}

	entrants := make([]models.Entrant, 0, len(rows))
	for _, row := range rows {
		entrants = append(entrants, models.Entrant{
			DriverName:  row.DriverName,
			TeamName:    row.TeamName,
			TeamColor:   row.TeamColor,
			HeadshotURL: row.HeadshotURL,
		})
	}
	return entrants, nil
}

// UpcomingRaces lists the schedule entries after the given round.
func (p *Pipeline) UpcomingRaces(ctx context.Context, season, afterRound int) ([]models.ScheduleEntry, error) {
	schedule, err := p.store.Schedule(ctx, season)
	if err != nil {
		return nil, err
	}
	var upcoming []models.ScheduleEntry
	for _, entry := range schedule {
		if entry.Round > afterRound {
			upcoming = append(upcoming, entry)
		}
	}
	return upcoming, nil
}

// RankRace scores every entrant for the target race and returns the
// predicted order, best first. Drivers whose vector cannot be built or
// scored are skipped and logged; the batch never aborts for one driver.
func (p *Pipeline) RankRace(ctx context.Context, ens ensemble.Ensemble, task models.Task, season, asOfRound int, raceName string) (*models.RaceRanking, error) {
	start := time.Now()
	defer func() {
		metrics.RankingDuration.WithLabelValues(string(task)).Observe(time.Since(start).Seconds())
	}()
	metrics.RankingsTotal.WithLabelValues(string(task)).Inc()

	ranking := &models.RaceRanking{
		RequestID: uuid.New(),
		Task:      task,
		Season:    season,
		AsOfRound: asOfRound,
		RaceName:  raceName,
		CreatedAt: time.Now().UTC(),
	}

	entrants, err := p.Entrants(ctx, season, asOfRound)
	if err != nil {
		return nil, err
	}

	log := p.logger.WithFields(logger.PredictionFields(season, asOfRound, raceName, string(task))).
		WithField("request_id", ranking.RequestID)

	for _, entrant := range entrants {
		vector, err := p.buildVector(ctx, task, entrant, season, raceName, asOfRound)
		if err != nil {
			log.WithError(err).WithField("driver", entrant.DriverName).Warn("Skipping driver: feature vector failed")
			metrics.DriversSkippedTotal.WithLabelValues("feature_build").Inc()
			ranking.Skipped = append(ranking.Skipped, entrant.DriverName)
			continue
		}

		score, err := ensemble.ScoreWithConfidence(ens, vector)
		if err != nil {
			log.WithError(err).WithField("driver", entrant.DriverName).Warn("Skipping driver: scoring failed")
			metrics.DriversSkippedTotal.WithLabelValues("scoring").Inc()
			ranking.Skipped = append(ranking.Skipped, entrant.DriverName)
			continue
		}

		metrics.DriversScoredTotal.Inc()
		ranking.Entries = append(ranking.Entries, models.RankedEntry{
			Driver:      entrant.DriverName,
			Team:        entrant.TeamName,
			TeamColor:   entrant.TeamColor,
			HeadshotURL: entrant.HeadshotURL,
			Score:       score.Mean,
			StdDev:      score.StdDev,
			Confidence:  score.Confidence,
		})
	}

	// Stable: ties keep entrant order.
	sort.SliceStable(ranking.Entries, func(i, j int) bool {
		return ranking.Entries[i].Score < ranking.Entries[j].Score
	})
	for i := range ranking.Entries {
		ranking.Entries[i].Rank = i + 1
	}

	log.WithFields(logrus.Fields{
		"ranked":  len(ranking.Entries),
		"skipped": len(ranking.Skipped),
	}).Info("Session ranked")

	return ranking, nil
}

func (p *Pipeline) buildVector(ctx context.Context, task models.Task, entrant models.Entrant, season int, raceName string, asOfRound int) (features.FlatVector, error) {
	buildStart := time.Now()
	defer func() {
		metrics.FeatureBuildDuration.Observe(time.Since(buildStart).Seconds())
	}()

	query := features.Query{
		Driver:     entrant.DriverName,
		Team:       entrant.TeamName,
		Season:     season,
		TargetRace: raceName,
		AsOfRound:  asOfRound,
	}

	switch task {
	case models.TaskQualifying:
		vector, err := p.builder.BuildQualiVector(ctx, query)
		if err != nil {
			return nil, err
		}
		return vector.Flatten(), nil
	default:
		vector, err := p.builder.BuildRaceVector(ctx, query)
		if err != nil {
			return nil, err
		}
		return vector.Flatten(), nil
	}
}
