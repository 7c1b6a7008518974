// Package main provides the entry point for the prediction CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridcast/internal/config"
	"github.com/yourusername/gridcast/internal/ensemble"
	"github.com/yourusername/gridcast/internal/health"
	"github.com/yourusername/gridcast/internal/history"
	"github.com/yourusername/gridcast/internal/logger"
	"github.com/yourusername/gridcast/internal/models"
	"github.com/yourusername/gridcast/internal/predictor"
	"github.com/yourusername/gridcast/internal/team"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	season     int
	asOfRound  int
	targetRace string
	taskName   string
	jsonOutput bool

	cfg      *config.Config
	appLog   *logrus.Logger
	store    history.Store
	pgStore  *history.PostgresStore
	pipeline *predictor.Pipeline
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVar(&season, "season", time.Now().Year(), "Season to predict in")
	rootCmd.Flags().IntVar(&asOfRound, "round", 0, "Latest completed round the prediction may use")
	rootCmd.Flags().StringVar(&targetRace, "race", "", "Target race name (defaults to the next scheduled round)")
	rootCmd.Flags().StringVar(&taskName, "task", "race", "Prediction task: race or qualifying")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the ranking as JSON")
	_ = rootCmd.MarkFlagRequired("round")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Rank the field for an upcoming session",
	Long: `Builds point-in-time feature vectors for every driver entered in the
latest completed round, scores them against the exported model ensemble,
and prints the predicted finishing order.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer teardown()
		return runPrediction(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)

	switch cfg.History.Backend {
	case "postgres":
		pg, err := history.NewPostgresStore(ctx, &cfg.Database, appLog)
		if err != nil {
			return fmt.Errorf("failed to connect to history database: %w", err)
		}
		pgStore = pg
		store = pg
	default:
		store = history.NewCSVStore(cfg.History.DataDir, appLog)
	}

	teams := team.NewResolverWithAliases(cfg.Teams.Aliases)
	pipeline = predictor.New(store, teams, appLog)
	return nil
}

func teardown() {
	if pgStore != nil {
		pgStore.Close()
	}
}

func runPrediction(ctx context.Context) error {
	task := models.Task(taskName)
	if task != models.TaskRace && task != models.TaskQualifying {
		return fmt.Errorf("unknown task %q: use race or qualifying", taskName)
	}

	if cfg.Metrics.Enabled {
		healthCfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Metrics.Port,
			Logger:      appLog,
		}
		if pgStore != nil {
			healthCfg.Store = pgStore
		}
		srv := health.NewServer(healthCfg)
		if err := srv.Start(ctx); err != nil {
			appLog.WithError(err).Warn("Health server failed to start")
		} else {
			srv.SetReady(true)
			defer func() {
				if err := srv.Shutdown(); err != nil {
					appLog.WithError(err).Error("Failed to shut down health server")
				}
			}()
		}
	}

	race := targetRace
	if race == "" {
		upcoming, err := pipeline.UpcomingRaces(ctx, season, asOfRound)
		if err != nil {
			return err
		}
		if len(upcoming) == 0 {
			return fmt.Errorf("no race scheduled after round %d of season %d", asOfRound, season)
		}
		race = upcoming[0].Name
	}

	modelPath := cfg.Model.RaceModelPath
	if task == models.TaskQualifying {
		modelPath = cfg.Model.QualifyingModelPath
	}
	forest, err := ensemble.LoadForest(modelPath)
	if err != nil {
		return err
	}
	if forest.Task != "" && forest.Task != string(task) {
		appLog.WithFields(logrus.Fields{
			"artifact_task":  forest.Task,
			"requested_task": task,
		}).Warn("Model artifact was exported for a different task")
	}

	ranking, err := pipeline.RankRace(ctx, forest.Members(), task, season, asOfRound, race)
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(ranking)
	}
	printRanking(ranking)
	return nil
}

func printRanking(ranking *models.RaceRanking) {
	fmt.Printf("\n%s %d, %s (%s) as of round %d\n\n",
		"Season", ranking.Season, ranking.RaceName, ranking.Task, ranking.AsOfRound)
	fmt.Printf("%-4s %-24s %-20s %8s %8s %6s\n", "Pos", "Driver", "Team", "Score", "StdDev", "Conf")
	for _, entry := range ranking.Entries {
		fmt.Printf("%-4d %-24s %-20s %8.2f %8.2f %5.0f%%\n",
			entry.Rank, entry.Driver, entry.Team, entry.Score, entry.StdDev, entry.Confidence*100)
	}
	if len(ranking.Skipped) > 0 {
		fmt.Printf("\nSkipped (insufficient data): %v\n", ranking.Skipped)
	}
	fmt.Printf("\nRequest %s\n", ranking.RequestID)
}
