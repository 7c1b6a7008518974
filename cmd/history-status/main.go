// Package main provides a coverage report over the historical record store.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridcast/internal/config"
	"github.com/yourusername/gridcast/internal/history"
	"github.com/yourusername/gridcast/internal/logger"
)

var (
	configFile string

	cfg     *config.Config
	appLog  *logrus.Logger
	store   history.Store
	pgStore *history.PostgresStore
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "history-status",
	Short: "Report record-store coverage per season",
	Long: `Walks every season in the configured history backend and reports how
many scheduled races have results, and whether standings, pit-stop, and
rain records are present. Gaps here surface as unknown features at
prediction time.`,
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
		return displayStatus(cmd.Context())
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
	appLog.SetLevel(logrus.WarnLevel)

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
	return nil
}

func teardown() {
	if pgStore != nil {
		pgStore.Close()
	}
}

func displayStatus(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	fmt.Println("\n╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                 History Store Coverage Report                  ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nBackend: %s\n\n", cfg.History.Backend)

	seasons, err := store.Seasons(ctx)
	if err != nil {
		return err
	}
	if len(seasons) == 0 {
		fmt.Println("No seasons found.")
		return nil
	}

	fmt.Printf("%-8s %-14s %-10s %-10s %-6s\n", "Season", "Races", "Standings", "PitStops", "Rain")
	for _, season := range seasons {
		schedule, err := store.Schedule(ctx, season)
		if err != nil {
			return err
		}

		withResults := 0
		for _, entry := range schedule {
			ok, err := store.HasRace(ctx, season, entry.Name)
			if err != nil {
				return err
			}
			if ok {
				withResults++
			}
		}

		standings, err := store.Standings(ctx, season)
		if err != nil {
			return err
		}
		stops, err := store.PitStops(ctx, season)
		if err != nil {
			return err
		}
		rain, err := store.RainFlags(ctx, season)
		if err != nil {
			return err
		}

		fmt.Printf("%-8d %-14s %-10s %-10s %-6s\n",
			season,
			fmt.Sprintf("%d/%d", withResults, len(schedule)),
			presence(len(standings)),
			presence(len(stops)),
			presence(len(rain)),
		)
	}

	fmt.Println()
	return nil
}

func presence(n int) string {
	if n > 0 {
		return fmt.Sprintf("✓ (%d)", n)
	}
	return "missing"
}
