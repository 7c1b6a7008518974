// Package config provides configuration management for the gridcast service.
package config

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Teams    TeamsConfig    `mapstructure:"teams"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// HistoryConfig selects and parameterizes the history store backend
type HistoryConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=csv postgres"`
	DataDir string `mapstructure:"data_dir" validate:"required_if=Backend csv"`
}

// DatabaseConfig represents the Postgres history backend connection
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// ModelConfig locates the exported ensemble model artifacts
type ModelConfig struct {
	RaceModelPath       string `mapstructure:"race_model_path" validate:"required"`
	QualifyingModelPath string `mapstructure:"qualifying_model_path" validate:"required"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port"`
}

// TeamsConfig carries alias-table overrides merged over the built-in
// canonical team identities
type TeamsConfig struct {
	Aliases map[string][]string `mapstructure:"aliases"`
}
