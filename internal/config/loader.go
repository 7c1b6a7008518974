package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("GRIDCAST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Viper lowercases map keys during Unmarshal, but canonical team
	// names in the alias table are case-sensitive. Decode that subtree
	// from the expanded YAML directly.
	aliases, err := decodeAliases(expanded)
	if err != nil {
		return nil, err
	}
	if len(aliases) > 0 {
		cfg.Teams.Aliases = aliases
	}

	return cfg, nil
}

func decodeAliases(expanded string) (map[string][]string, error) {
	var doc struct {
		Teams struct {
			Aliases map[string][]string `yaml:"aliases"`
		} `yaml:"teams"`
	}
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse team aliases: %w", err)
	}
	return doc.Teams.Aliases, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gridcast")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("history.backend", "csv")
	v.SetDefault("history.data_dir", "./data")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", "8080")
}
