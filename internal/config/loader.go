// Package config provides configuration management for the value detector.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
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

	v.SetEnvPrefix("FOOTY_VALUE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// The file may be absent entirely; defaults and environment variables then apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("FOOTY_VALUE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setEngineDefaults(v)
	v.SetDefault("app.name", "football-value-detector")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9100)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("api.port", 10000)
	v.SetDefault("api.upcoming_days", 3)
	v.SetDefault("analysis.days_ahead", 5)
	v.SetDefault("analysis.retention_days", 30)
	v.SetDefault("schedules.daily_analysis", "0 6 * * *")
	v.SetDefault("schedules.reconciliation", "0 */4 * * *")
	v.SetDefault("schedules.cleanup", "30 3 * * *")

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setEngineDefaults seeds the engine section with the documented model
// constants. The weights mirror the indicator table and sum to exactly 1.0.
func setEngineDefaults(v *viper.Viper) {
	v.SetDefault("engine.weights.poisson", 0.25)
	v.SetDefault("engine.weights.historical_rate", 0.15)
	v.SetDefault("engine.weights.recent_trend", 0.10)
	v.SetDefault("engine.weights.h2h", 0.12)
	v.SetDefault("engine.weights.offensive_strength", 0.10)
	v.SetDefault("engine.weights.offensive_trend", 0.08)
	v.SetDefault("engine.weights.season_phase", 0.08)
	v.SetDefault("engine.weights.motivation", 0.07)
	v.SetDefault("engine.weights.match_importance", 0.05)
	v.SetDefault("engine.baseline_over_rate", 0.72)
	v.SetDefault("engine.league_avg_lambda", 2.7)
	v.SetDefault("engine.fallback_penalty", 0.08)
	v.SetDefault("engine.min_probability", 0.65)
	v.SetDefault("engine.min_confidence", 0.60)
	v.SetDefault("engine.min_expected_value", 0.05)
	v.SetDefault("engine.min_odds", 1.10)
	v.SetDefault("engine.max_odds", 2.50)
	v.SetDefault("engine.kelly_multiplier", 0.25)
	v.SetDefault("engine.max_stake_fraction", 0.10)
	v.SetDefault("engine.max_concurrency", 8)
}
