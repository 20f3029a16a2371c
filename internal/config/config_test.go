package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes full validation.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "football-value-detector",
			Environment: "development",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			Host:               "localhost",
			Port:               5432,
			Name:               "footy_value",
			User:               "footy",
			Password:           "secret",
			SSLMode:            "disable",
			MaxConnections:     10,
			MaxIdleConnections: 2,
		},
		Provider: ProviderConfig{
			BaseURL:           "https://v3.football.api-sports.io",
			APIKey:            "key",
			Season:            2025,
			Leagues:           []int{39, 140, 135},
			RequestsPerMinute: 30,
			TimeoutSeconds:    30,
			RetryAttempts:     3,
			StatsCacheTTL:     60,
		},
		Engine: EngineConfig{
			Weights: WeightsConfig{
				Poisson:           0.25,
				HistoricalRate:    0.15,
				RecentTrend:       0.10,
				HeadToHead:        0.12,
				OffensiveStrength: 0.10,
				OffensiveTrend:    0.08,
				SeasonPhase:       0.08,
				Motivation:        0.07,
				MatchImportance:   0.05,
			},
			BaselineOverRate: 0.72,
			LeagueAvgLambda:  2.7,
			FallbackPenalty:  0.08,
			MinProbability:   0.65,
			MinConfidence:    0.60,
			MinExpectedValue: 0.05,
			MinOdds:          1.10,
			MaxOdds:          2.50,
			KellyMultiplier:  0.25,
			MaxStakeFraction: 0.10,
			MaxConcurrency:   8,
		},
		Analysis: AnalysisConfig{DaysAhead: 5, RetentionDays: 30},
		API:      APIConfig{Port: 10000, UpcomingDays: 3},
		Metrics:  MetricsConfig{Enabled: true, Port: 9100, Path: "/metrics"},
		Schedules: SchedulesConfig{
			DailyAnalysis:  "0 6 * * *",
			Reconciliation: "0 */4 * * *",
			Cleanup:        "30 3 * * *",
		},
	}
}

func TestValidateSuccess(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Validate(cfg))
}

func TestValidateWeightsMustSumToOne(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Weights.Poisson = 0.30 // sum becomes 1.05

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights must sum to 1.0")
}

func TestValidateWeightSumTolerance(t *testing.T) {
	cfg := validConfig()
	// A drift well inside the 1e-9 tolerance must not be rejected.
	cfg.Engine.Weights.Poisson += 1e-12
	require.NoError(t, Validate(cfg))
}

func TestValidateInvertedOddsBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.MinOdds = 2.50
	cfg.Engine.MaxOdds = 1.10

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_odds")
}

func TestValidateMinOddsAboveOne(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.MinOdds = 1.0
	cfg.Engine.MaxOdds = 2.5

	// odds = 1.0 would make the Kelly denominator zero, the lower bound
	// has to exclude it
	require.Error(t, Validate(cfg))
}

func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "invalid"
	require.Error(t, Validate(cfg))
}

func TestValidateTelegramRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Enabled = true

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "production"
	require.Error(t, Validate(cfg))

	cfg.Database.SSLMode = "require"
	require.NoError(t, Validate(cfg))
}

func TestLoadWithDefaultsSeedsEngineSection(t *testing.T) {
	cfg, err := LoadWithDefaults("testdata/nonexistent.yaml")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, cfg.Engine.Weights.Sum(), 1e-9)
	assert.Equal(t, 0.72, cfg.Engine.BaselineOverRate)
	assert.Equal(t, 0.25, cfg.Engine.KellyMultiplier)
	assert.Equal(t, 0.10, cfg.Engine.MaxStakeFraction)
	assert.Equal(t, 1.10, cfg.Engine.MinOdds)
	assert.Equal(t, 2.50, cfg.Engine.MaxOdds)
}

// The shipped config files must carry the same model constants as the loader
// defaults; a divergent league_avg_lambda halves the Poisson fallback.
func TestShippedConfigsMatchModelConstants(t *testing.T) {
	for _, path := range []string{"../../config/config.yaml", "../../config/config.test.yaml"} {
		cfg, err := Load(path)
		require.NoError(t, err, path)

		assert.InDelta(t, 1.0, cfg.Engine.Weights.Sum(), 1e-9, path)
		assert.Equal(t, 0.72, cfg.Engine.BaselineOverRate, path)
		assert.Equal(t, 2.7, cfg.Engine.LeagueAvgLambda, path)
		assert.Equal(t, 0.25, cfg.Engine.KellyMultiplier, path)
		assert.Equal(t, 0.10, cfg.Engine.MaxStakeFraction, path)
	}
}
