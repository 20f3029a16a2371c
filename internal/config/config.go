// Package config provides configuration management for the value detector.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Provider  ProviderConfig  `mapstructure:"provider" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Analysis  AnalysisConfig  `mapstructure:"analysis" validate:"required"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Schedules SchedulesConfig `mapstructure:"schedules" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ProviderConfig represents the sports-data provider (API-Football) configuration
type ProviderConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key" validate:"required"`
	Season            int     `mapstructure:"season" validate:"required,gt=2000"`
	Leagues           []int   `mapstructure:"leagues" validate:"required,min=1"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	StatsCacheTTL     int     `mapstructure:"stats_cache_ttl_minutes" validate:"required,gt=0"`
}

// WeightsConfig holds the indicator weights of the probability pool.
// The nine weights must sum to exactly 1.0 (within 1e-9).
type WeightsConfig struct {
	Poisson           float64 `mapstructure:"poisson" validate:"gte=0,lte=1"`
	HistoricalRate    float64 `mapstructure:"historical_rate" validate:"gte=0,lte=1"`
	RecentTrend       float64 `mapstructure:"recent_trend" validate:"gte=0,lte=1"`
	HeadToHead        float64 `mapstructure:"h2h" validate:"gte=0,lte=1"`
	OffensiveStrength float64 `mapstructure:"offensive_strength" validate:"gte=0,lte=1"`
	OffensiveTrend    float64 `mapstructure:"offensive_trend" validate:"gte=0,lte=1"`
	SeasonPhase       float64 `mapstructure:"season_phase" validate:"gte=0,lte=1"`
	Motivation        float64 `mapstructure:"motivation" validate:"gte=0,lte=1"`
	MatchImportance   float64 `mapstructure:"match_importance" validate:"gte=0,lte=1"`
}

// Sum returns the total of all nine weights.
func (w WeightsConfig) Sum() float64 {
	return w.Poisson + w.HistoricalRate + w.RecentTrend + w.HeadToHead +
		w.OffensiveStrength + w.OffensiveTrend + w.SeasonPhase + w.Motivation + w.MatchImportance
}

// EngineConfig represents the probability and value decision engine configuration
type EngineConfig struct {
	Weights          WeightsConfig `mapstructure:"weights" validate:"required"`
	BaselineOverRate float64       `mapstructure:"baseline_over_rate" validate:"required,gt=0,lt=1"`
	LeagueAvgLambda  float64       `mapstructure:"league_avg_lambda" validate:"required,gt=0"`
	FallbackPenalty  float64       `mapstructure:"fallback_penalty" validate:"required,gt=0,lt=1"`
	MinProbability   float64       `mapstructure:"min_probability" validate:"required,gt=0,lt=1"`
	MinConfidence    float64       `mapstructure:"min_confidence" validate:"required,gt=0,lt=1"`
	MinExpectedValue float64       `mapstructure:"min_expected_value" validate:"required,gt=0"`
	MinOdds          float64       `mapstructure:"min_odds" validate:"required,gt=1"`
	MaxOdds          float64       `mapstructure:"max_odds" validate:"required,gt=1"`
	KellyMultiplier  float64       `mapstructure:"kelly_multiplier" validate:"required,gt=0,lte=1"`
	MaxStakeFraction float64       `mapstructure:"max_stake_fraction" validate:"required,gt=0,lte=1"`
	MaxConcurrency   int           `mapstructure:"max_concurrency" validate:"required,gt=0"`
}

// AnalysisConfig represents the daily analysis batch configuration
type AnalysisConfig struct {
	DaysAhead          int `mapstructure:"days_ahead" validate:"required,gt=0"`
	RetentionDays      int `mapstructure:"retention_days" validate:"required,gt=0"`
	ReconcileAfterHour int `mapstructure:"reconcile_after_hours" validate:"gte=0"`
}

// APIConfig represents the read-only dashboard API configuration
type APIConfig struct {
	Port           int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	UpcomingDays   int      `mapstructure:"upcoming_days" validate:"required,gt=0"`
}

// RedisConfig represents the opportunity stream configuration
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Channel string `mapstructure:"channel"`
}

// TelegramConfig represents Telegram alert configuration
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulesConfig holds the cron expressions driving the detector daemon
type SchedulesConfig struct {
	DailyAnalysis  string `mapstructure:"daily_analysis" validate:"required"`
	Reconciliation string `mapstructure:"reconciliation" validate:"required"`
	Cleanup        string `mapstructure:"cleanup" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
