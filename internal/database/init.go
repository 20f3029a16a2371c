package database

import (
	"context"
	"fmt"

	"github.com/Xavi146570/football-value-detector/internal/config"
)

// schema holds the tables the detector persists into. Statements are
// idempotent so Initialize can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS opportunities (
		id UUID PRIMARY KEY,
		fixture_id BIGINT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		league TEXT NOT NULL,
		kickoff TIMESTAMPTZ NOT NULL,
		our_probability DOUBLE PRECISION NOT NULL,
		implied_probability DOUBLE PRECISION NOT NULL,
		odds DOUBLE PRECISION NOT NULL,
		edge DOUBLE PRECISION NOT NULL,
		expected_value DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		kelly_fraction DOUBLE PRECISION NOT NULL,
		recommended_stake DOUBLE PRECISION NOT NULL,
		quality TEXT NOT NULL,
		risk TEXT NOT NULL,
		accepted BOOLEAN NOT NULL,
		warning TEXT NOT NULL DEFAULT '',
		analyzed_at TIMESTAMPTZ NOT NULL,
		UNIQUE (fixture_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_opportunities_kickoff ON opportunities (kickoff)`,
	`CREATE INDEX IF NOT EXISTS idx_opportunities_accepted ON opportunities (accepted, kickoff)`,
	`CREATE TABLE IF NOT EXISTS fixture_results (
		fixture_id BIGINT PRIMARY KEY REFERENCES opportunities (fixture_id),
		home_goals INT,
		away_goals INT,
		status TEXT NOT NULL DEFAULT 'pending',
		over_hit BOOLEAN,
		profit_loss DOUBLE PRECISION,
		settled_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fixture_results_status ON fixture_results (status)`,
}

// Initialize creates a database connection pool and ensures the schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the idempotent schema statements.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
