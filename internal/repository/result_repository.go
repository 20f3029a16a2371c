package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Xavi146570/football-value-detector/internal/database"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// Settle records the final score for a fixture and marks it settled
func (r *PostgresResultRepository) Settle(ctx context.Context, result *models.FixtureResult) error {
	query := `
		INSERT INTO fixture_results (fixture_id, home_goals, away_goals, status, over_hit, profit_loss, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (fixture_id) DO UPDATE SET
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			status = EXCLUDED.status,
			over_hit = EXCLUDED.over_hit,
			profit_loss = EXCLUDED.profit_loss,
			settled_at = EXCLUDED.settled_at
	`

	_, err := r.db.Exec(ctx, query,
		result.FixtureID, result.HomeGoals, result.AwayGoals,
		models.ResultStatusSettled, result.OverHit, result.ProfitLoss,
	)
	if err != nil {
		return fmt.Errorf("failed to settle fixture %d: %w", result.FixtureID, err)
	}

	return nil
}

// Cancel marks a fixture as cancelled; no profit or loss is booked
func (r *PostgresResultRepository) Cancel(ctx context.Context, fixtureID int64) error {
	query := `
		INSERT INTO fixture_results (fixture_id, status, settled_at)
		VALUES ($1, $2, now())
		ON CONFLICT (fixture_id) DO UPDATE SET
			status = EXCLUDED.status,
			settled_at = EXCLUDED.settled_at
	`

	if _, err := r.db.Exec(ctx, query, fixtureID, models.ResultStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel fixture %d: %w", fixtureID, err)
	}

	return nil
}

// GetByFixtureID retrieves the stored result for one fixture
func (r *PostgresResultRepository) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.FixtureResult, error) {
	query := `
		SELECT fixture_id, COALESCE(home_goals, 0), COALESCE(away_goals, 0), status, over_hit, profit_loss, settled_at
		FROM fixture_results WHERE fixture_id = $1
	`

	result := &models.FixtureResult{}
	err := r.db.QueryRow(ctx, query, fixtureID).Scan(
		&result.FixtureID, &result.HomeGoals, &result.AwayGoals,
		&result.Status, &result.OverHit, &result.ProfitLoss, &result.SettledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture result: %w", err)
	}

	return result, nil
}

// GetPerformance aggregates settled predictions over a trailing window of
// days. Stakes and returns are per unit bankroll.
func (r *PostgresResultRepository) GetPerformance(ctx context.Context, periodDays int) (*models.PerformanceStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE fr.over_hit = true),
			COUNT(*) FILTER (WHERE fr.over_hit = false),
			COALESCE(SUM(o.recommended_stake), 0)::text,
			COALESCE(SUM(fr.profit_loss), 0)::text
		FROM fixture_results fr
		JOIN opportunities o ON o.fixture_id = fr.fixture_id
		WHERE fr.status = 'settled'
		  AND fr.settled_at >= now() - make_interval(days => $1)
	`

	stats := &models.PerformanceStats{PeriodDays: periodDays}
	var staked, profitLoss string
	err := r.db.QueryRow(ctx, query, periodDays).Scan(
		&stats.TotalBets, &stats.WonBets, &stats.LostBets, &staked, &profitLoss,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate performance: %w", err)
	}

	stats.TotalStaked, err = decimal.NewFromString(staked)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total staked: %w", err)
	}
	stats.ProfitLoss, err = decimal.NewFromString(profitLoss)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profit and loss: %w", err)
	}
	stats.ComputeDerived()

	return stats, nil
}
