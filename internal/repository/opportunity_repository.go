package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Xavi146570/football-value-detector/internal/database"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

const opportunityColumns = `id, fixture_id, home_team, away_team, league, kickoff,
	       our_probability, implied_probability, odds, edge, expected_value, confidence,
	       kelly_fraction, recommended_stake, quality, risk, accepted, warning, analyzed_at`

// PostgresOpportunityRepository implements OpportunityRepository for PostgreSQL
type PostgresOpportunityRepository struct {
	db *database.DB
}

// NewPostgresOpportunityRepository creates a new opportunity repository
func NewPostgresOpportunityRepository(db *database.DB) OpportunityRepository {
	return &PostgresOpportunityRepository{db: db}
}

// Upsert inserts an opportunity, replacing any prior analysis of the same
// fixture. Re-running a day's analysis is idempotent.
func (r *PostgresOpportunityRepository) Upsert(ctx context.Context, opp *models.Opportunity) error {
	query := `
		INSERT INTO opportunities (` + opportunityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (fixture_id) DO UPDATE SET
			our_probability = EXCLUDED.our_probability,
			implied_probability = EXCLUDED.implied_probability,
			odds = EXCLUDED.odds,
			edge = EXCLUDED.edge,
			expected_value = EXCLUDED.expected_value,
			confidence = EXCLUDED.confidence,
			kelly_fraction = EXCLUDED.kelly_fraction,
			recommended_stake = EXCLUDED.recommended_stake,
			quality = EXCLUDED.quality,
			risk = EXCLUDED.risk,
			accepted = EXCLUDED.accepted,
			warning = EXCLUDED.warning,
			analyzed_at = EXCLUDED.analyzed_at
	`

	_, err := r.db.Exec(ctx, query,
		opp.ID, opp.FixtureID, opp.HomeTeam, opp.AwayTeam, opp.League, opp.Kickoff,
		opp.OurProbability, opp.ImpliedProbability, opp.Odds, opp.Edge, opp.ExpectedValue, opp.Confidence,
		opp.KellyFraction, opp.RecommendedStake, opp.Quality.String(), opp.Risk.String(),
		opp.Accepted, opp.Warning, opp.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert opportunity: %w", err)
	}

	return nil
}

// UpsertBatch stores a batch of opportunities in one transaction.
func (r *PostgresOpportunityRepository) UpsertBatch(ctx context.Context, opps []*models.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, opp := range opps {
			query := `
				INSERT INTO opportunities (` + opportunityColumns + `)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
				ON CONFLICT (fixture_id) DO UPDATE SET
					our_probability = EXCLUDED.our_probability,
					implied_probability = EXCLUDED.implied_probability,
					odds = EXCLUDED.odds,
					edge = EXCLUDED.edge,
					expected_value = EXCLUDED.expected_value,
					confidence = EXCLUDED.confidence,
					kelly_fraction = EXCLUDED.kelly_fraction,
					recommended_stake = EXCLUDED.recommended_stake,
					quality = EXCLUDED.quality,
					risk = EXCLUDED.risk,
					accepted = EXCLUDED.accepted,
					warning = EXCLUDED.warning,
					analyzed_at = EXCLUDED.analyzed_at
			`
			_, err := tx.Exec(ctx, query,
				opp.ID, opp.FixtureID, opp.HomeTeam, opp.AwayTeam, opp.League, opp.Kickoff,
				opp.OurProbability, opp.ImpliedProbability, opp.Odds, opp.Edge, opp.ExpectedValue, opp.Confidence,
				opp.KellyFraction, opp.RecommendedStake, opp.Quality.String(), opp.Risk.String(),
				opp.Accepted, opp.Warning, opp.AnalyzedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert opportunity for fixture %d: %w", opp.FixtureID, err)
			}
		}
		return nil
	})
}

// GetByFixtureID retrieves the stored analysis for one fixture
func (r *PostgresOpportunityRepository) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE fixture_id = $1`

	opp, err := scanOpportunity(r.db.QueryRow(ctx, query, fixtureID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}

	return opp, nil
}

// GetToday retrieves opportunities for fixtures kicking off today (UTC)
func (r *PostgresOpportunityRepository) GetToday(ctx context.Context, acceptedOnly bool) ([]*models.Opportunity, error) {
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE kickoff >= date_trunc('day', now() AT TIME ZONE 'utc')
		  AND kickoff < date_trunc('day', now() AT TIME ZONE 'utc') + interval '1 day'
		  AND ($1 = false OR accepted = true)
		ORDER BY expected_value * confidence DESC
	`

	return r.queryOpportunities(ctx, query, acceptedOnly)
}

// GetUpcoming retrieves accepted opportunities with a future kickoff
func (r *PostgresOpportunityRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Opportunity, error) {
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE accepted = true AND kickoff > now()
		ORDER BY kickoff ASC
		LIMIT $1
	`

	return r.queryOpportunities(ctx, query, limit)
}

// GetUnsettled retrieves accepted opportunities whose fixture has kicked off
// but has no settled result yet
func (r *PostgresOpportunityRepository) GetUnsettled(ctx context.Context, before time.Time) ([]*models.Opportunity, error) {
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities o
		WHERE o.accepted = true
		  AND o.kickoff < $1
		  AND NOT EXISTS (
			SELECT 1 FROM fixture_results fr
			WHERE fr.fixture_id = o.fixture_id AND fr.status <> 'pending'
		  )
		ORDER BY o.kickoff ASC
	`

	return r.queryOpportunities(ctx, query, before)
}

// DeleteOlderThan removes rejected opportunities older than the cutoff.
// Accepted picks are kept for performance history.
func (r *PostgresOpportunityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM opportunities WHERE accepted = false AND kickoff < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old opportunities: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresOpportunityRepository) queryOpportunities(ctx context.Context, query string, args ...any) ([]*models.Opportunity, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	var opps []*models.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opportunity: %w", err)
		}
		opps = append(opps, opp)
	}

	return opps, rows.Err()
}

func scanOpportunity(row pgx.Row) (*models.Opportunity, error) {
	opp := &models.Opportunity{}
	var quality, risk string
	err := row.Scan(
		&opp.ID, &opp.FixtureID, &opp.HomeTeam, &opp.AwayTeam, &opp.League, &opp.Kickoff,
		&opp.OurProbability, &opp.ImpliedProbability, &opp.Odds, &opp.Edge, &opp.ExpectedValue, &opp.Confidence,
		&opp.KellyFraction, &opp.RecommendedStake, &quality, &risk, &opp.Accepted, &opp.Warning, &opp.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}
	opp.Quality = models.ParseQualityTier(quality)
	opp.Risk = models.ParseRiskTier(risk)
	return opp, nil
}
