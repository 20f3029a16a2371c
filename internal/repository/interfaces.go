package repository

import (
	"context"
	"time"

	"github.com/Xavi146570/football-value-detector/internal/models"
)

// OpportunityRepository defines the interface for opportunity persistence
type OpportunityRepository interface {
	Upsert(ctx context.Context, opp *models.Opportunity) error
	UpsertBatch(ctx context.Context, opps []*models.Opportunity) error
	GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Opportunity, error)
	GetToday(ctx context.Context, acceptedOnly bool) ([]*models.Opportunity, error)
	GetUpcoming(ctx context.Context, limit int) ([]*models.Opportunity, error)
	GetUnsettled(ctx context.Context, before time.Time) ([]*models.Opportunity, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ResultRepository defines the interface for fixture result persistence
type ResultRepository interface {
	Settle(ctx context.Context, result *models.FixtureResult) error
	Cancel(ctx context.Context, fixtureID int64) error
	GetByFixtureID(ctx context.Context, fixtureID int64) (*models.FixtureResult, error)
	GetPerformance(ctx context.Context, periodDays int) (*models.PerformanceStats, error)
}
