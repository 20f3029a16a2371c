package datasource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

const h2hLookback = 10

// Collector assembles per-fixture MatchContexts from provider data. Team
// statistics and standings change slowly, so both are cached with a TTL to
// keep the request count inside the provider's quota. Missing data never
// fails a context: the field is left at its zero value and the engine falls
// back.
type Collector struct {
	provider Provider
	cache    *cache.Cache
	logger   logrus.FieldLogger
}

// NewCollector creates a collector with a TTL cache sized from configuration.
func NewCollector(provider Provider, cfg *config.ProviderConfig, logger logrus.FieldLogger) *Collector {
	ttl := time.Duration(cfg.StatsCacheTTL) * time.Minute
	return &Collector{
		provider: provider,
		cache:    cache.New(ttl, 2*ttl),
		logger:   logger,
	}
}

// BuildContext assembles the engine input for one fixture.
func (c *Collector) BuildContext(ctx context.Context, fixture Fixture) (models.MatchContext, error) {
	mc := models.MatchContext{
		FixtureID:  fixture.ID,
		HomeTeam:   fixture.HomeTeam,
		AwayTeam:   fixture.AwayTeam,
		League:     fixture.LeagueName,
		Kickoff:    fixture.Kickoff,
		Round:      parseRoundNumber(fixture.Round),
		Importance: models.ImportanceNormal,
	}

	home, err := c.teamStats(ctx, fixture.HomeTeamID, fixture.LeagueID, fixture.Season)
	if err != nil {
		return mc, fmt.Errorf("home team stats: %w", err)
	}
	mc.Home = *home

	away, err := c.teamStats(ctx, fixture.AwayTeamID, fixture.LeagueID, fixture.Season)
	if err != nil {
		return mc, fmt.Errorf("away team stats: %w", err)
	}
	mc.Away = *away

	// Soft data: head to head, standings and odds degrade to fallbacks.
	h2h, err := c.provider.FetchHeadToHead(ctx, fixture.HomeTeamID, fixture.AwayTeamID, h2hLookback)
	if err != nil {
		c.logger.WithError(err).WithField("fixture_id", fixture.ID).Warn("Head-to-head unavailable")
	} else {
		mc.H2HGoals = h2h
	}

	if standings, err := c.standings(ctx, fixture.LeagueID, fixture.Season); err != nil {
		c.logger.WithError(err).WithField("league_id", fixture.LeagueID).Warn("Standings unavailable")
	} else {
		c.applyStandings(&mc, fixture, standings)
	}

	odds, err := c.provider.FetchOverOdds(ctx, fixture.ID)
	if err != nil {
		c.logger.WithError(err).WithField("fixture_id", fixture.ID).Warn("Odds lookup failed")
	} else {
		mc.OverOdds = odds
	}

	return mc, nil
}

// BuildContexts assembles contexts for a whole fixture list, skipping
// fixtures whose hard data cannot be fetched.
func (c *Collector) BuildContexts(ctx context.Context, fixtures []Fixture) []models.MatchContext {
	contexts := make([]models.MatchContext, 0, len(fixtures))
	for _, f := range fixtures {
		mc, err := c.BuildContext(ctx, f)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"fixture_id": f.ID,
				"home":       f.HomeTeam,
				"away":       f.AwayTeam,
			}).Warn("Skipping fixture, context build failed")
			continue
		}
		contexts = append(contexts, mc)
	}
	return contexts
}

func (c *Collector) teamStats(ctx context.Context, teamID, leagueID, season int) (*models.TeamStats, error) {
	key := fmt.Sprintf("stats:%d:%d:%d", teamID, leagueID, season)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*models.TeamStats), nil
	}

	stats, err := c.provider.FetchTeamStatistics(ctx, teamID, leagueID, season)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, stats)
	return stats, nil
}

func (c *Collector) standings(ctx context.Context, leagueID, season int) ([]Standing, error) {
	key := fmt.Sprintf("standings:%d:%d", leagueID, season)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Standing), nil
	}

	standings, err := c.provider.FetchStandings(ctx, leagueID, season)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, standings)
	return standings, nil
}

func (c *Collector) applyStandings(mc *models.MatchContext, fixture Fixture, standings []Standing) {
	mc.TableSize = len(standings)
	// A full round robin plays every opponent twice.
	if len(standings) > 1 {
		mc.TotalRounds = 2 * (len(standings) - 1)
	}
	for _, row := range standings {
		switch row.TeamID {
		case fixture.HomeTeamID:
			mc.HomePos = row.Rank
		case fixture.AwayTeamID:
			mc.AwayPos = row.Rank
		}
	}
}

// parseRoundNumber extracts the matchday from round labels like
// "Regular Season - 12". Cup rounds and unknown formats yield 0.
func parseRoundNumber(round string) int {
	idx := strings.LastIndex(round, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(round[idx+1:]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
