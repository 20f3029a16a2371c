package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/Xavi146570/football-value-detector/internal/models"
)

// SkippedFixture reports one fixture that could not be evaluated, alongside
// the successful results of the same batch.
type SkippedFixture struct {
	FixtureID int64  `json:"fixture_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Reason    string `json:"reason"`
}

// BatchResult is the outcome of evaluating a batch of fixtures. Per-fixture
// failures are isolated into Skipped; they never abort the batch.
type BatchResult struct {
	Opportunities []*models.Opportunity
	Skipped       []SkippedFixture
}

// EvaluateBatch evaluates a set of fixtures concurrently. Each evaluation is
// pure and stateless, so the only coordination needed is the bounded worker
// semaphore. Results keep the input order. The context only gates scheduling:
// once started, an individual evaluation always runs to completion.
func (e *Engine) EvaluateBatch(ctx context.Context, contexts []models.MatchContext) BatchResult {
	type slot struct {
		opp *models.Opportunity
		err error
	}

	slots := make([]slot, len(contexts))
	sem := make(chan struct{}, e.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for i, mc := range contexts {
		// Checked before the select: with a cancelled context both select
		// cases are ready and the runtime picks one at random, which would
		// let fixtures slip through after cancellation.
		if err := ctx.Err(); err != nil {
			slots[i] = slot{err: err}
			continue
		}
		select {
		case <-ctx.Done():
			slots[i] = slot{err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, mc models.MatchContext) {
			defer wg.Done()
			defer func() { <-sem }()
			opp, err := e.Evaluate(mc)
			slots[i] = slot{opp: opp, err: err}
		}(i, mc)
	}
	wg.Wait()

	result := BatchResult{}
	for i, s := range slots {
		if s.err != nil {
			result.Skipped = append(result.Skipped, SkippedFixture{
				FixtureID: contexts[i].FixtureID,
				HomeTeam:  contexts[i].HomeTeam,
				AwayTeam:  contexts[i].AwayTeam,
				Reason:    s.err.Error(),
			})
			continue
		}
		result.Opportunities = append(result.Opportunities, s.opp)
	}
	return result
}

// RankOpportunities orders opportunities best first: by EV weighted with
// confidence. The slice is sorted in place and returned for chaining.
func RankOpportunities(opportunities []*models.Opportunity) []*models.Opportunity {
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].RankScore() > opportunities[j].RankScore()
	})
	return opportunities
}
