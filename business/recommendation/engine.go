package recommendation

import (
	"context"
	"sort"

	"vagaMatch/domain"
	"vagaMatch/pkg/logger"
)

// StrategyContribution is one strategy's entry inside a combined result.
type StrategyContribution struct {
	Name        string
	Score       float64
	Weight      float64
	Explanation string
}

// CombinedRecommendation is the weighted aggregate of every strategy that
// produced an entry for one opportunity.
type CombinedRecommendation struct {
	OpportunityID uint
	TotalScore    float64
	Strategies    []StrategyContribution
}

// StrategyResult pairs a strategy identity with its (possibly replayed)
// entries; Combine works off these so targeted recomputes can mix fresh
// output with still-valid stored rows.
type StrategyResult struct {
	Name    string
	Weight  float64
	Entries []ScoredOpportunity
}

// Engine owns the strategy set. Registration order is fixed at construction
// and determines explanation ordering, never scores.
type Engine struct {
	strategies []Strategy
}

func NewEngine(strategies ...Strategy) *Engine {
	return &Engine{strategies: strategies}
}

func (e *Engine) Strategies() []Strategy {
	return e.strategies
}

func (e *Engine) StrategyByName(name string) (Strategy, bool) {
	for _, s := range e.strategies {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// RunAll executes every strategy for the user. A failing strategy is logged
// and counted but contributes an empty result set; one broken strategy must
// not block the others.
func (e *Engine) RunAll(ctx context.Context, user domain.User) []StrategyResult {
	tid := TraceIDFromContext(ctx)

	results := make([]StrategyResult, 0, len(e.strategies))
	for _, strat := range e.strategies {
		entries, err := strat.Recommend(ctx, user)
		if err != nil {
			logger.Error("strategy failed, contributing empty result",
				"trace_id", tid,
				"strategy", strat.Name(),
				"user_id", user.ID,
				"error", err,
			)
			StrategyFailuresTotal.WithLabelValues(strat.Name()).Inc()
			entries = nil
		}

		results = append(results, StrategyResult{
			Name:    strat.Name(),
			Weight:  strat.Weight(),
			Entries: entries,
		})
	}

	return results
}

// Combine sums score*weight per opportunity across the given results, sorts
// descending by total and truncates to limit (limit <= 0 keeps everything).
// Ties break on ascending opportunity id so repeated runs produce the same
// ranking.
func (e *Engine) Combine(results []StrategyResult, limit int) []CombinedRecommendation {
	byOpportunity := make(map[uint]*CombinedRecommendation)
	order := make([]uint, 0)

	for _, res := range results {
		for _, entry := range res.Entries {
			combined, ok := byOpportunity[entry.OpportunityID]
			if !ok {
				combined = &CombinedRecommendation{OpportunityID: entry.OpportunityID}
				byOpportunity[entry.OpportunityID] = combined
				order = append(order, entry.OpportunityID)
			}

			combined.TotalScore += entry.Score * res.Weight
			combined.Strategies = append(combined.Strategies, StrategyContribution{
				Name:        res.Name,
				Score:       entry.Score,
				Weight:      res.Weight,
				Explanation: entry.Explanation,
			})
		}
	}

	out := make([]CombinedRecommendation, 0, len(order))
	for _, id := range order {
		out = append(out, *byOpportunity[id])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore == out[j].TotalScore {
			return out[i].OpportunityID < out[j].OpportunityID
		}
		return out[i].TotalScore > out[j].TotalScore
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
