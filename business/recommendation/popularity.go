package recommendation

import (
	"context"
	"fmt"

	"vagaMatch/domain"
)

const (
	StrategyPopular = "popular"

	popularityWeight = 0.3
)

// PopularityStrategy scores an open opportunity by its application count
// relative to the most-applied open opportunity. Zero-count opportunities
// carry no signal and are excluded, as is everything when nobody has applied
// anywhere yet.
type PopularityStrategy struct {
	applications ApplicationReader
}

func NewPopularityStrategy(applications ApplicationReader) *PopularityStrategy {
	return &PopularityStrategy{applications: applications}
}

func (s *PopularityStrategy) Name() string {
	return StrategyPopular
}

func (s *PopularityStrategy) Description() string {
	return "Baseado na popularidade entre outros estudantes"
}

func (s *PopularityStrategy) Weight() float64 {
	return popularityWeight
}

func (s *PopularityStrategy) Recommend(ctx context.Context, user domain.User) ([]ScoredOpportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	counts, err := s.applications.CountByOpenOpportunity(ctx)
	if err != nil {
		return nil, fmt.Errorf("load application counts: %w", err)
	}
	if len(counts) == 0 {
		return nil, nil
	}

	maxCount := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	if maxCount == 0 {
		return nil, nil
	}

	applied, err := s.applications.AppliedOpportunityIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}

	recs := make([]ScoredOpportunity, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		if applied[c.OpportunityID] {
			continue
		}

		recs = append(recs, ScoredOpportunity{
			OpportunityID: c.OpportunityID,
			Score:         float64(c.Count) / float64(maxCount),
			Explanation:   fmt.Sprintf("Esta oportunidade já atraiu %d candidato(s)", c.Count),
		})
	}

	return recs, nil
}
