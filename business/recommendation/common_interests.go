package recommendation

import (
	"context"
	"fmt"
	"strings"

	"vagaMatch/domain"
)

const (
	StrategyCommonInterests = "common_interests"

	commonInterestsWeight = 0.7
	maxExplainedInterests = 3
)

// CommonInterestsStrategy scores by overlap between the user's declared
// interests and an opportunity's tagged interests. The denominator is the
// opportunity's tag count, so opportunities that are mostly about the user's
// interests rank higher than broadly-tagged ones.
type CommonInterestsStrategy struct {
	interests     InterestReader
	opportunities OpportunityReader
	applications  ApplicationReader
}

func NewCommonInterestsStrategy(
	interests InterestReader,
	opportunities OpportunityReader,
	applications ApplicationReader,
) *CommonInterestsStrategy {
	return &CommonInterestsStrategy{
		interests:     interests,
		opportunities: opportunities,
		applications:  applications,
	}
}

func (s *CommonInterestsStrategy) Name() string {
	return StrategyCommonInterests
}

func (s *CommonInterestsStrategy) Description() string {
	return "Baseado nos seus interesses em comum"
}

func (s *CommonInterestsStrategy) Weight() float64 {
	return commonInterestsWeight
}

func (s *CommonInterestsStrategy) Recommend(ctx context.Context, user domain.User) ([]ScoredOpportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	userInterests, err := s.interests.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load user interests: %w", err)
	}
	if len(userInterests) == 0 {
		return nil, nil
	}

	interestedIn := make(map[uint]bool, len(userInterests))
	for _, in := range userInterests {
		interestedIn[in.ID] = true
	}

	opportunities, err := s.opportunities.FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("load open opportunities: %w", err)
	}

	tagsByOpportunity, err := s.interests.IDsByOpenOpportunity(ctx)
	if err != nil {
		return nil, fmt.Errorf("load opportunity interests: %w", err)
	}

	applied, err := s.applications.AppliedOpportunityIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}

	recs := make([]ScoredOpportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		if applied[opp.ID] {
			continue
		}

		tags := tagsByOpportunity[opp.ID]
		// Untagged opportunities have an undefined overlap ratio; skip them.
		if len(tags) == 0 {
			continue
		}

		tagged := make(map[uint]bool, len(tags))
		for _, id := range tags {
			tagged[id] = true
		}

		// Collect matches in the user's declaration order so explanations
		// are stable across recomputes.
		matchedNames := make([]string, 0, len(userInterests))
		for _, in := range userInterests {
			if tagged[in.ID] {
				matchedNames = append(matchedNames, in.Name)
			}
		}
		if len(matchedNames) == 0 {
			continue
		}

		score := float64(len(matchedNames)) / float64(len(tags))

		recs = append(recs, ScoredOpportunity{
			OpportunityID: opp.ID,
			Score:         score,
			Explanation:   commonInterestsExplanation(matchedNames),
		})
	}

	return recs, nil
}

func commonInterestsExplanation(names []string) string {
	shown := names
	if len(shown) > maxExplainedInterests {
		shown = shown[:maxExplainedInterests]
	}

	explanation := fmt.Sprintf(
		"Você tem %d interesse(s) em comum: %s",
		len(names),
		strings.Join(shown, ", "),
	)
	if overflow := len(names) - maxExplainedInterests; overflow > 0 {
		explanation += fmt.Sprintf(" e mais %d", overflow)
	}

	return explanation
}
