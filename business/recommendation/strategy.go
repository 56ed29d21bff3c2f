package recommendation

import (
	"context"

	"vagaMatch/domain"
)

// ScoredOpportunity is one strategy's verdict on one opportunity. Strategies
// return no entry at all for opportunities they have nothing to say about.
type ScoredOpportunity struct {
	OpportunityID uint
	Score         float64
	Explanation   string
}

// Strategy scores open opportunities for a user. Implementations are pure
// reads over repository state: no writes, no retained state between calls.
// Every strategy must exclude opportunities the user already applied to and
// opportunities that are not open.
type Strategy interface {
	Name() string
	Description() string
	Weight() float64
	Recommend(ctx context.Context, user domain.User) ([]ScoredOpportunity, error)
}

// ---- Repository contracts (implemented by internal/repository/postgres) ----

type InterestReader interface {
	FindByUser(ctx context.Context, userID uint) ([]domain.Interest, error)
	// IDsByOpenOpportunity returns tagged interest ids keyed by opportunity id,
	// restricted to open opportunities.
	IDsByOpenOpportunity(ctx context.Context) (map[uint][]uint, error)
}

type OpportunityReader interface {
	FindOpen(ctx context.Context) ([]domain.Opportunity, error)
	FindByID(ctx context.Context, id uint) (domain.Opportunity, error)
}

type ApplicationReader interface {
	AppliedOpportunityIDs(ctx context.Context, userID uint) (map[uint]bool, error)
	CountByOpenOpportunity(ctx context.Context) ([]domain.OpportunityApplicationCount, error)
}

type UserDirectory interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	// FindEligibleStudents lists verified student accounts, the population of
	// the batch recompute.
	FindEligibleStudents(ctx context.Context) ([]domain.User, error)
}
