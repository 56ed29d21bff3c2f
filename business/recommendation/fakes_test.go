//go:build !integration

package recommendation

import (
	"context"
	"errors"
	"sort"
	"time"

	"vagaMatch/domain"
)

// fakeRepo backs every repository contract with in-memory maps so strategy
// and service behavior can be exercised without a database.
type fakeRepo struct {
	userInterests map[uint][]domain.Interest
	oppTags       map[uint][]uint
	opportunities []domain.Opportunity
	applied       map[uint]map[uint]bool
	counts        []domain.OpportunityApplicationCount

	interestsErr error
	countsErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		userInterests: make(map[uint][]domain.Interest),
		oppTags:       make(map[uint][]uint),
		applied:       make(map[uint]map[uint]bool),
	}
}

func (f *fakeRepo) FindByUser(_ context.Context, userID uint) ([]domain.Interest, error) {
	if f.interestsErr != nil {
		return nil, f.interestsErr
	}
	return f.userInterests[userID], nil
}

func (f *fakeRepo) IDsByOpenOpportunity(_ context.Context) (map[uint][]uint, error) {
	return f.oppTags, nil
}

func (f *fakeRepo) FindOpen(_ context.Context) ([]domain.Opportunity, error) {
	out := []domain.Opportunity{}
	for _, opp := range f.opportunities {
		if opp.IsOpen() {
			out = append(out, opp)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uint) (domain.Opportunity, error) {
	for _, opp := range f.opportunities {
		if opp.ID == id {
			return opp, nil
		}
	}
	return domain.Opportunity{}, errors.New("opportunity not found")
}

func (f *fakeRepo) AppliedOpportunityIDs(_ context.Context, userID uint) (map[uint]bool, error) {
	if f.applied[userID] == nil {
		return map[uint]bool{}, nil
	}
	return f.applied[userID], nil
}

func (f *fakeRepo) CountByOpenOpportunity(_ context.Context) ([]domain.OpportunityApplicationCount, error) {
	if f.countsErr != nil {
		return nil, f.countsErr
	}
	return f.counts, nil
}

type fakeUsers struct {
	users    map[uint]domain.User
	students []domain.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeUsers) FindEligibleStudents(_ context.Context) ([]domain.User, error) {
	return f.students, nil
}

// fakeStore is an in-memory RecommendationStore. Replace operations swap row
// sets whole, mirroring the transactional delete-then-insert of the real one.
type fakeStore struct {
	rows   []domain.Recommendation
	events []domain.RecommendationEvent
	nextID uint

	replaceErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) ReplaceForUser(_ context.Context, userID uint, recs []domain.Recommendation) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}

	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	f.insert(recs)
	return nil
}

func (f *fakeStore) ReplaceStrategiesForUser(_ context.Context, userID uint, strategies []string, recs []domain.Recommendation) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}

	drop := make(map[string]bool, len(strategies))
	for _, s := range strategies {
		drop[s] = true
	}

	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.UserID == userID && drop[row.Strategy] {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	f.insert(recs)
	return nil
}

func (f *fakeStore) insert(recs []domain.Recommendation) {
	now := time.Now()
	for _, rec := range recs {
		f.nextID++
		rec.ID = f.nextID
		rec.CreatedAt = now
		rec.UpdatedAt = now
		f.rows = append(f.rows, rec)
	}
}

func (f *fakeStore) FindCombinedByUser(_ context.Context, userID uint, limit int) ([]domain.Recommendation, error) {
	out := []domain.Recommendation{}
	for _, row := range f.rows {
		if row.UserID == userID && row.Strategy == domain.StrategyCombined && row.Active {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].OpportunityID < out[j].OpportunityID
		}
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) FindActiveByUserAndOpportunity(_ context.Context, userID, opportunityID uint) ([]domain.Recommendation, error) {
	out := []domain.Recommendation{}
	for _, row := range f.rows {
		if row.UserID == userID && row.OpportunityID == opportunityID && row.Active {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeStore) FindActiveStrategyRows(_ context.Context, userID uint, exclude []string) ([]domain.Recommendation, error) {
	skip := make(map[string]bool, len(exclude))
	for _, s := range exclude {
		skip[s] = true
	}

	out := []domain.Recommendation{}
	for _, row := range f.rows {
		if row.UserID == userID && row.Active && !skip[row.Strategy] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeStore) DeactivateByOpportunity(_ context.Context, opportunityID uint) (int64, error) {
	var n int64
	for i := range f.rows {
		if f.rows[i].OpportunityID == opportunityID && f.rows[i].Active {
			f.rows[i].Active = false
			f.rows[i].UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeactivateByUser(_ context.Context, userID uint) (int64, error) {
	var n int64
	for i := range f.rows {
		if f.rows[i].UserID == userID && f.rows[i].Active {
			f.rows[i].Active = false
			f.rows[i].UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountFreshCombined(_ context.Context, userID uint, since time.Time) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID && row.Strategy == domain.StrategyCombined && row.Active && row.UpdatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) PurgeInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	kept := f.rows[:0]
	for _, row := range f.rows {
		if !row.Active && row.UpdatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeStore) Stats(_ context.Context) (domain.RecommendationStats, error) {
	users := make(map[uint]bool)
	var active int64
	for _, row := range f.rows {
		if row.Active && row.Strategy == domain.StrategyCombined {
			active++
			users[row.UserID] = true
		}
	}

	stats := domain.RecommendationStats{
		TotalActiveRecommendations: active,
		UsersWithRecommendations:   int64(len(users)),
	}
	if len(users) > 0 {
		stats.AvgRecommendationsPerUser = float64(active) / float64(len(users))
	}
	return stats, nil
}

func (f *fakeStore) SaveEvent(_ context.Context, event domain.RecommendationEvent) error {
	f.events = append(f.events, event)
	return nil
}

// stubStrategy lets engine tests inject fixed entries or a failure.
type stubStrategy struct {
	name    string
	weight  float64
	entries []ScoredOpportunity
	err     error
}

func (s *stubStrategy) Name() string        { return s.name }
func (s *stubStrategy) Description() string { return "stub " + s.name }
func (s *stubStrategy) Weight() float64     { return s.weight }

func (s *stubStrategy) Recommend(context.Context, domain.User) ([]ScoredOpportunity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}
