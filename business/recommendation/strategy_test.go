//go:build !integration

package recommendation

import (
	"context"
	"math"
	"testing"

	"vagaMatch/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func scoreOf(t *testing.T, recs []ScoredOpportunity, opportunityID uint) ScoredOpportunity {
	t.Helper()
	for _, r := range recs {
		if r.OpportunityID == opportunityID {
			return r
		}
	}
	t.Fatalf("no entry for opportunity %d in %+v", opportunityID, recs)
	return ScoredOpportunity{}
}

func hasOpportunity(recs []ScoredOpportunity, opportunityID uint) bool {
	for _, r := range recs {
		if r.OpportunityID == opportunityID {
			return true
		}
	}
	return false
}

func TestCommonInterestsScoring(t *testing.T) {
	repo := newFakeRepo()
	repo.userInterests[7] = []domain.Interest{
		{ID: 1, Name: "Go"},
		{ID: 2, Name: "Dados"},
		{ID: 3, Name: "IA"},
	}
	repo.opportunities = []domain.Opportunity{
		{ID: 10, Status: domain.StatusOpen},
		{ID: 11, Status: domain.StatusOpen},
		{ID: 12, Status: domain.StatusOpen},
		{ID: 13, Status: domain.StatusOpen},
		{ID: 14, Status: domain.StatusOpen},
	}
	repo.oppTags = map[uint][]uint{
		10: {1, 2, 4}, // two of three tags match
		11: {2, 3},    // full match
		13: {4, 5},    // no overlap
		14: {1},       // applied, must be skipped
	}
	repo.applied[7] = map[uint]bool{14: true}

	strat := NewCommonInterestsStrategy(repo, repo, repo)

	recs, err := strat.Recommend(context.Background(), domain.User{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(recs), recs)
	}

	partial := scoreOf(t, recs, 10)
	if !almostEqual(partial.Score, 2.0/3.0) {
		t.Errorf("opportunity 10 score = %f, want 2/3", partial.Score)
	}
	if partial.Explanation != "Você tem 2 interesse(s) em comum: Go, Dados" {
		t.Errorf("unexpected explanation: %q", partial.Explanation)
	}

	full := scoreOf(t, recs, 11)
	if !almostEqual(full.Score, 1.0) {
		t.Errorf("opportunity 11 score = %f, want 1.0", full.Score)
	}

	// 12 is untagged, 13 has no overlap, 14 was applied to
	for _, excluded := range []uint{12, 13, 14} {
		if hasOpportunity(recs, excluded) {
			t.Errorf("opportunity %d should not be recommended", excluded)
		}
	}
}

func TestCommonInterestsNoDeclaredInterests(t *testing.T) {
	repo := newFakeRepo()
	repo.opportunities = []domain.Opportunity{{ID: 10, Status: domain.StatusOpen}}
	repo.oppTags = map[uint][]uint{10: {1}}

	strat := NewCommonInterestsStrategy(repo, repo, repo)

	recs, err := strat.Recommend(context.Background(), domain.User{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("user without interests must get no entries, got %+v", recs)
	}
}

func TestCommonInterestsExplanationOverflow(t *testing.T) {
	repo := newFakeRepo()
	repo.userInterests[7] = []domain.Interest{
		{ID: 1, Name: "Go"},
		{ID: 2, Name: "Dados"},
		{ID: 3, Name: "IA"},
		{ID: 4, Name: "Web"},
		{ID: 5, Name: "Redes"},
	}
	repo.opportunities = []domain.Opportunity{{ID: 10, Status: domain.StatusOpen}}
	repo.oppTags = map[uint][]uint{10: {1, 2, 3, 4, 5}}

	strat := NewCommonInterestsStrategy(repo, repo, repo)

	recs, err := strat.Recommend(context.Background(), domain.User{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := scoreOf(t, recs, 10)
	want := "Você tem 5 interesse(s) em comum: Go, Dados, IA e mais 2"
	if entry.Explanation != want {
		t.Errorf("explanation = %q, want %q", entry.Explanation, want)
	}
}

func TestPopularityScoring(t *testing.T) {
	repo := newFakeRepo()
	repo.counts = []domain.OpportunityApplicationCount{
		{OpportunityID: 10, Count: 5},
		{OpportunityID: 11, Count: 3},
		{OpportunityID: 12, Count: 0},
		{OpportunityID: 13, Count: 1},
	}

	strat := NewPopularityStrategy(repo)

	recs, err := strat.Recommend(context.Background(), domain.User{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recs) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(recs), recs)
	}

	if top := scoreOf(t, recs, 10); !almostEqual(top.Score, 1.0) {
		t.Errorf("opportunity 10 score = %f, want 1.0", top.Score)
	}
	if mid := scoreOf(t, recs, 11); !almostEqual(mid.Score, 0.6) {
		t.Errorf("opportunity 11 score = %f, want 0.6", mid.Score)
	}
	if low := scoreOf(t, recs, 13); !almostEqual(low.Score, 0.2) {
		t.Errorf("opportunity 13 score = %f, want 0.2", low.Score)
	}

	if hasOpportunity(recs, 12) {
		t.Error("zero-count opportunity must be excluded")
	}

	if top := scoreOf(t, recs, 10); top.Explanation != "Esta oportunidade já atraiu 5 candidato(s)" {
		t.Errorf("unexpected explanation: %q", top.Explanation)
	}
}

func TestPopularityExcludesApplied(t *testing.T) {
	repo := newFakeRepo()
	repo.counts = []domain.OpportunityApplicationCount{
		{OpportunityID: 10, Count: 5},
		{OpportunityID: 11, Count: 3},
	}
	repo.applied[7] = map[uint]bool{10: true}

	strat := NewPopularityStrategy(repo)

	recs, err := strat.Recommend(context.Background(), domain.User{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hasOpportunity(recs, 10) {
		t.Error("applied opportunity must be excluded")
	}
	// The applied opportunity still sets the normalization ceiling
	if other := scoreOf(t, recs, 11); !almostEqual(other.Score, 0.6) {
		t.Errorf("opportunity 11 score = %f, want 0.6", other.Score)
	}
}

func TestPopularityNoApplicationsAnywhere(t *testing.T) {
	repo := newFakeRepo()
	repo.counts = []domain.OpportunityApplicationCount{
		{OpportunityID: 10, Count: 0},
		{OpportunityID: 11, Count: 0},
	}

	strat := NewPopularityStrategy(repo)

	recs, err := strat.Recommend(context.Background(), domain.User{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no entries when nobody applied, got %+v", recs)
	}
}
