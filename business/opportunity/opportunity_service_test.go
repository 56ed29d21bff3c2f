//go:build !integration

package opportunity

import (
	"context"
	"errors"
	"testing"
	"time"

	"vagaMatch/domain"

	"github.com/go-playground/validator/v10"
)

type fakeOpportunityRepo struct {
	opportunities map[uint]domain.Opportunity
	nextID        uint
	deleted       []uint
}

func newFakeOpportunityRepo() *fakeOpportunityRepo {
	return &fakeOpportunityRepo{opportunities: make(map[uint]domain.Opportunity)}
}

func (f *fakeOpportunityRepo) Create(_ context.Context, opportunity *domain.Opportunity) error {
	f.nextID++
	opportunity.ID = f.nextID
	f.opportunities[opportunity.ID] = *opportunity
	return nil
}

func (f *fakeOpportunityRepo) FindByID(_ context.Context, id uint) (domain.Opportunity, error) {
	opp, ok := f.opportunities[id]
	if !ok {
		return domain.Opportunity{}, errors.New("opportunity not found")
	}
	return opp, nil
}

func (f *fakeOpportunityRepo) FindOpen(_ context.Context) ([]domain.Opportunity, error) {
	out := []domain.Opportunity{}
	for _, opp := range f.opportunities {
		if opp.IsOpen() {
			out = append(out, opp)
		}
	}
	return out, nil
}

func (f *fakeOpportunityRepo) FindAll(_ context.Context) ([]domain.Opportunity, error) {
	out := []domain.Opportunity{}
	for _, opp := range f.opportunities {
		out = append(out, opp)
	}
	return out, nil
}

func (f *fakeOpportunityRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	opp := f.opportunities[id]
	opp.Status = status
	f.opportunities[id] = opp
	return nil
}

func (f *fakeOpportunityRepo) Delete(_ context.Context, id uint) error {
	delete(f.opportunities, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTagRepo struct {
	tags map[uint][]uint
}

func (f *fakeTagRepo) TagOpportunity(_ context.Context, opportunityID uint, interestIDs []uint) error {
	if f.tags == nil {
		f.tags = make(map[uint][]uint)
	}
	f.tags[opportunityID] = interestIDs
	return nil
}

func (f *fakeTagRepo) FindByOpportunity(_ context.Context, opportunityID uint) ([]domain.Interest, error) {
	out := []domain.Interest{}
	for _, id := range f.tags[opportunityID] {
		out = append(out, domain.Interest{ID: id})
	}
	return out, nil
}

type fakeInvalidator struct {
	invalidated []uint
}

func (f *fakeInvalidator) InvalidateOpportunity(_ context.Context, opportunityID uint) (int64, error) {
	f.invalidated = append(f.invalidated, opportunityID)
	return 3, nil
}

func newTestService() (*opportunityService, *fakeOpportunityRepo, *fakeTagRepo, *fakeInvalidator) {
	repo := newFakeOpportunityRepo()
	tags := &fakeTagRepo{}
	inv := &fakeInvalidator{}
	return NewOpportunityService(repo, tags, inv, validator.New()), repo, tags, inv
}

func TestCreateOpportunityDefaults(t *testing.T) {
	svc, _, tags, _ := newTestService()

	created, err := svc.CreateOpportunity(context.Background(), &domain.Opportunity{
		Title:       "Monitoria de Algoritmos",
		Description: "Vaga de monitoria",
		Deadline:    time.Now().Add(48 * time.Hour),
		AuthorID:    3,
	}, []uint{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != domain.StatusWaiting {
		t.Errorf("new opportunity status = %q, want %q", created.Status, domain.StatusWaiting)
	}
	if created.ID == 0 {
		t.Error("created opportunity must get an id")
	}
	if len(tags.tags[created.ID]) != 2 {
		t.Errorf("expected 2 tags, got %v", tags.tags[created.ID])
	}
}

func TestCreateOpportunityValidation(t *testing.T) {
	svc, repo, _, _ := newTestService()

	cases := []struct {
		name string
		opp  domain.Opportunity
	}{
		{"short title", domain.Opportunity{Title: "ab", Description: "x"}},
		{"missing description", domain.Opportunity{Title: "Vaga"}},
		{"past deadline", domain.Opportunity{Title: "Vaga", Description: "x", Deadline: time.Now().Add(-time.Hour)}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateOpportunity(context.Background(), &tc.opp, nil); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
	if len(repo.opportunities) != 0 {
		t.Errorf("invalid input must not persist anything")
	}
}

func TestUpdateStatusInvalidatesOnLeavingOpen(t *testing.T) {
	svc, repo, _, inv := newTestService()
	repo.opportunities[10] = domain.Opportunity{ID: 10, Title: "Vaga", Status: domain.StatusOpen}

	updated, err := svc.UpdateStatus(context.Background(), 10, domain.StatusClosed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusClosed {
		t.Errorf("status = %q, want %q", updated.Status, domain.StatusClosed)
	}
	if len(inv.invalidated) != 1 || inv.invalidated[0] != 10 {
		t.Errorf("closing an open opportunity must invalidate, got %v", inv.invalidated)
	}
}

func TestUpdateStatusNoInvalidationWhenNotOpen(t *testing.T) {
	svc, repo, _, inv := newTestService()
	repo.opportunities[10] = domain.Opportunity{ID: 10, Title: "Vaga", Status: domain.StatusWaiting}

	if _, err := svc.UpdateStatus(context.Background(), 10, domain.StatusInReview); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inv.invalidated) != 0 {
		t.Errorf("transition between non-open statuses must not invalidate, got %v", inv.invalidated)
	}

	// Opening the opportunity does not invalidate either.
	if _, err := svc.UpdateStatus(context.Background(), 10, domain.StatusOpen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inv.invalidated) != 0 {
		t.Errorf("opening must not invalidate, got %v", inv.invalidated)
	}
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	svc, repo, _, inv := newTestService()
	repo.opportunities[10] = domain.Opportunity{ID: 10, Title: "Vaga", Status: domain.StatusOpen}

	if _, err := svc.UpdateStatus(context.Background(), 10, domain.StatusOpen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inv.invalidated) != 0 {
		t.Errorf("no-op transition must not invalidate, got %v", inv.invalidated)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.opportunities[10] = domain.Opportunity{ID: 10, Title: "Vaga", Status: domain.StatusOpen}

	if _, err := svc.UpdateStatus(context.Background(), 10, "cancelada"); err == nil {
		t.Error("unknown status must be rejected")
	}
}

func TestDeleteOpportunityInvalidates(t *testing.T) {
	svc, repo, _, inv := newTestService()
	repo.opportunities[10] = domain.Opportunity{ID: 10, Title: "Vaga", Status: domain.StatusOpen}

	if err := svc.DeleteOpportunity(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Errorf("expected one deletion, got %v", repo.deleted)
	}
	if len(inv.invalidated) != 1 || inv.invalidated[0] != 10 {
		t.Errorf("deletion must invalidate stored recommendations, got %v", inv.invalidated)
	}
}
