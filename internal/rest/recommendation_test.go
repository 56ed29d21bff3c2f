//go:build !integration

package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vagaMatch/business/recommendation"
	"vagaMatch/domain"

	"github.com/labstack/echo/v4"
)

type fakeRecommendationService struct {
	recs []domain.RecommendedOpportunity

	recomputeAllCalls      int
	recomputeStrategyCalls int
}

func (f *fakeRecommendationService) GetRecommendations(_ context.Context, _ uint, _ int) ([]domain.RecommendedOpportunity, error) {
	return f.recs, nil
}

func (f *fakeRecommendationService) GetExplanation(_ context.Context, _, _ uint) (domain.RecommendationExplanation, error) {
	return domain.RecommendationExplanation{}, recommendation.ErrNotFound
}

func (f *fakeRecommendationService) RecomputeAll(_ context.Context, _ uint) error {
	f.recomputeAllCalls++
	return nil
}

func (f *fakeRecommendationService) RecomputeStrategy(_ context.Context, _ uint, _ string) error {
	f.recomputeStrategyCalls++
	return nil
}

func recommendationsRequest(t *testing.T, h *RecommendationHandler, userID any) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)

	if err := h.GetRecommendations(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

func TestGetRecommendationsIsReadOnly(t *testing.T) {
	svc := &fakeRecommendationService{
		recs: []domain.RecommendedOpportunity{
			{OpportunityID: 10, TotalScore: 0.85},
		},
	}
	h := NewRecommendationHandler(svc)

	rec := recommendationsRequest(t, h, uint(7))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.recomputeAllCalls != 0 {
		t.Errorf("GET triggered %d recompute call(s), want 0", svc.recomputeAllCalls)
	}
	if svc.recomputeStrategyCalls != 0 {
		t.Errorf("GET triggered %d strategy recompute call(s), want 0", svc.recomputeStrategyCalls)
	}
}

func TestGetRecommendationsFirstTimeUserServesEmptyList(t *testing.T) {
	svc := &fakeRecommendationService{}
	h := NewRecommendationHandler(svc)

	rec := recommendationsRequest(t, h, uint(42))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	// A user with no stored rows waits for the worker or an explicit
	// refresh; the read path never computes on their behalf.
	if svc.recomputeAllCalls != 0 {
		t.Errorf("GET triggered %d recompute call(s), want 0", svc.recomputeAllCalls)
	}
}

func TestGetRecommendationsRejectsMissingUser(t *testing.T) {
	svc := &fakeRecommendationService{}
	h := NewRecommendationHandler(svc)

	rec := recommendationsRequest(t, h, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
