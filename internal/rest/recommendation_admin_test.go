//go:build !integration

package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vagaMatch/domain"

	"github.com/labstack/echo/v4"
)

type fakeAdminService struct {
	batchDone chan error
}

func (f *fakeAdminService) RecomputeAllUsers(ctx context.Context) (domain.BatchResult, error) {
	<-ctx.Done()
	f.batchDone <- ctx.Err()
	return domain.BatchResult{}, ctx.Err()
}

func (f *fakeAdminService) InvalidateOpportunity(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

func (f *fakeAdminService) InvalidateUser(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

func (f *fakeAdminService) PurgeInactive(_ context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeAdminService) Stats(_ context.Context) (domain.RecommendationStats, error) {
	return domain.RecommendationStats{}, nil
}

func TestRecomputeAllBatchStopsOnServerShutdown(t *testing.T) {
	serverCtx, stop := context.WithCancel(context.Background())
	defer stop()

	svc := &fakeAdminService{batchDone: make(chan error, 1)}
	h := NewRecommendationAdminHandler(svc, serverCtx)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/recommendations/recompute", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RecomputeAll(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}

	// Shutting the server down must reach the detached batch.
	stop()

	select {
	case err := <-svc.batchDone:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("batch context error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not observe server shutdown")
	}
}
