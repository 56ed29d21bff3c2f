//go:build !integration

package recommendation

import (
	"context"
	"strings"
	"testing"
	"time"

	"vagaMatch/domain"
)

func TestRecomputeAllUsersTally(t *testing.T) {
	repo, users := repoWithScenario()
	repo.userInterests[8] = []domain.Interest{{ID: 2, Name: "Dados"}}

	// User 9 appears in the eligible list but cannot be loaded, so the
	// batch counts it as failed and keeps going.
	users.users[8] = domain.User{ID: 8, Role: domain.RoleStudent, IsStudent: true, IsVerified: true}
	users.students = append(users.students,
		domain.User{ID: 8, Role: domain.RoleStudent, IsStudent: true, IsVerified: true},
		domain.User{ID: 9, Role: domain.RoleStudent, IsStudent: true, IsVerified: true},
	)

	store := newFakeStore()
	svc := newTestService(repo, store, users)

	result, err := svc.RecomputeAllUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success != 2 || result.Failed != 1 {
		t.Errorf("tally = %+v, want 2 success / 1 failed", result)
	}

	if len(rowsByStrategy(store, 7, domain.StrategyCombined)) == 0 {
		t.Error("user 7 should have combined rows after the batch")
	}
	if len(rowsByStrategy(store, 8, domain.StrategyCombined)) == 0 {
		t.Error("user 8 should have combined rows after the batch")
	}
}

func TestRecomputeAllUsersCancellation(t *testing.T) {
	repo, users := repoWithScenario()
	store := newFakeStore()
	svc := newTestService(repo, store, users)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RecomputeAllUsers(ctx)
	if err == nil || !strings.Contains(err.Error(), "batch interrupted") {
		t.Fatalf("expected interruption error, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("cancelled batch must not write rows, got %d", len(store.rows))
	}
}

func TestRefreshStaleUsersSkipsFresh(t *testing.T) {
	repo, users := repoWithScenario()
	store := newFakeStore()
	svc := newTestService(repo, store, users)

	if err := svc.RecomputeAll(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.RefreshStaleUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success != 0 || result.Failed != 0 {
		t.Errorf("fresh user must be skipped, tally = %+v", result)
	}

	for i := range store.rows {
		store.rows[i].UpdatedAt = time.Now().Add(-72 * time.Hour)
	}

	result, err = svc.RefreshStaleUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success != 1 {
		t.Errorf("stale user must be recomputed, tally = %+v", result)
	}
}
