package recommendation

import (
	"context"
	"fmt"
	"time"

	"vagaMatch/domain"
	"vagaMatch/pkg/logger"
)

// RecomputeAllUsers runs a full recompute for every verified student. The
// loop checks for cancellation between users only, so a stop signal never
// interrupts a user's in-flight rebuild, and paces itself with the configured
// inter-user delay to bound database load.
func (s *Service) RecomputeAllUsers(ctx context.Context) (domain.BatchResult, error) {
	result := domain.BatchResult{}

	users, err := s.users.FindEligibleStudents(ctx)
	if err != nil {
		return result, fmt.Errorf("load eligible students: %w", err)
	}

	logger.Info("batch recompute starting", "users", len(users))

	for i, user := range users {
		if err := ctx.Err(); err != nil {
			logger.Info("batch recompute interrupted",
				"processed", i,
				"success", result.Success,
				"failed", result.Failed,
			)
			return result, fmt.Errorf("batch interrupted: %w", err)
		}

		if err := s.RecomputeAll(ctx, user.ID); err != nil {
			logger.Error("batch recompute failed for user", "user_id", user.ID, "error", err)
			result.Failed++
		} else {
			result.Success++
		}

		if s.opts.InterUserDelay > 0 && i < len(users)-1 {
			select {
			case <-ctx.Done():
				// Handled by the top-of-loop check on the next iteration.
			case <-time.After(s.opts.InterUserDelay):
			}
		}
	}

	logger.Info("batch recompute finished",
		"success", result.Success,
		"failed", result.Failed,
	)

	return result, nil
}

// RefreshStaleUsers recomputes only users whose combined rows are older than
// the staleness threshold; the recurring worker cycle uses this instead of
// unconditionally rebuilding everyone.
func (s *Service) RefreshStaleUsers(ctx context.Context) (domain.BatchResult, error) {
	result := domain.BatchResult{}

	users, err := s.users.FindEligibleStudents(ctx)
	if err != nil {
		return result, fmt.Errorf("load eligible students: %w", err)
	}

	for i, user := range users {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("batch interrupted: %w", err)
		}

		stale, err := s.ShouldRefresh(ctx, user.ID, 0)
		if err != nil {
			logger.Error("staleness check failed", "user_id", user.ID, "error", err)
			result.Failed++
			continue
		}
		if !stale {
			continue
		}

		if err := s.RecomputeAll(ctx, user.ID); err != nil {
			logger.Error("stale refresh failed for user", "user_id", user.ID, "error", err)
			result.Failed++
		} else {
			result.Success++
		}

		if s.opts.InterUserDelay > 0 && i < len(users)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(s.opts.InterUserDelay):
			}
		}
	}

	return result, nil
}
