package interests

import (
	"context"
	"errors"
	"vagaMatch/business/recommendation"
	"vagaMatch/domain"
	"vagaMatch/pkg/logger"
)

// InterestRepository contract interface
type InterestRepository interface {
	FindAll(ctx context.Context) ([]domain.Interest, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Interest, error)
	ReplaceUserInterests(ctx context.Context, userID uint, interestIDs []uint) error
}

// Recomputer contract interface. Interest changes only affect the
// common-interests scores, so the refresh is targeted at that strategy.
type Recomputer interface {
	InvalidateUser(ctx context.Context, userID uint) (int64, error)
	RecomputeStrategy(ctx context.Context, userID uint, strategyName string) error
}

type interestsService struct {
	interestRepo InterestRepository
	recomputer   Recomputer
}

func NewInterestsService(interestRepo InterestRepository, recomputer Recomputer) *interestsService {
	return &interestsService{
		interestRepo: interestRepo,
		recomputer:   recomputer,
	}
}

// GetAllInterests lists the interest catalog
func (s *interestsService) GetAllInterests(ctx context.Context) ([]domain.Interest, error) {
	interests, err := s.interestRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get interests", err)
		return nil, err
	}

	return interests, nil
}

// GetUserInterests lists the interests a user has declared, in
// declaration order
func (s *interestsService) GetUserInterests(ctx context.Context, userID uint) ([]domain.Interest, error) {
	interests, err := s.interestRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user interests", err)
		return nil, err
	}

	return interests, nil
}

// SetUserInterests replaces the user's declared interests. An empty
// list clears them. The common-interests scores are recomputed in
// place; if that fails the user's stored rows are invalidated instead
// so stale recommendations stop serving until the next scheduled
// refresh.
func (s *interestsService) SetUserInterests(ctx context.Context, userID uint, interestIDs []uint) ([]domain.Interest, error) {
	seen := make(map[uint]bool, len(interestIDs))
	for _, id := range interestIDs {
		if id == 0 {
			return nil, errors.New("invalid interest id")
		}
		if seen[id] {
			return nil, errors.New("duplicate interest id")
		}
		seen[id] = true
	}

	if err := s.interestRepo.ReplaceUserInterests(ctx, userID, interestIDs); err != nil {
		logger.Error("Failed to replace user interests", err)
		return nil, err
	}

	if err := s.recomputer.RecomputeStrategy(ctx, userID, recommendation.StrategyCommonInterests); err != nil {
		logger.Warn("Failed to recompute common-interests scores", err)
		if _, err := s.recomputer.InvalidateUser(ctx, userID); err != nil {
			logger.Warn("Failed to invalidate recommendations after interest change", err)
		}
	}

	return s.interestRepo.FindByUser(ctx, userID)
}
