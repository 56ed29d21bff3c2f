package application

import (
	"context"
	"errors"
	"vagaMatch/business/recommendation"
	"vagaMatch/domain"
	"vagaMatch/pkg/logger"
)

// ApplicationRepository contract interface
type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	Exists(ctx context.Context, userID, opportunityID uint) (bool, error)
	Delete(ctx context.Context, userID, opportunityID uint) error
}

// OpportunityRepository contract interface
type OpportunityRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Opportunity, error)
}

// Recomputer contract interface. An application moves the popularity
// counts and removes the opportunity from the applicant's candidate
// set, so the applicant's popular scores are rebuilt right away. Other
// users pick up the new counts on the next scheduled refresh.
type Recomputer interface {
	RecomputeStrategy(ctx context.Context, userID uint, strategyName string) error
}

type applicationService struct {
	applicationRepo ApplicationRepository
	opportunityRepo OpportunityRepository
	recomputer      Recomputer
}

func NewApplicationService(
	applicationRepo ApplicationRepository,
	opportunityRepo OpportunityRepository,
	recomputer Recomputer,
) *applicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		opportunityRepo: opportunityRepo,
		recomputer:      recomputer,
	}
}

func (s *applicationService) Apply(ctx context.Context, userID, opportunityID uint, coverLetter string) (domain.Application, error) {
	opportunity, err := s.opportunityRepo.FindByID(ctx, opportunityID)
	if err != nil {
		logger.Error("Opportunity not found for application", err)
		return domain.Application{}, err
	}

	if !opportunity.IsOpen() {
		return domain.Application{}, errors.New("opportunity is not open for applications")
	}

	exists, err := s.applicationRepo.Exists(ctx, userID, opportunityID)
	if err != nil {
		logger.Error("Failed to check existing application", err)
		return domain.Application{}, err
	}
	if exists {
		return domain.Application{}, errors.New("application already exists")
	}

	newApplication := domain.Application{
		UserID:        userID,
		OpportunityID: opportunityID,
		CoverLetter:   coverLetter,
	}

	if err := s.applicationRepo.Create(ctx, &newApplication); err != nil {
		logger.Error("Failed to create application", err)
		return domain.Application{}, err
	}

	if err := s.recomputer.RecomputeStrategy(ctx, userID, recommendation.StrategyPopular); err != nil {
		logger.Warn("Failed to recompute popularity scores after application", err)
	}

	return newApplication, nil
}

func (s *applicationService) Withdraw(ctx context.Context, userID, opportunityID uint) error {
	exists, err := s.applicationRepo.Exists(ctx, userID, opportunityID)
	if err != nil {
		logger.Error("Failed to check existing application", err)
		return err
	}
	if !exists {
		return errors.New("application not found")
	}

	if err := s.applicationRepo.Delete(ctx, userID, opportunityID); err != nil {
		logger.Error("Failed to withdraw application", err)
		return err
	}

	if err := s.recomputer.RecomputeStrategy(ctx, userID, recommendation.StrategyPopular); err != nil {
		logger.Warn("Failed to recompute popularity scores after withdrawal", err)
	}

	return nil
}
