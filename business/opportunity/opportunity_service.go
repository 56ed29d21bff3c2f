package opportunity

import (
	"context"
	"errors"
	"time"
	"vagaMatch/domain"
	"vagaMatch/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// OpportunityRepository contract interface
type OpportunityRepository interface {
	Create(ctx context.Context, opportunity *domain.Opportunity) error
	FindByID(ctx context.Context, id uint) (domain.Opportunity, error)
	FindOpen(ctx context.Context) ([]domain.Opportunity, error)
	FindAll(ctx context.Context) ([]domain.Opportunity, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

// TagRepository contract interface
type TagRepository interface {
	TagOpportunity(ctx context.Context, opportunityID uint, interestIDs []uint) error
	FindByOpportunity(ctx context.Context, opportunityID uint) ([]domain.Interest, error)
}

// Invalidator contract interface. Closing an opportunity deactivates
// every stored recommendation that points at it.
type Invalidator interface {
	InvalidateOpportunity(ctx context.Context, opportunityID uint) (int64, error)
}

type opportunityService struct {
	opportunityRepo OpportunityRepository
	tagRepo         TagRepository
	invalidator     Invalidator
	validate        *validator.Validate
}

var validStatuses = map[string]bool{
	domain.StatusWaiting:  true,
	domain.StatusInReview: true,
	domain.StatusFinished: true,
	domain.StatusClosed:   true,
	domain.StatusOpen:     true,
}

func NewOpportunityService(
	opportunityRepo OpportunityRepository,
	tagRepo TagRepository,
	invalidator Invalidator,
	validate *validator.Validate,
) *opportunityService {
	return &opportunityService{
		opportunityRepo: opportunityRepo,
		tagRepo:         tagRepo,
		invalidator:     invalidator,
		validate:        validate,
	}
}

func (s *opportunityService) CreateOpportunity(ctx context.Context, opportunity *domain.Opportunity, interestIDs []uint) (domain.Opportunity, error) {
	if err := s.validate.Var(opportunity.Title, "required,min=3"); err != nil {
		logger.Error("Invalid opportunity title", err)
		return domain.Opportunity{}, errors.New("title must be at least 3 characters")
	}

	if err := s.validate.Var(opportunity.Description, "required"); err != nil {
		logger.Error("Invalid opportunity description", err)
		return domain.Opportunity{}, errors.New("description is required")
	}

	if !opportunity.Deadline.IsZero() && opportunity.Deadline.Before(time.Now()) {
		return domain.Opportunity{}, errors.New("deadline must be in the future")
	}

	newOpportunity := domain.Opportunity{
		Title:       opportunity.Title,
		Description: opportunity.Description,
		Deadline:    opportunity.Deadline,
		Status:      domain.StatusWaiting,
		AuthorID:    opportunity.AuthorID,
	}

	if err := s.opportunityRepo.Create(ctx, &newOpportunity); err != nil {
		logger.Error("Failed to create opportunity", err)
		return domain.Opportunity{}, err
	}

	if len(interestIDs) > 0 {
		if err := s.tagRepo.TagOpportunity(ctx, newOpportunity.ID, interestIDs); err != nil {
			logger.Error("Failed to tag opportunity", err)
			return domain.Opportunity{}, err
		}
	}

	return newOpportunity, nil
}

func (s *opportunityService) GetOpportunity(ctx context.Context, id uint) (domain.Opportunity, []domain.Interest, error) {
	opportunity, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get opportunity", err)
		return domain.Opportunity{}, nil, err
	}

	tags, err := s.tagRepo.FindByOpportunity(ctx, id)
	if err != nil {
		logger.Error("Failed to get opportunity tags", err)
		return domain.Opportunity{}, nil, err
	}

	return opportunity, tags, nil
}

func (s *opportunityService) ListOpenOpportunities(ctx context.Context) ([]domain.Opportunity, error) {
	opportunities, err := s.opportunityRepo.FindOpen(ctx)
	if err != nil {
		logger.Error("Failed to list open opportunities", err)
		return nil, err
	}

	return opportunities, nil
}

func (s *opportunityService) ListAllOpportunities(ctx context.Context) ([]domain.Opportunity, error) {
	opportunities, err := s.opportunityRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list opportunities", err)
		return nil, err
	}

	return opportunities, nil
}

// UpdateStatus moves the opportunity through the institutional workflow.
// Leaving the open status invalidates every stored recommendation that
// points at the opportunity.
func (s *opportunityService) UpdateStatus(ctx context.Context, id uint, status string) (domain.Opportunity, error) {
	if !validStatuses[status] {
		return domain.Opportunity{}, errors.New("invalid status")
	}

	opportunity, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Opportunity not found for status update", err)
		return domain.Opportunity{}, err
	}

	if opportunity.Status == status {
		return opportunity, nil
	}

	if err := s.opportunityRepo.UpdateStatus(ctx, id, status); err != nil {
		logger.Error("Failed to update opportunity status", err)
		return domain.Opportunity{}, err
	}

	if opportunity.IsOpen() && status != domain.StatusOpen {
		count, err := s.invalidator.InvalidateOpportunity(ctx, id)
		if err != nil {
			logger.Warn("Failed to invalidate recommendations for closed opportunity", err)
		} else {
			logger.Info("Invalidated recommendations for closed opportunity",
				"opportunity_id", id,
				"rows", count,
			)
		}
	}

	opportunity.Status = status
	return opportunity, nil
}

func (s *opportunityService) DeleteOpportunity(ctx context.Context, id uint) error {
	opportunity, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Opportunity not found for deletion", err)
		return err
	}

	if err := s.opportunityRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete opportunity", err)
		return err
	}

	if _, err := s.invalidator.InvalidateOpportunity(ctx, opportunity.ID); err != nil {
		logger.Warn("Failed to invalidate recommendations for deleted opportunity", err)
	}

	return nil
}
