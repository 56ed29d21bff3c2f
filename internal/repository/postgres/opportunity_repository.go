package postgres

import (
	"context"
	"errors"
	"fmt"

	"vagaMatch/domain"

	"gorm.io/gorm"
)

type OpportunityRepository struct {
	DB *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) *OpportunityRepository {
	return &OpportunityRepository{
		DB: db,
	}
}

func (r *OpportunityRepository) Create(ctx context.Context, opportunity *domain.Opportunity) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(opportunity).Error; err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}

	return nil
}

func (r *OpportunityRepository) FindByID(ctx context.Context, id uint) (domain.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Opportunity{}, fmt.Errorf("context error: %w", err)
	}

	var opportunity domain.Opportunity

	err := r.DB.WithContext(ctx).First(&opportunity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Opportunity{}, errors.New("opportunity not found")
		}
		return domain.Opportunity{}, fmt.Errorf("failed to find opportunity: %w", err)
	}

	return opportunity, nil
}

// FindOpen lists recommendable opportunities in id order so downstream
// scoring is deterministic.
func (r *OpportunityRepository) FindOpen(ctx context.Context) ([]domain.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var opportunities []domain.Opportunity
	if err := r.DB.WithContext(ctx).
		Where("status = ?", domain.StatusOpen).
		Order("id ASC").
		Find(&opportunities).Error; err != nil {
		return nil, fmt.Errorf("failed to find open opportunities: %w", err)
	}

	return opportunities, nil
}

func (r *OpportunityRepository) FindAll(ctx context.Context) ([]domain.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var opportunities []domain.Opportunity
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&opportunities).Error; err != nil {
		return nil, fmt.Errorf("failed to find opportunities: %w", err)
	}

	return opportunities, nil
}

func (r *OpportunityRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Opportunity{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update opportunity status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("opportunity not found")
	}

	return nil
}

func (r *OpportunityRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Opportunity{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete opportunity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("opportunity not found or already deleted")
	}

	return nil
}
