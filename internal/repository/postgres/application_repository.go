package postgres

import (
	"context"
	"errors"
	"fmt"

	"vagaMatch/domain"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{
		DB: db,
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, application *domain.Application) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(application).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

func (r *ApplicationRepository) Exists(ctx context.Context, userID, opportunityID uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&domain.Application{}).
		Where("user_id = ? AND vaga_id = ?", userID, opportunityID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}

	return count > 0, nil
}

// AppliedOpportunityIDs returns the set of opportunities the user already
// applied to, used for exclusion filtering during scoring.
func (r *ApplicationRepository) AppliedOpportunityIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint
	if err := r.DB.WithContext(ctx).
		Model(&domain.Application{}).
		Where("user_id = ?", userID).
		Pluck("vaga_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load applied opportunities: %w", err)
	}

	applied := make(map[uint]bool, len(ids))
	for _, id := range ids {
		applied[id] = true
	}

	return applied, nil
}

// CountByOpenOpportunity aggregates application counts per open opportunity,
// ordered by opportunity id for deterministic scoring.
func (r *ApplicationRepository) CountByOpenOpportunity(ctx context.Context) ([]domain.OpportunityApplicationCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.OpportunityApplicationCount
	if err := r.DB.WithContext(ctx).
		Model(&domain.Opportunity{}).
		Select("vagas.id AS opportunity_id, COUNT(c.id) AS count").
		Joins("LEFT JOIN candidaturas c ON c.vaga_id = vagas.id").
		Where("vagas.status = ?", domain.StatusOpen).
		Group("vagas.id").
		Order("vagas.id ASC").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	return counts, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, userID, opportunityID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND vaga_id = ?", userID, opportunityID).
		Delete(&domain.Application{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("application not found")
	}

	return nil
}
