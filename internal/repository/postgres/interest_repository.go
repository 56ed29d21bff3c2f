package postgres

import (
	"context"
	"fmt"

	"vagaMatch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterestRepository struct {
	DB *gorm.DB
}

func NewInterestRepository(db *gorm.DB) *InterestRepository {
	return &InterestRepository{
		DB: db,
	}
}

func (r *InterestRepository) FindAll(ctx context.Context) ([]domain.Interest, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var interests []domain.Interest
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&interests).Error; err != nil {
		return nil, fmt.Errorf("failed to find interests: %w", err)
	}

	return interests, nil
}

// FindByUser returns the user's declared interests in declaration order.
func (r *InterestRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Interest, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var interests []domain.Interest
	if err := r.DB.WithContext(ctx).
		Joins("JOIN interesse_usuario iu ON iu.interest_id = interesses.id").
		Where("iu.user_id = ?", userID).
		Order("iu.created_at ASC, iu.id ASC").
		Find(&interests).Error; err != nil {
		return nil, fmt.Errorf("failed to find user interests: %w", err)
	}

	return interests, nil
}

func (r *InterestRepository) FindByOpportunity(ctx context.Context, opportunityID uint) ([]domain.Interest, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var interests []domain.Interest
	if err := r.DB.WithContext(ctx).
		Joins("JOIN interesse_vaga iv ON iv.interest_id = interesses.id").
		Where("iv.vaga_id = ?", opportunityID).
		Order("iv.id ASC").
		Find(&interests).Error; err != nil {
		return nil, fmt.Errorf("failed to find opportunity interests: %w", err)
	}

	return interests, nil
}

// IDsByOpenOpportunity returns tagged interest ids keyed by opportunity id,
// restricted to open opportunities.
func (r *InterestRepository) IDsByOpenOpportunity(ctx context.Context) (map[uint][]uint, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.OpportunityInterest
	if err := r.DB.WithContext(ctx).
		Joins("JOIN vagas v ON v.id = interesse_vaga.vaga_id").
		Where("v.status = ?", domain.StatusOpen).
		Order("interesse_vaga.vaga_id ASC, interesse_vaga.id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find opportunity interests: %w", err)
	}

	out := make(map[uint][]uint, len(rows))
	for _, row := range rows {
		out[row.OpportunityID] = append(out[row.OpportunityID], row.InterestID)
	}

	return out, nil
}

// ReplaceUserInterests swaps a user's declared interest set in one
// transaction.
func (r *InterestRepository) ReplaceUserInterests(ctx context.Context, userID uint, interestIDs []uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&domain.UserInterest{}).Error; err != nil {
			return fmt.Errorf("failed to clear user interests: %w", err)
		}

		if len(interestIDs) == 0 {
			return nil
		}

		rows := make([]domain.UserInterest, 0, len(interestIDs))
		for _, id := range interestIDs {
			rows = append(rows, domain.UserInterest{
				UserID:     userID,
				InterestID: id,
			})
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert user interests: %w", err)
		}

		return nil
	})
}

// TagOpportunity attaches interests to an opportunity, ignoring duplicates.
func (r *InterestRepository) TagOpportunity(ctx context.Context, opportunityID uint, interestIDs []uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(interestIDs) == 0 {
		return nil
	}

	rows := make([]domain.OpportunityInterest, 0, len(interestIDs))
	for _, id := range interestIDs {
		rows = append(rows, domain.OpportunityInterest{
			OpportunityID: opportunityID,
			InterestID:    id,
		})
	}

	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to tag opportunity: %w", err)
	}

	return nil
}
