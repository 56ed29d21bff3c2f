package postgres

import (
	"context"
	"fmt"
	"time"

	"vagaMatch/domain"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

// ---- Replace-set rebuilds ----

// ReplaceForUser deletes every recommendation row of the user and inserts the
// new set in one transaction. On any error the transaction rolls back and the
// prior rows remain active. With read-committed isolation readers see either
// the old set or the new set, never a partial rebuild.
func (r *RecommendationRepository) ReplaceForUser(
	ctx context.Context,
	userID uint,
	recs []domain.Recommendation,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&domain.Recommendation{}).Error; err != nil {
			return fmt.Errorf("failed to delete prior recommendations: %w", err)
		}

		if len(recs) == 0 {
			return nil
		}

		if err := tx.Create(&recs).Error; err != nil {
			return fmt.Errorf("failed to insert recommendations: %w", err)
		}

		return nil
	})
}

// ReplaceStrategiesForUser is the targeted variant: only rows of the named
// strategies are deleted before inserting, leaving other strategies' rows
// untouched.
func (r *RecommendationRepository) ReplaceStrategiesForUser(
	ctx context.Context,
	userID uint,
	strategies []string,
	recs []domain.Recommendation,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND strategy IN ?", userID, strategies).
			Delete(&domain.Recommendation{}).Error; err != nil {
			return fmt.Errorf("failed to delete strategy recommendations: %w", err)
		}

		if len(recs) == 0 {
			return nil
		}

		if err := tx.Create(&recs).Error; err != nil {
			return fmt.Errorf("failed to insert strategy recommendations: %w", err)
		}

		return nil
	})
}

// ---- Reads ----

func (r *RecommendationRepository) FindCombinedByUser(
	ctx context.Context,
	userID uint,
	limit int,
) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var recs []domain.Recommendation
	query := r.DB.WithContext(ctx).
		Where("user_id = ? AND strategy = ? AND active = ?", userID, domain.StrategyCombined, true).
		Order("score DESC, vaga_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query combined recommendations: %w", err)
	}

	return recs, nil
}

func (r *RecommendationRepository) FindActiveByUserAndOpportunity(
	ctx context.Context,
	userID, opportunityID uint,
) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var recs []domain.Recommendation
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND vaga_id = ? AND active = ?", userID, opportunityID, true).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query recommendation rows: %w", err)
	}

	return recs, nil
}

func (r *RecommendationRepository) FindActiveStrategyRows(
	ctx context.Context,
	userID uint,
	exclude []string,
) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var recs []domain.Recommendation
	query := r.DB.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true)
	if len(exclude) > 0 {
		query = query.Where("strategy NOT IN ?", exclude)
	}

	if err := query.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query retained strategy rows: %w", err)
	}

	return recs, nil
}

func (r *RecommendationRepository) CountFreshCombined(
	ctx context.Context,
	userID uint,
	since time.Time,
) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("user_id = ? AND strategy = ? AND active = ? AND updated_at >= ?",
			userID, domain.StrategyCombined, true, since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count fresh recommendations: %w", err)
	}

	return count, nil
}

// ---- Invalidation and cleanup ----

func (r *RecommendationRepository) DeactivateByOpportunity(
	ctx context.Context,
	opportunityID uint,
) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("vaga_id = ? AND active = ?", opportunityID, true).
		Update("active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate recommendations: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *RecommendationRepository) DeactivateByUser(
	ctx context.Context,
	userID uint,
) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate recommendations: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *RecommendationRepository) PurgeInactiveBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("active = ? AND updated_at < ?", false, cutoff).
		Delete(&domain.Recommendation{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge inactive recommendations: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// ---- Stats and audit ----

func (r *RecommendationRepository) Stats(ctx context.Context) (domain.RecommendationStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationStats{}, fmt.Errorf("context error: %w", err)
	}

	var stats domain.RecommendationStats

	if err := r.DB.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("strategy = ? AND active = ?", domain.StrategyCombined, true).
		Count(&stats.TotalActiveRecommendations).Error; err != nil {
		return domain.RecommendationStats{}, fmt.Errorf("failed to count active recommendations: %w", err)
	}

	if err := r.DB.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("strategy = ? AND active = ?", domain.StrategyCombined, true).
		Distinct("user_id").
		Count(&stats.UsersWithRecommendations).Error; err != nil {
		return domain.RecommendationStats{}, fmt.Errorf("failed to count users with recommendations: %w", err)
	}

	if stats.UsersWithRecommendations > 0 {
		stats.AvgRecommendationsPerUser =
			float64(stats.TotalActiveRecommendations) / float64(stats.UsersWithRecommendations)
	}

	return stats, nil
}

func (r *RecommendationRepository) SaveEvent(ctx context.Context, event domain.RecommendationEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save recommendation event: %w", err)
	}

	return nil
}
