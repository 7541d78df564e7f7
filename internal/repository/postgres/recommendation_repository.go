package postgres

import (
	"context"
	"fmt"

	"screenBreak/business/screentime"
	"screenBreak/domain"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

var _ screentime.RecommendationRepository = (*RecommendationRepository)(nil)

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

func (r *RecommendationRepository) ListTiers(ctx context.Context) ([]domain.RecommendationTier, error) {
	var tiers []domain.RecommendationTier

	if err := tiersQuery(r.DB.WithContext(ctx), &tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to query break_recommendations: %w", err)
	}

	return tiers, nil
}

func tiersQuery(tx *gorm.DB, tiers *[]domain.RecommendationTier) *gorm.DB {
	return tx.
		Order("cluster_id ASC").
		Find(tiers)
}
