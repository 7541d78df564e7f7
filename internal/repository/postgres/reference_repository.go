package postgres

import (
	"context"
	"fmt"

	"screenBreak/domain"
	"screenBreak/pkg/logger"

	"gorm.io/gorm"
)

type ReferenceRepository struct {
	DB *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{
		DB: db,
	}
}

// LoadReference reads the usage columns of screen_time_usage, skipping rows
// with a NULL in any of them. Rows come back in insertion order.
func (r *ReferenceRepository) LoadReference(ctx context.Context) (*domain.ReferenceDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.UsageRecord
	if err := referenceQuery(r.DB.WithContext(ctx), &rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query screen_time_usage: %w", err)
	}

	logger.Info("reference dataset loaded", "table", domain.UsageRecord{}.TableName(), "rows", len(rows))

	return domain.NewReferenceDataset("postgres:"+domain.UsageRecord{}.TableName(), rows), nil
}

func referenceQuery(tx *gorm.DB, rows *[]domain.UsageRecord) *gorm.DB {
	return tx.
		Model(&domain.UsageRecord{}).
		Select("daily_screen_time_hours", "screen_unlocks_per_day", "app_notifications_received").
		Where("daily_screen_time_hours IS NOT NULL").
		Where("screen_unlocks_per_day IS NOT NULL").
		Where("app_notifications_received IS NOT NULL").
		Order("id ASC").
		Find(rows)
}
