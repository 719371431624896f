package repositories

import (
	"context"
	"fmt"

	"usermanagement/internal/models"

	"gorm.io/gorm"
)

// newestFirst orders by timestamp and breaks ties by insertion order.
const newestFirst = "timestamp DESC, id DESC"

// GORMActivityLogRepository is a GORM implementation of ActivityLogRepository.
type GORMActivityLogRepository struct {
	db *gorm.DB
}

// NewGORMActivityLogRepository creates a new instance of GORMActivityLogRepository.
func NewGORMActivityLogRepository(db *gorm.DB) *GORMActivityLogRepository {
	return &GORMActivityLogRepository{
		db: db,
	}
}

// Create appends a record. Timestamp is assigned by the model's BeforeCreate hook.
func (r *GORMActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

// ListByUserID returns every record for a user, newest first.
func (r *GORMActivityLogRepository) ListByUserID(ctx context.Context, userID uint64) ([]models.ActivityLog, error) {
	logs := make([]models.ActivityLog, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order(newestFirst).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list activity logs for user %d: %w", userID, err)
	}
	return logs, nil
}

// ListRecent returns at most limit records across all users, newest first.
func (r *GORMActivityLogRepository) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	logs := make([]models.ActivityLog, 0, limit)
	if err := r.db.WithContext(ctx).Order(newestFirst).Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent activity logs: %w", err)
	}
	return logs, nil
}
