package repositories

import (
	"context"

	"usermanagement/internal/models"
)

// ActivityLogRepository defines append and read access to the audit trail.
// There is deliberately no update or delete.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListByUserID(ctx context.Context, userID uint64) ([]models.ActivityLog, error)
	ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)
}
