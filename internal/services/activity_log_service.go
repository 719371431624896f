package services

import (
	"context"
	"fmt"

	"usermanagement/internal/models"
	"usermanagement/internal/repositories"

	"go.uber.org/zap"
)

// RecentActivityLimit caps ListRecent.
const RecentActivityLimit = 10

// ActivityPublisher forwards stored activity records to an external consumer.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, entry models.ActivityLog) error
}

// ActivityLogService records and reads the audit trail.
type ActivityLogService struct {
	repo      repositories.ActivityLogRepository
	publisher ActivityPublisher // optional
	logger    *zap.Logger
}

// NewActivityLogService creates a new ActivityLogService. publisher may be nil.
func NewActivityLogService(repo repositories.ActivityLogRepository, publisher ActivityPublisher, logger *zap.Logger) *ActivityLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Record persists one immutable activity entry and, if configured, publishes it.
func (s *ActivityLogService) Record(ctx context.Context, userID uint64, action, details string, ipAddress *string) (*models.ActivityLog, error) {
	entry := &models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record %s for user %d: %w", action, userID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishActivity(ctx, *entry); err != nil {
			s.logger.Warn("failed to publish activity event",
				zap.Uint64("activity_id", entry.ID),
				zap.String("action", action),
				zap.Error(err))
		}
	}
	return entry, nil
}

// ListForUser returns all of a user's activity, newest first.
func (s *ActivityLogService) ListForUser(ctx context.Context, userID uint64) ([]models.ActivityLog, error) {
	logs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	return logs, nil
}

// ListRecent returns the newest RecentActivityLimit records across all users.
func (s *ActivityLogService) ListRecent(ctx context.Context) ([]models.ActivityLog, error) {
	logs, err := s.repo.ListRecent(ctx, RecentActivityLimit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	return logs, nil
}
