package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"usermanagement/internal/models"
)

// MockActivityLogRepository is an in-memory implementation of ActivityLogRepository.
type MockActivityLogRepository struct {
	logs   []models.ActivityLog
	nextID uint64
	mu     sync.RWMutex
}

// NewMockActivityLogRepository creates a new instance of MockActivityLogRepository.
func NewMockActivityLogRepository() *MockActivityLogRepository {
	return &MockActivityLogRepository{}
}

// Create appends a record, stamping ID and Timestamp.
func (r *MockActivityLogRepository) Create(_ context.Context, entry *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	entry.Timestamp = time.Now().UTC()
	r.logs = append(r.logs, *entry)
	return nil
}

// ListByUserID returns every record for a user, newest first.
func (r *MockActivityLogRepository) ListByUserID(_ context.Context, userID uint64) ([]models.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ActivityLog, 0)
	for _, entry := range r.logs {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListRecent returns at most limit records across all users, newest first.
func (r *MockActivityLogRepository) ListRecent(_ context.Context, limit int) ([]models.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ActivityLog, len(r.logs))
	copy(out, r.logs)
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(logs []models.ActivityLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].Timestamp.After(logs[j].Timestamp)
		}
		return logs[i].ID > logs[j].ID
	})
}
