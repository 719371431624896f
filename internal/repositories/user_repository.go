package repositories

import (
	"context"

	"usermanagement/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	GetByID(ctx context.Context, id uint64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsernameAndMobile(ctx context.Context, username, mobileNumber string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
