package repositories

import (
	"context"
	"errors"
	"fmt"

	"usermanagement/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. The store assigns ID and CreatedAt.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if dup := classifyUniqueViolation(r.db, err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password digest. No other column is touched.
func (r *GORMUserRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	return r.first(ctx, fmt.Sprintf("ID %d", id), "id = ?", id)
}

// GetByUsername retrieves a user by exact username match.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username "+username, "username = ?", username)
}

// GetByEmail retrieves a user by exact email match.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email "+email, "email = ?", email)
}

// GetByUsernameAndMobile retrieves the user matching both username and mobile number.
func (r *GORMUserRepository) GetByUsernameAndMobile(ctx context.Context, username, mobileNumber string) (*models.User, error) {
	return r.first(ctx, "username "+username+" and given mobile", "username = ? AND mobile_number = ?", username, mobileNumber)
}

// ExistsByEmail reports whether any user holds the email.
func (r *GORMUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// ExistsByUsername reports whether any user holds the username.
func (r *GORMUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *GORMUserRepository) first(ctx context.Context, desc string, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with %s: %w", desc, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with %s: %w", desc, err)
	}
	return &user, nil
}

func (r *GORMUserRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
