package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"usermanagement/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// It enforces the same unique username and email constraints as the SQL schema.
type MockUserRepository struct {
	users  map[uint64]models.User
	nextID uint64
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[uint64]models.User),
	}
}

// Create adds a new user, assigning ID and CreatedAt.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return ErrDuplicateUsername
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

// UpdatePassword replaces the stored password digest.
func (r *MockUserRepository) UpdatePassword(_ context.Context, id uint64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	user.Password = passwordHash
	r.users[id] = user
	return nil
}

// GetByID returns a user by its ID.
func (r *MockUserRepository) GetByID(_ context.Context, id uint64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetByUsername returns a user by exact username.
func (r *MockUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find("username "+username, func(u models.User) bool { return u.Username == username })
}

// GetByEmail returns a user by exact email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find("email "+email, func(u models.User) bool { return u.Email == email })
}

// GetByUsernameAndMobile returns the user matching both fields.
func (r *MockUserRepository) GetByUsernameAndMobile(_ context.Context, username, mobileNumber string) (*models.User, error) {
	return r.find("username "+username+" and given mobile", func(u models.User) bool {
		return u.Username == username && u.MobileNumber == mobileNumber
	})
}

// ExistsByEmail reports whether any user holds the email.
func (r *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

// ExistsByUsername reports whether any user holds the username.
func (r *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *MockUserRepository) find(desc string, match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user with %s: %w", desc, ErrNotFound)
}
