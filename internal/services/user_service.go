package services

import (
	"context"
	"errors"
	"fmt"

	"usermanagement/internal/models"
	"usermanagement/internal/repositories"

	"go.uber.org/zap"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Username     string
	Email        string
	Password     string
	MobileNumber string
}

// UserService handles registration, login, password reset and profile lookups.
type UserService struct {
	userRepo   repositories.UserRepository
	hasher     PasswordHasher
	activities *ActivityLogService
	logger     *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, hasher PasswordHasher, activities *ActivityLogService, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:   userRepo,
		hasher:     hasher,
		activities: activities,
		logger:     logger,
	}
}

// Register creates a new account. Email uniqueness is checked before username,
// so a request colliding on both reports ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}
	exists, err = s.userRepo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		Password:     hashed,
		MobileNumber: in.MobileNumber,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index is the final word when two registrations race.
		switch {
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repositories.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.record(ctx, user.ID, models.ActionUserRegistration,
		fmt.Sprintf("User registered: %s (Mobile: %s, Username: %s)", user.Email, user.MobileNumber, user.Username))

	return user, nil
}

// Login verifies a username/password pair. Unknown usernames leave no activity trail;
// a wrong password for a known user is recorded as LOGIN_FAILED.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.Password) {
		s.record(ctx, user.ID, models.ActionLoginFailed, "Failed login attempt for: "+username)
		return nil, ErrInvalidCredentials
	}

	s.record(ctx, user.ID, models.ActionUserLogin, "User logged in: "+username)
	return user, nil
}

// ResetPassword sets a new password for the user identified by username and mobile number.
// It returns ErrResetIdentityMismatch when no such user exists.
func (s *UserService) ResetPassword(ctx context.Context, username, mobileNumber, newPassword string) error {
	user, err := s.userRepo.GetByUsernameAndMobile(ctx, username, mobileNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrResetIdentityMismatch
		}
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	s.record(ctx, user.ID, models.ActionPasswordReset,
		fmt.Sprintf("Password reset for user: %s (Mobile: %s)", username, mobileNumber))
	return nil
}

// FindByID returns the user with the given ID or an error wrapping repositories.ErrNotFound.
func (s *UserService) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// FindByEmail returns the user with the given email or an error wrapping repositories.ErrNotFound.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// record writes an activity entry. The account change has already been committed,
// so a failure here is logged rather than returned.
func (s *UserService) record(ctx context.Context, userID uint64, action, details string) {
	if _, err := s.activities.Record(ctx, userID, action, details, ClientIPFrom(ctx)); err != nil {
		s.logger.Error("failed to record activity",
			zap.Uint64("user_id", userID),
			zap.String("action", action),
			zap.Error(err))
	}
}
