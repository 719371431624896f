package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"usermanagement/internal/models"
	"usermanagement/internal/repositories"
	"usermanagement/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsernameAndMobile(ctx context.Context, username, mobileNumber string) (*models.User, error) {
	args := m.Called(ctx, username, mobileNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func aliceInput() services.RegisterInput {
	return services.RegisterInput{
		FirstName:    "Alice",
		LastName:     "Liddell",
		Username:     "alice",
		Email:        "alice@example.com",
		Password:     "correct",
		MobileNumber: "555-1234",
	}
}

// newInMemoryService wires a UserService over the in-memory repositories.
func newInMemoryService() (*services.UserService, *repositories.MockActivityLogRepository) {
	activityRepo := repositories.NewMockActivityLogRepository()
	activities := services.NewActivityLogService(activityRepo, nil, nil)
	svc := services.NewUserService(repositories.NewMockUserRepository(), services.NewBcryptHasher(bcrypt.MinCost), activities, nil)
	return svc, activityRepo
}

func actionsFor(t *testing.T, repo *repositories.MockActivityLogRepository, userID uint64) []string {
	t.Helper()
	logs, err := repo.ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	activityRepo := repositories.NewMockActivityLogRepository()
	svc := services.NewUserService(mockRepo, services.NewBcryptHasher(bcrypt.MinCost),
		services.NewActivityLogService(activityRepo, nil, nil), nil)
	in := aliceInput()

	// Successful registration
	mockRepo.On("ExistsByEmail", mock.Anything, in.Email).Return(false, nil).Once()
	mockRepo.On("ExistsByUsername", mock.Anything, in.Username).Return(false, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = 7 }).
		Return(nil).Once()

	user, err := svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), user.ID)
	assert.NotEqual(t, in.Password, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)))
	mockRepo.AssertExpectations(t)

	logs, err := activityRepo.ListByUserID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionUserRegistration, logs[0].Action)
	assert.Equal(t, "User registered: alice@example.com (Mobile: 555-1234, Username: alice)", logs[0].Details)

	// Email already registered, username is never checked
	mockRepo.On("ExistsByEmail", mock.Anything, in.Email).Return(true, nil).Once()
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("ExistsByEmail", mock.Anything, in.Email).Return(false, nil).Once()
	mockRepo.On("ExistsByUsername", mock.Anything, in.Username).Return(true, nil).Once()
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, services.ErrDuplicateUsername)
	mockRepo.AssertExpectations(t)

	// Lost race against a concurrent registration: the unique index decides
	mockRepo.On("ExistsByEmail", mock.Anything, in.Email).Return(false, nil).Once()
	mockRepo.On("ExistsByUsername", mock.Anything, in.Username).Return(false, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicateUsername).Once()
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, services.ErrDuplicateUsername)
	mockRepo.AssertExpectations(t)

	// Store failure is wrapped, not masked
	storeErr := errors.New("connection refused")
	mockRepo.On("ExistsByEmail", mock.Anything, in.Email).Return(false, storeErr).Once()
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, storeErr)
	mockRepo.AssertExpectations(t)
}

func TestUserService_RegisterUniqueness(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInMemoryService()

	_, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)

	sameEmail := aliceInput()
	sameEmail.Username = "alice2"
	sameEmail.FirstName = "Other"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)

	sameUsername := aliceInput()
	sameUsername.Email = "other@example.com"
	_, err = svc.Register(ctx, sameUsername)
	assert.ErrorIs(t, err, services.ErrDuplicateUsername)

	// Both collide: email wins
	_, err = svc.Register(ctx, aliceInput())
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
}

func TestUserService_LookupsNeverExposePlaintext(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInMemoryService()

	created, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)

	byID, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct", byID.Password)

	byEmail, err := svc.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.NotEqual(t, "correct", byEmail.Password)

	_, err = svc.FindByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	svc, activityRepo := newInMemoryService()

	alice, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)

	// Correct password
	user, err := svc.Login(ctx, "alice", "correct")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, []string{models.ActionUserLogin, models.ActionUserRegistration}, actionsFor(t, activityRepo, alice.ID))

	// Wrong password for a known user is recorded against that user
	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	actions := actionsFor(t, activityRepo, alice.ID)
	require.Len(t, actions, 3)
	assert.Equal(t, models.ActionLoginFailed, actions[0])

	// Unknown username leaves no trace
	before, err := activityRepo.ListRecent(ctx, 100)
	require.NoError(t, err)
	_, err = svc.Login(ctx, "nonexistent", "x")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	after, err := activityRepo.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestUserService_LoginRecordsClientIP(t *testing.T) {
	svc, activityRepo := newInMemoryService()
	alice, err := svc.Register(context.Background(), aliceInput())
	require.NoError(t, err)

	ctx := services.WithClientIP(context.Background(), "203.0.113.9")
	_, err = svc.Login(ctx, "alice", "correct")
	require.NoError(t, err)

	logs, err := activityRepo.ListByUserID(context.Background(), alice.ID)
	require.NoError(t, err)
	require.NotNil(t, logs[0].IPAddress)
	assert.Equal(t, "203.0.113.9", *logs[0].IPAddress)
	assert.Nil(t, logs[1].IPAddress, "registration ran without a client IP")
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, activityRepo := newInMemoryService()

	alice, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)

	// Mobile number mismatch
	err = svc.ResetPassword(ctx, "alice", "555-0000", "newpw")
	assert.ErrorIs(t, err, services.ErrResetIdentityMismatch)
	assert.Equal(t, []string{models.ActionUserRegistration}, actionsFor(t, activityRepo, alice.ID))

	// Unknown user
	err = svc.ResetPassword(ctx, "bob", "555-1234", "newpw")
	assert.ErrorIs(t, err, services.ErrResetIdentityMismatch)

	// Matching pair
	require.NoError(t, svc.ResetPassword(ctx, "alice", "555-1234", "newpw"))
	assert.Equal(t, models.ActionPasswordReset, actionsFor(t, activityRepo, alice.ID)[0])

	_, err = svc.Login(ctx, "alice", "newpw")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "correct")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestUserService_PasswordTooLong(t *testing.T) {
	ctx := context.Background()
	svc, activityRepo := newInMemoryService()
	tooLong := strings.Repeat("é", 40)

	in := aliceInput()
	in.Password = tooLong
	_, err := svc.Register(ctx, in)
	assert.ErrorIs(t, err, services.ErrPasswordTooLong)
	_, err = svc.FindByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound, "nothing is stored")

	alice, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)
	err = svc.ResetPassword(ctx, "alice", "555-1234", tooLong)
	assert.ErrorIs(t, err, services.ErrPasswordTooLong)
	assert.Equal(t, []string{models.ActionUserRegistration}, actionsFor(t, activityRepo, alice.ID))

	_, err = svc.Login(ctx, "alice", "correct")
	assert.NoError(t, err)
}
