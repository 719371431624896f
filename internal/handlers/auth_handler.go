package handlers

import (
	"errors"

	"usermanagement/internal/models"
	"usermanagement/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for registration, login and password reset.
type AuthHandler struct {
	userService *services.UserService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService *services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validate:    newValidator(),
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
}

// max=72 counts characters; multi-byte passwords can still exceed bcrypt's 72-byte limit.
const passwordTooLongMessage = "Password must be at most 72 bytes"

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	FirstName    string `json:"firstName" validate:"required,max=50"`
	LastName     string `json:"lastName" validate:"required,max=50"`
	Username     string `json:"username" validate:"required,min=3,max=50"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=6,max=72"`
	MobileNumber string `json:"mobileNumber" validate:"required,min=7,max=20"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest represents the request body for a password reset.
type PasswordResetRequest struct {
	Username     string `json:"username" validate:"required"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
	NewPassword  string `json:"newPassword" validate:"required,min=6,max=72"`
}

// accountData is the user payload returned by register and login. It never carries the password.
type accountData struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
}

func newAccountData(u *models.User) accountData {
	return accountData{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		MobileNumber: u.MobileNumber,
	}
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := bindAndValidate(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.userService.Register(c.UserContext(), services.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		MobileNumber: req.MobileNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateEmail):
			return fail(c, fiber.StatusBadRequest, "Email already exists")
		case errors.Is(err, services.ErrDuplicateUsername):
			return fail(c, fiber.StatusBadRequest, "Username already exists")
		case errors.Is(err, services.ErrPasswordTooLong):
			return fail(c, fiber.StatusBadRequest, passwordTooLongMessage)
		}
		h.logger.Error("failed to register user", zap.String("username", req.Username), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return respond(c, fiber.StatusCreated, "User registered successfully", newAccountData(user))
}

// HandleLogin checks credentials and returns the account on success.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bindAndValidate(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.userService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, "Invalid username or password")
		}
		h.logger.Error("failed to log in user", zap.String("username", req.Username), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return respond(c, fiber.StatusOK, "Login successful", newAccountData(user))
}

// HandleResetPassword sets a new password when username and mobile number identify one account.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req PasswordResetRequest
	if ok, err := bindAndValidate(c, h.validate, &req); !ok {
		return err
	}

	err := h.userService.ResetPassword(c.UserContext(), req.Username, req.MobileNumber, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResetIdentityMismatch):
			return fail(c, fiber.StatusBadRequest, "Password reset failed")
		case errors.Is(err, services.ErrPasswordTooLong):
			return fail(c, fiber.StatusBadRequest, passwordTooLongMessage)
		}
		h.logger.Error("failed to reset password", zap.String("username", req.Username), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return respond(c, fiber.StatusOK, "Password reset successfully", nil)
}
