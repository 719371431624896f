package handlers

import (
	"errors"
	"strconv"
	"time"

	"usermanagement/internal/repositories"
	"usermanagement/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler serves profile and activity lookups.
type UserHandler struct {
	userService     *services.UserService
	activityService *services.ActivityLogService
	logger          *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, activityService *services.ActivityLogService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:     userService,
		activityService: activityService,
		logger:          logger,
	}
}

// RegisterRoutes registers the user and activity routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/user")
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Get("/:id/activities", h.HandleGetUserActivities)

	router.Get("/activities/recent", h.HandleGetRecentActivities)
}

// parseUserID accepts the non-negative range of a signed 64-bit id, which is what the
// SQL drivers can bind.
func parseUserID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return uint64(id), true
}

type profileData struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// HandleGetUser returns the public profile of one user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	id, ok := parseUserID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := h.userService.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		h.logger.Error("failed to get user", zap.Uint64("user_id", id), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return respond(c, fiber.StatusOK, "User found", profileData{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	})
}

// HandleGetUserActivities lists a user's activity, newest first. Unknown users get an empty list.
func (h *UserHandler) HandleGetUserActivities(c *fiber.Ctx) error {
	id, ok := parseUserID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	activities, err := h.activityService.ListForUser(c.UserContext(), id)
	if err != nil {
		h.logger.Error("failed to list user activities", zap.Uint64("user_id", id), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return respond(c, fiber.StatusOK, "Activities retrieved", activities)
}

// HandleGetRecentActivities lists the newest activity across all users.
func (h *UserHandler) HandleGetRecentActivities(c *fiber.Ctx) error {
	activities, err := h.activityService.ListRecent(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list recent activities", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return respond(c, fiber.StatusOK, "Recent activities retrieved", activities)
}
