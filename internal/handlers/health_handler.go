package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness and store reachability.
type HealthHandler struct {
	ping func() error // nil when there is no external store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth returns 200 when the store answers and 503 otherwise.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	database := "in-memory"
	if h.ping != nil {
		if err := h.ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": err.Error(),
			})
		}
		database = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
	})
}
