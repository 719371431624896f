package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform response body of every API endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FieldError describes one failed input constraint.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

// bindAndValidate parses the JSON body into req and checks its validate tags.
// On failure it has already written the 400 response and returns ok=false.
func bindAndValidate(c *fiber.Ctx, validate *validator.Validate, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
		fieldErrors := make([]FieldError, 0, len(validationErrors))
		for _, e := range validationErrors {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()),
			})
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(Envelope{
			Success: false,
			Message: "Validation failed",
			Data:    fieldErrors,
		})
	}
	return true, nil
}
