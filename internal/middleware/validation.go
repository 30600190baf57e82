package middleware

import (
	"quiz-hub/internal/domain"
	"quiz-hub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedQuizTypeKey = "validated_quiz_type"
	ValidatedIDKey       = "validated_id"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateQuizType validates the :quizType path parameter
func (vm *ValidationMiddleware) ValidateQuizType() fiber.Handler {
	return func(c *fiber.Ctx) error {
		category, errors := vm.validator.ValidateQuizType(c.Params("quizType"))
		if len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}
		c.Locals(ValidatedQuizTypeKey, category)
		return c.Next()
	}
}

// ValidateIDParam validates the :id path parameter as a ULID
func (vm *ValidationMiddleware) ValidateIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errors := vm.validator.ValidateID("id", id); len(errors) > 0 {
			return errors
		}
		c.Locals(ValidatedIDKey, id)
		return c.Next()
	}
}

// ValidatedQuizType returns the category stored by ValidateQuizType.
func ValidatedQuizType(c *fiber.Ctx) domain.Category {
	category, _ := c.Locals(ValidatedQuizTypeKey).(domain.Category)
	return category
}
