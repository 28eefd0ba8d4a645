package middleware

import (
	"github.com/gofiber/fiber/v2"

	"productapi/internal/validation"
)

// RejectInvalid is a pure gate over the errors accumulated by the
// validation pipeline: any error short-circuits the request with a 400
// and the handler never runs, otherwise control passes onward.
func RejectInvalid(c *fiber.Ctx) error {
	if errs := validation.ErrorsFrom(c); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": errs,
		})
	}
	return c.Next()
}
