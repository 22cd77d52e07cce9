package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError turns an error returned by a service or transaction
// (usually *fiber.Error) into the standard JSON error envelope.
// Anything else is logged and answered with a generic 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so errors that escape
// a handler still leave in the standard envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
