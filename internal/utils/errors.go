package utils

import (
	"dailydigest/internal/errmsg"

	"github.com/gofiber/fiber/v3"
)

func Error(c fiber.Ctx, statusCode int, err error) error {
	return c.Status(statusCode).JSON(map[string]string{
		"message": err.Error(),
	})
}

func StatusError(c fiber.Ctx, se errmsg.StatusError) error {
	return c.Status(se.StatusCode).JSON(map[string]string{
		"message": se.Message,
	})
}

// ErrorFrom answers with the StatusError carried by err, or a 500.
func ErrorFrom(c fiber.Ctx, err error) error {
	if se, ok := errmsg.AsStatusError(err); ok {
		return StatusError(c, se)
	}
	return StatusError(c, errmsg.InternalServerError(err))
}
