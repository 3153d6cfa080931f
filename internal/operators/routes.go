// Package operators authenticates the administrators of the digest API.
package operators

import (
	"context"

	"dailydigest/internal/models"

	"github.com/gofiber/fiber/v3"
)

// Store loads operators by username.
type Store interface {
	GetOperator(ctx context.Context, username string) (models.Operator, error)
}

func Routes(app fiber.Router, store Store) {
	operators := app.Group("/operators")

	operators.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	operators.Post("/login", loginHandler(store))

	operators.Get("/me", Middleware, meHandler)
}
