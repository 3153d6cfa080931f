package operators

import (
	"strings"

	"dailydigest/internal/errmsg"
	"dailydigest/internal/models"
	"dailydigest/internal/utils"

	"github.com/gofiber/fiber/v3"
)

const localsKey = "operator"

// Middleware requires a valid operator bearer token.
func Middleware(c fiber.Ctx) error {
	return authenticate(c, bearerToken(c.Get("Authorization")))
}

// WebSocketMiddleware also accepts the token as ?authorization=<token>,
// since browsers cannot set headers on a websocket upgrade.
func WebSocketMiddleware(c fiber.Ctx) error {
	token := bearerToken(c.Get("Authorization"))
	if token == "" {
		token = strings.TrimSpace(c.Query("authorization"))
	}
	return authenticate(c, token)
}

func authenticate(c fiber.Ctx, token string) error {
	if token == "" {
		return utils.StatusError(c, errmsg.OperatorNoToken)
	}

	var op models.Operator
	if err := op.ParseToken(token); err != nil {
		return utils.StatusError(c, errmsg.OperatorInvalidToken)
	}

	utils.SetLocals(c, localsKey, op)

	return c.Next()
}

// Current returns the username of the authenticated operator, if any.
func Current(c fiber.Ctx) string {
	var op models.Operator
	if err := utils.GetLocals(c, localsKey, &op); err != nil {
		return ""
	}
	return op.Username
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	fields := strings.Fields(header)
	if len(fields) != 2 {
		return ""
	}
	return fields[1]
}
