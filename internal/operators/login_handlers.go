package operators

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"dailydigest/internal/errmsg"
	"dailydigest/internal/events"
	"dailydigest/internal/logger"
	"dailydigest/internal/models"
	"dailydigest/internal/store"
	"dailydigest/internal/utils"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string          `json:"token"`
	Operator models.Operator `json:"operator"`
}

// loginHandler exchanges operator credentials for a bearer token.
// @Summary Operator login
// @Tags Operators Auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Operator credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} errmsg._OperatorInvalidPayload
// @Failure 401 {object} errmsg._OperatorWrongPassword
// @Failure 404 {object} errmsg._OperatorNotExists
// @Router /digest/operators/login [post]
func loginHandler(st Store) fiber.Handler {
	return func(c fiber.Ctx) error {
		var body loginRequest
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return utils.StatusError(c, errmsg.OperatorInvalidPayload)
		}

		body.Username = strings.TrimSpace(body.Username)
		body.Password = strings.TrimSpace(body.Password)
		if body.Username == "" || body.Password == "" {
			return utils.StatusError(c, errmsg.OperatorInvalidPayload)
		}

		op, err := st.GetOperator(context.Background(), body.Username)
		if errors.Is(err, store.ErrNotFound) {
			return utils.StatusError(c, errmsg.OperatorNotExists)
		}
		if err != nil {
			return utils.StatusError(c, errmsg.InternalServerError(err))
		}

		if bcrypt.CompareHashAndPassword(
			[]byte(op.Password),
			[]byte(body.Password),
		) != nil {
			logger.Warn(c, "operator login rejected", "username", body.Username)
			return utils.StatusError(c, errmsg.OperatorWrongPassword)
		}

		token := op.GenToken()

		if events.Em != nil {
			events.Em.OperatorLogin(op.Username)
		}

		op.Password = ""

		return c.JSON(loginResponse{
			Token:    token,
			Operator: op,
		})
	}
}

// meHandler echoes the operator behind the bearer token.
// @Summary Current operator
// @Tags Operators Auth
// @Security OperatorAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errmsg._OperatorNoToken
// @Router /digest/operators/me [get]
func meHandler(c fiber.Ctx) error {
	return c.JSON(bson.M{"username": Current(c)})
}

// HashPassword returns the bcrypt hash stored for an operator.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
