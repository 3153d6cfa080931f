package helpers

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func API_CreateUser(
	t *testing.T,
	app *fiber.App,
	token *string,
	payload map[string]any,
) (bodyBytes []byte, statusCode int) {
	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	return RequestRunner(t, app, "POST", "/digest/users", sendBytes, token)
}

func API_GetUser(
	t *testing.T,
	app *fiber.App,
	token *string,
	userID string,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app, "GET", "/digest/users/"+userID, nil, token)
}

func API_DeleteUser(
	t *testing.T,
	app *fiber.App,
	token *string,
	userID string,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app, "DELETE", "/digest/users/"+userID, nil, token)
}

func API_VerifyToken(
	t *testing.T,
	app *fiber.App,
	token *string,
	userID string,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app, "POST", "/digest/users/"+userID+"/verify-token", nil, token)
}

func API_TodayReport(
	t *testing.T,
	app *fiber.App,
	token *string,
	userID string,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app, "GET", "/digest/users/"+userID+"/reports/today", nil, token)
}
