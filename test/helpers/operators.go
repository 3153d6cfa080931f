package helpers

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func API_OperatorsLogin(
	t *testing.T,
	app *fiber.App,
	username string,
	password string,
) (bodyBytes []byte, statusCode int) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{
		Username: username,
		Password: password,
	}

	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	return RequestRunner(t, app,
		"POST",
		"/digest/operators/login",
		sendBytes,
		nil,
	)
}

// LoginToken logs in and returns the bearer token, failing the test otherwise.
func LoginToken(t *testing.T, app *fiber.App, username, password string) *string {
	body, statusCode := API_OperatorsLogin(t, app, username, password)
	require.Equal(t, 200, statusCode, string(body))

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NotEmpty(t, payload.Token)

	return &payload.Token
}
