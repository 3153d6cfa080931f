package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"dailydigest/internal/errmsg"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

// RequestRunner sends one JSON request through app and returns the raw body.
func RequestRunner(
	t *testing.T,
	app *fiber.App,
	method string,
	path string,
	sendBytes []byte,
	token *string,
	config ...fiber.TestConfig,
) (bodyBytes []byte, statusCode int) {
	if len(config) == 0 {
		config = append(config, fiber.TestConfig{Timeout: 30 * time.Second})
	}
	req, err := http.NewRequest(
		method,
		path,
		bytes.NewReader(sendBytes),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := app.Test(req, config[0])
	require.NoError(t, err)

	statusCode = res.StatusCode

	defer res.Body.Close()
	bodyBytes, err = io.ReadAll(res.Body)
	require.NoError(t, err)

	return
}

// ResponseErrorCheck asserts the response is the given StatusError.
func ResponseErrorCheck(
	t *testing.T,
	serr errmsg.StatusError,
	bodyBytes []byte,
	statusCode int,
) {
	require.Equal(t, serr.StatusCode, statusCode)

	var body struct {
		Message string `json:"message"`
	}
	err := json.Unmarshal(bodyBytes, &body)
	require.NoError(t, err)

	require.Equal(t, serr.Message, body.Message)
}
