package ws

import (
	"encoding/json"
	"strings"

	githubws "github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
)

// AllowedOrigins restricts browser upgrades when non-empty.
var AllowedOrigins []string

// Upgrader upgrades HTTP connections to WebSocket connections.
var Upgrader = githubws.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return originAllowed(string(ctx.Request.Header.Peek("Origin")))
	},
}

func originAllowed(origin string) bool {
	if origin == "" || len(AllowedOrigins) == 0 {
		return true
	}
	for _, o := range AllowedOrigins {
		if strings.EqualFold(strings.TrimSpace(o), origin) {
			return true
		}
	}
	return false
}

// WriteStatus sends a status message to the websocket client.
func WriteStatus(conn *githubws.Conn, status string, message string) error {
	payload, err := json.Marshal(map[string]string{
		"type":    status,
		"message": message,
	})
	if err != nil {
		return err
	}
	return conn.WriteMessage(githubws.TextMessage, payload)
}

// WriteLog sends a log payload to the websocket client.
func WriteLog(conn *githubws.Conn, message []byte) error {
	payload, err := json.Marshal(map[string]string{
		"type":    "log",
		"message": strings.TrimRight(string(message), "\n"),
	})
	if err != nil {
		return err
	}
	return conn.WriteMessage(githubws.TextMessage, payload)
}
