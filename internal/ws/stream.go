package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"
)

var errClientClosed = errors.New("websocket closed by client")

// WebsocketLogWriter is an io.Writer that sends each write as one log frame.
// It is safe for concurrent use.
type WebsocketLogWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *WebsocketLogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := WriteLog(w.conn, p); err != nil {
		return 0, errClientClosed
	}
	return len(p), nil
}

func (w *WebsocketLogWriter) WriteStatus(level, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_ = WriteStatus(w.conn, level, message)
}

// StreamWebSocket upgrades to WebSocket and hands a log writer to streamer.
// The streamer's context is cancelled when the client goes away.
func StreamWebSocket(c fiber.Ctx, streamer func(ctx context.Context, writer *WebsocketLogWriter) error) error {
	type requestCtxProvider interface {
		RequestCtx() *fasthttp.RequestCtx
	}

	provider, ok := any(c).(requestCtxProvider)
	if !ok {
		return fiber.ErrInternalServerError
	}

	return Upgrader.Upgrade(provider.RequestCtx(), func(conn *websocket.Conn) {
		defer conn.Close()

		closed := make(chan struct{})
		var once sync.Once
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					once.Do(func() { close(closed) })
					return
				}
			}
		}()

		wsWriter := &WebsocketLogWriter{conn: conn}

		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-closed:
				cancel()
			case <-streamCtx.Done():
			}
		}()

		err := streamer(streamCtx, wsWriter)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, errClientClosed) {
			wsWriter.WriteStatus("error", err.Error())
		}

		wsWriter.WriteStatus("info", "stream ended")
	})
}
