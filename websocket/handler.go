package websocket

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UpgradeRequired gates the socket route so plain HTTP requests get a 426
// instead of a confusing handshake error.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeStatusSocket keeps the connection open and streams status updates
// for one session until the browser disconnects.
func ServeStatusSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sessionID, err := uuid.Parse(conn.Params("sessionId"))
		if err != nil {
			conn.Close()
			return
		}

		client := &Client{SessionID: sessionID, Conn: conn}
		Register <- client
		defer func() {
			Unregister <- client
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
