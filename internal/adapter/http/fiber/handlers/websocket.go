package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/seu-repo/quest-board/internal/adapter/http/fiber/middleware"
	wshub "github.com/seu-repo/quest-board/internal/adapter/websocket"
)

// LiveUpdates upgrades authenticated requests and attaches the connection
// to the hub under the caller's user id.
func LiveUpdates(hub *wshub.Hub) []fiber.Handler {
	upgrade := func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals("allowed", true)
		return c.Next()
	}

	stream := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.LocalUserID).(string)
		if userID == "" {
			conn.Close()
			return
		}
		hub.AddClient(conn, userID)
	})

	return []fiber.Handler{upgrade, stream}
}
