package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RequireUpgrade lets only websocket upgrade requests through.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// NotificationSocket streams admin notifications to a connected dashboard.
func NotificationSocket() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		deps.Hub.Serve(c)
	})
}
