package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

// SessionCookie holds the signed admin session.
const SessionCookie = "admin_session"

const sessionKey = "admin"

func sessionToken(c *fiber.Ctx) string {
	token := c.Cookies(SessionCookie)
	if token == "" {
		// check header Authorization: Bearer xxx
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return token
}

// AdminOnly rejects requests without a valid admin session.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Not authenticated", errors.New("no session"))
		}
		claim, err := helper.ParseSessionToken(token)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Session expired or invalid", err)
		}
		c.Locals(sessionKey, claim)
		return c.Next()
	}
}

// OptionalSession records the admin session when there is a valid one.
func OptionalSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := sessionToken(c); token != "" {
			if claim, err := helper.ParseSessionToken(token); err == nil {
				c.Locals(sessionKey, claim)
			}
		}
		return c.Next()
	}
}

// Session returns the admin session stored by AdminOnly or OptionalSession.
func Session(c *fiber.Ctx) (model.SessionClaim, bool) {
	claim, ok := c.Locals(sessionKey).(model.SessionClaim)
	return claim, ok
}
