package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/middleware"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

var errBadCredentials = errors.New("invalid username or password")

func sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   deps.SecureCookies,
		Path:     "/",
	}
}

func Login(c *fiber.Ctx) error {
	input := validate.Input[model.LoginInput](c)

	var admin model.AdminUser
	err := database.DB.WithContext(c.UserContext()).Where("username = ?", input.Username).First(&admin).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.HandleError(c, err)
	}
	if err != nil || !helper.CheckPasswordHash(input.Password, admin.PasswordHash) {
		logger.Log.Info("admin login failed", zap.String("username", input.Username), zap.String("ip", c.IP()))
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", errBadCredentials)
	}

	token, err := helper.GenerateSessionToken(model.SessionClaim{AdminID: admin.ID, Username: admin.Username}, helper.SessionTTL)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create session", err)
	}
	c.Cookie(sessionCookie(token, time.Now().Add(helper.SessionTTL)))

	return c.JSON(fiber.Map{
		"message": "login success",
		"admin": fiber.Map{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(sessionCookie("", time.Unix(0, 0)))
	return c.JSON(fiber.Map{"message": "logout success"})
}

// GetSession reports whether the caller holds a valid admin session.
func GetSession(c *fiber.Ctx) error {
	claim, ok := middleware.Session(c)
	if !ok {
		return c.JSON(fiber.Map{"authenticated": false})
	}
	return c.JSON(fiber.Map{"authenticated": true, "username": claim.Username})
}

// CSRFToken hands the token set by the csrf middleware to the admin client,
// which echoes it in X-CSRF-Token on every state-changing request.
func CSRFToken(c *fiber.Ctx) error {
	token, _ := c.Locals("csrf").(string)
	return c.JSON(fiber.Map{"csrfToken": token})
}
