package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/middleware"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

func currentAdmin(c *fiber.Ctx) (*model.AdminUser, error) {
	claim, ok := middleware.Session(c)
	if !ok {
		return nil, &utils.AppError{Kind: utils.KindUnauthorized, Message: "Not authenticated"}
	}
	var admin model.AdminUser
	if err := database.DB.WithContext(c.UserContext()).First(&admin, claim.AdminID).Error; err != nil {
		return nil, utils.NotFoundOr(err, "Admin not found")
	}
	return &admin, nil
}

func Me(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, admin)
}

func ChangePassword(c *fiber.Ctx) error {
	input := validate.Input[model.ChangePasswordInput](c)
	admin, err := currentAdmin(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if !helper.CheckPasswordHash(input.CurrentPassword, admin.PasswordHash) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Current password is incorrect", errors.New("password does not match"))
	}

	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not hash password", err)
	}
	if err := database.DB.WithContext(c.UserContext()).Model(admin).Update("password_hash", hash).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Password changed"})
}
