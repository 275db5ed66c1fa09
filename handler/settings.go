package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

func GetSettings(c *fiber.Ctx) error {
	settings, err := deps.Settings.Get(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, settings)
}

func UpdateSettings(c *fiber.Ctx) error {
	settings, err := deps.Settings.Update(c.UserContext(), validate.Input[model.UpdateSettingsInput](c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, settings)
}
