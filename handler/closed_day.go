package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/service"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

func GetClosedDays(c *fiber.Ctx) error {
	filter := validate.Filter[model.ClosedDayFilter](c)
	db := database.DB.WithContext(c.UserContext()).Model(&model.ClosedDay{})

	if filter.From != "" {
		from, err := utils.ParseDate(filter.From)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid from date", err)
		}
		db = db.Where("date >= ?", from)
	}
	if filter.To != "" {
		to, err := utils.ParseDate(filter.To)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid to date", err)
		}
		db = db.Where("date <= ?", to)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var days []model.ClosedDay
	if err := utils.ApplyPagination(db, filter.Limit, filter.Page).Order("date").Find(&days).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       days,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

// CreateClosedDay closes a date for every tour. Closing a date that is
// already closed records the admin's reason on the existing row.
func CreateClosedDay(c *fiber.Ctx) error {
	input := validate.Input[model.ClosedDay](c)
	db := database.DB.WithContext(c.UserContext())

	if err := service.CloseDay(db, input.Date, input.Reason); err != nil {
		return utils.HandleError(c, err)
	}
	var day model.ClosedDay
	if err := db.Where("date = ?", input.Date).First(&day).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, day)
}

func DeleteClosedDay(c *fiber.Ctx) error {
	result := database.DB.WithContext(c.UserContext()).Delete(&model.ClosedDay{}, validate.ID(c))
	if result.Error != nil {
		return utils.HandleError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Closed day not found", nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Day reopened"})
}
