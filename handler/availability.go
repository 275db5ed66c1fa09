package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/service"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

// GetAvailabilities lists the bookable slots. Slots on closed days are never
// returned here.
func GetAvailabilities(c *fiber.Ctx) error {
	slots, err := service.ListAvailable(c.UserContext(), database.DB, validate.Filter[model.AvailabilityFilter](c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, slots)
}

func GetAdminAvailabilities(c *fiber.Ctx) error {
	slots, err := service.ListAll(c.UserContext(), database.DB, validate.Filter[model.AvailabilityFilter](c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, slots)
}

func CreateAvailability(c *fiber.Ctx) error {
	slot := validate.Input[model.Availability](c)
	db := database.DB.WithContext(c.UserContext())

	var tour model.Tour
	if err := db.First(&tour, slot.TourID).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Tour not found"))
	}
	if err := db.Create(&slot).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create availability", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, slot)
}

func UpdateAvailability(c *fiber.Ctx) error {
	slot, err := service.UpdateAvailability(c.UserContext(), database.DB, validate.ID(c), validate.Input[model.UpdateAvailabilityInput](c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, slot)
}

func DeleteAvailability(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	id := validate.ID(c)

	var active int64
	if err := db.Model(&model.Booking{}).
		Where("availability_id = ? AND payment_status IN ?", id, []string{model.PaymentRequested, model.PaymentConfirmed}).
		Count(&active).Error; err != nil {
		return utils.HandleError(c, err)
	}
	if active > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Availability has active bookings", nil)
	}

	result := db.Delete(&model.Availability{}, id)
	if result.Error != nil {
		return utils.HandleError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Availability not found", nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Availability deleted"})
}

// GetCalendar summarises ?year=&month=, defaulting to the current month.
func GetCalendar(c *fiber.Ctx) error {
	now := time.Now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	days, err := service.Calendar(c.UserContext(), database.DB, year, time.Month(month), uint(c.QueryInt("tourId")))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, days)
}
