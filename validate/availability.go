package validate

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

var errSpotsAboveMax = errors.New("spotsLeft must be between 0 and maxSpots")

func CreateAvailability() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.AvailabilityInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}
		date, err := utils.ParseDate(input.Date)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date", err)
		}

		spots := input.MaxSpots
		if input.SpotsLeft != nil {
			spots = *input.SpotsLeft
		}
		if spots > input.MaxSpots {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", errSpotsAboveMax)
		}

		c.Locals(inputKey, model.Availability{
			TourID:    input.TourID,
			Date:      date,
			Time:      input.Time,
			MaxSpots:  input.MaxSpots,
			SpotsLeft: spots,
		})
		return c.Next()
	}
}

func UpdateAvailability() fiber.Handler {
	return Body[model.UpdateAvailabilityInput]()
}

func ListAvailabilities() fiber.Handler {
	return Query[model.AvailabilityFilter]()
}

func CreateClosedDay() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateClosedDayInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}
		date, err := utils.ParseDate(input.Date)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date", err)
		}
		reason := input.Reason
		if reason == "" {
			reason = model.ClosedByAdmin
		}
		c.Locals(inputKey, model.ClosedDay{Date: date, Reason: reason})
		return c.Next()
	}
}

func ListClosedDays() fiber.Handler {
	return Query[model.ClosedDayFilter]()
}
