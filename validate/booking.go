package validate

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

func CreateBooking() fiber.Handler {
	return Body[model.CreateBookingInput]()
}

func ListBookings() fiber.Handler {
	return Query[model.BookingFilter]()
}

func ValidateDiscount() fiber.Handler {
	return Body[model.ValidateDiscountInput]()
}

func DiscountCode() fiber.Handler {
	return Body[model.DiscountCodeInput]()
}

func UpdateSettings() fiber.Handler {
	return Body[model.UpdateSettingsInput]()
}
