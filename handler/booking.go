package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/mailer"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

func CreateBooking(c *fiber.Ctx) error {
	input := validate.Input[model.CreateBookingInput](c)

	settings, err := deps.Settings.Get(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	booking, err := deps.Bookings.CreateBooking(c.UserContext(), input, settings)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":          true,
		"id":               booking.ID,
		"bookingReference": booking.BookingReference,
		"totalAmount":      booking.TotalAmount,
		"paymentStatus":    booking.PaymentStatus,
		"booking":          booking,
	})
}

func GetBookingByReference(c *fiber.Ctx) error {
	booking, err := deps.Bookings.GetByReference(c.UserContext(), c.Params("reference"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// GetBookingQRCode renders the QR code a guide scans to open the booking.
func GetBookingQRCode(c *fiber.Ctx) error {
	booking, err := deps.Bookings.GetByReference(c.UserContext(), c.Params("reference"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	png, err := mailer.BookingQRCode(deps.PublicURL+"/booking/"+booking.BookingReference, 256)
	if err != nil {
		return utils.HandleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func GetBookings(c *fiber.Ctx) error {
	filter := validate.Filter[model.BookingFilter](c)
	res, err := deps.Bookings.List(c.UserContext(), filter)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, res)
}

func GetBookingById(c *fiber.Ctx) error {
	booking, err := deps.Bookings.Get(c.UserContext(), validate.ID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func ConfirmBooking(c *fiber.Ctx) error {
	booking, err := deps.Bookings.Confirm(c.UserContext(), validate.ID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func CancelBooking(c *fiber.Ctx) error {
	booking, err := deps.Bookings.Cancel(c.UserContext(), validate.ID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func RefundBooking(c *fiber.Ctx) error {
	booking, err := deps.Bookings.Refund(c.UserContext(), validate.ID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func CreatePaymentIntent(c *fiber.Ctx) error {
	intent, err := deps.Bookings.CreatePaymentIntent(c.UserContext(), validate.ID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, intent)
}

func DeleteBooking(c *fiber.Ctx) error {
	if err := deps.Bookings.Delete(c.UserContext(), validate.ID(c)); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Booking deleted"})
}
