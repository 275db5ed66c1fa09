package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

type DailyReport struct {
	Date         string `json:"date"`
	Bookings     int64  `json:"bookings"`
	Participants int64  `json:"participants"`
	Revenue      int64  `json:"revenue"`
	Cancelled    int64  `json:"cancelled"`
	Refunded     int64  `json:"refunded"`
}

type ReportSummary struct {
	Bookings         int64   `json:"bookings"`
	Participants     int64   `json:"participants"`
	Revenue          int64   `json:"revenue"`
	CancellationRate float64 `json:"cancellationRate"`
}

// BookingReport groups bookings by tour date over ?from=&to= (default: the
// last seven days). Revenue counts confirmed bookings only.
func BookingReport(c *fiber.Ctx) error {
	now := time.Now()
	from, err := utils.ParseDate(c.Query("from", now.AddDate(0, 0, -7).Format(utils.DateLayout)))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid from date", err)
	}
	to, err := utils.ParseDate(c.Query("to", now.Format(utils.DateLayout)))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid to date", err)
	}
	if to.Before(from.Time) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "from must not be after to", nil)
	}

	var rows []DailyReport
	err = database.DB.WithContext(c.UserContext()).Model(&model.Booking{}).
		Select(`availabilities.date AS date,
			SUM(CASE WHEN bookings.payment_status IN ('requested', 'confirmed') THEN 1 ELSE 0 END) AS bookings,
			SUM(CASE WHEN bookings.payment_status IN ('requested', 'confirmed') THEN bookings.number_of_participants ELSE 0 END) AS participants,
			SUM(CASE WHEN bookings.payment_status = 'confirmed' THEN bookings.total_amount ELSE 0 END) AS revenue,
			SUM(CASE WHEN bookings.payment_status = 'cancelled' THEN 1 ELSE 0 END) AS cancelled,
			SUM(CASE WHEN bookings.payment_status = 'refunded' THEN 1 ELSE 0 END) AS refunded`).
		Joins("JOIN availabilities ON availabilities.id = bookings.availability_id").
		Where("availabilities.date >= ? AND availabilities.date <= ?", from, to).
		Group("availabilities.date").
		Order("availabilities.date").
		Scan(&rows).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	var summary ReportSummary
	var cancelled, total int64
	for i := range rows {
		// Postgres returns a full timestamp for a date column.
		if len(rows[i].Date) > len(utils.DateLayout) {
			rows[i].Date = rows[i].Date[:len(utils.DateLayout)]
		}
		summary.Bookings += rows[i].Bookings
		summary.Participants += rows[i].Participants
		summary.Revenue += rows[i].Revenue
		cancelled += rows[i].Cancelled + rows[i].Refunded
		total += rows[i].Bookings + rows[i].Cancelled + rows[i].Refunded
	}
	if total > 0 {
		summary.CancellationRate = float64(cancelled) * 100 / float64(total)
	}
	if rows == nil {
		rows = []DailyReport{}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"report":  rows,
		"summary": summary,
		"period": fiber.Map{
			"from": from.String(),
			"to":   to.String(),
		},
	})
}
