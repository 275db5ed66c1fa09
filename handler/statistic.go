package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

type AdminStats struct {
	Tours           int64 `json:"tours"`
	PendingRequests int64 `json:"pendingRequests"`
	UnreadMessages  int64 `json:"unreadMessages"`

	TodayRevenue  int64 `json:"todayRevenue"`
	TodayBookings int64 `json:"todayBookings"`
	UpcomingSlots int64 `json:"upcomingSlots"`

	RevenueGrowth  float64 `json:"revenueGrowth"`
	BookingsGrowth float64 `json:"bookingsGrowth"`

	TopTours []TourRevenue `json:"topTours"`
}

type TourRevenue struct {
	TourID   uint   `json:"tourId"`
	Slug     string `json:"slug"`
	Bookings int64  `json:"bookings"`
	Revenue  int64  `json:"revenue"`
}

// bookedBetween counts the bookings made in [from, to) that still hold spots
// and sums their totals.
func bookedBetween(db *gorm.DB, from, to time.Time) (count, revenue int64) {
	var row struct {
		Count   int64
		Revenue int64
	}
	db.Model(&model.Booking{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("payment_status IN ? AND created_at >= ? AND created_at < ?",
			[]string{model.PaymentRequested, model.PaymentConfirmed}, from, to).
		Scan(&row)
	return row.Count, row.Revenue
}

func GetAdminStats(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	yesterday := todayStart.AddDate(0, 0, -1)

	var stats AdminStats
	db.Model(&model.Tour{}).Where("active = ?", true).Count(&stats.Tours)
	db.Model(&model.Booking{}).Where("payment_status = ?", model.PaymentRequested).Count(&stats.PendingRequests)
	db.Model(&model.ContactMessage{}).Where("read = ?", false).Count(&stats.UnreadMessages)

	stats.TodayBookings, stats.TodayRevenue = bookedBetween(db, todayStart, tomorrow)
	yesterdayBookings, yesterdayRevenue := bookedBetween(db, yesterday, todayStart)

	today := utils.DateOf(now)
	db.Model(&model.Availability{}).
		Where("date >= ? AND date < ? AND spots_left > 0", today, utils.Date{Time: today.AddDate(0, 0, 7)}).
		Count(&stats.UpcomingSlots)

	stats.RevenueGrowth = utils.CalculateGrowth(float64(stats.TodayRevenue), float64(yesterdayRevenue))
	stats.BookingsGrowth = utils.CalculateGrowth(float64(stats.TodayBookings), float64(yesterdayBookings))

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	err := db.Model(&model.Booking{}).
		Select("bookings.tour_id, tours.slug, COUNT(bookings.id) AS bookings, COALESCE(SUM(bookings.total_amount), 0) AS revenue").
		Joins("JOIN tours ON tours.id = bookings.tour_id").
		Where("bookings.payment_status = ? AND bookings.created_at >= ?", model.PaymentConfirmed, monthStart).
		Group("bookings.tour_id, tours.slug").
		Order("revenue DESC").
		Limit(5).
		Scan(&stats.TopTours).Error
	if err != nil {
		return utils.HandleError(c, err)
	}
	if stats.TopTours == nil {
		stats.TopTours = []TourRevenue{}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}
