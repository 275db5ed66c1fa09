package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFCunha10/lisbonlovesme-sub000/database/dbtest"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/outbox"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

var referencePattern = regexp.MustCompile(`^LT-[A-Za-z0-9]{7}$`)

func TestCreateBookingFillsSlotAndClosesDay(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 2)
	s := newService(db, BookingPolicy{}, nil)

	b, err := s.CreateBooking(context.Background(), bookingInput(tour, slot, 2), model.AdminSetting{})
	require.NoError(t, err)

	assert.Regexp(t, referencePattern, b.BookingReference)
	assert.Equal(t, model.PaymentRequested, b.PaymentStatus)
	assert.Equal(t, int64(9000), b.TotalAmount)
	assert.Equal(t, "en", b.Language)
	info := b.AdditionalInfo.Data()
	assert.Equal(t, int64(9000), info.OriginalAmount)
	assert.Equal(t, int64(0), info.DiscountAmount)
	assert.Equal(t, int64(9000), info.FinalAmount)

	assert.Equal(t, 0, spotsLeft(t, db, slot.ID))
	days := closedDays(t, db)
	require.Len(t, days, 1)
	assert.Equal(t, "2030-06-01", days[0].Date.String())
	assert.Equal(t, model.ClosedFull, days[0].Reason)

	var kinds []string
	require.NoError(t, db.Model(&model.OutboxMessage{}).Order("id").Pluck("kind", &kinds).Error)
	assert.Equal(t, []string{
		outbox.KindBookingRequestedEmail,
		outbox.KindAdminNewBookingEmail,
		outbox.KindBookingNotification,
	}, kinds)
}

func TestCreateBookingLeavesDayOpenWithSpotsLeft(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 5)
	s := newService(db, BookingPolicy{}, nil)

	_, err := s.CreateBooking(context.Background(), bookingInput(tour, slot, 2), model.AdminSetting{})
	require.NoError(t, err)

	assert.Equal(t, 3, spotsLeft(t, db, slot.ID))
	assert.Empty(t, closedDays(t, db))
}

func TestCreateBookingAutoCloseDay(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 5)
	s := newService(db, BookingPolicy{}, nil)

	_, err := s.CreateBooking(context.Background(), bookingInput(tour, slot, 1), model.AdminSetting{AutoCloseDay: true})
	require.NoError(t, err)

	assert.Equal(t, 4, spotsLeft(t, db, slot.ID))
	days := closedDays(t, db)
	require.Len(t, days, 1)
	assert.Equal(t, model.ClosedAuto, days[0].Reason)
}

func TestCreateBookingRejectsClosedDay(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 5)
	require.NoError(t, CloseDay(db, slot.Date, model.ClosedByAdmin))
	s := newService(db, BookingPolicy{}, nil)

	_, err := s.CreateBooking(context.Background(), bookingInput(tour, slot, 1), model.AdminSetting{})
	assert.True(t, utils.IsKind(err, utils.KindConflict), "got %v", err)
	assert.Equal(t, 5, spotsLeft(t, db, slot.ID))
}

func TestCreateBookingPercentageCode(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 5)
	code := seedCode(t, db, "SAVE10", model.DiscountPercentage, 10)
	s := newService(db, BookingPolicy{}, nil)

	in := bookingInput(tour, slot, 2)
	in.DiscountCode = "  save10 "
	b, err := s.CreateBooking(context.Background(), in, model.AdminSetting{})
	require.NoError(t, err)

	assert.Equal(t, int64(8100), b.TotalAmount)
	info := b.AdditionalInfo.Data()
	assert.Equal(t, int64(900), info.DiscountAmount)
	assert.Equal(t, "SAVE10", info.DiscountCode)

	var stored model.DiscountCode
	require.NoError(t, db.First(&stored, code.ID).Error)
	assert.Equal(t, 1, stored.UsageCount)
}

func TestCreateBookingFreeTourCode(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 3000)
	slot := seedSlot(t, db, tour, "2030-06-01", 5)
	seedCode(t, db, "FREE1", model.DiscountFreeTour, 1)
	s := newService(db, BookingPolicy{}, nil)

	in := bookingInput(tour, slot, 3)
	in.DiscountCode = "FREE1"
	b, err := s.CreateBooking(context.Background(), in, model.AdminSetting{})
	require.NoError(t, err)

	assert.Equal(t, int64(6000), b.TotalAmount)
	assert.Equal(t, int64(3000), b.AdditionalInfo.Data().DiscountAmount)
}

func TestCreateBookingPerGroupPrice(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerGroup, 20000)
	slot := seedSlot(t, db, tour, "2030-06-01", 8)
	s := newService(db, BookingPolicy{}, nil)

	b, err := s.CreateBooking(context.Background(), bookingInput(tour, slot, 4), model.AdminSetting{})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), b.TotalAmount)
}

func TestCreateBookingIgnoresUnusableCode(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 5)
	expired := fixedNow.AddDate(0, 0, -1)
	code := seedCode(t, db, "OLD", model.DiscountPercentage, 50, func(dc *model.DiscountCode) {
		dc.ValidUntil = &expired
	})
	s := newService(db, BookingPolicy{}, nil)

	for _, c := range []string{"OLD", "MISSING"} {
		in := bookingInput(tour, slot, 1)
		in.DiscountCode = c
		b, err := s.CreateBooking(context.Background(), in, model.AdminSetting{})
		require.NoError(t, err, c)
		assert.Equal(t, int64(4500), b.TotalAmount, c)
		assert.Empty(t, b.AdditionalInfo.Data().DiscountCode, c)
	}

	var stored model.DiscountCode
	require.NoError(t, db.First(&stored, code.ID).Error)
	assert.Equal(t, 0, stored.UsageCount)
}

func TestCreateBookingRejectsUnusableCodeWhenConfigured(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 5)
	limit := 1
	seedCode(t, db, "ONCE", model.DiscountFixedValue, 500, func(dc *model.DiscountCode) {
		dc.UsageLimit = &limit
		dc.UsageCount = 1
	})
	s := newService(db, BookingPolicy{RejectInvalidDiscount: true}, nil)

	in := bookingInput(tour, slot, 1)
	in.DiscountCode = "ONCE"
	_, err := s.CreateBooking(context.Background(), in, model.AdminSetting{})
	assert.True(t, utils.IsKind(err, utils.KindValidation), "got %v", err)

	assert.Equal(t, 5, spotsLeft(t, db, slot.ID))
	assert.Zero(t, countRows(t, db, &model.Booking{}))
}

func TestCreateBookingRejectsOverbooking(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 3)
	s := newService(db, BookingPolicy{}, nil)

	_, err := s.CreateBooking(context.Background(), bookingInput(tour, slot, 2), model.AdminSetting{})
	require.NoError(t, err)

	_, err = s.CreateBooking(context.Background(), bookingInput(tour, slot, 2), model.AdminSetting{})
	assert.True(t, utils.IsKind(err, utils.KindConflict), "got %v", err)

	assert.Equal(t, 1, spotsLeft(t, db, slot.ID))
	assert.Equal(t, int64(1), countRows(t, db, &model.Booking{}))
	assert.Equal(t, int64(3), countRows(t, db, &model.OutboxMessage{}))
}

func TestCreateBookingLookups(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	other := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 3)
	otherSlot := seedSlot(t, db, other, "2030-06-01", 3)
	s := newService(db, BookingPolicy{}, nil)

	in := bookingInput(tour, slot, 1)
	in.TourID = 999
	_, err := s.CreateBooking(context.Background(), in, model.AdminSetting{})
	assert.True(t, utils.IsKind(err, utils.KindNotFound), "got %v", err)

	in = bookingInput(tour, slot, 1)
	in.AvailabilityID = 999
	_, err = s.CreateBooking(context.Background(), in, model.AdminSetting{})
	assert.True(t, utils.IsKind(err, utils.KindNotFound), "got %v", err)

	_, err = s.CreateBooking(context.Background(), bookingInput(tour, otherSlot, 1), model.AdminSetting{})
	assert.True(t, utils.IsKind(err, utils.KindValidation), "got %v", err)

	require.NoError(t, db.Model(&model.Tour{}).Where("id = ?", tour.ID).Update("active", false).Error)
	_, err = s.CreateBooking(context.Background(), bookingInput(tour, slot, 1), model.AdminSetting{})
	assert.True(t, utils.IsKind(err, utils.KindValidation), "got %v", err)

	assert.Zero(t, countRows(t, db, &model.Booking{}))
}

func TestBookingReferencesAreUnique(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 1000)
	slot := seedSlot(t, db, tour, "2030-06-01", 50)
	s := newService(db, BookingPolicy{}, nil)

	seen := map[string]bool{}
	for range 20 {
		b, err := s.CreateBooking(context.Background(), bookingInput(tour, slot, 1), model.AdminSetting{})
		require.NoError(t, err)
		assert.False(t, seen[b.BookingReference])
		seen[b.BookingReference] = true
	}
}

func TestCloseDayIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	d, err := utils.ParseDate("2030-06-01")
	require.NoError(t, err)

	require.NoError(t, CloseDay(db, d, model.ClosedByAdmin))
	require.NoError(t, CloseDay(db, d, model.ClosedFull))

	days := closedDays(t, db)
	require.Len(t, days, 1)
	assert.Equal(t, model.ClosedByAdmin, days[0].Reason)

	e, err := utils.ParseDate("2030-06-02")
	require.NoError(t, err)
	require.NoError(t, CloseDay(db, e, model.ClosedFull))
	require.NoError(t, CloseDay(db, e, model.ClosedAuto))
	require.NoError(t, CloseDay(db, e, model.ClosedByAdmin))

	var day model.ClosedDay
	require.NoError(t, db.Where("date = ?", e).First(&day).Error)
	assert.Equal(t, model.ClosedByAdmin, day.Reason)
}

func TestCreateBookingKicksWorker(t *testing.T) {
	db := dbtest.New(t)
	tour := seedTour(t, db, model.PricePerPerson, 4500)
	slot := seedSlot(t, db, tour, "2030-06-01", 3)
	kicks := 0
	s := NewBookingService(db, BookingPolicy{}, nil, func() { kicks++ })

	_, err := s.CreateBooking(context.Background(), bookingInput(tour, slot, 1), model.AdminSetting{})
	require.NoError(t, err)
	assert.Equal(t, 1, kicks)
}
