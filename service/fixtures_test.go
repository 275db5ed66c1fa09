package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/payment"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

var fixedNow = time.Date(2030, 1, 15, 12, 0, 0, 0, time.UTC)

func newService(db *gorm.DB, policy BookingPolicy, payments payment.Provider) *BookingService {
	s := NewBookingService(db, policy, payments, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func seedTour(t *testing.T, db *gorm.DB, priceType string, price int64) model.Tour {
	t.Helper()
	var n int64
	db.Model(&model.Tour{}).Count(&n)
	tour := model.Tour{
		Slug:         fmt.Sprintf("tour-%d", n+1),
		Name:         datatypes.NewJSONType(model.Translations{"en": "Alfama Walking Tour", "pt": "Passeio por Alfama"}),
		Price:        price,
		PriceType:    priceType,
		MaxGroupSize: 10,
		Active:       true,
	}
	require.NoError(t, db.Create(&tour).Error)
	return tour
}

func seedSlot(t *testing.T, db *gorm.DB, tour model.Tour, date string, spots int) model.Availability {
	t.Helper()
	d, err := utils.ParseDate(date)
	require.NoError(t, err)
	slot := model.Availability{TourID: tour.ID, Date: d, Time: "10:00", MaxSpots: spots, SpotsLeft: spots}
	require.NoError(t, db.Create(&slot).Error)
	return slot
}

func seedCode(t *testing.T, db *gorm.DB, code, category string, value int64, mutate ...func(*model.DiscountCode)) model.DiscountCode {
	t.Helper()
	dc := model.DiscountCode{Code: code, Category: category, Value: value, Active: true}
	for _, m := range mutate {
		m(&dc)
	}
	require.NoError(t, db.Create(&dc).Error)
	return dc
}

func bookingInput(tour model.Tour, slot model.Availability, participants int) model.CreateBookingInput {
	return model.CreateBookingInput{
		TourID:               tour.ID,
		AvailabilityID:       slot.ID,
		CustomerFirstName:    "Ana",
		CustomerLastName:     "Silva",
		CustomerEmail:        "ana@example.com",
		CustomerPhone:        "+351900000000",
		NumberOfParticipants: participants,
	}
}

func spotsLeft(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var slot model.Availability
	require.NoError(t, db.First(&slot, id).Error)
	return slot.SpotsLeft
}

func closedDays(t *testing.T, db *gorm.DB) []model.ClosedDay {
	t.Helper()
	var days []model.ClosedDay
	require.NoError(t, db.Find(&days).Error)
	return days
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

type fakePayments struct {
	refunded  []string
	refundErr error
	intents   int
	onRefund  func()
}

func (f *fakePayments) CreateIntent(_ context.Context, amount int64, reference, _ string) (*payment.Intent, error) {
	f.intents++
	return &payment.Intent{ID: fmt.Sprintf("pi_%d", f.intents), ClientSecret: "secret_" + reference, Amount: amount, Currency: "eur"}, nil
}

func (f *fakePayments) Refund(_ context.Context, id string) (*payment.Refund, error) {
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	f.refunded = append(f.refunded, id)
	if f.onRefund != nil {
		f.onRefund()
	}
	return &payment.Refund{ID: "re_" + id, Status: "succeeded"}, nil
}
