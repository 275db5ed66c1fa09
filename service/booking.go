package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/mailer"
	"github.com/LFCunha10/lisbonlovesme-sub000/metrics"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/outbox"
	"github.com/LFCunha10/lisbonlovesme-sub000/payment"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

const referenceAttempts = 5

var errNotEnoughSpots = errors.New("not enough spots")

// BookingPolicy controls how the booking workflow treats an unusable
// discount code. The zero value ignores it and books at full price.
type BookingPolicy struct {
	RejectInvalidDiscount bool
}

type BookingService struct {
	db       *gorm.DB
	policy   BookingPolicy
	payments payment.Provider
	// kick is called after a commit that enqueued outbox messages.
	kick func()
	now  func() time.Time
}

func NewBookingService(db *gorm.DB, policy BookingPolicy, payments payment.Provider, kick func()) *BookingService {
	if payments == nil {
		payments = payment.Disabled{}
	}
	if kick == nil {
		kick = func() {}
	}
	return &BookingService{db: db, policy: policy, payments: payments, kick: kick, now: time.Now}
}

// CreateBooking books input.NumberOfParticipants spots on an availability.
// The booking row, the capacity decrement, the day closure and the outbox
// messages commit together or not at all.
func (s *BookingService) CreateBooking(ctx context.Context, input model.CreateBookingInput, settings model.AdminSetting) (*model.Booking, error) {
	start := time.Now()
	outcome := "error"
	defer func() { metrics.RecordBooking(outcome, time.Since(start).Seconds()) }()

	booking, err := s.createBooking(ctx, input, settings)
	switch {
	case err == nil:
		outcome = "created"
	case utils.IsKind(err, utils.KindNotFound):
		outcome = "not_found"
	case utils.IsKind(err, utils.KindConflict):
		outcome = "conflict"
	case utils.IsKind(err, utils.KindValidation):
		outcome = "invalid"
	}
	return booking, err
}

func (s *BookingService) createBooking(ctx context.Context, input model.CreateBookingInput, settings model.AdminSetting) (*model.Booking, error) {
	db := s.db.WithContext(ctx)

	var tour model.Tour
	if err := db.First(&tour, input.TourID).Error; err != nil {
		return nil, utils.NotFoundOr(err, "Tour not found")
	}
	if !tour.Active {
		return nil, utils.Validation("Tour is not available for booking", nil)
	}

	var slot model.Availability
	if err := db.First(&slot, input.AvailabilityID).Error; err != nil {
		return nil, utils.NotFoundOr(err, "Availability not found")
	}
	if slot.TourID != tour.ID {
		return nil, utils.Validation("Availability does not belong to this tour", nil)
	}

	pricing, discount, err := s.price(db, input, tour)
	if err != nil {
		return nil, err
	}

	lang := input.Language
	if lang == "" {
		lang = model.DefaultLanguage
	}
	booking := model.Booking{
		TourID:               tour.ID,
		AvailabilityID:       slot.ID,
		CustomerFirstName:    input.CustomerFirstName,
		CustomerLastName:     input.CustomerLastName,
		CustomerEmail:        input.CustomerEmail,
		CustomerPhone:        input.CustomerPhone,
		NumberOfParticipants: input.NumberOfParticipants,
		SpecialRequests:      input.SpecialRequests,
		Language:             lang,
		TotalAmount:          pricing.TotalAmount,
		PaymentStatus:        model.PaymentRequested,
		AdditionalInfo: datatypes.NewJSONType(model.PricingInfo{
			OriginalAmount:   pricing.OriginalAmount,
			DiscountAmount:   pricing.DiscountAmount,
			FinalAmount:      pricing.TotalAmount,
			DiscountCode:     pricing.Code,
			DiscountCategory: pricing.Category,
		}),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		closed, err := isClosed(tx, slot.Date)
		if err != nil {
			return err
		}
		if closed {
			return utils.Conflict(fmt.Sprintf("Tours are not available on %s", slot.Date), nil)
		}

		res := tx.Model(&model.Availability{}).
			Where("id = ? AND spots_left >= ?", slot.ID, input.NumberOfParticipants).
			Update("spots_left", gorm.Expr("spots_left - ?", input.NumberOfParticipants))
		if res.Error != nil {
			return fmt.Errorf("reserve spots: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Not enough spots left for this time slot", errNotEnoughSpots)
		}
		if err := tx.First(&slot, slot.ID).Error; err != nil {
			return fmt.Errorf("reload availability: %w", err)
		}

		ref, err := uniqueReference(tx)
		if err != nil {
			return err
		}
		booking.BookingReference = ref
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if settings.AutoCloseDay || slot.SpotsLeft == 0 {
			reason := model.ClosedAuto
			if slot.SpotsLeft == 0 {
				reason = model.ClosedFull
			}
			if err := CloseDay(tx, slot.Date, reason); err != nil {
				return err
			}
		}

		return enqueueBookingRequested(tx, booking, tour, slot)
	})
	if err != nil {
		return nil, err
	}

	if discount != nil {
		if err := s.db.WithContext(ctx).Model(&model.DiscountCode{}).
			Where("id = ?", discount.ID).
			Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			logger.Log.Warn("failed to increment discount usage",
				zap.String("code", discount.Code),
				zap.String("booking", booking.BookingReference),
				zap.Error(err))
		}
	}
	s.kick()

	booking.Tour = &tour
	booking.Availability = &slot
	return &booking, nil
}

// price evaluates the booking's discount code. It returns the code that was
// applied, or nil when none was.
func (s *BookingService) price(db *gorm.DB, input model.CreateBookingInput, tour model.Tour) (helper.DiscountResult, *model.DiscountCode, error) {
	code := model.NormalizeCode(input.DiscountCode)
	if code == "" {
		original := helper.OriginalAmount(tour, input.NumberOfParticipants)
		return helper.DiscountResult{OriginalAmount: original, TotalAmount: original}, nil, nil
	}

	dc, err := FindDiscountCode(db, code)
	if err != nil {
		return helper.DiscountResult{}, nil, err
	}
	result := helper.EvaluateDiscount(dc, tour, input.NumberOfParticipants, s.now())
	metrics.RecordDiscount(result.Reason)
	if result.Valid {
		return result, dc, nil
	}
	if s.policy.RejectInvalidDiscount {
		return result, nil, utils.Validation(result.Message, nil)
	}
	logger.Log.Info("ignoring unusable discount code", zap.String("code", code), zap.String("reason", result.Reason))
	original := helper.OriginalAmount(tour, input.NumberOfParticipants)
	return helper.DiscountResult{OriginalAmount: original, TotalAmount: original}, nil, nil
}

// FindDiscountCode looks up a normalized code. A missing code is (nil, nil).
func FindDiscountCode(db *gorm.DB, code string) (*model.DiscountCode, error) {
	var dc model.DiscountCode
	err := db.Where("code = ?", code).First(&dc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find discount code: %w", err)
	}
	return &dc, nil
}

func uniqueReference(tx *gorm.DB) (string, error) {
	for range referenceAttempts {
		ref, err := utils.NewBookingReference()
		if err != nil {
			return "", err
		}
		var n int64
		if err := tx.Model(&model.Booking{}).Where("booking_reference = ?", ref).Count(&n).Error; err != nil {
			return "", fmt.Errorf("check booking reference: %w", err)
		}
		if n == 0 {
			return ref, nil
		}
	}
	return "", errors.New("could not generate a unique booking reference")
}

func bookingEmail(b model.Booking, tour *model.Tour, slot *model.Availability) mailer.BookingEmail {
	info := b.AdditionalInfo.Data()
	email := mailer.BookingEmail{
		BookingID:       b.ID,
		Reference:       b.BookingReference,
		CustomerName:    b.CustomerName(),
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		Participants:    b.NumberOfParticipants,
		OriginalAmount:  info.OriginalAmount,
		DiscountAmount:  info.DiscountAmount,
		DiscountCode:    info.DiscountCode,
		TotalAmount:     b.TotalAmount,
		SpecialRequests: b.SpecialRequests,
		Language:        b.Language,
	}
	if tour != nil {
		email.TourName = tour.DisplayName(b.Language)
	}
	if slot != nil {
		email.Date = slot.Date.String()
		email.Time = slot.Time
	}
	return email
}

func enqueueBookingRequested(tx *gorm.DB, b model.Booking, tour model.Tour, slot model.Availability) error {
	email := bookingEmail(b, &tour, &slot)
	if err := outbox.Enqueue(tx, outbox.KindBookingRequestedEmail, email); err != nil {
		return err
	}
	if err := outbox.Enqueue(tx, outbox.KindAdminNewBookingEmail, email); err != nil {
		return err
	}
	return outbox.Enqueue(tx, outbox.KindBookingNotification, model.Notification{
		Type:    model.NotificationBooking,
		Title:   "New booking request",
		Message: fmt.Sprintf("%s booked %s on %s at %s for %d", b.CustomerName(), tour.DisplayName(model.DefaultLanguage), slot.Date, slot.Time, b.NumberOfParticipants),
		Data: datatypes.JSONMap{
			"bookingId":        b.ID,
			"bookingReference": b.BookingReference,
		},
	})
}
