package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/outbox"
	"github.com/LFCunha10/lisbonlovesme-sub000/payment"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

func (s *BookingService) Get(ctx context.Context, id uint) (*model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).Preload("Tour").Preload("Availability").First(&b, id).Error; err != nil {
		return nil, utils.NotFoundOr(err, "Booking not found")
	}
	return &b, nil
}

func (s *BookingService) GetByReference(ctx context.Context, ref string) (*model.Booking, error) {
	var b model.Booking
	err := s.db.WithContext(ctx).Preload("Tour").Preload("Availability").
		Where("booking_reference = ?", strings.TrimSpace(ref)).
		First(&b).Error
	if err != nil {
		return nil, utils.NotFoundOr(err, "Booking not found")
	}
	return &b, nil
}

func (s *BookingService) List(ctx context.Context, f model.BookingFilter) (model.ResponseCustom, error) {
	query := s.db.WithContext(ctx).Model(&model.Booking{})
	if f.Status != "" {
		query = query.Where("payment_status = ?", f.Status)
	}
	if f.TourID != 0 {
		query = query.Where("tour_id = ?", f.TourID)
	}
	if f.Date != "" {
		date, err := utils.ParseDate(f.Date)
		if err != nil {
			return model.ResponseCustom{}, utils.Validation(err.Error(), nil)
		}
		query = query.Where("availability_id IN (?)",
			s.db.Model(&model.Availability{}).Select("id").Where("date = ?", date))
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where(
			"LOWER(booking_reference) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(customer_first_name) LIKE ? OR LOWER(customer_last_name) LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return model.ResponseCustom{}, fmt.Errorf("count bookings: %w", err)
	}
	var rows []model.Booking
	err := utils.ApplyPagination(query, f.Limit, f.Page).
		Preload("Tour").Preload("Availability").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return model.ResponseCustom{}, fmt.Errorf("list bookings: %w", err)
	}
	return model.ResponseCustom{Rows: rows, Limit: f.Limit, Page: f.Page, TotalCount: total}, nil
}

// Confirm moves a requested booking to confirmed and queues the confirmation
// email.
func (s *BookingService) Confirm(ctx context.Context, id uint) (*model.Booking, error) {
	return s.transition(ctx, id, model.PaymentConfirmed, func(tx *gorm.DB, b *model.Booking) error {
		return outbox.Enqueue(tx, outbox.KindBookingConfirmedEmail, bookingEmail(*b, b.Tour, b.Availability))
	})
}

// Cancel cancels a requested or confirmed booking and gives its spots back.
func (s *BookingService) Cancel(ctx context.Context, id uint) (*model.Booking, error) {
	return s.transition(ctx, id, model.PaymentCancelled, func(tx *gorm.DB, b *model.Booking) error {
		if err := restoreSpots(tx, b); err != nil {
			return err
		}
		return outbox.Enqueue(tx, outbox.KindBookingCancelledEmail, bookingEmail(*b, b.Tour, b.Availability))
	})
}

// Refund reverses the booking's payment with the provider, then marks it
// refunded and gives its spots back. A provider failure leaves the booking
// unchanged. The refund id is stored before the status change so a refund
// whose booking moved on meanwhile can still be reconciled.
func (s *BookingService) Refund(ctx context.Context, id uint) (*model.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(b.PaymentStatus, model.PaymentRefunded) {
		return nil, transitionConflict(b.PaymentStatus, model.PaymentRefunded)
	}
	if b.PaymentIntentID == "" {
		return nil, utils.Validation("Booking has no payment to refund", nil)
	}

	r, err := s.payments.Refund(ctx, b.PaymentIntentID)
	if err != nil {
		return nil, utils.Upstream("Refund failed", err)
	}
	logger.Log.Info("booking refunded",
		zap.String("booking", b.BookingReference),
		zap.String("refund", r.ID),
		zap.Int64("amount", r.Amount))

	if err := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", b.ID).
		Update("refund_id", r.ID).Error; err != nil {
		logger.Log.Error("failed to record refund",
			zap.String("booking", b.BookingReference),
			zap.String("refund", r.ID),
			zap.Error(err))
	}

	refunded, err := s.transition(ctx, id, model.PaymentRefunded, restoreSpots)
	if err != nil {
		logger.Log.Error("refund issued but booking was not marked refunded",
			zap.String("booking", b.BookingReference),
			zap.String("refund", r.ID),
			zap.Error(err))
		return nil, err
	}
	refunded.RefundID = r.ID
	return refunded, nil
}

// CreatePaymentIntent opens a payment for the booking total and remembers its
// id for later refunds.
func (s *BookingService) CreatePaymentIntent(ctx context.Context, id uint) (*payment.Intent, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus != model.PaymentRequested && b.PaymentStatus != model.PaymentConfirmed {
		return nil, utils.Conflict(fmt.Sprintf("Cannot take payment for a %s booking", b.PaymentStatus), nil)
	}
	if b.TotalAmount <= 0 {
		return nil, utils.Validation("Booking has nothing to pay", nil)
	}

	intent, err := s.payments.CreateIntent(ctx, b.TotalAmount, b.BookingReference, b.CustomerEmail)
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			return nil, utils.Upstream("Payments are not configured", err)
		}
		return nil, utils.Upstream("Could not create payment", err)
	}
	if err := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", b.ID).
		Update("payment_intent_id", intent.ID).Error; err != nil {
		return nil, fmt.Errorf("save payment intent: %w", err)
	}
	return intent, nil
}

// Delete removes a booking. Spots held by an active booking are released.
func (s *BookingService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		if err := tx.Preload("Availability").First(&b, id).Error; err != nil {
			return utils.NotFoundOr(err, "Booking not found")
		}
		if b.PaymentStatus == model.PaymentRequested || b.PaymentStatus == model.PaymentConfirmed {
			if err := restoreSpots(tx, &b); err != nil {
				return err
			}
		}
		return tx.Delete(&model.Booking{}, b.ID).Error
	})
}

// transition moves booking id to status "to" if the state machine allows it.
// apply runs in the same transaction after the status change.
func (s *BookingService) transition(ctx context.Context, id uint, to string, apply func(tx *gorm.DB, b *model.Booking) error) (*model.Booking, error) {
	var b model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Tour").Preload("Availability").First(&b, id).Error; err != nil {
			return utils.NotFoundOr(err, "Booking not found")
		}
		from := b.PaymentStatus
		if !model.CanTransition(from, to) {
			return transitionConflict(from, to)
		}

		now := s.now()
		updates := map[string]any{"payment_status": to}
		switch to {
		case model.PaymentConfirmed:
			updates["confirmed_at"] = now
			b.ConfirmedAt = &now
		case model.PaymentCancelled:
			updates["cancelled_at"] = now
			b.CancelledAt = &now
		case model.PaymentRefunded:
			updates["refunded_at"] = now
			b.RefundedAt = &now
		}
		res := tx.Model(&model.Booking{}).Where("id = ? AND payment_status = ?", b.ID, from).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update booking status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Booking was modified concurrently", nil)
		}
		b.PaymentStatus = to
		return apply(tx, &b)
	})
	if err != nil {
		return nil, err
	}
	s.kick()
	return &b, nil
}

func transitionConflict(from, to string) error {
	return utils.Conflict(fmt.Sprintf("Cannot change booking from %s to %s", from, to), nil)
}

// restoreSpots returns a booking's participants to its availability, never
// above MaxSpots, and reopens the date if it was only closed for being full.
func restoreSpots(tx *gorm.DB, b *model.Booking) error {
	k := b.NumberOfParticipants
	err := tx.Model(&model.Availability{}).Where("id = ?", b.AvailabilityID).
		Update("spots_left", gorm.Expr("CASE WHEN spots_left + ? > max_spots THEN max_spots ELSE spots_left + ? END", k, k)).Error
	if err != nil {
		return fmt.Errorf("restore spots: %w", err)
	}
	if b.Availability == nil {
		return nil
	}
	if err := tx.First(b.Availability, b.AvailabilityID).Error; err != nil {
		return fmt.Errorf("reload availability: %w", err)
	}
	if b.Availability.SpotsLeft > 0 {
		return reopenFullDay(tx, b.Availability.Date)
	}
	return nil
}

