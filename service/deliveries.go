package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LFCunha10/lisbonlovesme-sub000/mailer"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/notify"
	"github.com/LFCunha10/lisbonlovesme-sub000/outbox"
)

// RegisterDeliveries binds every outbox kind to the component that delivers it.
func RegisterDeliveries(w *outbox.Worker, m *mailer.Mailer, fanout *notify.Fanout) {
	w.Register(outbox.KindBookingRequestedEmail, emailHandler(m.BookingRequested))
	w.Register(outbox.KindAdminNewBookingEmail, emailHandler(m.AdminNewBooking))
	w.Register(outbox.KindBookingConfirmedEmail, emailHandler(m.BookingConfirmed))
	w.Register(outbox.KindBookingCancelledEmail, emailHandler(m.BookingCancelled))
	w.Register(outbox.KindBookingNotification, func(ctx context.Context, payload []byte) error {
		var n model.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			return fmt.Errorf("decode notification: %w", err)
		}
		n.ID = 0
		return fanout.Notify(ctx, &n)
	})
}

func emailHandler(send func(context.Context, mailer.BookingEmail) error) outbox.Handler {
	return func(ctx context.Context, payload []byte) error {
		var b mailer.BookingEmail
		if err := json.Unmarshal(payload, &b); err != nil {
			return fmt.Errorf("decode booking email: %w", err)
		}
		return send(ctx, b)
	}
}
