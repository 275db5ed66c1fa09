package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFCunha10/lisbonlovesme-sub000/database/dbtest"
	"github.com/LFCunha10/lisbonlovesme-sub000/mailer"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/notify"
	"github.com/LFCunha10/lisbonlovesme-sub000/outbox"
)

type inbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (i *inbox) Send(_ context.Context, msg mailer.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sent = append(i.sent, msg)
	return nil
}

type publishCounter struct{ n int }

func (p *publishCounter) Publish(context.Context, []byte) error {
	p.n++
	return nil
}

func TestBookingSideEffectsAreDelivered(t *testing.T) {
	db := dbtest.New(t)
	customer, admin := &inbox{}, &inbox{}
	pub := &publishCounter{}
	w := outbox.NewWorker(db, outbox.Options{})
	RegisterDeliveries(w,
		mailer.New(customer, admin, "owner@example.com", "https://tours.example.com"),
		notify.NewFanout(db, pub, nil))

	s := newService(db, BookingPolicy{}, nil)
	b, _ := bookedSlot(t, s, db, 4, 2)

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	require.Len(t, customer.sent, 1)
	assert.Contains(t, customer.sent[0].Subject, b.BookingReference)
	assert.Contains(t, customer.sent[0].HTML, "Alfama Walking Tour")
	require.Len(t, admin.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, admin.sent[0].To)
	assert.Contains(t, admin.sent[0].Text, "2030-06-01 10:00")

	var n model.Notification
	require.NoError(t, db.First(&n).Error)
	assert.Equal(t, model.NotificationBooking, n.Type)
	assert.Equal(t, b.BookingReference, n.Data["bookingReference"])
	assert.Equal(t, 1, pub.n)

	_, err = s.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	sent, err = w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, customer.sent, 2)
	require.Len(t, customer.sent[1].Attachments, 1)
}
