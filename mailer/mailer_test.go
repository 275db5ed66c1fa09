package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureTransport struct {
	sent []Message
	err  error
}

func (c *captureTransport) Send(_ context.Context, msg Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func sampleBooking() BookingEmail {
	return BookingEmail{
		BookingID:      7,
		Reference:      "LT-ABC1234",
		CustomerName:   "Ana Silva",
		CustomerEmail:  "ana@example.com",
		TourName:       "Alfama Walking Tour",
		Date:           "2026-05-01",
		Time:           "10:00",
		Participants:   2,
		OriginalAmount: 9000,
		DiscountAmount: 900,
		DiscountCode:   "SAVE10",
		TotalAmount:    8100,
		Language:       "en",
	}
}

func TestBookingRequested(t *testing.T) {
	customer := &captureTransport{}
	m := New(customer, &captureTransport{}, "admin@example.com", "https://tours.example.com")

	require.NoError(t, m.BookingRequested(context.Background(), sampleBooking()))
	require.Len(t, customer.sent, 1)

	msg := customer.sent[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "LT-ABC1234")
	assert.Contains(t, msg.HTML, "Alfama Walking Tour")
	assert.Contains(t, msg.HTML, "€81.00")
	assert.Contains(t, msg.HTML, "-€9.00")
	assert.Contains(t, msg.HTML, "https://tours.example.com/booking/LT-ABC1234")
}

func TestBookingRequestedPortuguese(t *testing.T) {
	customer := &captureTransport{}
	m := New(customer, &captureTransport{}, "admin@example.com", "https://tours.example.com")

	b := sampleBooking()
	b.Language = "pt"
	require.NoError(t, m.BookingRequested(context.Background(), b))
	assert.Contains(t, customer.sent[0].Subject, "Recebemos o seu pedido")
	assert.Contains(t, customer.sent[0].HTML, "Participantes")
}

func TestAdminNewBooking(t *testing.T) {
	admin := &captureTransport{}
	m := New(&captureTransport{}, admin, "admin@example.com", "https://tours.example.com")

	require.NoError(t, m.AdminNewBooking(context.Background(), sampleBooking()))
	require.Len(t, admin.sent, 1)

	msg := admin.sent[0]
	assert.Equal(t, []string{"admin@example.com"}, msg.To)
	assert.Empty(t, msg.HTML)
	assert.Contains(t, msg.Text, "Ana Silva <ana@example.com>")
	assert.Contains(t, msg.Text, "(SAVE10)")
	assert.Contains(t, msg.Text, "https://tours.example.com/admin/bookings/7")
}

func TestBookingConfirmedAttachesQRCode(t *testing.T) {
	customer := &captureTransport{}
	m := New(customer, &captureTransport{}, "admin@example.com", "https://tours.example.com")

	require.NoError(t, m.BookingConfirmed(context.Background(), sampleBooking()))
	require.Len(t, customer.sent, 1)
	require.Len(t, customer.sent[0].Attachments, 1)

	a := customer.sent[0].Attachments[0]
	assert.Equal(t, "LT-ABC1234.png", a.Filename)
	assert.True(t, bytes.HasPrefix(a.Content, []byte("\x89PNG")))
}

func TestTransportErrorIsReturned(t *testing.T) {
	boom := errors.New("smtp down")
	m := New(&captureTransport{err: boom}, &captureTransport{}, "admin@example.com", "")

	err := m.BookingCancelled(context.Background(), sampleBooking())
	assert.ErrorIs(t, err, boom)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "€0.00", FormatMoney(0))
	assert.Equal(t, "€45.00", FormatMoney(4500))
	assert.Equal(t, "€1.05", FormatMoney(105))
	assert.Equal(t, "-€9.00", FormatMoney(-900))
}
