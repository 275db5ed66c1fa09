package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

var ErrNotConfigured = errors.New("payment provider is not configured")

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// Provider is the payment gateway used for booking payments and refunds.
type Provider interface {
	CreateIntent(ctx context.Context, amount int64, reference, email string) (*Intent, error)
	Refund(ctx context.Context, paymentIntentID string) (*Refund, error)
}

// StripeProvider talks to Stripe with the package level API key.
type StripeProvider struct {
	currency string
}

func NewStripeProvider(secretKey, currency string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{currency: currency}
}

func (p *StripeProvider) CreateIntent(ctx context.Context, amount int64, reference, email string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(amount),
		Currency:     stripe.String(p.currency),
		ReceiptEmail: stripe.String(email),
		Description:  stripe.String("Booking " + reference),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("bookingReference", reference)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

func (p *StripeProvider) Refund(ctx context.Context, paymentIntentID string) (*Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return nil, fmt.Errorf("refund payment intent %s: %w", paymentIntentID, err)
	}
	return &Refund{ID: r.ID, Amount: r.Amount, Status: string(r.Status)}, nil
}

// Disabled is used when no Stripe key is configured.
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, int64, string, string) (*Intent, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Refund(context.Context, string) (*Refund, error) {
	return nil, ErrNotConfigured
}

// FromKey returns a Stripe provider, or Disabled when secretKey is empty.
func FromKey(secretKey, currency string) Provider {
	if secretKey == "" {
		return Disabled{}
	}
	return NewStripeProvider(secretKey, currency)
}
