package payment

import (
	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

type StripePaymentProvider struct{}

func NewStripePaymentProvider() *StripePaymentProvider {
	return &StripePaymentProvider{}
}

func (s *StripePaymentProvider) CreateIntent(
	amount int64,
	currency string,
	metadata domain.BookingMetadata) (*stripe.PaymentIntent, error) {

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Metadata: metadata.ToMap(),
	}

	return paymentintent.New(params)
}

func (s *StripePaymentProvider) RetrieveIntent(id string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(id, nil)
}
