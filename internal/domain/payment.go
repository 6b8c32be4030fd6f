package domain

import "github.com/stripe/stripe-go/v82"

// CardPaymentProvider is the card-network gateway. The intent it creates
// carries the booking metadata, which makes the provider the source of
// truth for the booking until confirmation.
type CardPaymentProvider interface {
	CreateIntent(amount int64, currency string, metadata BookingMetadata) (*stripe.PaymentIntent, error)
	RetrieveIntent(id string) (*stripe.PaymentIntent, error)
}

// InstantOrder is the provider-side record for an in-progress instant
// payment, identified by an opaque id.
type InstantOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// InstantPaymentProvider is the regional instant-payment gateway. Payment
// confirmation is signature-based: the client returns an HMAC computed by
// the provider which VerifySignature recomputes from the shared secret.
type InstantPaymentProvider interface {
	CreateOrder(amount int64, currency string, metadata BookingMetadata) (*InstantOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}
