package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/stripe/stripe-go/v82"
)

// FakeCardProvider is a settable in-memory stand-in for the card gateway,
// used by integration tests to script provider behavior.
type FakeCardProvider struct {
	Intent       *stripe.PaymentIntent
	Err          error
	LastMetadata domain.BookingMetadata
}

func (f *FakeCardProvider) CreateIntent(
	amount int64,
	currency string,
	metadata domain.BookingMetadata) (*stripe.PaymentIntent, error) {

	f.LastMetadata = metadata

	if f.Err != nil {
		return nil, f.Err
	}

	if f.Intent != nil {
		return f.Intent, nil
	}

	return &stripe.PaymentIntent{
		ID:           "pi_fake",
		ClientSecret: "pi_fake_secret",
		Amount:       amount,
		Currency:     stripe.Currency(currency),
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		Metadata:     metadata.ToMap(),
	}, nil
}

func (f *FakeCardProvider) RetrieveIntent(id string) (*stripe.PaymentIntent, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	return f.Intent, nil
}

// FakeInstantProvider mimics the instant gateway: orders are fabricated and
// signatures are verified with the real HMAC scheme against Secret, so tests
// can mint valid signatures.
type FakeInstantProvider struct {
	Key       string
	Secret    string
	OrderID   string
	Err       error
	LastNotes map[string]interface{}
}

func (f *FakeInstantProvider) CreateOrder(
	amount int64,
	currency string,
	metadata domain.BookingMetadata) (*domain.InstantOrder, error) {

	f.LastNotes = metadata.Notes()

	if f.Err != nil {
		return nil, f.Err
	}

	return &domain.InstantOrder{
		ID:       f.OrderID,
		Amount:   amount,
		Currency: currency,
	}, nil
}

func (f *FakeInstantProvider) VerifySignature(orderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(f.Sign(orderID, paymentID)), []byte(signature))
}

// Sign computes the provider-side signature for tests.
func (f *FakeInstantProvider) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(f.Secret))
	mac.Write([]byte(orderID + "|" + paymentID))

	return hex.EncodeToString(mac.Sum(nil))
}

func (f *FakeInstantProvider) KeyID() string {
	return f.Key
}
