package mocks

import (
	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockCardProvider struct {
	mock.Mock
	domain.CardPaymentProvider
}

func (m *MockCardProvider) CreateIntent(
	amount int64,
	currency string,
	metadata domain.BookingMetadata) (*stripe.PaymentIntent, error) {

	args := m.Called(amount, currency, metadata)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

func (m *MockCardProvider) RetrieveIntent(id string) (*stripe.PaymentIntent, error) {
	args := m.Called(id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

type MockInstantProvider struct {
	mock.Mock
	domain.InstantPaymentProvider
}

func (m *MockInstantProvider) CreateOrder(
	amount int64,
	currency string,
	metadata domain.BookingMetadata) (*domain.InstantOrder, error) {

	args := m.Called(amount, currency, metadata)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.InstantOrder), args.Error(1)
}

func (m *MockInstantProvider) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

func (m *MockInstantProvider) KeyID() string {
	args := m.Called()
	return args.String(0)
}
