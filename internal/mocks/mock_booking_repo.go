package mocks

import (
	"context"

	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) CommitBooking(
	ctx context.Context,
	booking domain.Booking) (*domain.Showtime, *domain.User, error) {

	args := m.Called(ctx, booking)

	var showtime *domain.Showtime
	if args.Get(0) != nil {
		showtime = args.Get(0).(*domain.Showtime)
	}

	var user *domain.User
	if args.Get(1) != nil {
		user = args.Get(1).(*domain.User)
	}

	return showtime, user, args.Error(2)
}

func (m *MockBookingRepo) GetTicketsByUserId(ctx context.Context, userId int) ([]domain.Ticket, error) {
	args := m.Called(ctx, userId)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Ticket), args.Error(1)
}
