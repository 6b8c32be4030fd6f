package mocks

import (
	"context"

	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowtimeRepo struct {
	mock.Mock
	domain.ShowtimeRepository
}

func (m *MockShowtimeRepo) GetWithDetails(ctx context.Context, id int) (*domain.Showtime, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Showtime), args.Error(1)
}
