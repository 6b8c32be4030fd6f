package repository

import (
	"context"
	"errors"

	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetWithDetails(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT
			s.id,
			s.start_time,
			m.id,
			m.name,
			t.id,
			t.number,
			c.name,
			t.max_row,
			t.max_column
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		JOIN cinemas c ON t.cinema_id = c.id
		WHERE s.id = $1
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.StartTime,
		&showtime.Movie.ID,
		&showtime.Movie.Name,
		&showtime.Theater.ID,
		&showtime.Theater.Number,
		&showtime.Theater.CinemaName,
		&showtime.Theater.Plan.MaxRow,
		&showtime.Theater.Plan.MaxColumn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := getBookedSeats(ctx, p.db, id)
	if err != nil {
		return nil, err
	}

	showtime.Seats = seats

	return &showtime, nil
}

// querier lets the booked-seat lookup run against both the pool and an open
// transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getBookedSeats(ctx context.Context, q querier, showtimeId int) ([]domain.BookedSeat, error) {
	query := `
		SELECT seat_row, seat_number, user_id
		FROM booked_seats
		WHERE showtime_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := q.Query(ctx, query, showtimeId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.BookedSeat, 0)

	for rows.Next() {
		var seat domain.BookedSeat

		err = rows.Scan(&seat.Row, &seat.Number, &seat.UserID)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
