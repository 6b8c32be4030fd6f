package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// CommitBooking claims the booking's seats and writes the ticket in one
// transaction. The primary key on booked_seats (showtime_id, seat_row,
// seat_number) makes the seat append conditional: if a concurrent booking
// claimed any of the seats after availability was checked, the insert hits
// a unique violation and the whole transaction rolls back with
// ErrSeatUnavailable.
func (p *PostgresBookingRepository) CommitBooking(
	ctx context.Context,
	booking domain.Booking) (*domain.Showtime, *domain.User, error) {

	var showtime *domain.Showtime
	var user *domain.User

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		rows := make([][]any, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			rows = append(rows, []any{
				booking.ShowtimeID,
				seat.Row,
				seat.Number,
				booking.UserID,
			})
		}

		_, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"booked_seats"},
			[]string{"showtime_id", "seat_row", "seat_number", "user_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return domain.ErrSeatUnavailable
			}

			return err
		}

		query := `
			INSERT INTO tickets (user_id, showtime_id, payment_ref, payment_method, amount, currency, payment_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`

		var ticketId int
		err = tx.QueryRow(
			ctx,
			query,
			booking.UserID,
			booking.ShowtimeID,
			booking.PaymentRef,
			booking.PaymentMethod,
			booking.TotalAmount,
			booking.Currency,
			time.Now(),
		).Scan(&ticketId)
		if err != nil {
			return err
		}

		seatRows := make([][]any, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			seatRows = append(seatRows, []any{ticketId, seat.Row, seat.Number})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"ticket_seats"},
			[]string{"ticket_id", "seat_row", "seat_number"},
			pgx.CopyFromRows(seatRows),
		)
		if err != nil {
			return err
		}

		showtime, err = getShowtimeInTx(ctx, tx, booking.ShowtimeID)
		if err != nil {
			return err
		}

		user, err = getUserWithTicketsInTx(ctx, tx, booking.UserID)

		return err
	})

	if err != nil {
		return nil, nil, err
	}

	return showtime, user, nil
}

func getShowtimeInTx(ctx context.Context, tx pgx.Tx, showtimeId int) (*domain.Showtime, error) {
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

	err := tx.QueryRow(ctx, query, showtimeId).Scan(
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
		return nil, err
	}

	seats, err := getBookedSeats(ctx, tx, showtimeId)
	if err != nil {
		return nil, err
	}

	showtime.Seats = seats

	return &showtime, nil
}

func getUserWithTicketsInTx(ctx context.Context, tx pgx.Tx, userId int) (*domain.User, error) {
	query := `
		SELECT id, username, email, created_at, version
		FROM users
		WHERE id = $1
	`

	var user domain.User

	err := tx.QueryRow(ctx, query, userId).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
		&user.Version,
	)
	if err != nil {
		return nil, err
	}

	tickets, err := getTickets(ctx, tx, userId)
	if err != nil {
		return nil, err
	}

	user.Tickets = tickets

	return &user, nil
}

func (p *PostgresBookingRepository) GetTicketsByUserId(ctx context.Context, userId int) ([]domain.Ticket, error) {
	return getTickets(ctx, p.db, userId)
}

func getTickets(ctx context.Context, q querier, userId int) ([]domain.Ticket, error) {
	query := `
		SELECT
			tk.id,
			tk.user_id,
			tk.showtime_id,
			m.name,
			c.name || ' - Theater ' || t.number,
			s.start_time,
			tk.payment_ref,
			tk.payment_method,
			tk.amount,
			tk.currency,
			tk.payment_date,
			tk.created_at
		FROM tickets tk
		JOIN showtimes s ON tk.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		JOIN cinemas c ON t.cinema_id = c.id
		WHERE tk.user_id = $1
		ORDER BY tk.created_at DESC
	`

	rows, err := q.Query(ctx, query, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)

	for rows.Next() {
		var ticket domain.Ticket

		err = rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.ShowtimeID,
			&ticket.MovieName,
			&ticket.TheaterInfo,
			&ticket.ShowtimeDate,
			&ticket.PaymentRef,
			&ticket.PaymentMethod,
			&ticket.TotalAmount,
			&ticket.Currency,
			&ticket.PaymentDate,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range tickets {
		seats, err := getTicketSeats(ctx, q, tickets[i].ID)
		if err != nil {
			return nil, err
		}

		tickets[i].Seats = seats
	}

	return tickets, nil
}

func getTicketSeats(ctx context.Context, q querier, ticketId int) ([]domain.SeatID, error) {
	query := `
		SELECT seat_row, seat_number
		FROM ticket_seats
		WHERE ticket_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := q.Query(ctx, query, ticketId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.SeatID, 0)

	for rows.Next() {
		var seat domain.SeatID

		err = rows.Scan(&seat.Row, &seat.Number)
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

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
