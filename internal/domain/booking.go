package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type PaymentMethod string

const (
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodInstant PaymentMethod = "instant"
)

// BookingMetadata is the typed booking state round-tripped through the
// payment provider. It is attached to the provider-side intent or order at
// creation time and read back during confirmation, so no local pending
// booking table is needed. Seats are stored as a JSON array to survive the
// providers' string-only metadata fields.
type BookingMetadata struct {
	UserID      int
	ShowtimeID  int
	Seats       []string
	MovieName   string
	TheaterInfo string
	Showtime    time.Time
}

const (
	metaKeyUserID      = "userId"
	metaKeyShowtimeID  = "showtimeId"
	metaKeySeats       = "seats"
	metaKeyMovieName   = "movieName"
	metaKeyTheaterInfo = "theaterInfo"
	metaKeyShowtime    = "showtime"
)

func (m BookingMetadata) ToMap() map[string]string {
	seats, _ := json.Marshal(m.Seats)

	return map[string]string{
		metaKeyUserID:      strconv.Itoa(m.UserID),
		metaKeyShowtimeID:  strconv.Itoa(m.ShowtimeID),
		metaKeySeats:       string(seats),
		metaKeyMovieName:   m.MovieName,
		metaKeyTheaterInfo: m.TheaterInfo,
		metaKeyShowtime:    m.Showtime.Format(time.RFC3339),
	}
}

// Notes converts the metadata into the loosely typed shape the instant
// payment provider accepts for order notes.
func (m BookingMetadata) Notes() map[string]interface{} {
	notes := make(map[string]interface{})
	for k, v := range m.ToMap() {
		notes[k] = v
	}

	return notes
}

// BookingMetadataFromMap rebuilds the metadata from provider storage. Every
// field is validated on read-back; a metadata blob that doesn't parse means
// the intent wasn't created by this service and must not drive a booking.
func BookingMetadataFromMap(values map[string]string) (BookingMetadata, error) {
	var m BookingMetadata

	userID, err := strconv.Atoi(values[metaKeyUserID])
	if err != nil {
		return m, fmt.Errorf("%w: invalid user id", ErrInvalidMetadata)
	}

	showtimeID, err := strconv.Atoi(values[metaKeyShowtimeID])
	if err != nil {
		return m, fmt.Errorf("%w: invalid showtime id", ErrInvalidMetadata)
	}

	var seats []string
	err = json.Unmarshal([]byte(values[metaKeySeats]), &seats)
	if err != nil || len(seats) == 0 {
		return m, fmt.Errorf("%w: invalid seat list", ErrInvalidMetadata)
	}

	showtime, err := time.Parse(time.RFC3339, values[metaKeyShowtime])
	if err != nil {
		return m, fmt.Errorf("%w: invalid showtime date", ErrInvalidMetadata)
	}

	m = BookingMetadata{
		UserID:      userID,
		ShowtimeID:  showtimeID,
		Seats:       seats,
		MovieName:   values[metaKeyMovieName],
		TheaterInfo: values[metaKeyTheaterInfo],
		Showtime:    showtime,
	}

	return m, nil
}

// Ticket is appended to the user's ticket collection once a payment is
// confirmed and the seats are committed. Immutable after creation.
type Ticket struct {
	ID            int
	UserID        int
	ShowtimeID    int
	MovieName     string
	TheaterInfo   string
	ShowtimeDate  time.Time
	Seats         []SeatID
	PaymentRef    string
	PaymentMethod PaymentMethod
	TotalAmount   int64
	Currency      string
	PaymentDate   time.Time
	CreatedAt     time.Time
}

// Booking carries everything the committer needs to claim seats and write
// the ticket in one transaction.
type Booking struct {
	UserID        int
	ShowtimeID    int
	Seats         []SeatID
	PaymentRef    string
	PaymentMethod PaymentMethod
	TotalAmount   int64
	Currency      string
}

type BookingRepository interface {
	// CommitBooking appends the booking's seats to the showtime and the
	// ticket to the user inside a single transaction. The seat append is
	// conditional: if any seat was claimed by a concurrent booking, the
	// whole transaction fails with ErrSeatUnavailable and nothing is
	// written. Returns the updated showtime and user on success.
	CommitBooking(ctx context.Context, booking Booking) (*Showtime, *User, error)

	// GetTicketsByUserId returns the user's tickets, newest first.
	GetTicketsByUserId(ctx context.Context, userId int) ([]Ticket, error)
}
