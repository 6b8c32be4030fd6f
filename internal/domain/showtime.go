package domain

import (
	"context"
	"fmt"
	"time"
)

type Movie struct {
	ID   int
	Name string
}

type Theater struct {
	ID         int
	Number     int
	CinemaName string
	Plan       SeatPlan
}

// Info renders the theater the way it is stored in booking metadata,
// e.g. "Cineplex Downtown - Theater 3".
func (t Theater) Info() string {
	return fmt.Sprintf("%s - Theater %d", t.CinemaName, t.Number)
}

// Showtime is a movie screening in a concrete theater. Seats is the
// append-only list of claimed seats; the booking flow never removes
// entries from it.
type Showtime struct {
	ID        int
	Movie     Movie
	Theater   Theater
	StartTime time.Time
	Seats     []BookedSeat
}

type ShowtimeRepository interface {
	// GetWithDetails loads a showtime with its movie, theater, cinema and
	// currently booked seats joined in. Returns ErrRecordNotFound if the
	// showtime doesn't exist.
	GetWithDetails(ctx context.Context, id int) (*Showtime, error)
}
