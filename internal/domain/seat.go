package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var seatIDRgx = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// SeatID identifies a single seat as a row of letters followed by a column
// number, e.g. "A12". Rows are canonicalized to upper case so that "a12"
// and "A12" refer to the same seat.
type SeatID struct {
	Row    string
	Number int
}

func ParseSeatID(s string) (SeatID, error) {
	matches := seatIDRgx.FindStringSubmatch(s)
	if matches == nil {
		return SeatID{}, fmt.Errorf("%w: %q", ErrInvalidSeat, s)
	}

	number, err := strconv.Atoi(matches[2])
	if err != nil {
		return SeatID{}, fmt.Errorf("%w: %q", ErrInvalidSeat, s)
	}

	return SeatID{Row: strings.ToUpper(matches[1]), Number: number}, nil
}

func (s SeatID) String() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

// SeatPlan bounds the seats of a theater. MaxRow is the last usable row
// label, MaxColumn the last usable seat number within a row.
type SeatPlan struct {
	MaxRow    string
	MaxColumn int
}

// Contains reports whether the seat falls inside the plan. Row labels are
// compared by length first, so that row "AA" sorts after row "Z".
func (p SeatPlan) Contains(seat SeatID) bool {
	if seat.Number < 1 || seat.Number > p.MaxColumn {
		return false
	}

	if len(seat.Row) != len(p.MaxRow) {
		return len(seat.Row) < len(p.MaxRow)
	}

	return seat.Row <= p.MaxRow
}

// BookedSeat is one claimed seat within a showtime's append-only seat list.
type BookedSeat struct {
	Row    string
	Number int
	UserID int
}

// ValidateSeats parses every requested seat identifier, checks it against
// the plan bounds, and rejects seats already present in the booked set.
// It is pure and is run both at intent creation and again at confirmation,
// since seats may be claimed between the two calls.
func ValidateSeats(ids []string, plan SeatPlan, booked []BookedSeat) ([]SeatID, error) {
	taken := make(map[SeatID]bool, len(booked))
	for _, b := range booked {
		taken[SeatID{Row: b.Row, Number: b.Number}] = true
	}

	seats := make([]SeatID, 0, len(ids))
	seen := make(map[SeatID]bool, len(ids))

	for _, id := range ids {
		seat, err := ParseSeatID(id)
		if err != nil {
			return nil, err
		}

		if !plan.Contains(seat) {
			return nil, fmt.Errorf("%w: %q is outside the seat plan", ErrInvalidSeat, id)
		}

		if taken[seat] {
			return nil, fmt.Errorf("%w: %s", ErrSeatUnavailable, seat)
		}

		if seen[seat] {
			return nil, fmt.Errorf("%w: %s requested twice", ErrSeatUnavailable, seat)
		}
		seen[seat] = true

		seats = append(seats, seat)
	}

	return seats, nil
}
