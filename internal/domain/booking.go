package domain

import "time"

type BookingState string

const (
	BookingStateUnassigned     BookingState = "UNASSIGNED"
	BookingStatePendingCheckIn BookingState = "PENDING_CHECKIN"
	BookingStateRegistered     BookingState = "REGISTERED"
)

// Seat numbers index a fixed cabin map; seat 0 is a valid seat.
const (
	SeatCount = 256
	MaxSeat   = SeatCount - 1
)

type Booking struct {
	ID           string
	PassengerID  string
	FlightID     *string
	IsRegistered bool
	Seat         *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// State derives the lifecycle state from the stored fields. Registered is
// terminal: IsRegistered implies both FlightID and Seat are set.
func (b *Booking) State() BookingState {
	switch {
	case b.IsRegistered:
		return BookingStateRegistered
	case b.FlightID != nil:
		return BookingStatePendingCheckIn
	default:
		return BookingStateUnassigned
	}
}
