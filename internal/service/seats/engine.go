package seats

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/repository"
)

// SeatLocker is a short-lived per-flight-per-seat lock, normally backed by
// redis SETNX. It gates concurrent check-ins for the same seat before the
// store commit; the commit itself is still the serialization point, so the
// engine works with a nil locker too.
type SeatLocker interface {
	AcquireSeatLock(ctx context.Context, flightID string, seat int, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, flightID string, seat int) error
}

// Engine owns seat validation and occupancy for a flight. Occupancy is
// derived from the booking collection rather than stored separately, so
// there is a single source of truth at the cost of an O(bookings) scan.
type Engine struct {
	bookings repository.BookingRepository
	locks    SeatLocker
	lockTTL  time.Duration
}

func NewEngine(bookings repository.BookingRepository, locks SeatLocker, lockTTL time.Duration) *Engine {
	return &Engine{bookings: bookings, locks: locks, lockTTL: lockTTL}
}

// Occupancy reports which seats of the flight are taken. Free seats are the
// complement.
func (e *Engine) Occupancy(ctx context.Context, flightID string) ([]bool, error) {
	bookings, err := e.bookings.ListByFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	occupied := make([]bool, domain.SeatCount)
	for _, b := range bookings {
		if b.Seat != nil && *b.Seat >= 0 && *b.Seat <= domain.MaxSeat {
			occupied[*b.Seat] = true
		}
	}
	return occupied, nil
}

// Reserve binds the seat to the booking. The binding is permanent: there is
// no release operation. Exactly one of N concurrent reservations for the
// same (flight, seat) succeeds; the rest get ErrSeatConflict.
func (e *Engine) Reserve(ctx context.Context, bookingID, flightID string, seat int) (*domain.Booking, error) {
	if seat < 0 || seat > domain.MaxSeat {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSeat, seat)
	}

	locked := false
	if e.locks != nil {
		ok, err := e.locks.AcquireSeatLock(ctx, flightID, seat, e.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: flight %s seat %d is being reserved", domain.ErrSeatConflict, flightID, seat)
		}
		locked = true
	}

	booking, err := e.bookings.CompleteCheckIn(ctx, bookingID, seat)
	if locked {
		// Occupancy is derived from the store, so the lock is only needed
		// across the commit.
		_ = e.locks.ReleaseSeatLock(ctx, flightID, seat)
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}
