package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
)

// In-memory repositories with the same contracts as the postgres ones.
// Slices keep storage order, which FirstByPassenger depends on.

type MemoryPassengerRepository struct {
	mu         sync.RWMutex
	passengers []domain.Passenger
}

func NewMemoryPassengerRepository() *MemoryPassengerRepository {
	return &MemoryPassengerRepository{}
}

func (r *MemoryPassengerRepository) Create(_ context.Context, p *domain.Passenger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.passengers {
		if existing.Username == p.Username {
			return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, p.Username)
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.passengers = append(r.passengers, *p)
	return nil
}

func (r *MemoryPassengerRepository) GetByID(_ context.Context, id string) (*domain.Passenger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.passengers {
		if r.passengers[i].ID == id {
			p := r.passengers[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryPassengerRepository) GetByCredentials(_ context.Context, username, password string) (*domain.Passenger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.passengers {
		if r.passengers[i].Username == username && r.passengers[i].Password == password {
			p := r.passengers[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryPassengerRepository) FindByIdentity(_ context.Context, claim domain.IdentityClaim) (*domain.Passenger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.passengers {
		p := r.passengers[i]
		if p.Firstname == claim.Firstname &&
			p.Lastname == claim.Lastname &&
			p.Patronymic == claim.Patronymic &&
			p.Birthdate == claim.Birthdate &&
			p.Series == claim.Series {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []domain.Booking
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{}
}

func (r *MemoryBookingRepository) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *MemoryBookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			b := r.bookings[i]
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryBookingRepository) FirstByPassenger(_ context.Context, passengerID string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.bookings {
		if r.bookings[i].PassengerID == passengerID {
			b := r.bookings[i]
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryBookingRepository) ListByFlight(_ context.Context, flightID string) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Booking, 0)
	for i := range r.bookings {
		if r.bookings[i].FlightID != nil && *r.bookings[i].FlightID == flightID {
			out = append(out, r.bookings[i])
		}
	}
	return out, nil
}

// CompleteCheckIn holds the write lock across the conflict check and the
// commit, so both fields flip together and two bookings can never end up on
// the same seat.
func (r *MemoryBookingRepository) CompleteCheckIn(_ context.Context, id string, seat int) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	b := &r.bookings[idx]
	if b.IsRegistered {
		return nil, domain.ErrAlreadyRegistered
	}
	if b.FlightID == nil {
		return nil, domain.ErrFlightNotAssigned
	}
	for i := range r.bookings {
		if i == idx {
			continue
		}
		other := r.bookings[i]
		if other.FlightID != nil && *other.FlightID == *b.FlightID && other.Seat != nil && *other.Seat == seat {
			return nil, fmt.Errorf("%w: flight %s seat %d", domain.ErrSeatConflict, *b.FlightID, seat)
		}
	}

	s := seat
	b.IsRegistered = true
	b.Seat = &s
	b.UpdatedAt = time.Now()
	out := *b
	return &out, nil
}

func (r *MemoryBookingRepository) ListUnregisteredDepartingBefore(_ context.Context, _ time.Time) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Booking, 0)
	for i := range r.bookings {
		if !r.bookings[i].IsRegistered && r.bookings[i].FlightID != nil {
			out = append(out, r.bookings[i])
		}
	}
	return out, nil
}

// AssignFlight mirrors the external collaborator that attaches a booking to
// a flight; only the in-memory store needs it (tests and the end-to-end
// flow drive the assignment themselves).
func (r *MemoryBookingRepository) AssignFlight(_ context.Context, id, flightID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			f := flightID
			r.bookings[i].FlightID = &f
			r.bookings[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

type MemoryFlightRepository struct {
	mu      sync.RWMutex
	flights []domain.Flight
}

func NewMemoryFlightRepository(flights ...domain.Flight) *MemoryFlightRepository {
	return &MemoryFlightRepository{flights: flights}
}

func (r *MemoryFlightRepository) List(_ context.Context) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Flight{}, r.flights...), nil
}

func (r *MemoryFlightRepository) GetByID(_ context.Context, id string) (*domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.flights {
		if r.flights[i].ID == id {
			f := r.flights[i]
			return &f, nil
		}
	}
	return nil, domain.ErrNotFound
}

var (
	_ PassengerRepository = (*MemoryPassengerRepository)(nil)
	_ BookingRepository   = (*MemoryBookingRepository)(nil)
	_ FlightRepository    = (*MemoryFlightRepository)(nil)
)
