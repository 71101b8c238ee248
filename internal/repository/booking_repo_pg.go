package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	FirstByPassenger(ctx context.Context, passengerID string) (*domain.Booking, error)
	ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error)
	CompleteCheckIn(ctx context.Context, id string, seat int) (*domain.Booking, error)
	ListUnregisteredDepartingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings (id, passenger_id, flight_id, is_registered, seat)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`, b.ID, b.PassengerID, b.FlightID, b.IsRegistered, b.Seat).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, passenger_id, flight_id, is_registered, seat, created_at, updated_at FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) FirstByPassenger(ctx context.Context, passengerID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, passenger_id, flight_id, is_registered, seat, created_at, updated_at FROM bookings WHERE passenger_id=$1 ORDER BY created_at LIMIT 1`, passengerID)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, passenger_id, flight_id, is_registered, seat, created_at, updated_at FROM bookings WHERE flight_id=$1 ORDER BY created_at`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// CompleteCheckIn flips is_registered and assigns the seat in one
// transaction. The booking row is locked for the duration, the duplicate
// seat check runs under that lock, and the partial unique index on
// (flight_id, seat) backstops any commit-time race with a 23505 that is
// mapped to ErrSeatConflict.
func (r *PGBookingRepository) CompleteCheckIn(ctx context.Context, id string, seat int) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT id, passenger_id, flight_id, is_registered, seat, created_at, updated_at FROM bookings WHERE id=$1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	if b.IsRegistered {
		return nil, domain.ErrAlreadyRegistered
	}
	if b.FlightID == nil {
		return nil, domain.ErrFlightNotAssigned
	}

	var taken bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE flight_id=$1 AND seat=$2 AND id<>$3)`, *b.FlightID, seat, id).Scan(&taken); err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: flight %s seat %d", domain.ErrSeatConflict, *b.FlightID, seat)
	}

	if err := tx.QueryRow(ctx, `UPDATE bookings SET is_registered=TRUE, seat=$2, updated_at=now() WHERE id=$1 RETURNING updated_at`, id, seat).Scan(&b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: flight %s seat %d", domain.ErrSeatConflict, *b.FlightID, seat)
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	b.IsRegistered = true
	b.Seat = &seat
	return b, nil
}

func (r *PGBookingRepository) ListUnregisteredDepartingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.passenger_id, b.flight_id, b.is_registered, b.seat, b.created_at, b.updated_at
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		WHERE NOT b.is_registered AND f.departure_time <= $1
		ORDER BY f.departure_time`, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.PassengerID, &b.FlightID, &b.IsRegistered, &b.Seat, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.PassengerID, &b.FlightID, &b.IsRegistered, &b.Seat, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
