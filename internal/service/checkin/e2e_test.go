package checkin

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/aircheckin/internal/boardingpass"
	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/Domenick1991/aircheckin/internal/service/identity"
	"github.com/Domenick1991/aircheckin/internal/service/seats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full flow against the in-memory stores: register a passenger, attach the
// booking to a flight, complete check-in, and verify the boarding pass and
// the seat uniqueness guarantee.
func TestCheckinFlow_EndToEnd(t *testing.T) {
	ctx := context.Background()

	flight := domain.Flight{
		ID:            "11111111-1111-1111-1111-111111111111",
		Origin:        "SVO",
		Destination:   "LED",
		DepartureTime: time.Now().Add(6 * time.Hour),
		ArrivalTime:   time.Now().Add(8 * time.Hour),
	}

	passengerRepo := repository.NewMemoryPassengerRepository()
	bookingRepo := repository.NewMemoryBookingRepository()
	flightRepo := repository.NewMemoryFlightRepository(flight)
	docStore := boardingpass.NewMemoryDocumentStore()
	generator := boardingpass.NewGenerator(docStore)

	service := NewCheckinService(
		bookingRepo,
		passengerRepo,
		flightRepo,
		seats.NewEngine(bookingRepo, nil, 0),
		identity.NewVerifier(passengerRepo),
		generator,
		nil,
		"",
		24*time.Hour,
	)

	passenger, booking, err := service.RegisterPassenger(ctx, RegisterInput{
		Username:   "alice",
		Password:   "secret",
		Firstname:  "Alice",
		Lastname:   "Ivanova",
		Patronymic: "Petrovna",
		Birthdate:  "1992-07-01",
		Series:     "4509 654321",
	})
	require.NoError(t, err)
	assert.False(t, booking.IsRegistered)
	assert.Nil(t, booking.Seat)

	// Flight assignment happens outside the check-in flow.
	require.NoError(t, bookingRepo.AssignFlight(ctx, booking.ID, flight.ID))

	claim := domain.IdentityClaim{
		Firstname:  "Alice",
		Lastname:   "Ivanova",
		Patronymic: "Petrovna",
		Birthdate:  "1992-07-01",
		Series:     "4509 654321",
	}

	details, err := service.CompleteCheckIn(ctx, CompleteCheckInInput{BookingID: booking.ID, Seat: 12, Claim: claim})
	require.NoError(t, err)
	assert.True(t, details.Booking.IsRegistered)
	assert.Equal(t, 12, *details.Booking.Seat)
	assert.Equal(t, passenger.ID, details.Passenger.ID)

	looked, err := service.Lookup(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, looked.Booking.IsRegistered)
	assert.Equal(t, 12, *looked.Booking.Seat)

	pass, err := generator.Fetch(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, len(pass) > 4 && string(pass[:4]) == "%PDF")

	// A second passenger on the same flight cannot take seat 12.
	_, other, err := service.RegisterPassenger(ctx, RegisterInput{
		Username:   "bob",
		Password:   "hunter2",
		Firstname:  "Bob",
		Lastname:   "Sidorov",
		Patronymic: "Ivanovich",
		Birthdate:  "1988-01-20",
		Series:     "4509 111222",
	})
	require.NoError(t, err)
	require.NoError(t, bookingRepo.AssignFlight(ctx, other.ID, flight.ID))

	_, err = service.CompleteCheckIn(ctx, CompleteCheckInInput{
		BookingID: other.ID,
		Seat:      12,
		Claim: domain.IdentityClaim{
			Firstname:  "Bob",
			Lastname:   "Sidorov",
			Patronymic: "Ivanovich",
			Birthdate:  "1988-01-20",
			Series:     "4509 111222",
		},
	})
	assert.ErrorIs(t, err, domain.ErrSeatConflict)

	// Repeating the completed check-in is rejected, not silently reseated.
	_, err = service.CompleteCheckIn(ctx, CompleteCheckInInput{BookingID: booking.ID, Seat: 12, Claim: claim})
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	authed, err := service.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, booking.ID, authed.ID)
}

func TestCheckinFlow_ConcurrentSameSeat(t *testing.T) {
	ctx := context.Background()
	flightID := "22222222-2222-2222-2222-222222222222"

	bookingRepo := repository.NewMemoryBookingRepository()
	engine := seats.NewEngine(bookingRepo, nil, 0)

	const attempts = 16
	ids := make([]string, attempts)
	for i := 0; i < attempts; i++ {
		ids[i] = fmt.Sprintf("booking-%02d", i)
		f := flightID
		require.NoError(t, bookingRepo.Create(ctx, &domain.Booking{ID: ids[i], PassengerID: fmt.Sprintf("p-%02d", i), FlightID: &f}))
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Reserve(ctx, ids[i], flightID, 7)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrSeatConflict)
		}
	}
	assert.Equal(t, 1, winners)

	occupied, err := engine.Occupancy(ctx, flightID)
	require.NoError(t, err)
	taken := 0
	for _, o := range occupied {
		if o {
			taken++
		}
	}
	assert.Equal(t, 1, taken)
}
