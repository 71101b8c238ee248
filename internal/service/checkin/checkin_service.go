package checkin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/kafka"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/google/uuid"
)

type CheckinUseCase interface {
	Lookup(ctx context.Context, bookingID string) (*domain.CheckinDetails, error)
	SeatMap(ctx context.Context, bookingID string) ([]bool, error)
	CompleteCheckIn(ctx context.Context, input CompleteCheckInInput) (*domain.CheckinDetails, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Booking, error)
	RegisterPassenger(ctx context.Context, input RegisterInput) (*domain.Passenger, *domain.Booking, error)
	RemindPendingCheckins(ctx context.Context) ([]domain.Booking, error)
}

// SeatEngine is the seat allocation engine the state machine delegates to.
type SeatEngine interface {
	Occupancy(ctx context.Context, flightID string) ([]bool, error)
	Reserve(ctx context.Context, bookingID, flightID string, seat int) (*domain.Booking, error)
}

type IdentityVerifier interface {
	Verify(ctx context.Context, claim domain.IdentityClaim) (bool, error)
}

// PassIssuer materializes the boarding document for a completed check-in.
type PassIssuer interface {
	Issue(ctx context.Context, details *domain.CheckinDetails) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CheckinService struct {
	bookings           repository.BookingRepository
	passengers         repository.PassengerRepository
	flights            repository.FlightRepository
	seats              SeatEngine
	verifier           IdentityVerifier
	passes             PassIssuer
	producer           Producer
	checkinTopic       string
	notificationsTopic string
	reminderWindow     time.Duration
}

type CompleteCheckInInput struct {
	BookingID string
	Seat      int
	Claim     domain.IdentityClaim
}

type RegisterInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Firstname  string `json:"firstname"`
	Lastname   string `json:"lastname"`
	Patronymic string `json:"patronymic"`
	Birthdate  string `json:"birthdate"`
	Series     string `json:"series"`
}

type CheckinServiceOption func(*CheckinService)

func WithNotificationsTopic(topic string) CheckinServiceOption {
	return func(s *CheckinService) {
		s.notificationsTopic = topic
	}
}

func NewCheckinService(
	bookings repository.BookingRepository,
	passengers repository.PassengerRepository,
	flights repository.FlightRepository,
	seats SeatEngine,
	verifier IdentityVerifier,
	passes PassIssuer,
	producer Producer,
	checkinTopic string,
	reminderWindow time.Duration,
	opts ...CheckinServiceOption,
) *CheckinService {
	service := &CheckinService{
		bookings:       bookings,
		passengers:     passengers,
		flights:        flights,
		seats:          seats,
		verifier:       verifier,
		passes:         passes,
		producer:       producer,
		checkinTopic:   checkinTopic,
		reminderWindow: reminderWindow,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Lookup returns the booking joined with its flight and passenger.
func (s *CheckinService) Lookup(ctx context.Context, bookingID string) (*domain.CheckinDetails, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, booking)
}

// SeatMap reports seat occupancy for the flight the booking is attached to.
func (s *CheckinService) SeatMap(ctx context.Context, bookingID string) ([]bool, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.FlightID == nil {
		return nil, domain.ErrFlightNotAssigned
	}
	return s.seats.Occupancy(ctx, *booking.FlightID)
}

// CompleteCheckIn drives the PendingCheckIn -> Registered transition. The
// identity claim is verified before any seat work, a re-check-in is
// rejected outright, and the seat commit flips both fields in one store
// operation. Boarding pass generation happens after the commit and never
// rolls it back.
func (s *CheckinService) CompleteCheckIn(ctx context.Context, input CompleteCheckInInput) (*domain.CheckinDetails, error) {
	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsRegistered {
		return nil, domain.ErrAlreadyRegistered
	}
	if booking.FlightID == nil {
		return nil, domain.ErrFlightNotAssigned
	}

	ok, err := s.verifier.Verify(ctx, input.Claim)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrIdentityMismatch
	}

	updated, err := s.seats.Reserve(ctx, booking.ID, *booking.FlightID, input.Seat)
	if err != nil {
		return nil, err
	}

	details, err := s.join(ctx, updated)
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "checkin_completed", details); err != nil {
		log.Printf("publish checkin_completed for booking %s: %v", updated.ID, err)
	}

	if err := s.passes.Issue(ctx, details); err != nil {
		// The transition is already committed; surface the failure as-is.
		return nil, err
	}
	return details, nil
}

// Authenticate returns the passenger's first booking by storage order.
func (s *CheckinService) Authenticate(ctx context.Context, username, password string) (*domain.Booking, error) {
	passenger, err := s.passengers.GetByCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.bookings.FirstByPassenger(ctx, passenger.ID)
}

// RegisterPassenger creates a passenger and its unassigned booking as a
// pair. Usernames are unique; a duplicate fails with ErrUsernameTaken
// before any booking is created.
func (s *CheckinService) RegisterPassenger(ctx context.Context, input RegisterInput) (*domain.Passenger, *domain.Booking, error) {
	passenger := &domain.Passenger{
		ID:         uuid.NewString(),
		Username:   input.Username,
		Password:   input.Password,
		Firstname:  input.Firstname,
		Lastname:   input.Lastname,
		Patronymic: input.Patronymic,
		Birthdate:  input.Birthdate,
		Series:     input.Series,
	}
	if err := s.passengers.Create(ctx, passenger); err != nil {
		return nil, nil, err
	}

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		PassengerID: passenger.ID,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, nil, err
	}
	return passenger, booking, nil
}

// RemindPendingCheckins publishes a notification for every unregistered
// booking whose flight departs within the reminder window.
func (s *CheckinService) RemindPendingCheckins(ctx context.Context) ([]domain.Booking, error) {
	deadline := time.Now().Add(s.reminderWindow)
	pending, err := s.bookings.ListUnregisteredDepartingBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for _, b := range pending {
		details, err := s.join(ctx, &b)
		if err != nil {
			log.Printf("join booking %s for reminder: %v", b.ID, err)
			continue
		}
		if err := s.publish(ctx, "checkin_reminder", details); err != nil {
			log.Printf("publish checkin_reminder for booking %s: %v", b.ID, err)
		}
	}
	return pending, nil
}

func (s *CheckinService) join(ctx context.Context, booking *domain.Booking) (*domain.CheckinDetails, error) {
	passenger, err := s.passengers.GetByID(ctx, booking.PassengerID)
	if err != nil {
		return nil, err
	}
	details := &domain.CheckinDetails{Booking: *booking, Passenger: *passenger}
	if booking.FlightID != nil {
		flight, err := s.flights.GetByID(ctx, *booking.FlightID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		details.Flight = flight
	}
	return details, nil
}

func (s *CheckinService) publish(ctx context.Context, eventType string, details *domain.CheckinDetails) error {
	if s.producer == nil || s.checkinTopic == "" {
		return nil
	}
	event := kafka.CheckinEvent{
		Type:      eventType,
		BookingID: details.Booking.ID,
		Passenger: fmt.Sprintf("%s %s", details.Passenger.Firstname, details.Passenger.Lastname),
	}
	if details.Booking.Seat != nil {
		event.Seat = *details.Booking.Seat
	}
	if details.Flight != nil {
		event.FlightID = details.Flight.ID
		event.Origin = details.Flight.Origin
		event.Destination = details.Flight.Destination
		event.DepartureTime = details.Flight.DepartureTime
	}
	if err := s.producer.Publish(ctx, s.checkinTopic, details.Booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, details.Booking.ID, event)
	}
	return nil
}

var _ CheckinUseCase = (*CheckinService)(nil)
