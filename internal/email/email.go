package email

import (
	"context"
	"log"

	"github.com/Domenick1991/aircheckin/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(_ context.Context, event kafka.CheckinEvent) error {
	log.Printf("notify %s: %s for booking %s (flight %s, seat %d)", event.Passenger, event.Type, event.BookingID, event.FlightID, event.Seat)
	return nil
}
