package boardingpass

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/phpdave11/gofpdf"
)

// DocumentStore keeps rendered boarding passes keyed by booking id.
// PutIfAbsent reports whether the document was stored; an existing document
// is never overwritten.
type DocumentStore interface {
	PutIfAbsent(ctx context.Context, bookingID string, content []byte) (bool, error)
	Get(ctx context.Context, bookingID string) ([]byte, error)
}

// Generator renders and stores boarding passes. A pass is produced exactly
// once per completed check-in; repeat fetches return the stored bytes.
type Generator struct {
	store DocumentStore
}

func NewGenerator(store DocumentStore) *Generator {
	return &Generator{store: store}
}

func (g *Generator) Issue(ctx context.Context, details *domain.CheckinDetails) error {
	content, err := renderPDF(details)
	if err != nil {
		return fmt.Errorf("%w: render: %v", domain.ErrGenerationFailure, err)
	}
	if _, err := g.store.PutIfAbsent(ctx, details.Booking.ID, content); err != nil {
		return fmt.Errorf("%w: store: %v", domain.ErrGenerationFailure, err)
	}
	return nil
}

func (g *Generator) Fetch(ctx context.Context, bookingID string) ([]byte, error) {
	return g.store.Get(ctx, bookingID)
}

func renderPDF(d *domain.CheckinDetails) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boarding Pass", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOARDING PASS")
	pdf.Ln(12)

	seat := "-"
	if d.Booking.Seat != nil {
		seat = fmt.Sprintf("%d", *d.Booking.Seat)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger : %s %s %s", d.Passenger.Lastname, d.Passenger.Firstname, d.Passenger.Patronymic),
		fmt.Sprintf("Passport  : %s", d.Passenger.Series),
		fmt.Sprintf("Booking   : %s", d.Booking.ID),
		fmt.Sprintf("Seat      : %s", seat),
	}
	if d.Flight != nil {
		lines = append(lines,
			fmt.Sprintf("Route     : %s - %s", d.Flight.Origin, d.Flight.Destination),
			fmt.Sprintf("Departure : %s", d.Flight.DepartureTime.Format(time.RFC3339)),
			fmt.Sprintf("Arrival   : %s", d.Flight.ArrivalTime.Format(time.RFC3339)),
		)
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
