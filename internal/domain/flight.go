package domain

import "time"

type Flight struct {
	ID            string
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
