package domain

// CheckinDetails is a booking joined with its flight and passenger at read
// time. Flight is nil while the booking has no flight assigned.
type CheckinDetails struct {
	Booking   Booking
	Flight    *Flight
	Passenger Passenger
}
