package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/service/checkin"
	"github.com/gin-gonic/gin"
)

// PassFetcher serves stored boarding passes for download.
type PassFetcher interface {
	Fetch(ctx context.Context, bookingID string) ([]byte, error)
}

type CheckinHandler struct {
	service checkin.CheckinUseCase
	passes  PassFetcher
}

func NewCheckinHandler(service checkin.CheckinUseCase, passes PassFetcher) *CheckinHandler {
	return &CheckinHandler{service: service, passes: passes}
}

func (h *CheckinHandler) Register(router *gin.Engine) {
	router.POST("/login", h.login)
	router.POST("/register", h.register)
	router.GET("/api/bookings/:id", h.lookup)
	router.POST("/api/bookings/:id", h.completeCheckIn)
	router.GET("/api/bookings/:id/seats", h.seatMap)
	router.GET("/download/:id", h.download)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type completeCheckInRequest struct {
	Seat       int    `json:"seat"`
	Firstname  string `json:"firstname"`
	Lastname   string `json:"lastname"`
	Patronymic string `json:"patronymic"`
	Birthdate  string `json:"birthdate"`
	Series     string `json:"series"`
}

type bookingResponse struct {
	ID           string  `json:"id"`
	PassengerID  string  `json:"passengerId"`
	FlightID     *string `json:"flightId"`
	IsRegistered bool    `json:"isRegistered"`
	Seat         *int    `json:"seat"`
	State        string  `json:"state"`
}

type flightResponse struct {
	ID            string `json:"id"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

type passengerResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Firstname  string `json:"firstname"`
	Lastname   string `json:"lastname"`
	Patronymic string `json:"patronymic"`
	Birthdate  string `json:"birthdate"`
	Series     string `json:"series"`
}

type checkinDetailsResponse struct {
	bookingResponse
	Flight    *flightResponse   `json:"flight,omitempty"`
	Passenger passengerResponse `json:"passenger"`
}

func (h *CheckinHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"bookingId": booking.ID,
		"flightId":  booking.FlightID,
	})
}

func (h *CheckinHandler) register(c *gin.Context) {
	var req checkin.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passenger, booking, err := h.service.RegisterPassenger(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"passengerId": passenger.ID,
		"bookingId":   booking.ID,
	})
}

func (h *CheckinHandler) lookup(c *gin.Context) {
	details, err := h.service.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toDetailsResponse(details))
}

func (h *CheckinHandler) completeCheckIn(c *gin.Context) {
	var req completeCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details, err := h.service.CompleteCheckIn(c.Request.Context(), checkin.CompleteCheckInInput{
		BookingID: c.Param("id"),
		Seat:      req.Seat,
		Claim: domain.IdentityClaim{
			Firstname:  req.Firstname,
			Lastname:   req.Lastname,
			Patronymic: req.Patronymic,
			Birthdate:  req.Birthdate,
			Series:     req.Series,
		},
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toDetailsResponse(details))
}

func (h *CheckinHandler) seatMap(c *gin.Context) {
	occupied, err := h.service.SeatMap(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	// Reported as availability: true means the seat is free.
	seats := make([]bool, len(occupied))
	for i, taken := range occupied {
		seats[i] = !taken
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}

func (h *CheckinHandler) download(c *gin.Context) {
	id := c.Param("id")
	content, err := h.passes.Fetch(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", content)
}

func toDetailsResponse(d *domain.CheckinDetails) checkinDetailsResponse {
	resp := checkinDetailsResponse{
		bookingResponse: toBookingResponse(&d.Booking),
		Passenger: passengerResponse{
			ID:         d.Passenger.ID,
			Username:   d.Passenger.Username,
			Firstname:  d.Passenger.Firstname,
			Lastname:   d.Passenger.Lastname,
			Patronymic: d.Passenger.Patronymic,
			Birthdate:  d.Passenger.Birthdate,
			Series:     d.Passenger.Series,
		},
	}
	if d.Flight != nil {
		resp.Flight = &flightResponse{
			ID:            d.Flight.ID,
			Origin:        d.Flight.Origin,
			Destination:   d.Flight.Destination,
			DepartureTime: d.Flight.DepartureTime.Format(time.RFC3339),
			ArrivalTime:   d.Flight.ArrivalTime.Format(time.RFC3339),
		}
	}
	return resp
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:           b.ID,
		PassengerID:  b.PassengerID,
		FlightID:     b.FlightID,
		IsRegistered: b.IsRegistered,
		Seat:         b.Seat,
		State:        string(b.State()),
	}
}
