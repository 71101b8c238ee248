package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/aircheckin/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.Engine) {
	router.GET("/api/flights", h.list)
	router.GET("/api/flights/:id", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]flightResponse, 0, len(list))
	for i := range list {
		f := list[i]
		resp = append(resp, flightResponse{
			ID:            f.ID,
			Origin:        f.Origin,
			Destination:   f.Destination,
			DepartureTime: f.DepartureTime.Format(time.RFC3339),
			ArrivalTime:   f.ArrivalTime.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flightResponse{
		ID:            flight.ID,
		Origin:        flight.Origin,
		Destination:   flight.Destination,
		DepartureTime: flight.DepartureTime.Format(time.RFC3339),
		ArrivalTime:   flight.ArrivalTime.Format(time.RFC3339),
	})
}
