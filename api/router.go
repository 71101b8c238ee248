package api

import "github.com/gin-gonic/gin"

func NewRouter(checkinHandler *CheckinHandler, passengerHandler *PassengerHandler, flightHandler *FlightHandler) *gin.Engine {
	router := gin.Default()
	checkinHandler.Register(router)
	passengerHandler.Register(router)
	flightHandler.Register(router)
	return router
}
