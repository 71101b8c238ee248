package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/gin-gonic/gin"
)

type IdentityVerifier interface {
	Verify(ctx context.Context, claim domain.IdentityClaim) (bool, error)
}

type PassengerHandler struct {
	passengers repository.PassengerRepository
	verifier   IdentityVerifier
}

func NewPassengerHandler(passengers repository.PassengerRepository, verifier IdentityVerifier) *PassengerHandler {
	return &PassengerHandler{passengers: passengers, verifier: verifier}
}

func (h *PassengerHandler) Register(router *gin.Engine) {
	router.GET("/api/passengers/:id", h.get)
	router.POST("/api/passengers/validate", h.validate)
}

func (h *PassengerHandler) get(c *gin.Context) {
	passenger, err := h.passengers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, passengerResponse{
		ID:         passenger.ID,
		Username:   passenger.Username,
		Firstname:  passenger.Firstname,
		Lastname:   passenger.Lastname,
		Patronymic: passenger.Patronymic,
		Birthdate:  passenger.Birthdate,
		Series:     passenger.Series,
	})
}

func (h *PassengerHandler) validate(c *gin.Context) {
	var claim domain.IdentityClaim
	if err := c.ShouldBindJSON(&claim); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.verifier.Verify(c.Request.Context(), claim)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": ok})
}
