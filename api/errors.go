package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/aircheckin/internal/domain"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSeat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSeatConflict),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrFlightNotAssigned),
		errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrIdentityMismatch):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrGenerationFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
