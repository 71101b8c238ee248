package identity

import (
	"context"
	"errors"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/repository"
)

// Verifier matches a claimed passport identity against the passenger
// registry. All five fields must match a single record exactly; no
// normalization is applied.
type Verifier struct {
	passengers repository.PassengerRepository
}

func NewVerifier(passengers repository.PassengerRepository) *Verifier {
	return &Verifier{passengers: passengers}
}

func (v *Verifier) Verify(ctx context.Context, claim domain.IdentityClaim) (bool, error) {
	_, err := v.passengers.FindByIdentity(ctx, claim)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
