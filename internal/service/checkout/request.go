package checkout

import (
	"fmt"
	"strings"

	"corporate-checkout/internal/apperr"
	"corporate-checkout/internal/domain"
)

// PrepareRequest checks a complete request with the rules a session applies
// to edits and returns it normalized the same way: negative amounts clamp to
// zero and the vendor id is trimmed. Errors wrap apperr.ErrInvalid.
func PrepareRequest(r domain.DeliveryRequest) (domain.DeliveryRequest, error) {
	u := domain.PartialDeliveryUpdate{
		DistanceKm:    &r.DistanceKm,
		WeightKg:      &r.WeightKg,
		DeclaredValue: &r.DeclaredValue,
		Category:      &r.Category,
		Schedule:      &r.Schedule,
		Speed:         &r.Speed,
		Vehicle:       &r.Vehicle,
		VendorID:      &r.VendorID,
		Payment:       &r.Payment,
		ProgramStatus: &r.ProgramStatus,
	}
	if err := validateUpdate(u); err != nil {
		return domain.DeliveryRequest{}, err
	}
	for p := range r.Proof {
		if !p.Valid() {
			return domain.DeliveryRequest{}, fmt.Errorf("%w: unknown proof type %q", apperr.ErrInvalid, p)
		}
	}
	for _, a := range r.Attachments {
		switch {
		case strings.TrimSpace(a.Name) == "":
			return domain.DeliveryRequest{}, fmt.Errorf("%w: attachment name is required", apperr.ErrInvalid)
		case a.SizeBytes < 0:
			return domain.DeliveryRequest{}, fmt.Errorf("%w: attachment size must not be negative", apperr.ErrInvalid)
		case !a.Kind.Valid():
			return domain.DeliveryRequest{}, fmt.Errorf("%w: unknown attachment kind %q", apperr.ErrInvalid, a.Kind)
		}
	}

	return applyUpdate(r.Clone(), u), nil
}
