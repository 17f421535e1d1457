// Package proof derives the evidence a delivery must capture.
package proof

import "corporate-checkout/internal/domain"

// Thresholds in declared-value minor units.
type Thresholds struct {
	Signature int64
	HighValue int64
}

// Input is what the required set depends on.
type Input struct {
	Category      domain.PackageCategory
	DeclaredValue int64
	Speed         domain.SpeedTier
	VendorDefault domain.ProofSet
}

// Required returns the proof set for in. Rules only ever add, so the result
// grows monotonically with every driving input.
func Required(in Input, th Thresholds) domain.ProofSet {
	set := domain.NewProofSet(domain.ProofDropoffPhoto)

	switch in.Category {
	case domain.CategoryMedical:
		set = set.With(domain.ProofRecipientSignature, domain.ProofIDCheck)
	case domain.CategoryElectronics:
		set = set.With(domain.ProofRecipientSignature)
	}
	if in.DeclaredValue >= th.Signature {
		set = set.With(domain.ProofRecipientSignature)
	}
	if in.DeclaredValue >= th.HighValue {
		set = set.With(domain.ProofPickupPhoto)
	}
	if in.Speed == domain.SpeedSameDay {
		set = set.With(domain.ProofPickupPhoto)
	}
	return set.Union(in.VendorDefault)
}
