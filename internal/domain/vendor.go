package domain

// Vendor is an immutable catalog entry.
type Vendor struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Tier         TrustTier      `json:"tier"`
	Speeds       []SpeedTier    `json:"speeds"`
	Vehicles     []VehicleClass `json:"vehicles"`
	DefaultProof ProofSet       `json:"default_proof"`
}

// Supports reports whether the vendor offers the speed/vehicle combination.
func (v Vendor) Supports(speed SpeedTier, vehicle VehicleClass) bool {
	return indexOf(speed, v.Speeds) >= 0 && indexOf(vehicle, v.Vehicles) >= 0
}
