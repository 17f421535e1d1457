// Package pricing estimates delivery cost from the physical attributes of a request.
package pricing

import (
	"math"

	"corporate-checkout/internal/domain"
)

// Rates in currency minor units.
const (
	BaseFee       int64 = 8000
	DistanceRate        = 1200.0 // per km
	WeightRate          = 250.0  // per kg
	InsuranceRate       = 0.01   // of declared value
)

// Input is the subset of a request the estimate depends on.
type Input struct {
	DistanceKm    float64
	WeightKg      float64
	DeclaredValue int64
	Speed         domain.SpeedTier
	Vehicle       domain.VehicleClass
	Insurance     bool
}

// FromRequest extracts the estimator input from a request.
func FromRequest(r domain.DeliveryRequest) Input {
	return Input{
		DistanceKm:    r.DistanceKm,
		WeightKg:      r.WeightKg,
		DeclaredValue: r.DeclaredValue,
		Speed:         r.Speed,
		Vehicle:       r.Vehicle,
		Insurance:     r.Insurance,
	}
}

// SpeedMultiplier grows with urgency. Unknown tiers price as standard.
func SpeedMultiplier(s domain.SpeedTier) float64 {
	switch s {
	case domain.SpeedExpress:
		return 1.35
	case domain.SpeedSameDay:
		return 1.75
	default:
		return 1.0
	}
}

// VehicleMultiplier grows with capacity. Unknown classes price as bike.
func VehicleMultiplier(v domain.VehicleClass) float64 {
	switch v {
	case domain.VehicleCar:
		return 1.25
	case domain.VehicleVan:
		return 1.6
	default:
		return 1.0
	}
}

// Estimate computes the itemized cost. Negative inputs count as zero.
func Estimate(in Input) domain.CostEstimate {
	distance := math.Max(in.DistanceKm, 0)
	weight := math.Max(in.WeightKg, 0)
	declared := max(in.DeclaredValue, 0)

	est := domain.CostEstimate{
		Base:        BaseFee,
		DistanceFee: round(distance * DistanceRate),
		WeightFee:   round(weight * WeightRate),
		Multiplier:  SpeedMultiplier(in.Speed) * VehicleMultiplier(in.Vehicle),
	}
	est.Subtotal = round(float64(est.Base+est.DistanceFee+est.WeightFee) * est.Multiplier)
	if in.Insurance {
		est.InsuranceFee = round(float64(declared) * InsuranceRate)
	}
	est.Total = est.Subtotal + est.InsuranceFee
	return est
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
