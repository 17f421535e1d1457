package domain

import "fmt"

// CostEstimate is the itemized price of a delivery in currency minor units.
type CostEstimate struct {
	Base         int64   `json:"base"`
	DistanceFee  int64   `json:"distance_fee"`
	WeightFee    int64   `json:"weight_fee"`
	Multiplier   float64 `json:"multiplier"`
	Subtotal     int64   `json:"subtotal"`
	InsuranceFee int64   `json:"insurance_fee"`
	Total        int64   `json:"total"`
}

// FormatMinor renders minor units as a decimal amount, e.g. 19300 -> "193.00".
func FormatMinor(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
