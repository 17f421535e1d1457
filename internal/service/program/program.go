// Package program resolves corporate payment program availability.
package program

import (
	"time"

	"corporate-checkout/internal/domain"
)

// GraceActive reports whether a billing-delinquent program is inside its grace window at now.
// It depends on wall-clock time and must be recomputed on every evaluation.
func GraceActive(status domain.ProgramStatus, graceEnabled bool, expiresAt, now time.Time) bool {
	return status == domain.ProgramBillingDelinquency && graceEnabled && expiresAt.After(now)
}

// Usable reports whether the program status alone permits corporate payment.
func Usable(status domain.ProgramStatus, graceActive bool) bool {
	switch status {
	case domain.ProgramEligible:
		return true
	case domain.ProgramBillingDelinquency:
		return graceActive
	default:
		return false
	}
}

// Availability combines the program state with the policy outcome.
// Program rules are inert for personal payment.
func Availability(
	method domain.PaymentMethod,
	status domain.ProgramStatus,
	graceActive bool,
	outcome domain.Outcome,
) domain.Availability {
	if !method.IsCorporate() {
		return domain.AvailabilityAvailable
	}
	if !Usable(status, graceActive) {
		return domain.AvailabilityNotAvailable
	}
	switch outcome {
	case domain.OutcomeBlocked:
		return domain.AvailabilityNotAvailable
	case domain.OutcomeApprovalRequired:
		return domain.AvailabilityRequiresApproval
	default:
		return domain.AvailabilityAvailable
	}
}
