package domain

import "time"

type (
	// Severity grades a policy reason.
	Severity string
	// ReasonCode is the short taxonomy code of a policy reason.
	ReasonCode string
	// Outcome is the ternary authorization decision.
	Outcome string
	// Availability is the corporate program availability tri-state.
	Availability string
)

// List of severities
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// List of reason codes
const (
	CodeFields  ReasonCode = "FIELDS"
	CodeGeo     ReasonCode = "GEO"
	CodeTime    ReasonCode = "TIME"
	CodeVendor  ReasonCode = "VENDOR"
	CodeService ReasonCode = "SERVICE"
	CodeProof   ReasonCode = "PROOF"
	CodeProgram ReasonCode = "PROGRAM"
	CodeAlloc   ReasonCode = "ALLOC"
	CodeAmount  ReasonCode = "AMOUNT"
	CodeValue   ReasonCode = "VALUE"
	CodeNote    ReasonCode = "NOTE"
	CodePayment ReasonCode = "PAYMENT"
	CodeOK      ReasonCode = "OK"
)

// List of outcomes
const (
	OutcomeAllowed          Outcome = "allowed"
	OutcomeApprovalRequired Outcome = "approval_required"
	OutcomeBlocked          Outcome = "blocked"
)

// List of availability states
const (
	AvailabilityAvailable        Availability = "available"
	AvailabilityRequiresApproval Availability = "requires_approval"
	AvailabilityNotAvailable     Availability = "not_available"
)

// Banner is the outcome text shown to the user.
func (o Outcome) Banner() string {
	switch o {
	case OutcomeAllowed:
		return "Allowed"
	case OutcomeApprovalRequired:
		return "Approval required"
	case OutcomeBlocked:
		return "Blocked"
	default:
		return string(o)
	}
}

// PolicyReason is a single typed finding.
type PolicyReason struct {
	ID       string     `json:"id"`
	Severity Severity   `json:"severity"`
	Code     ReasonCode `json:"code"`
	Title    string     `json:"title"`
	Detail   string     `json:"detail"`
}

// TriggerSnapshot is the set of field values the decision was made on.
type TriggerSnapshot struct {
	VendorID      string          `json:"vendor_id"`
	VendorName    string          `json:"vendor_name"`
	Category      PackageCategory `json:"category"`
	Speed         SpeedTier       `json:"speed"`
	Vehicle       VehicleClass    `json:"vehicle"`
	EstimateTotal int64           `json:"estimate_total"`
	Payment       PaymentMethod   `json:"payment"`
	ProgramStatus ProgramStatus   `json:"program_status"`
}

// PolicyStep is one named stage of the policy path with its verdict.
type PolicyStep struct {
	Name    string `json:"name"`
	Verdict string `json:"verdict"`
}

// AuditMeta is display-only metadata; nothing branches on it.
type AuditMeta struct {
	CorrelationID string    `json:"correlation_id"`
	PolicyVersion string    `json:"policy_version"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}

// AuditExplanation backs the "why" surface.
type AuditExplanation struct {
	Summary string          `json:"summary"`
	Trigger TriggerSnapshot `json:"trigger"`
	Path    []PolicyStep    `json:"path"`
	Meta    AuditMeta       `json:"meta"`
}

// Decision is the policy outcome with its full reason list.
type Decision struct {
	Outcome Outcome          `json:"outcome"`
	Reasons []PolicyReason   `json:"reasons"`
	Audit   AuditExplanation `json:"audit"`
}

// HasSeverity reports whether any reason has the given severity.
func (d Decision) HasSeverity(s Severity) bool {
	for _, r := range d.Reasons {
		if r.Severity == s {
			return true
		}
	}
	return false
}

// ReasonsBySeverity groups reasons for presentation, keeping their order.
func (d Decision) ReasonsBySeverity() map[Severity][]PolicyReason {
	out := make(map[Severity][]PolicyReason, 3)
	for _, r := range d.Reasons {
		out[r.Severity] = append(out[r.Severity], r)
	}
	return out
}
