// Package policy evaluates a checkout against corporate delivery policy.
//
// Evaluation never fails: every problem becomes a PolicyReason and the
// outcome is derived from reason severities alone. Info never blocks. Warning
// requires approval on the corporate path only; personal payment is blocked
// by Critical reasons and otherwise allowed.
package policy

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"corporate-checkout/internal/domain"
)

// Thresholds in currency minor units.
type Thresholds struct {
	Approval  int64
	HighValue int64
}

// Input carries everything a decision depends on. All derived values are
// recomputed by the caller from the current request before each call.
type Input struct {
	Request       domain.DeliveryRequest
	Vendor        *domain.Vendor
	Estimate      domain.CostEstimate
	RequiredProof domain.ProofSet
	GeoAllowed    bool
	TimeAllowed   bool
	GraceActive   bool
	Thresholds    Thresholds
}

// Evaluator builds decisions. Identifiers and timestamps it stamps are for
// display only and never influence the outcome.
type Evaluator struct {
	version string
	newID   func() string
	now     func() time.Time
}

// NewEvaluator returns an Evaluator tagging decisions with the policy version.
func NewEvaluator(version string) *Evaluator {
	return &Evaluator{
		version: version,
		newID:   uuid.NewString,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source of audit metadata.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	if now != nil {
		e.now = now
	}
	return e
}

// Evaluate runs every rule and derives the outcome.
func (e *Evaluator) Evaluate(in Input) domain.Decision {
	rc := &collector{newID: e.newID}
	r := in.Request
	corporate := r.Payment.IsCorporate()

	checkFields(rc, r)
	checkRoute(rc, in.GeoAllowed, in.TimeAllowed)
	checkVendor(rc, in.Vendor, r)
	checkProof(rc, r.Proof, in.RequiredProof)
	if corporate {
		checkProgram(rc, r, in.GraceActive)
		checkAllocation(rc, r.Allocation)
		checkThresholds(rc, in)
	} else {
		rc.add(domain.SeverityInfo, domain.CodePayment, "Personal payment",
			"Corporate policy checks do not apply to "+string(r.Payment)+" payments.")
	}
	if len(rc.reasons) == 0 {
		rc.add(domain.SeverityInfo, domain.CodeOK, "Within policy", "No policy findings for this delivery.")
	}

	outcome := deriveOutcome(corporate, rc.reasons)
	return domain.Decision{
		Outcome: outcome,
		Reasons: rc.reasons,
		Audit: domain.AuditExplanation{
			Summary: summary(outcome, corporate, rc.reasons),
			Trigger: trigger(in),
			Path:    path(in, outcome, rc.reasons),
			Meta: domain.AuditMeta{
				CorrelationID: e.newID(),
				PolicyVersion: e.version,
				EvaluatedAt:   e.now(),
			},
		},
	}
}

// deriveOutcome is order-independent.
func deriveOutcome(corporate bool, reasons []domain.PolicyReason) domain.Outcome {
	var critical, warning bool
	for _, r := range reasons {
		switch r.Severity {
		case domain.SeverityCritical:
			critical = true
		case domain.SeverityWarning:
			warning = true
		}
	}
	switch {
	case critical:
		return domain.OutcomeBlocked
	case corporate && warning:
		return domain.OutcomeApprovalRequired
	default:
		return domain.OutcomeAllowed
	}
}

type collector struct {
	newID   func() string
	reasons []domain.PolicyReason
}

func (c *collector) add(sev domain.Severity, code domain.ReasonCode, title, detail string) {
	c.reasons = append(c.reasons, domain.PolicyReason{
		ID:       c.newID(),
		Severity: sev,
		Code:     code,
		Title:    title,
		Detail:   detail,
	})
}

func checkFields(rc *collector, r domain.DeliveryRequest) {
	if strings.TrimSpace(r.Pickup) == "" {
		rc.add(domain.SeverityCritical, domain.CodeFields, "Pickup missing", "Enter a pickup location.")
	}
	if strings.TrimSpace(r.Dropoff) == "" {
		rc.add(domain.SeverityCritical, domain.CodeFields, "Drop-off missing", "Enter a drop-off location.")
	}
	if r.DistanceKm <= 0 {
		rc.add(domain.SeverityCritical, domain.CodeFields, "Distance missing", "Distance must be greater than zero.")
	}
}

func checkRoute(rc *collector, geo, tm bool) {
	if !geo {
		rc.add(domain.SeverityCritical, domain.CodeGeo, "Outside service area",
			"The route leaves the permitted geofence or touches a restricted zone.")
	}
	if !tm {
		rc.add(domain.SeverityCritical, domain.CodeTime, "Outside dispatch window",
			"The dispatch time is outside operating hours or already in the past.")
	}
}

func checkVendor(rc *collector, v *domain.Vendor, r domain.DeliveryRequest) {
	if v == nil {
		rc.add(domain.SeverityCritical, domain.CodeVendor, "Unknown vendor",
			"Vendor "+quote(r.VendorID)+" is not in the catalog.")
		return
	}
	switch v.Tier {
	case domain.TrustBlocked:
		rc.add(domain.SeverityCritical, domain.CodeVendor, "Vendor blocked",
			v.Name+" is blocked by procurement and cannot be used.")
	case domain.TrustRestricted:
		rc.add(domain.SeverityWarning, domain.CodeVendor, "Vendor restricted",
			v.Name+" is restricted; corporate bookings need approval.")
	}
	if !v.Supports(r.Speed, r.Vehicle) {
		rc.add(domain.SeverityCritical, domain.CodeService, "Service not offered",
			v.Name+" does not offer "+string(r.Speed)+" delivery by "+string(r.Vehicle)+".")
	}
}

func checkProof(rc *collector, enabled domain.ProofMap, required domain.ProofSet) {
	for _, p := range enabled.Missing(required) {
		rc.add(domain.SeverityCritical, domain.CodeProof, p.Label()+" required",
			"Enable "+strings.ToLower(p.Label())+" capture before checkout.")
	}
}

func checkProgram(rc *collector, r domain.DeliveryRequest, graceActive bool) {
	switch r.ProgramStatus {
	case domain.ProgramEligible:
	case domain.ProgramNotLinked:
		rc.add(domain.SeverityCritical, domain.CodeProgram, "Program not linked",
			"Link the corporate program before paying with it.")
	case domain.ProgramNotEligible:
		rc.add(domain.SeverityCritical, domain.CodeProgram, "Program not eligible",
			"This account is not eligible for the corporate program.")
	case domain.ProgramDepositDepleted:
		rc.add(domain.SeverityCritical, domain.CodeProgram, "Deposit depleted",
			"The corporate deposit is exhausted.")
	case domain.ProgramCreditLimitExceeded:
		rc.add(domain.SeverityCritical, domain.CodeProgram, "Credit limit exceeded",
			"The corporate credit limit has been reached.")
	case domain.ProgramBillingDelinquency:
		if graceActive {
			rc.add(domain.SeverityWarning, domain.CodeProgram, "Billing grace period active",
				"Billing is overdue; the program stays usable until "+
					r.GraceExpiresAt.UTC().Format(time.RFC3339)+".")
		} else {
			rc.add(domain.SeverityCritical, domain.CodeProgram, "Billing delinquent",
				"Billing is overdue and no grace period is active.")
		}
	default:
		rc.add(domain.SeverityCritical, domain.CodeProgram, "Unknown program status",
			"Program status "+quote(string(r.ProgramStatus))+" is not recognised.")
	}
}

func checkAllocation(rc *collector, a domain.Allocation) {
	if strings.TrimSpace(a.CostCenter) == "" {
		rc.add(domain.SeverityCritical, domain.CodeAlloc, "Cost center missing",
			"Corporate deliveries must be charged to a cost center.")
	}
	if strings.TrimSpace(a.Purpose) == "" {
		rc.add(domain.SeverityCritical, domain.CodeAlloc, "Purpose missing",
			"State the business purpose of the delivery.")
	}
	if strings.TrimSpace(a.ProjectTag) == "" {
		rc.add(domain.SeverityInfo, domain.CodeAlloc, "No project tag",
			"Adding a project tag helps finance reconcile the charge.")
	}
}

func checkThresholds(rc *collector, in Input) {
	r := in.Request
	over := in.Estimate.Total > in.Thresholds.Approval
	high := r.DeclaredValue >= in.Thresholds.HighValue
	untrusted := in.Vendor == nil || in.Vendor.Tier != domain.TrustAllowed

	if over {
		rc.add(domain.SeverityWarning, domain.CodeAmount, "Over approval threshold",
			"Estimate "+domain.FormatMinor(in.Estimate.Total)+" exceeds the approval threshold of "+
				domain.FormatMinor(in.Thresholds.Approval)+".")
	}
	if high {
		rc.add(domain.SeverityWarning, domain.CodeValue, "High declared value",
			"Declared value "+domain.FormatMinor(r.DeclaredValue)+" is at or above "+
				domain.FormatMinor(in.Thresholds.HighValue)+".")
	}
	if strings.TrimSpace(r.Notes) == "" && (over || untrusted || high) {
		rc.add(domain.SeverityInfo, domain.CodeNote, "Add a note for the approver",
			"A short justification speeds up review.")
	}
}

func quote(s string) string {
	return "\"" + s + "\""
}
