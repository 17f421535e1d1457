package policy

import (
	"fmt"
	"strings"

	"corporate-checkout/internal/domain"
)

// Policy path step names, in display order.
const (
	StepRoute      = "Route control"
	StepVendor     = "Vendor policy"
	StepProof      = "Proof"
	StepAllocation = "Allocation"
	StepThresholds = "Thresholds"
	StepFinal      = "Final decision"
)

func summary(outcome domain.Outcome, corporate bool, reasons []domain.PolicyReason) string {
	crit, warn := count(reasons, domain.SeverityCritical), count(reasons, domain.SeverityWarning)
	switch outcome {
	case domain.OutcomeBlocked:
		return fmt.Sprintf("Blocked: %d critical finding(s) must be resolved before checkout.", crit)
	case domain.OutcomeApprovalRequired:
		return fmt.Sprintf("Approval required: %d warning(s) need approver sign-off under corporate policy.", warn)
	}
	if !corporate {
		return "Allowed: personal payment, corporate policy checks do not apply."
	}
	return "Allowed: delivery is within corporate policy."
}

func trigger(in Input) domain.TriggerSnapshot {
	t := domain.TriggerSnapshot{
		VendorID:      in.Request.VendorID,
		Category:      in.Request.Category,
		Speed:         in.Request.Speed,
		Vehicle:       in.Request.Vehicle,
		EstimateTotal: in.Estimate.Total,
		Payment:       in.Request.Payment,
		ProgramStatus: in.Request.ProgramStatus,
	}
	if in.Vendor != nil {
		t.VendorName = in.Vendor.Name
	}
	return t
}

func path(in Input, outcome domain.Outcome, reasons []domain.PolicyReason) []domain.PolicyStep {
	corporate := in.Request.Payment.IsCorporate()
	steps := []domain.PolicyStep{
		{Name: StepRoute, Verdict: verdict(reasons, "geofence and dispatch window open",
			domain.CodeFields, domain.CodeGeo, domain.CodeTime)},
		{Name: StepVendor, Verdict: verdict(reasons, vendorPass(in.Vendor),
			domain.CodeVendor, domain.CodeService)},
		{Name: StepProof, Verdict: verdict(reasons,
			fmt.Sprintf("all %d required item(s) enabled", len(in.RequiredProof)), domain.CodeProof)},
	}
	if corporate {
		steps = append(steps,
			domain.PolicyStep{Name: StepAllocation, Verdict: verdict(reasons, "cost center and purpose set",
				domain.CodeAlloc, domain.CodeProgram)},
			domain.PolicyStep{Name: StepThresholds, Verdict: verdict(reasons,
				"estimate "+domain.FormatMinor(in.Estimate.Total)+" within "+domain.FormatMinor(in.Thresholds.Approval),
				domain.CodeAmount, domain.CodeValue)},
		)
	} else {
		steps = append(steps,
			domain.PolicyStep{Name: StepAllocation, Verdict: "not applicable for personal payment"},
			domain.PolicyStep{Name: StepThresholds, Verdict: "not applicable for personal payment"},
		)
	}
	return append(steps, domain.PolicyStep{Name: StepFinal, Verdict: outcome.Banner()})
}

// verdict reports the worst finding among codes, or pass when none is above Info.
func verdict(reasons []domain.PolicyReason, pass string, codes ...domain.ReasonCode) string {
	var crit, warn []string
	for _, r := range reasons {
		if !hasCode(codes, r.Code) {
			continue
		}
		switch r.Severity {
		case domain.SeverityCritical:
			crit = append(crit, r.Title)
		case domain.SeverityWarning:
			warn = append(warn, r.Title)
		}
	}
	switch {
	case len(crit) > 0:
		return "fail: " + strings.Join(crit, "; ")
	case len(warn) > 0:
		return "review: " + strings.Join(warn, "; ")
	default:
		return "pass: " + pass
	}
}

func vendorPass(v *domain.Vendor) string {
	if v == nil {
		return "vendor allowed"
	}
	return v.Name + " allowed"
}

func hasCode(codes []domain.ReasonCode, c domain.ReasonCode) bool {
	for _, x := range codes {
		if x == c {
			return true
		}
	}
	return false
}

func count(reasons []domain.PolicyReason, sev domain.Severity) int {
	n := 0
	for _, r := range reasons {
		if r.Severity == sev {
			n++
		}
	}
	return n
}
