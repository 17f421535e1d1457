package domain

import "time"

// WizardStep is one step of the checkout wizard.
type WizardStep string

// List of wizard steps in order
const (
	StepDeliveryDetails WizardStep = "delivery_details"
	StepVendorService   WizardStep = "vendor_service"
	StepAllocation      WizardStep = "allocation"
	StepProof           WizardStep = "proof"
	StepReview          WizardStep = "review"
)

var wizardSteps = [...]WizardStep{
	StepDeliveryDetails, StepVendorService, StepAllocation, StepProof, StepReview,
}

// Valid checks if the WizardStep is known
func (s WizardStep) Valid() bool { return indexOf(s, wizardSteps[:]) >= 0 }

// Index is the position of the step in the wizard, -1 if unknown.
func (s WizardStep) Index() int { return indexOf(s, wizardSteps[:]) }

// WizardSteps returns the steps in order.
func WizardSteps() []WizardStep { return append([]WizardStep(nil), wizardSteps[:]...) }

// Readiness holds the per-step readiness predicates.
type Readiness struct {
	DeliveryDetails bool `json:"delivery_details"`
	VendorService   bool `json:"vendor_service"`
	Allocation      bool `json:"allocation"`
	Proof           bool `json:"proof"`
	SubmitEligible  bool `json:"submit_eligible"`
}

// Ready returns the predicate for a step. Review is ready when submission is eligible.
func (r Readiness) Ready(step WizardStep) bool {
	switch step {
	case StepDeliveryDetails:
		return r.DeliveryDetails
	case StepVendorService:
		return r.VendorService
	case StepAllocation:
		return r.Allocation
	case StepProof:
		return r.Proof
	case StepReview:
		return r.SubmitEligible
	default:
		return false
	}
}

// ResultKind is the kind of terminal submission result.
type ResultKind string

// List of result kinds
const (
	ResultOrder           ResultKind = "order"
	ResultApprovalRequest ResultKind = "approval_request"
)

// SubmissionResult is the terminal result of a checkout.
type SubmissionResult struct {
	Kind      ResultKind `json:"kind"`
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
}

// Snapshot is the read model handed to render and export collaborators.
type Snapshot struct {
	SessionID     string            `json:"session_id"`
	Request       DeliveryRequest   `json:"request"`
	Vendor        *Vendor           `json:"vendor,omitempty"`
	Estimate      CostEstimate      `json:"estimate"`
	RequiredProof ProofSet          `json:"required_proof"`
	Decision      Decision          `json:"decision"`
	Availability  Availability      `json:"availability"`
	GraceActive   bool              `json:"grace_active"`
	Readiness     Readiness         `json:"readiness"`
	Step          WizardStep        `json:"step"`
	Submitting    bool              `json:"submitting"`
	Provisioning  bool              `json:"provisioning"`
	Result        *SubmissionResult `json:"result,omitempty"`
}
