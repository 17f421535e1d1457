// Package checkout hosts the corporate delivery checkout: the derivation
// pipeline and the wizard sessions editing a DeliveryRequest.
package checkout

import (
	"time"

	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/service/policy"
	"corporate-checkout/internal/service/pricing"
	"corporate-checkout/internal/service/program"
	"corporate-checkout/internal/service/proof"
	"corporate-checkout/internal/service/route"
)

// Config holds the engine settings.
type Config struct {
	PolicyVersion   string
	Policy          policy.Thresholds
	Proof           proof.Thresholds
	Route           route.Config
	SubmissionDelay time.Duration
	ProvisionDelay  time.Duration
}

// Derived is every value computed from a request. None of it is stored.
type Derived struct {
	Vendor        *domain.Vendor
	Estimate      domain.CostEstimate
	RequiredProof domain.ProofSet
	Gates         route.Gates
	GraceActive   bool
	Decision      domain.Decision
	Availability  domain.Availability
	Readiness     domain.Readiness
}

// Engine runs the derivation pipeline. It is safe for concurrent use.
type Engine struct {
	catalog   *catalog.Catalog
	evaluator *policy.Evaluator
	cfg       Config
	now       func() time.Time
}

// NewEngine returns an Engine over the vendor catalog.
func NewEngine(cat *catalog.Catalog, cfg Config) *Engine {
	return &Engine{
		catalog:   cat,
		evaluator: policy.NewEvaluator(cfg.PolicyVersion),
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets the clock used by time-dependent gates and audit metadata.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	if now != nil {
		e.now = now
		e.evaluator.WithClock(now)
	}
	return e
}

// Config returns the engine settings.
func (e *Engine) Config() Config { return e.cfg }

// Catalog returns the vendor catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Now returns the engine clock reading.
func (e *Engine) Now() time.Time { return e.now() }

// Derive recomputes everything from the current request only:
// estimate, required proof, route gates, grace, decision, availability, readiness.
func (e *Engine) Derive(r domain.DeliveryRequest) Derived {
	now := e.now()

	var vendor *domain.Vendor
	var defaults domain.ProofSet
	if v, ok := e.catalog.Get(r.VendorID); ok {
		vendor = &v
		defaults = v.DefaultProof
	}

	estimate := pricing.Estimate(pricing.FromRequest(r))
	required := proof.Required(proof.Input{
		Category:      r.Category,
		DeclaredValue: r.DeclaredValue,
		Speed:         r.Speed,
		VendorDefault: defaults,
	}, e.cfg.Proof)
	gates := route.Evaluate(e.cfg.Route, r, now)
	grace := program.GraceActive(r.ProgramStatus, r.GraceEnabled, r.GraceExpiresAt, now)

	decision := e.evaluator.Evaluate(policy.Input{
		Request:       r,
		Vendor:        vendor,
		Estimate:      estimate,
		RequiredProof: required,
		GeoAllowed:    gates.GeoAllowed,
		TimeAllowed:   gates.TimeAllowed,
		GraceActive:   grace,
		Thresholds:    e.cfg.Policy,
	})
	availability := program.Availability(r.Payment, r.ProgramStatus, grace, decision.Outcome)

	return Derived{
		Vendor:        vendor,
		Estimate:      estimate,
		RequiredProof: required,
		Gates:         gates,
		GraceActive:   grace,
		Decision:      decision,
		Availability:  availability,
		Readiness:     Readiness(r, vendor, required, availability, decision.Outcome),
	}
}

// Snapshot derives a read model for r outside of any session.
func (e *Engine) Snapshot(r domain.DeliveryRequest) domain.Snapshot {
	r = r.Clone()
	d := e.Derive(r)
	return domain.Snapshot{
		Request:       r,
		Vendor:        d.Vendor,
		Estimate:      d.Estimate,
		RequiredProof: d.RequiredProof,
		Decision:      d.Decision,
		Availability:  d.Availability,
		GraceActive:   d.GraceActive,
		Readiness:     d.Readiness,
		Step:          domain.StepReview,
	}
}

// Readiness computes the per-step predicates.
func Readiness(
	r domain.DeliveryRequest,
	vendor *domain.Vendor,
	required domain.ProofSet,
	availability domain.Availability,
	outcome domain.Outcome,
) domain.Readiness {
	corporate := r.Payment.IsCorporate()
	rd := domain.Readiness{
		DeliveryDetails: nonBlank(r.Pickup) && nonBlank(r.Dropoff) && r.DistanceKm > 0,
		VendorService:   vendor != nil && vendor.Tier != domain.TrustBlocked,
		Allocation:      !corporate || (nonBlank(r.Allocation.CostCenter) && nonBlank(r.Allocation.Purpose)),
		Proof:           len(r.Proof.Missing(required)) == 0,
	}
	rd.SubmitEligible = rd.DeliveryDetails && rd.VendorService && rd.Allocation && rd.Proof &&
		(!corporate || availability != domain.AvailabilityNotAvailable) &&
		outcome != domain.OutcomeBlocked
	return rd
}
