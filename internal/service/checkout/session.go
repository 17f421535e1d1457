package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"corporate-checkout/internal/apperr"
	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/logx"
	"corporate-checkout/internal/metrics"
	"corporate-checkout/internal/service/task"
)

// Session is one checkout wizard editing a single DeliveryRequest.
// Every read recomputes derived state from the request.
type Session struct {
	id      string
	engine  *Engine
	logger  logx.Logger
	metrics *metrics.Checkout
	newID   func() string

	mu     sync.Mutex
	req    domain.DeliveryRequest
	step   domain.WizardStep
	result *domain.SubmissionResult
	// epoch changes on Reset so a task finishing late cannot publish
	epoch uint64
	// set under mu from claim until the outcome is stored; the runners
	// release their own flags before the waiter gets mu back
	submitting   bool
	provisioning bool

	submission task.Runner
	provision  task.Runner
}

// NewSession starts a checkout on the given vendor (default vendor when empty).
func NewSession(id, vendorID string, engine *Engine, logger logx.Logger, m *metrics.Checkout, newID func() string) *Session {
	if strings.TrimSpace(vendorID) == "" {
		vendorID = catalog.DefaultVendorID
	}
	return &Session{
		id:      id,
		engine:  engine,
		logger:  logger.With(logx.String("session_id", id)),
		metrics: m,
		newID:   newID,
		req:     domain.NewDeliveryRequest(vendorID),
		step:    domain.StepDeliveryDetails,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting || s.provisioning
}

// Snapshot recomputes and returns the read model.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// evaluatedLocked is snapshotLocked for operations that change the
// decision inputs; only those count as policy evaluations.
func (s *Session) evaluatedLocked() domain.Snapshot {
	snap := s.snapshotLocked()
	s.metrics.ObserveOutcome(string(snap.Decision.Outcome))
	return snap
}

func (s *Session) snapshotLocked() domain.Snapshot {
	req := s.req.Clone()
	d := s.engine.Derive(req)

	var result *domain.SubmissionResult
	if s.result != nil {
		r := *s.result
		result = &r
	}
	return domain.Snapshot{
		SessionID:     s.id,
		Request:       req,
		Vendor:        d.Vendor,
		Estimate:      d.Estimate,
		RequiredProof: d.RequiredProof,
		Decision:      d.Decision,
		Availability:  d.Availability,
		GraceActive:   d.GraceActive,
		Readiness:     d.Readiness,
		Step:          s.step,
		Submitting:    s.submitting,
		Provisioning:  s.provisioning,
		Result:        result,
	}
}

// Apply edits the request. Nil fields stay unchanged; negative amounts clamp to zero.
func (s *Session) Apply(u domain.PartialDeliveryUpdate) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return domain.Snapshot{}, s.reject("apply", err)
	}
	if err := validateUpdate(u); err != nil {
		return domain.Snapshot{}, s.reject("apply", err)
	}
	s.req = applyUpdate(s.req.Clone(), u)
	return s.evaluatedLocked(), nil
}

// SetProof enables or disables a proof item. Disabling a required item is refused.
func (s *Session) SetProof(p domain.ProofType, enabled bool) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !p.Valid() {
		return domain.Snapshot{}, s.reject("set_proof", fmt.Errorf("%w: unknown proof type %q", apperr.ErrInvalid, p))
	}
	if err := s.editableLocked(); err != nil {
		return domain.Snapshot{}, s.reject("set_proof", err)
	}
	if !enabled && s.engine.Derive(s.req).RequiredProof.Has(p) {
		return domain.Snapshot{}, s.reject("set_proof", fmt.Errorf("%w: %s", ErrProofRequired, p.Label()))
	}
	req := s.req.Clone()
	req.Proof[p] = enabled
	s.req = req
	return s.evaluatedLocked(), nil
}

// GoTo jumps to any wizard step.
func (s *Session) GoTo(step domain.WizardStep) (domain.Snapshot, error) {
	if !step.Valid() {
		return domain.Snapshot{}, s.reject("goto", fmt.Errorf("%w: unknown step %q", apperr.ErrInvalid, step))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
	return s.snapshotLocked(), nil
}

// Next moves one step forward, staying on review.
func (s *Session) Next() domain.Snapshot { return s.move(1) }

// Back moves one step back, staying on the first step.
func (s *Session) Back() domain.Snapshot { return s.move(-1) }

func (s *Session) move(delta int) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	steps := domain.WizardSteps()
	i := s.step.Index() + delta
	i = max(0, min(i, len(steps)-1))
	s.step = steps[i]
	return s.snapshotLocked()
}

// Submit places the order or approval request after the simulated delay.
// The pipeline is re-run against current values before dispatch.
func (s *Session) Submit(ctx context.Context) (domain.SubmissionResult, error) {
	s.mu.Lock()
	if err := s.submitGuardLocked(); err != nil {
		s.mu.Unlock()
		return domain.SubmissionResult{}, s.reject("submit", err)
	}
	d := s.engine.Derive(s.req)
	s.metrics.ObserveOutcome(string(d.Decision.Outcome))
	switch {
	case d.Decision.Outcome == domain.OutcomeBlocked:
		s.mu.Unlock()
		return domain.SubmissionResult{}, s.reject("submit", ErrSubmitBlocked)
	case !d.Readiness.SubmitEligible:
		s.mu.Unlock()
		return domain.SubmissionResult{}, s.reject("submit", ErrNotSubmitEligible)
	}
	kind := domain.ResultOrder
	if s.req.Payment.IsCorporate() && d.Decision.Outcome == domain.OutcomeApprovalRequired {
		kind = domain.ResultApprovalRequest
	}
	done, err := s.submission.Start(ctx, s.engine.cfg.SubmissionDelay)
	if errors.Is(err, task.ErrBusy) {
		s.mu.Unlock()
		return domain.SubmissionResult{}, s.reject("submit", ErrSubmissionInFlight)
	}
	s.submitting = true
	epoch := s.epoch
	s.mu.Unlock()

	s.logger.Info("submission started",
		logx.String("event", "submission_started"),
		logx.String("outcome", string(d.Decision.Outcome)),
		logx.String("correlation_id", d.Decision.Audit.Meta.CorrelationID),
	)
	err = <-done

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// Reset already cleared the flag and may have let a new submission in
		s.logger.Warn("submission canceled", logx.String("event", "submission_canceled"), logx.String("reason", "reset"))
		s.metrics.ObserveSubmission("canceled")
		return domain.SubmissionResult{}, ErrCanceled
	}
	s.submitting = false
	if err != nil {
		s.logger.Warn("submission canceled", logx.String("event", "submission_canceled"), logx.Err(err))
		s.metrics.ObserveSubmission("canceled")
		return domain.SubmissionResult{}, ErrCanceled
	}

	result := domain.SubmissionResult{Kind: kind, ID: s.newID(), CreatedAt: s.engine.Now()}
	s.result = &result
	s.metrics.ObserveSubmission(string(kind))
	s.logger.Info("submission completed",
		logx.String("event", "submission_completed"),
		logx.String("result_kind", string(kind)),
		logx.String("result_id", result.ID),
	)
	return result, nil
}

func (s *Session) submitGuardLocked() error {
	switch {
	case s.result != nil:
		return ErrAlreadySubmitted
	case s.submitting:
		return ErrSubmissionInFlight
	case s.step != domain.StepReview:
		return ErrNotOnReview
	}
	return nil
}

// Reset cancels running tasks and clears the terminal result. A submitted
// request is discarded and the wizard starts over.
func (s *Session) Reset() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	canceled := s.submission.Cancel()
	canceled = s.provision.Cancel() || canceled
	s.epoch++
	s.submitting = false
	s.provisioning = false
	if s.result != nil {
		s.req = domain.NewDeliveryRequest(s.req.VendorID)
		s.step = domain.StepDeliveryDetails
		s.result = nil
	}
	s.logger.Info("checkout reset", logx.String("event", "checkout_reset"), logx.Bool("canceled_task", canceled))
	return s.evaluatedLocked()
}

// ProvisionProgram links the corporate program after the simulated delay.
func (s *Session) ProvisionProgram(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return domain.Snapshot{}, s.reject("provision", err)
	}
	if s.provisioning {
		s.mu.Unlock()
		return domain.Snapshot{}, s.reject("provision", ErrProvisioningInFlight)
	}
	if !s.req.Payment.IsCorporate() || s.req.ProgramStatus != domain.ProgramNotLinked {
		s.mu.Unlock()
		return domain.Snapshot{}, s.reject("provision", ErrProvisionNotAllowed)
	}
	done, err := s.provision.Start(ctx, s.engine.cfg.ProvisionDelay)
	if errors.Is(err, task.ErrBusy) {
		s.mu.Unlock()
		return domain.Snapshot{}, s.reject("provision", ErrProvisioningInFlight)
	}
	s.provisioning = true
	epoch := s.epoch
	s.mu.Unlock()

	s.logger.Info("provisioning started", logx.String("event", "provision_started"))
	err = <-done

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.logger.Warn("provisioning canceled", logx.String("event", "provision_canceled"), logx.String("reason", "reset"))
		return domain.Snapshot{}, ErrCanceled
	}
	s.provisioning = false
	if err != nil {
		s.logger.Warn("provisioning canceled", logx.String("event", "provision_canceled"), logx.Err(err))
		return domain.Snapshot{}, ErrCanceled
	}
	// the user may have switched away from corporate payment meanwhile
	if s.req.ProgramStatus == domain.ProgramNotLinked {
		req := s.req.Clone()
		req.ProgramStatus = domain.ProgramEligible
		s.req = req
	}
	s.logger.Info("program provisioned", logx.String("event", "program_provisioned"))
	return s.evaluatedLocked(), nil
}

func (s *Session) editableLocked() error {
	switch {
	case s.result != nil:
		return ErrAlreadySubmitted
	case s.submitting:
		return ErrSubmissionInFlight
	}
	return nil
}

func (s *Session) reject(op string, err error) error {
	s.metrics.ObserveRejected(op)
	s.logger.Warn("checkout edit rejected",
		logx.String("event", "edit_rejected"),
		logx.String("op", op),
		logx.Err(err),
	)
	return err
}

func validateUpdate(u domain.PartialDeliveryUpdate) error {
	for name, v := range map[string]*float64{"distance_km": u.DistanceKm, "weight_kg": u.WeightKg} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: %s must be a finite number", apperr.ErrInvalid, name)
		}
	}
	switch {
	case u.Category != nil && !u.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", apperr.ErrInvalid, *u.Category)
	case u.Schedule != nil && !u.Schedule.Valid():
		return fmt.Errorf("%w: unknown schedule mode %q", apperr.ErrInvalid, *u.Schedule)
	case u.Speed != nil && !u.Speed.Valid():
		return fmt.Errorf("%w: unknown speed tier %q", apperr.ErrInvalid, *u.Speed)
	case u.Vehicle != nil && !u.Vehicle.Valid():
		return fmt.Errorf("%w: unknown vehicle class %q", apperr.ErrInvalid, *u.Vehicle)
	case u.Payment != nil && !u.Payment.Valid():
		return fmt.Errorf("%w: unknown payment method %q", apperr.ErrInvalid, *u.Payment)
	case u.ProgramStatus != nil && !u.ProgramStatus.Valid():
		return fmt.Errorf("%w: unknown program status %q", apperr.ErrInvalid, *u.ProgramStatus)
	}
	return nil
}

func applyUpdate(r domain.DeliveryRequest, u domain.PartialDeliveryUpdate) domain.DeliveryRequest {
	setIf(&r.Pickup, u.Pickup)
	setIf(&r.Dropoff, u.Dropoff)
	if u.DistanceKm != nil {
		r.DistanceKm = max(0, *u.DistanceKm)
	}
	if u.WeightKg != nil {
		r.WeightKg = max(0, *u.WeightKg)
	}
	if u.DeclaredValue != nil {
		r.DeclaredValue = max(0, *u.DeclaredValue)
	}
	setIf(&r.Category, u.Category)
	setIf(&r.Fragile, u.Fragile)
	setIf(&r.Insurance, u.Insurance)
	setIf(&r.Schedule, u.Schedule)
	setIf(&r.ScheduledAt, u.ScheduledAt)
	setIf(&r.Speed, u.Speed)
	setIf(&r.Vehicle, u.Vehicle)
	if u.VendorID != nil {
		r.VendorID = strings.TrimSpace(*u.VendorID)
	}
	setIf(&r.Payment, u.Payment)
	setIf(&r.ProgramStatus, u.ProgramStatus)
	setIf(&r.GraceEnabled, u.GraceEnabled)
	setIf(&r.GraceExpiresAt, u.GraceExpiresAt)
	setIf(&r.Allocation.CostCenter, u.CostCenter)
	setIf(&r.Allocation.ProjectTag, u.ProjectTag)
	setIf(&r.Allocation.Purpose, u.Purpose)
	setIf(&r.Notes, u.Notes)
	return r
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func nonBlank(s string) bool { return strings.TrimSpace(s) != "" }
