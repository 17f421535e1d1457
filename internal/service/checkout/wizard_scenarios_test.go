package checkout_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"corporate-checkout/internal/apperr"
	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/logx"
	"corporate-checkout/internal/metrics"
	"corporate-checkout/internal/service/checkout"
	"corporate-checkout/internal/service/policy"
	"corporate-checkout/internal/service/proof"
	"corporate-checkout/internal/service/route"
)

type wallClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *wallClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *wallClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func ref[T any](v T) *T { return &v }

var _ = Describe("Corporate checkout wizard", func() {
	var (
		clock   *wallClock
		reg     *checkout.Registry
		session *checkout.Session
	)

	BeforeEach(func() {
		clock = &wallClock{t: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)}
		engine := checkout.NewEngine(catalog.Default(), checkout.Config{
			PolicyVersion:   "checkout-policy/v1",
			Policy:          policy.Thresholds{Approval: 200000, HighValue: 1000000},
			Proof:           proof.Thresholds{Signature: 500000, HighValue: 1000000},
			Route:           route.Config{MaxDistanceKm: 300, OpenHour: 6, CloseHour: 23},
			SubmissionDelay: 5 * time.Millisecond,
			ProvisionDelay:  5 * time.Millisecond,
		}).WithClock(clock.Now)
		reg = checkout.NewRegistry(engine, logx.Nop(), metrics.NewCheckout())
		session = reg.Create("")
	})

	fillDetails := func() {
		_, err := session.Apply(domain.PartialDeliveryUpdate{
			Pickup:     ref("Warehouse 4"),
			Dropoff:    ref("Legal dept, Tower B"),
			DistanceKm: ref(12.5),
			WeightKg:   ref(1.5),
		})
		Expect(err).NotTo(HaveOccurred())
	}

	fillAllocation := func() {
		_, err := session.Apply(domain.PartialDeliveryUpdate{
			CostCenter: ref("CC-LEGAL"),
			ProjectTag: ref("M&A-2026"),
			Purpose:    ref("signed contracts"),
			Notes:      ref("requested by legal"),
		})
		Expect(err).NotTo(HaveOccurred())
	}

	enableRequired := func() {
		for _, p := range session.Snapshot().RequiredProof {
			_, err := session.SetProof(p, true)
			Expect(err).NotTo(HaveOccurred())
		}
	}

	Context("walking the steps in order", func() {
		It("turns each step ready as its fields are filled and places an order", func() {
			snap := session.Snapshot()
			Expect(snap.Readiness.DeliveryDetails).To(BeFalse())
			Expect(snap.Readiness.Allocation).To(BeFalse())

			fillDetails()
			snap = session.Next()
			Expect(snap.Step).To(Equal(domain.StepVendorService))
			Expect(snap.Readiness.DeliveryDetails).To(BeTrue())
			Expect(snap.Readiness.VendorService).To(BeTrue())

			fillAllocation()
			snap = session.Next()
			Expect(snap.Step).To(Equal(domain.StepAllocation))
			Expect(snap.Readiness.Allocation).To(BeTrue())

			snap = session.Next()
			Expect(snap.Step).To(Equal(domain.StepProof))
			Expect(snap.Readiness.Proof).To(BeFalse())
			enableRequired()

			snap = session.Next()
			Expect(snap.Step).To(Equal(domain.StepReview))
			Expect(snap.Readiness.SubmitEligible).To(BeTrue())
			Expect(snap.Decision.Outcome).To(Equal(domain.OutcomeAllowed))
			Expect(snap.Decision.Audit.Path).To(HaveLen(6))

			res, err := session.Submit(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Kind).To(Equal(domain.ResultOrder))
			Expect(res.ID).NotTo(BeEmpty())
		})
	})

	Context("with a required proof item enabled", func() {
		BeforeEach(func() {
			fillDetails()
			fillAllocation()
			_, err := session.Apply(domain.PartialDeliveryUpdate{DeclaredValue: ref(int64(600000))})
			Expect(err).NotTo(HaveOccurred())
			enableRequired()
		})

		It("refuses to disable it and keeps the proof map unchanged", func() {
			before := session.Snapshot()
			Expect(before.RequiredProof).To(ContainElement(domain.ProofRecipientSignature))

			_, err := session.SetProof(domain.ProofRecipientSignature, false)
			Expect(err).To(MatchError(checkout.ErrProofRequired))
			Expect(err).To(MatchError(apperr.ErrRejected))

			after := session.Snapshot()
			Expect(after.Request.Proof).To(Equal(before.Request.Proof))
			Expect(after.Request.Proof.Missing(after.RequiredProof)).To(BeEmpty())
		})

		It("allows disabling once the requirement no longer applies", func() {
			_, err := session.Apply(domain.PartialDeliveryUpdate{DeclaredValue: ref(int64(1000))})
			Expect(err).NotTo(HaveOccurred())

			snap, err := session.SetProof(domain.ProofRecipientSignature, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Request.Proof[domain.ProofRecipientSignature]).To(BeFalse())
		})
	})

	Context("corporate request above the approval threshold", func() {
		It("requires approval with an AMOUNT warning and submits an approval request", func() {
			fillDetails()
			fillAllocation()
			_, err := session.Apply(domain.PartialDeliveryUpdate{
				DeclaredValue: ref(int64(2000000)),
				DistanceKm:    ref(180.0),
			})
			Expect(err).NotTo(HaveOccurred())
			enableRequired()

			snap, err := session.GoTo(domain.StepReview)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Decision.Outcome).To(Equal(domain.OutcomeApprovalRequired))
			Expect(snap.Decision.HasSeverity(domain.SeverityCritical)).To(BeFalse())

			var codes []domain.ReasonCode
			for _, r := range snap.Decision.ReasonsBySeverity()[domain.SeverityWarning] {
				codes = append(codes, r.Code)
			}
			Expect(codes).To(ContainElement(domain.CodeAmount))

			res, err := session.Submit(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Kind).To(Equal(domain.ResultApprovalRequest))
		})
	})

	Context("billing delinquency with an active grace window", func() {
		BeforeEach(func() {
			fillDetails()
			fillAllocation()
			enableRequired()
			_, err := session.Apply(domain.PartialDeliveryUpdate{
				ProgramStatus:  ref(domain.ProgramBillingDelinquency),
				GraceEnabled:   ref(true),
				GraceExpiresAt: ref(clock.Now().Add(4 * time.Hour)),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("warns and keeps corporate pay usable", func() {
			snap := session.Snapshot()
			Expect(snap.GraceActive).To(BeTrue())
			Expect(snap.Availability).NotTo(Equal(domain.AvailabilityNotAvailable))

			var program []domain.PolicyReason
			for _, r := range snap.Decision.Reasons {
				if r.Code == domain.CodeProgram {
					program = append(program, r)
				}
			}
			Expect(program).To(HaveLen(1))
			Expect(program[0].Severity).To(Equal(domain.SeverityWarning))
		})

		It("becomes unavailable exactly when the window closes", func() {
			clock.Advance(4*time.Hour - time.Second)
			Expect(session.Snapshot().Availability).NotTo(Equal(domain.AvailabilityNotAvailable))

			clock.Advance(time.Second)
			snap := session.Snapshot()
			Expect(snap.Availability).To(Equal(domain.AvailabilityNotAvailable))
			Expect(snap.Decision.Outcome).To(Equal(domain.OutcomeBlocked))

			_, err := session.GoTo(domain.StepReview)
			Expect(err).NotTo(HaveOccurred())
			_, err = session.Submit(context.Background())
			Expect(err).To(MatchError(checkout.ErrSubmitBlocked))
		})
	})

	Context("a blocked vendor", func() {
		It("stays blocked whatever else is filled", func() {
			fillDetails()
			fillAllocation()
			_, err := session.Apply(domain.PartialDeliveryUpdate{
				VendorID: ref("shadowfleet"),
				Payment:  ref(domain.PaymentCash),
			})
			Expect(err).NotTo(HaveOccurred())
			enableRequired()

			snap := session.Snapshot()
			Expect(snap.Decision.Outcome).To(Equal(domain.OutcomeBlocked))
			Expect(snap.Readiness.VendorService).To(BeFalse())
			Expect(snap.Readiness.SubmitEligible).To(BeFalse())
		})
	})
})
