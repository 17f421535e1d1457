package handlers

import (
	"context"

	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/service/checkout"
)

type checkoutSession interface {
	ID() string
	Snapshot() domain.Snapshot
	Apply(u domain.PartialDeliveryUpdate) (domain.Snapshot, error)
	SetProof(p domain.ProofType, enabled bool) (domain.Snapshot, error)
	AddAttachment(name string, sizeBytes int64, kind domain.AttachmentKind) (domain.Snapshot, error)
	RemoveAttachment(name string) (domain.Snapshot, error)
	GoTo(step domain.WizardStep) (domain.Snapshot, error)
	Submit(ctx context.Context) (domain.SubmissionResult, error)
	Reset() domain.Snapshot
	ProvisionProgram(ctx context.Context) (domain.Snapshot, error)
}

type checkoutUsecase interface {
	Create(vendorID string) checkoutSession
	Get(id string) (checkoutSession, error)
}

type registryUsecase struct{ reg *checkout.Registry }

func (u registryUsecase) Create(vendorID string) checkoutSession { return u.reg.Create(vendorID) }

func (u registryUsecase) Get(id string) (checkoutSession, error) {
	s, err := u.reg.Get(id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewCheckoutUsecase wires a session Registry into a checkoutUsecase.
func NewCheckoutUsecase(reg *checkout.Registry) checkoutUsecase {
	return registryUsecase{reg: reg}
}

type vendorLister interface {
	List() []domain.Vendor
}

// NewVendorLister wires the Catalog into a vendorLister.
func NewVendorLister(c *catalog.Catalog) vendorLister {
	return c
}
