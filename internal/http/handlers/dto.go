package handlers

import "corporate-checkout/internal/domain"

type createCheckoutRequest struct {
	VendorID string `json:"vendor_id"`
}

type proofRequest struct {
	Enabled *bool `json:"enabled"`
}

type stepRequest struct {
	Step domain.WizardStep `json:"step"`
}

type attachmentRequest struct {
	Name      string                `json:"name"`
	SizeBytes int64                 `json:"size_bytes"`
	Kind      domain.AttachmentKind `json:"kind"`
}

// snapshotResponse is the snapshot plus its banner text.
type snapshotResponse struct {
	domain.Snapshot
	Banner string `json:"banner"`
}

type resultResponse struct {
	SessionID string                  `json:"session_id"`
	Result    domain.SubmissionResult `json:"result"`
}

func toSnapshotResponse(s domain.Snapshot) snapshotResponse {
	return snapshotResponse{Snapshot: s, Banner: s.Decision.Outcome.Banner()}
}
