package checkout

import (
	"fmt"

	"corporate-checkout/internal/apperr"
)

// Guard rejections. Each wraps apperr.ErrRejected and leaves the session unchanged.
var (
	ErrProofRequired        = fmt.Errorf("%w: proof item is currently required", apperr.ErrRejected)
	ErrNotOnReview          = fmt.Errorf("%w: submit is only available on the review step", apperr.ErrRejected)
	ErrSubmitBlocked        = fmt.Errorf("%w: policy outcome is blocked", apperr.ErrRejected)
	ErrNotSubmitEligible    = fmt.Errorf("%w: checkout is not ready for submission", apperr.ErrRejected)
	ErrSubmissionInFlight   = fmt.Errorf("%w: a submission is already in flight", apperr.ErrRejected)
	ErrAlreadySubmitted     = fmt.Errorf("%w: checkout already submitted", apperr.ErrRejected)
	ErrAttachmentLimit      = fmt.Errorf("%w: attachment limit reached", apperr.ErrRejected)
	ErrAttachmentTooLarge   = fmt.Errorf("%w: attachment exceeds size limit", apperr.ErrRejected)
	ErrAttachmentDuplicate  = fmt.Errorf("%w: attachment name already used", apperr.ErrRejected)
	ErrAttachmentKind       = fmt.Errorf("%w: unknown attachment kind", apperr.ErrRejected)
	ErrProvisionNotAllowed  = fmt.Errorf("%w: program provisioning does not apply", apperr.ErrRejected)
	ErrProvisioningInFlight = fmt.Errorf("%w: provisioning already in progress", apperr.ErrRejected)
)

// ErrCanceled is returned when a running submission or provisioning was reset.
var ErrCanceled = fmt.Errorf("%w: operation canceled", apperr.ErrConflict)
