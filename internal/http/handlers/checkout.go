package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/logx"
)

// CheckoutHandler serves the checkout wizard endpoints.
type CheckoutHandler struct {
	logger logx.Logger
	uc     checkoutUsecase
}

// NewCheckoutHandler wires a checkoutUsecase into HTTP handlers.
func NewCheckoutHandler(logger logx.Logger, uc checkoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{logger: logger, uc: uc}
}

// Create handles POST /checkouts. The body is optional.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutRequest
	if r.ContentLength != 0 {
		if ok := decodeJSON(h.logger, w, r, &req); !ok {
			return
		}
	}
	s := h.uc.Create(req.VendorID)
	w.Header().Set("Location", "/checkouts/"+s.ID())
	writeJSON(h.logger, w, r, http.StatusCreated, toSnapshotResponse(s.Snapshot()))
}

// Get handles GET /checkouts/{id}.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toSnapshotResponse(s.Snapshot()))
}

// Update handles PATCH /checkouts/{id} with a partial update body.
func (h *CheckoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req domain.PartialDeliveryUpdate
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Empty() {
		writeError(h.logger, w, r, http.StatusBadRequest, "empty update")
		return
	}
	h.respond(w, r)(s.Apply(req))
}

// SetProof handles PUT /checkouts/{id}/proof/{proofType}.
func (h *CheckoutHandler) SetProof(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req proofRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Enabled == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "enabled is required")
		return
	}
	p := domain.ProofType(chi.URLParam(r, "proofType"))
	h.respond(w, r)(s.SetProof(p, *req.Enabled))
}

// AddAttachment handles POST /checkouts/{id}/attachments.
func (h *CheckoutHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req attachmentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	h.respond(w, r)(s.AddAttachment(req.Name, req.SizeBytes, req.Kind))
}

// RemoveAttachment handles DELETE /checkouts/{id}/attachments/{name}.
func (h *CheckoutHandler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, r)(s.RemoveAttachment(chi.URLParam(r, "name")))
}

// SetStep handles PUT /checkouts/{id}/step.
func (h *CheckoutHandler) SetStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req stepRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	h.respond(w, r)(s.GoTo(req.Step))
}

// Submit handles POST /checkouts/{id}/submit.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	res, err := s.Submit(r.Context())
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, resultResponse{SessionID: s.ID(), Result: res})
}

// Reset handles POST /checkouts/{id}/reset.
func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toSnapshotResponse(s.Reset()))
}

// ProvisionProgram handles POST /checkouts/{id}/program/provision.
func (h *CheckoutHandler) ProvisionProgram(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, r)(s.ProvisionProgram(r.Context()))
}

func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) (checkoutSession, bool) {
	s, err := h.uc.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return nil, false
	}
	return s, true
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request) func(domain.Snapshot, error) {
	return func(snap domain.Snapshot, err error) {
		if err != nil {
			writeAppError(h.logger, w, r, err)
			return
		}
		writeJSON(h.logger, w, r, http.StatusOK, toSnapshotResponse(snap))
	}
}
