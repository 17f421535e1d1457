package handlers

import (
	"net/http"

	"corporate-checkout/internal/logx"
)

// VendorHandler serves the vendor catalog.
type VendorHandler struct {
	logger  logx.Logger
	vendors vendorLister
}

// NewVendorHandler creates a VendorHandler.
func NewVendorHandler(logger logx.Logger, vendors vendorLister) *VendorHandler {
	return &VendorHandler{logger: logger, vendors: vendors}
}

// List handles GET /vendors.
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.vendors.List())
}
