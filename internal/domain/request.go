package domain

import "time"

// Allocation carries the corporate cost allocation fields.
type Allocation struct {
	CostCenter string `json:"cost_center"`
	ProjectTag string `json:"project_tag"`
	Purpose    string `json:"purpose"`
}

// Attachment is metadata of a file the user attached to the checkout.
type Attachment struct {
	Name      string         `json:"name"`
	SizeBytes int64          `json:"size_bytes"`
	Kind      AttachmentKind `json:"kind"`
	AddedAt   time.Time      `json:"added_at"`
}

// DeliveryRequest is the record edited across the checkout steps.
// Money is in currency minor units.
type DeliveryRequest struct {
	Pickup         string          `json:"pickup"`
	Dropoff        string          `json:"dropoff"`
	DistanceKm     float64         `json:"distance_km"`
	WeightKg       float64         `json:"weight_kg"`
	DeclaredValue  int64           `json:"declared_value"`
	Category       PackageCategory `json:"category"`
	Fragile        bool            `json:"fragile"`
	Insurance      bool            `json:"insurance"`
	Schedule       ScheduleMode    `json:"schedule"`
	ScheduledAt    time.Time       `json:"scheduled_at"`
	Speed          SpeedTier       `json:"speed"`
	Vehicle        VehicleClass    `json:"vehicle"`
	VendorID       string          `json:"vendor_id"`
	Payment        PaymentMethod   `json:"payment"`
	ProgramStatus  ProgramStatus   `json:"program_status"`
	GraceEnabled   bool            `json:"grace_enabled"`
	GraceExpiresAt time.Time       `json:"grace_expires_at"`
	Allocation     Allocation      `json:"allocation"`
	Notes          string          `json:"notes"`
	Proof          ProofMap        `json:"proof"`
	Attachments    []Attachment    `json:"attachments"`
}

// NewDeliveryRequest returns the request a checkout starts with.
func NewDeliveryRequest(vendorID string) DeliveryRequest {
	return DeliveryRequest{
		WeightKg:      1,
		Category:      CategoryParcel,
		Schedule:      ScheduleNow,
		Speed:         SpeedStandard,
		Vehicle:       VehicleBike,
		VendorID:      vendorID,
		Payment:       PaymentCorporate,
		ProgramStatus: ProgramEligible,
		Proof:         NewProofMap(),
	}
}

// Clone returns a deep copy, so edits never alias a published snapshot.
func (r DeliveryRequest) Clone() DeliveryRequest {
	out := r
	out.Proof = r.Proof.Normalized()
	if r.Attachments != nil {
		out.Attachments = append([]Attachment(nil), r.Attachments...)
	}
	return out
}

// PartialDeliveryUpdate carries optional fields to update a request.
// A nil field means “do not change” that attribute.
type PartialDeliveryUpdate struct {
	Pickup         *string          `json:"pickup,omitempty"`
	Dropoff        *string          `json:"dropoff,omitempty"`
	DistanceKm     *float64         `json:"distance_km,omitempty"`
	WeightKg       *float64         `json:"weight_kg,omitempty"`
	DeclaredValue  *int64           `json:"declared_value,omitempty"`
	Category       *PackageCategory `json:"category,omitempty"`
	Fragile        *bool            `json:"fragile,omitempty"`
	Insurance      *bool            `json:"insurance,omitempty"`
	Schedule       *ScheduleMode    `json:"schedule,omitempty"`
	ScheduledAt    *time.Time       `json:"scheduled_at,omitempty"`
	Speed          *SpeedTier       `json:"speed,omitempty"`
	Vehicle        *VehicleClass    `json:"vehicle,omitempty"`
	VendorID       *string          `json:"vendor_id,omitempty"`
	Payment        *PaymentMethod   `json:"payment,omitempty"`
	ProgramStatus  *ProgramStatus   `json:"program_status,omitempty"`
	GraceEnabled   *bool            `json:"grace_enabled,omitempty"`
	GraceExpiresAt *time.Time       `json:"grace_expires_at,omitempty"`
	CostCenter     *string          `json:"cost_center,omitempty"`
	ProjectTag     *string          `json:"project_tag,omitempty"`
	Purpose        *string          `json:"purpose,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u PartialDeliveryUpdate) Empty() bool {
	return u == PartialDeliveryUpdate{}
}
