package domain

type (
	// PackageCategory classifies the shipped goods.
	PackageCategory string
	// SpeedTier is the requested delivery urgency.
	SpeedTier string
	// VehicleClass is the requested vehicle capacity.
	VehicleClass string
	// ScheduleMode tells whether the delivery is dispatched now or at a fixed time.
	ScheduleMode string
	// PaymentMethod is the way the checkout is paid for.
	PaymentMethod string
	// ProgramStatus is the state of the corporate payment program.
	ProgramStatus string
	// TrustTier is the policy classification of a vendor.
	TrustTier string
	// AttachmentKind describes uploaded attachment metadata.
	AttachmentKind string
)

// List of package categories
const (
	CategoryDocuments   PackageCategory = "documents"
	CategoryParcel      PackageCategory = "parcel"
	CategoryElectronics PackageCategory = "electronics"
	CategoryMedical     PackageCategory = "medical"
	CategoryFood        PackageCategory = "food"
	CategoryOther       PackageCategory = "other"
)

// List of speed tiers, ordered by urgency
const (
	SpeedStandard SpeedTier = "standard"
	SpeedExpress  SpeedTier = "express"
	SpeedSameDay  SpeedTier = "same_day"
)

// List of vehicle classes, ordered by capacity
const (
	VehicleBike VehicleClass = "bike"
	VehicleCar  VehicleClass = "car"
	VehicleVan  VehicleClass = "van"
)

// List of schedule modes
const (
	ScheduleNow       ScheduleMode = "now"
	ScheduleScheduled ScheduleMode = "scheduled"
)

// List of payment methods. PaymentCorporate is the only one corporate policy applies to.
const (
	PaymentCorporate PaymentMethod = "corporate_pay"
	PaymentCard      PaymentMethod = "card"
	PaymentWallet    PaymentMethod = "wallet"
	PaymentCash      PaymentMethod = "cash"
)

// List of corporate program statuses
const (
	ProgramEligible            ProgramStatus = "eligible"
	ProgramNotLinked           ProgramStatus = "not_linked"
	ProgramNotEligible         ProgramStatus = "not_eligible"
	ProgramDepositDepleted     ProgramStatus = "deposit_depleted"
	ProgramCreditLimitExceeded ProgramStatus = "credit_limit_exceeded"
	ProgramBillingDelinquency  ProgramStatus = "billing_delinquency"
)

// List of vendor trust tiers
const (
	TrustAllowed    TrustTier = "allowed"
	TrustRestricted TrustTier = "restricted"
	TrustBlocked    TrustTier = "blocked"
)

// List of attachment kinds
const (
	AttachmentPhoto     AttachmentKind = "photo"
	AttachmentDocument  AttachmentKind = "document"
	AttachmentSignature AttachmentKind = "signature"
	AttachmentOther     AttachmentKind = "other"
)

var allowedCategories = [...]PackageCategory{
	CategoryDocuments, CategoryParcel, CategoryElectronics, CategoryMedical, CategoryFood, CategoryOther,
}

var speedTiers = [...]SpeedTier{SpeedStandard, SpeedExpress, SpeedSameDay}

var vehicleClasses = [...]VehicleClass{VehicleBike, VehicleCar, VehicleVan}

var allowedScheduleModes = [...]ScheduleMode{ScheduleNow, ScheduleScheduled}

var allowedPaymentMethods = [...]PaymentMethod{PaymentCorporate, PaymentCard, PaymentWallet, PaymentCash}

var allowedProgramStatuses = [...]ProgramStatus{
	ProgramEligible, ProgramNotLinked, ProgramNotEligible,
	ProgramDepositDepleted, ProgramCreditLimitExceeded, ProgramBillingDelinquency,
}

var allowedTrustTiers = [...]TrustTier{TrustAllowed, TrustRestricted, TrustBlocked}

var allowedAttachmentKinds = [...]AttachmentKind{
	AttachmentPhoto, AttachmentDocument, AttachmentSignature, AttachmentOther,
}

func indexOf[T comparable](v T, list []T) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}

// Valid checks if the PackageCategory is known
func (c PackageCategory) Valid() bool { return indexOf(c, allowedCategories[:]) >= 0 }

// Valid checks if the SpeedTier is known
func (s SpeedTier) Valid() bool { return indexOf(s, speedTiers[:]) >= 0 }

// Rank is the urgency ordinal (standard = 0). Unknown tiers rank -1.
func (s SpeedTier) Rank() int { return indexOf(s, speedTiers[:]) }

// Valid checks if the VehicleClass is known
func (v VehicleClass) Valid() bool { return indexOf(v, vehicleClasses[:]) >= 0 }

// Rank is the capacity ordinal (bike = 0). Unknown classes rank -1.
func (v VehicleClass) Rank() int { return indexOf(v, vehicleClasses[:]) }

// Valid checks if the ScheduleMode is known
func (m ScheduleMode) Valid() bool { return indexOf(m, allowedScheduleModes[:]) >= 0 }

// Valid checks if the PaymentMethod is known
func (p PaymentMethod) Valid() bool { return indexOf(p, allowedPaymentMethods[:]) >= 0 }

// IsCorporate reports whether corporate program rules apply.
func (p PaymentMethod) IsCorporate() bool { return p == PaymentCorporate }

// Valid checks if the ProgramStatus is known
func (s ProgramStatus) Valid() bool { return indexOf(s, allowedProgramStatuses[:]) >= 0 }

// Valid checks if the TrustTier is known
func (t TrustTier) Valid() bool { return indexOf(t, allowedTrustTiers[:]) >= 0 }

// Valid checks if the AttachmentKind is known
func (k AttachmentKind) Valid() bool { return indexOf(k, allowedAttachmentKinds[:]) >= 0 }

// SpeedTiers returns all speed tiers in urgency order.
func SpeedTiers() []SpeedTier { return append([]SpeedTier(nil), speedTiers[:]...) }

// VehicleClasses returns all vehicle classes in capacity order.
func VehicleClasses() []VehicleClass { return append([]VehicleClass(nil), vehicleClasses[:]...) }

// Categories returns all package categories.
func Categories() []PackageCategory { return append([]PackageCategory(nil), allowedCategories[:]...) }
