// Package catalog holds the immutable vendor catalog.
package catalog

import (
	"sort"

	"corporate-checkout/internal/domain"
)

// DefaultVendorID is preselected for new checkouts.
const DefaultVendorID = "swift"

// Catalog is a read-only set of vendors keyed by id.
type Catalog struct {
	byID map[string]domain.Vendor
	ids  []string
}

// New builds a catalog from vendors. Later duplicates replace earlier ones.
func New(vendors ...domain.Vendor) *Catalog {
	c := &Catalog{byID: make(map[string]domain.Vendor, len(vendors))}
	for _, v := range vendors {
		if _, ok := c.byID[v.ID]; !ok {
			c.ids = append(c.ids, v.ID)
		}
		c.byID[v.ID] = cloneVendor(v)
	}
	sort.Strings(c.ids)
	return c
}

// Default returns the built-in vendor catalog.
func Default() *Catalog {
	all := domain.SpeedTiers()
	allVehicles := domain.VehicleClasses()
	return New(
		domain.Vendor{
			ID: "swift", Name: "Swift Couriers", Tier: domain.TrustAllowed,
			Speeds: all, Vehicles: allVehicles,
			DefaultProof: domain.NewProofSet(domain.ProofDropoffPhoto),
		},
		domain.Vendor{
			ID: "metrovan", Name: "Metro Van Lines", Tier: domain.TrustAllowed,
			Speeds:       []domain.SpeedTier{domain.SpeedStandard, domain.SpeedExpress},
			Vehicles:     []domain.VehicleClass{domain.VehicleCar, domain.VehicleVan},
			DefaultProof: domain.NewProofSet(domain.ProofPickupPhoto, domain.ProofDropoffPhoto),
		},
		domain.Vendor{
			ID: "bikebolt", Name: "BikeBolt", Tier: domain.TrustRestricted,
			Speeds: all, Vehicles: []domain.VehicleClass{domain.VehicleBike},
			DefaultProof: domain.NewProofSet(domain.ProofDropoffPhoto),
		},
		domain.Vendor{
			ID: "citycargo", Name: "CityCargo", Tier: domain.TrustRestricted,
			Speeds:       []domain.SpeedTier{domain.SpeedStandard},
			Vehicles:     []domain.VehicleClass{domain.VehicleCar, domain.VehicleVan},
			DefaultProof: domain.NewProofSet(domain.ProofRecipientSignature),
		},
		domain.Vendor{
			ID: "shadowfleet", Name: "ShadowFleet", Tier: domain.TrustBlocked,
			Speeds: all, Vehicles: allVehicles,
			DefaultProof: domain.NewProofSet(),
		},
	)
}

// Get returns the vendor with the given id.
func (c *Catalog) Get(id string) (domain.Vendor, bool) {
	v, ok := c.byID[id]
	if !ok {
		return domain.Vendor{}, false
	}
	return cloneVendor(v), true
}

// List returns all vendors ordered by id.
func (c *Catalog) List() []domain.Vendor {
	out := make([]domain.Vendor, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, cloneVendor(c.byID[id]))
	}
	return out
}

func cloneVendor(v domain.Vendor) domain.Vendor {
	v.Speeds = append([]domain.SpeedTier(nil), v.Speeds...)
	v.Vehicles = append([]domain.VehicleClass(nil), v.Vehicles...)
	v.DefaultProof = append(domain.ProofSet(nil), v.DefaultProof...)
	return v
}
