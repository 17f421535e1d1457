package domain

// ProofType is a category of delivery evidence.
type ProofType string

// List of proof types in canonical order
const (
	ProofPickupPhoto        ProofType = "pickup_photo"
	ProofDropoffPhoto       ProofType = "dropoff_photo"
	ProofRecipientSignature ProofType = "recipient_signature"
	ProofIDCheck            ProofType = "id_check"
)

var proofTypes = [...]ProofType{
	ProofPickupPhoto, ProofDropoffPhoto, ProofRecipientSignature, ProofIDCheck,
}

// Valid checks if the ProofType is known
func (p ProofType) Valid() bool { return indexOf(p, proofTypes[:]) >= 0 }

// Label is the human title of the proof type.
func (p ProofType) Label() string {
	switch p {
	case ProofPickupPhoto:
		return "Pickup photo"
	case ProofDropoffPhoto:
		return "Drop-off photo"
	case ProofRecipientSignature:
		return "Recipient signature"
	case ProofIDCheck:
		return "ID check"
	default:
		return string(p)
	}
}

// ProofTypes returns every proof type in canonical order.
func ProofTypes() []ProofType { return append([]ProofType(nil), proofTypes[:]...) }

// ProofSet is a deduplicated set of proof types kept in canonical order.
type ProofSet []ProofType

// NewProofSet builds a canonical set from arbitrary items; unknown types are dropped.
func NewProofSet(items ...ProofType) ProofSet {
	out := make(ProofSet, 0, len(proofTypes))
	for _, p := range proofTypes {
		if indexOf(p, items) >= 0 {
			out = append(out, p)
		}
	}
	return out
}

// Has reports whether p is in the set.
func (s ProofSet) Has(p ProofType) bool { return indexOf(p, []ProofType(s)) >= 0 }

// With returns the set extended by items.
func (s ProofSet) With(items ...ProofType) ProofSet {
	return NewProofSet(append(append([]ProofType(nil), s...), items...)...)
}

// Union returns s ∪ other.
func (s ProofSet) Union(other ProofSet) ProofSet { return s.With(other...) }

// SubsetOf reports whether every member of s is in other.
func (s ProofSet) SubsetOf(other ProofSet) bool {
	for _, p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// ProofMap records which proof obligations are enabled on a request.
// It always carries an entry for every known ProofType.
type ProofMap map[ProofType]bool

// NewProofMap returns a map with every proof type disabled.
func NewProofMap() ProofMap {
	m := make(ProofMap, len(proofTypes))
	for _, p := range proofTypes {
		m[p] = false
	}
	return m
}

// Normalized returns a copy holding exactly the known proof types.
func (m ProofMap) Normalized() ProofMap {
	out := NewProofMap()
	for _, p := range proofTypes {
		out[p] = m[p]
	}
	return out
}

// Enabled returns the enabled proof types as a set.
func (m ProofMap) Enabled() ProofSet {
	out := make(ProofSet, 0, len(proofTypes))
	for _, p := range proofTypes {
		if m[p] {
			out = append(out, p)
		}
	}
	return out
}

// Missing returns the members of required that are not enabled.
func (m ProofMap) Missing(required ProofSet) []ProofType {
	var out []ProofType
	for _, p := range required {
		if !m[p] {
			out = append(out, p)
		}
	}
	return out
}
