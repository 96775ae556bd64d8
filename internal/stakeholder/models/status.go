package models

// VerificationStatus tracks where a stakeholder record sits in the review
// workflow. Values are stable database identifiers.
type VerificationStatus int64

const (
	StatusUnverified VerificationStatus = 1
	StatusAssigned   VerificationStatus = 2
	StatusSubmitted  VerificationStatus = 3
	StatusVerified   VerificationStatus = 4
)

func (s VerificationStatus) String() string {
	switch s {
	case StatusUnverified:
		return "unverified"
	case StatusAssigned:
		return "assigned"
	case StatusSubmitted:
		return "submitted"
	case StatusVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known workflow states.
func (s VerificationStatus) Valid() bool {
	return s >= StatusUnverified && s <= StatusVerified
}
