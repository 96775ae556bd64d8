package models

import "fmt"

// SearchFilter carries the optional search criteria. Pointer fields are
// three-valued: true and false constrain the result, nil means "any".
// Exact-match id filters apply only when the value is a positive id.
type SearchFilter struct {
	Name        string
	CategoryIDs []int64

	// Origin and radius for distance ranking. Both coordinates must be set
	// for ranking to apply; Radius <= 0 means no radius filtering.
	Latitude  *float64
	Longitude *float64
	Radius    float64

	IsInactive  *bool
	IsAssigned  *bool
	IsSubmitted *bool
	IsApproved  *bool
	IsRejected  *bool
	IsClaimed   *bool

	AssignedLoginID      int64
	ClaimedLoginID       int64
	VerificationStatusID int64
}

// HasOrigin reports whether the filter carries a complete search origin.
func (f *SearchFilter) HasOrigin() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// Validate rejects filters that cannot be turned into a well-formed query.
func (f *SearchFilter) Validate() error {
	if (f.Latitude == nil) != (f.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be supplied together")
	}
	for _, id := range f.CategoryIDs {
		if id <= 0 {
			return fmt.Errorf("invalid category id %d", id)
		}
	}
	if f.VerificationStatusID != 0 && !VerificationStatus(f.VerificationStatusID).Valid() {
		return fmt.Errorf("unknown verification status %d", f.VerificationStatusID)
	}
	return nil
}
