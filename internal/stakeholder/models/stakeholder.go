// Package models defines the stakeholder domain types shared by the store,
// service, and handler layers.
package models

import (
	"errors"
	"fmt"
	"time"
)

// ScheduleEntry is one open interval for a stakeholder. Times are stored as
// the strings the intake form captures ("14:00", "2:00 PM") rather than
// parsed clock values.
type ScheduleEntry struct {
	WeekOfMonth int    `json:"weekOfMonth"`
	DayOfWeek   string `json:"dayOfWeek"`
	Open        string `json:"open"`
	Close       string `json:"close"`
}

// Category is a read-only reference row linking stakeholders to the kinds of
// service they provide.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StakeholderVersion is one immutable snapshot of a stakeholder record.
// Every edit writes a new row under the same logical ID with the next
// VersionID; reads resolve to the greatest VersionID per ID.
type StakeholderVersion struct {
	ID        int64 `json:"id"`
	VersionID int64 `json:"-"`

	// Identity and contact.
	Name      string   `json:"name"`
	Address1  string   `json:"address1"`
	Address2  string   `json:"address2"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Zip       string   `json:"zip"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Website   string   `json:"website"`

	// Descriptive.
	Notes              string `json:"notes"`
	Requirements       string `json:"requirements"`
	AdminNotes         string `json:"adminNotes"`
	ParentOrganization string `json:"parentOrganization"`
	PhysicalAccess     string `json:"physicalAccess"`
	Items              string `json:"items"`
	Services           string `json:"services"`
	Description        string `json:"description"`
	CovidNotes         string `json:"covidNotes"`
	CategoryNotes      string `json:"categoryNotes"`
	EligibilityNotes   string `json:"eligibilityNotes"`
	FoodTypes          string `json:"foodTypes"`
	Languages          string `json:"languages"`

	// Social.
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Pinterest string `json:"pinterest"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`

	// Administrative contacts.
	AdminContactName  string `json:"adminContactName"`
	AdminContactPhone string `json:"adminContactPhone"`
	AdminContactEmail string `json:"adminContactEmail"`

	// Donations.
	DonationContactName          string `json:"donationContactName"`
	DonationContactPhone         string `json:"donationContactPhone"`
	DonationContactEmail         string `json:"donationContactEmail"`
	DonationPickup               bool   `json:"donationPickup"`
	DonationAcceptFrozen         bool   `json:"donationAcceptFrozen"`
	DonationAcceptRefrigerated   bool   `json:"donationAcceptRefrigerated"`
	DonationAcceptPerishable     bool   `json:"donationAcceptPerishable"`
	DonationSchedule             string `json:"donationSchedule"`
	DonationDeliveryInstructions string `json:"donationDeliveryInstructions"`
	DonationNotes                string `json:"donationNotes"`

	// Workflow and audit. Date and login pairs are set and cleared together
	// by the transition operations.
	CreatedDate      *time.Time `json:"createdDate"`
	CreatedLoginID   *int64     `json:"createdLoginId"`
	ModifiedDate     *time.Time `json:"modifiedDate"`
	ModifiedLoginID  *int64     `json:"modifiedLoginId"`
	SubmittedDate    *time.Time `json:"submittedDate"`
	SubmittedLoginID *int64     `json:"submittedLoginId"`
	ApprovedDate     *time.Time `json:"approvedDate"`
	RejectedDate     *time.Time `json:"rejectedDate"`
	ReviewedLoginID  *int64     `json:"reviewedLoginId"`
	AssignedDate     *time.Time `json:"assignedDate"`
	AssignedLoginID  *int64     `json:"assignedLoginId"`
	ClaimedDate      *time.Time `json:"claimedDate"`
	ClaimedLoginID   *int64     `json:"claimedLoginId"`

	// Verified confirmation, toggled independently of the review workflow.
	VerifiedDate    *time.Time `json:"verifiedDate"`
	VerifiedLoginID *int64     `json:"verifiedLoginId"`

	// Denormalized display names resolved from the login table on read.
	CreatedUser   string `json:"createdUser"`
	ModifiedUser  string `json:"modifiedUser"`
	SubmittedUser string `json:"submittedUser"`
	ReviewedUser  string `json:"reviewedUser"`
	AssignedUser  string `json:"assignedUser"`
	ClaimedUser   string `json:"claimedUser"`

	ReviewNotes          string             `json:"reviewNotes"`
	VerificationStatusID VerificationStatus `json:"verificationStatusId"`
	Inactive             bool               `json:"inactive"`
	InactiveTemporary    bool               `json:"inactiveTemporary"`

	// Per-field confirmation flags set by verifiers.
	ConfirmedName       bool `json:"confirmedName"`
	ConfirmedCategories bool `json:"confirmedCategories"`
	ConfirmedAddress    bool `json:"confirmedAddress"`
	ConfirmedPhone      bool `json:"confirmedPhone"`
	ConfirmedEmail      bool `json:"confirmedEmail"`
	ConfirmedHours      bool `json:"confirmedHours"`

	// Child collections, replaced wholesale on every write.
	Hours      []ScheduleEntry `json:"hours"`
	Categories []Category      `json:"categories"`

	// Distance in miles from the search origin. Nil unless the search
	// supplied an origin.
	Distance *float64 `json:"distance,omitempty"`
}

// Validate checks the fields required before a write is attempted.
func (v *StakeholderVersion) Validate() error {
	if v.Name == "" {
		return errors.New("name is required")
	}
	if (v.Latitude == nil) != (v.Longitude == nil) {
		return errors.New("latitude and longitude must be supplied together")
	}
	if v.VerificationStatusID != 0 && !v.VerificationStatusID.Valid() {
		return fmt.Errorf("unknown verification status %d", v.VerificationStatusID)
	}
	for _, h := range v.Hours {
		if h.DayOfWeek == "" {
			return errors.New("schedule entries require a day of week")
		}
	}
	for _, c := range v.Categories {
		if c.ID <= 0 {
			return fmt.Errorf("invalid category id %d", c.ID)
		}
	}
	return nil
}

// CategoryIDs returns the ids of the version's category links.
func (v *StakeholderVersion) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(v.Categories))
	for _, c := range v.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
