package models

import "time"

// Authorizer is a platform operator allowed to invite vendors
type Authorizer struct {
	Base
	Name         string `json:"name" gorm:"not null"`
	Contact      string `json:"contact" gorm:"uniqueIndex;size:10;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
}

func (Authorizer) TableName() string { return "authorizers" }

// InvitationStatus tracks the one-way passkey lifecycle
type InvitationStatus string

const (
	InvitationUnused   InvitationStatus = "UNUSED"
	InvitationRedeemed InvitationStatus = "REDEEMED"
)

// Invitation binds an authorizer-issued passkey to a prospective vendor contact.
// The passkey and the vendor contact are unique among unused invitations only.
type Invitation struct {
	Base
	AuthorizerID  string           `json:"authorizer_id" gorm:"index;size:36;not null"`
	VendorName    string           `json:"vendor_name" gorm:"not null"`
	VendorContact string           `json:"vendor_contact" gorm:"size:10;not null;index:idx_invitations_unused_contact,unique,where:status = 'UNUSED'"`
	VendorAddress string           `json:"vendor_address" gorm:"not null"`
	Passkey       string           `json:"-" gorm:"size:6;not null;index:idx_invitations_unused_passkey,unique,where:status = 'UNUSED'"`
	Status        InvitationStatus `json:"status" gorm:"size:16;not null;default:'UNUSED'"`
	RedeemedAt    *time.Time       `json:"redeemed_at,omitempty"`
}

func (Invitation) TableName() string { return "invitations" }

// Used reports whether the passkey has been consumed
func (i Invitation) Used() bool { return i.Status == InvitationRedeemed }
