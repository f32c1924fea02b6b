package domain

import "time"

const (
	DomainVerificationRequired = "Required"
	DomainVerificationOff      = "Off"
)

// Computed invitation states. configured and active come from the organization.
const (
	StatusInvited    = "invited"
	StatusExpired    = "expired"
	StatusConfigured = "configured"
	StatusActive     = "active"
)

// Invitation is a self-service SSO ticket issued for one organization.
type Invitation struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID     int64     `gorm:"column:organization_id;not null;index" json:"organization_id"`
	IssuerUserID       *int64    `gorm:"column:issuer_user_id" json:"issuer_user_id"`
	DisplayName        *string   `gorm:"column:display_name" json:"display_name"`
	Link               *string   `gorm:"column:link" json:"link"`
	TicketID           *string   `gorm:"column:auth0_ticket_id" json:"auth0_ticket_id"`
	ConnectionName     *string   `gorm:"column:auth0_connection_name" json:"auth0_connection_name"`
	DomainVerification string    `gorm:"column:domain_verification;not null" json:"domain_verification"`
	AcceptIdPInitSAML  bool      `gorm:"column:accept_idp_init_saml;not null" json:"accept_idp_init_saml"`
	TTL                int64     `gorm:"column:ttl;not null" json:"ttl"`
	ExpiresAt          time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Invitation) TableName() string { return "sso_invitations" }

func ValidStatus(v string) bool {
	switch v {
	case StatusInvited, StatusExpired, StatusConfigured, StatusActive:
		return true
	}
	return false
}
