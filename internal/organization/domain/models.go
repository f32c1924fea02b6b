// Package domain contains persistence models for the organization mirror.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OrgTypeSupplier  = "supplier"
	OrgTypeCommunity = "community"
	OrgTypeLogistics = "logistics"
)

const (
	SSOStatusNotStarted = "not_started"
	SSOStatusInvited    = "invited"
	SSOStatusConfigured = "configured"
	SSOStatusActive     = "active"
)

// Organization is the local mirror of an identity-provider organization.
type Organization struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"-"`
	ExternalID         string         `gorm:"column:auth0_org_id;uniqueIndex:ux_organizations_auth0_org_id;not null" json:"auth0_org_id"`
	Name               *string        `gorm:"column:name" json:"name"`
	DisplayName        *string        `gorm:"column:display_name" json:"display_name,omitempty"`
	OrgType            string         `gorm:"column:org_type;not null;default:supplier" json:"org_type"`
	Domain             *string        `gorm:"column:domain" json:"domain"`
	SSOStatus          string         `gorm:"column:sso_status;not null;default:not_started" json:"sso_status"`
	PickupAddress      *string        `gorm:"column:pickup_address" json:"pickup_address"`
	DeliveryAddress    *string        `gorm:"column:delivery_address" json:"delivery_address"`
	CoverageRegions    *string        `gorm:"column:coverage_regions" json:"coverage_regions"`
	VehicleTypes       datatypes.JSON `gorm:"column:vehicle_types" json:"vehicle_types"`
	Branding           datatypes.JSON `gorm:"column:branding" json:"branding,omitempty"`
	Metadata           datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	LastEventProcessed *time.Time     `gorm:"column:last_event_processed" json:"-"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

func ValidOrgType(v string) bool {
	switch v {
	case OrgTypeSupplier, OrgTypeCommunity, OrgTypeLogistics:
		return true
	default:
		return false
	}
}

func ValidSSOStatus(v string) bool {
	switch v {
	case SSOStatusNotStarted, SSOStatusInvited, SSOStatusConfigured, SSOStatusActive:
		return true
	default:
		return false
	}
}
