// Package domain contains persistence models for donor partner suggestions.
package domain

import "time"

const (
	TypeSupplier  = "supplier"
	TypeCommunity = "community"
	TypeLogistics = "logistics"
)

// Suggestion is a prospective partner organization submitted by a donor.
type Suggestion struct {
	ID                      int64     `gorm:"primaryKey;autoIncrement"`
	SubmitterUserID         string    `gorm:"column:submitter_auth0_user_id;not null"`
	ConvertedOrganizationID *int64    `gorm:"column:converted_organization_id"`
	Type                    string    `gorm:"column:type;not null"`
	Name                    string    `gorm:"column:name;not null"`
	Address                 *string   `gorm:"column:address"`
	CreatedAt               time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Suggestion) TableName() string { return "suggestions" }

func ValidType(v string) bool {
	switch v {
	case TypeSupplier, TypeCommunity, TypeLogistics:
		return true
	}
	return false
}
