// Package domain contains persistence models for the identity-provider user mirror.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// User is the local mirror of an identity-provider user profile.
type User struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID         string         `gorm:"column:auth0_user_id;uniqueIndex:ux_users_auth0_user_id;not null" json:"auth0_user_id"`
	OrgExternalID      *string        `gorm:"column:auth0_org_id" json:"auth0_org_id"`
	Email              *string        `gorm:"column:email" json:"email"`
	EmailVerified      bool           `gorm:"column:email_verified;not null" json:"email_verified"`
	Name               *string        `gorm:"column:name" json:"name"`
	Picture            *string        `gorm:"column:picture" json:"picture"`
	Blocked            bool           `gorm:"column:blocked;not null" json:"blocked"`
	FamilyName         *string        `gorm:"column:family_name" json:"family_name"`
	GivenName          *string        `gorm:"column:given_name" json:"given_name"`
	Nickname           *string        `gorm:"column:nickname" json:"nickname"`
	PhoneNumber        *string        `gorm:"column:phone_number" json:"phone_number"`
	PhoneVerified      bool           `gorm:"column:phone_verified;not null" json:"phone_verified"`
	UserMetadata       datatypes.JSON `gorm:"column:user_metadata" json:"user_metadata"`
	AppMetadata        datatypes.JSON `gorm:"column:app_metadata" json:"app_metadata"`
	Identities         datatypes.JSON `gorm:"column:identities" json:"identities"`
	LastEventProcessed *time.Time     `gorm:"column:last_event_processed" json:"last_event_processed"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
