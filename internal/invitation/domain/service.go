package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context, orgExternalID string, req ListRequest) ([]InvitationSummary, error)
	Create(ctx context.Context, orgExternalID, issuerSubject string, req CreateRequest) (*CreateResponse, error)
	Delete(ctx context.Context, orgExternalID, invitationID string) error
}

type ListRequest struct {
	Status  string
	OrgType string
	Query   string
}

// InvitationSummary is one listed invitation joined with its organization.
type InvitationSummary struct {
	InvitationID int64     `gorm:"column:invitation_id" json:"invitation_id"`
	ExternalID   string    `gorm:"column:auth0_org_id" json:"auth0_org_id"`
	Name         *string   `gorm:"column:name" json:"name"`
	OrgType      string    `gorm:"column:org_type" json:"org_type"`
	Domain       *string   `gorm:"column:domain" json:"domain"`
	Link         *string   `gorm:"column:link" json:"link"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	SSOStatus    string    `gorm:"column:sso_status" json:"sso_status"`
}

// CreateRequest carries the invitation options. TTL is in seconds.
type CreateRequest struct {
	TTL                *float64 `json:"ttl"`
	DomainVerification bool     `json:"domain_verification"`
	AcceptIdPInitSAML  bool     `json:"accept_idp_init_saml"`
}

type CreateResponse struct {
	InvitationID string `json:"invitation_id"`
	ExternalID   string `json:"auth0_org_id"`
	Link         string `json:"link"`
}

var (
	ErrInvalidID      = errors.New("invalid_invitation_id")
	ErrInvalidTTL     = errors.New("invalid_ttl")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidOrgType = errors.New("invalid_org_type")
)
