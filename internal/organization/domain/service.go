package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]OrganizationSummary, error)
	Get(ctx context.Context, externalID string) (*OrganizationResponse, error)
	Create(ctx context.Context, req CreateRequest) (*CreateResponse, error)
	Update(ctx context.Context, externalID string, req UpdateRequest) (*UpdateResponse, error)
	Delete(ctx context.Context, externalID string) error

	GetOwn(ctx context.Context, callerOrgID, externalID string) (*OrganizationResponse, error)
	UpdateOwn(ctx context.Context, callerOrgID, externalID string, req ProfileUpdateRequest) (*OrganizationResponse, error)

	UpsertFromEvent(ctx context.Context, evt OrganizationEvent, eventTime time.Time) error
	DeleteFromEvent(ctx context.Context, externalID string) error
}

type ListRequest struct {
	OrgType   string
	SSOStatus string
	Query     string
	Limit     int
	Offset    int
}

type OrganizationSummary struct {
	ExternalID string  `json:"auth0_org_id"`
	Name       *string `json:"name"`
	OrgType    string  `json:"org_type"`
	Domain     *string `json:"domain"`
	SSOStatus  string  `json:"sso_status"`
}

type OrganizationResponse struct {
	ExternalID       string   `json:"auth0_org_id"`
	Name             *string  `json:"name"`
	OrgType          string   `json:"org_type"`
	Domain           *string  `json:"domain"`
	SSOStatus        string   `json:"sso_status,omitempty"`
	PickupAddress    *string  `json:"pickup_address"`
	PickupSchedule   *string  `json:"pickup_schedule"`
	DeliveryAddress  *string  `json:"delivery_address"`
	DeliverySchedule *string  `json:"delivery_schedule"`
	CoverageRegions  *string  `json:"coverage_regions"`
	VehicleTypes     []string `json:"vehicle_types"`
}

type CreateRequest struct {
	Name    string `json:"name"`
	OrgType string `json:"org_type"`
	Domain  string `json:"domain"`
}

type CreateResponse struct {
	ExternalID string `json:"auth0_org_id"`
}

// MetadataUpdate holds profile fields; nil means unchanged.
type MetadataUpdate struct {
	OrgType         *string   `json:"org_type,omitempty"`
	PickupAddress   *string   `json:"pickup_address,omitempty"`
	DeliveryAddress *string   `json:"delivery_address,omitempty"`
	CoverageRegions *string   `json:"coverage_regions,omitempty"`
	VehicleTypes    *[]string `json:"vehicle_types,omitempty"`
}

type UpdateRequest struct {
	Name     *string         `json:"name,omitempty"`
	Domain   *string         `json:"domain,omitempty"`
	Metadata *MetadataUpdate `json:"metadata,omitempty"`
}

type UpdateResponse struct {
	Updated int `json:"updated"`
}

// ProfileUpdateRequest is the self-service subset: org_type, name and domain are ignored.
type ProfileUpdateRequest struct {
	Metadata *MetadataUpdate `json:"metadata,omitempty"`
}

// OrganizationEvent is the organization object carried by provider webhooks.
type OrganizationEvent struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Branding    json.RawMessage `json:"branding,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

var (
	ErrNotFound         = errors.New("organization_not_found")
	ErrForbidden        = errors.New("organization_forbidden")
	ErrInvalidID        = errors.New("invalid_organization_id")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidDomain    = errors.New("invalid_domain")
	ErrInvalidOrgType   = errors.New("invalid_org_type")
	ErrInvalidSSOStatus = errors.New("invalid_sso_status")
)
