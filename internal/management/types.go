package management

import (
	"context"
	"errors"
)

var (
	// ErrUpstream reports a failed or unusable management API response.
	ErrUpstream = errors.New("upstream_error")
	// ErrConflict reports that the provider already holds the resource.
	ErrConflict = errors.New("conflict")
)

// Service is the slice of the provider management API the platform calls.
type Service interface {
	CreateOrganization(ctx context.Context, name, domain string) (*Organization, error)
	CreateSSOTicket(ctx context.Context, req SSOTicketRequest) (*SSOTicket, error)
}

type Organization struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SSOTicketRequest describes a self-service SSO setup link for one organization.
type SSOTicketRequest struct {
	OrganizationID     string
	OrganizationName   string
	TTLSeconds         int64
	DomainVerification bool
	AcceptIdPInitSAML  bool
}

type SSOTicket struct {
	Ticket         string `json:"ticket"`
	ConnectionName string `json:"-"`
}

type ssoTicketBody struct {
	EnabledOrganizations []enabledOrganization `json:"enabled_organizations"`
	EnabledClients       []string              `json:"enabled_clients,omitempty"`
	TTLSec               int64                 `json:"ttl_sec"`
	DomainAliasesConfig  domainAliasesConfig   `json:"domain_aliases_config"`
	ConnectionConfig     connectionConfig      `json:"connection_config"`
	Ticket               string                `json:"ticket,omitempty"`
}

type enabledOrganization struct {
	OrganizationID          string `json:"organization_id"`
	AssignMembershipOnLogin bool   `json:"assign_membership_on_login"`
	ShowAsButton            bool   `json:"show_as_button"`
}

type domainAliasesConfig struct {
	DomainVerification string `json:"domain_verification"`
}

type connectionConfig struct {
	Name               string         `json:"name"`
	DisplayName        string         `json:"display_name,omitempty"`
	IsDomainConnection bool           `json:"is_domain_connection"`
	Options            map[string]any `json:"options,omitempty"`
}
