package management

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/auth0/go-auth0"
	auth0mgmt "github.com/auth0/go-auth0/management"
	"github.com/smallbiznis/replate/internal/observability/metrics"
	"go.uber.org/zap"
)

type Option func(c *Client)

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log.Named("management")
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithSSOProfile sets the self-service profile and the client enabled on generated tickets.
func WithSSOProfile(profileID, clientID string) Option {
	return func(c *Client) {
		c.ssoProfileID = strings.TrimSpace(profileID)
		c.businessClientID = strings.TrimSpace(clientID)
	}
}

// Client calls the identity provider management API through the SDK.
// Authentication is configured on the SDK handle.
type Client struct {
	api              *auth0mgmt.Management
	log              *zap.Logger
	metrics          *metrics.Metrics
	ssoProfileID     string
	businessClientID string
}

func NewClient(api *auth0mgmt.Management, opts ...Option) *Client {
	c := &Client{
		api: api,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateOrganization creates the organization upstream and returns its id.
func (c *Client) CreateOrganization(ctx context.Context, name, domain string) (*Organization, error) {
	const op = "create_organization"

	source := name
	if strings.TrimSpace(source) == "" {
		source = domain
	}
	org := &auth0mgmt.Organization{
		Name:        auth0.String(OrgSlug(source)),
		DisplayName: auth0.String(name),
		Metadata:    &map[string]string{"domain": domain},
	}

	if err := c.api.Organization.Create(ctx, org); err != nil {
		return nil, c.fail(ctx, op, err)
	}
	if org.GetID() == "" {
		c.record(ctx, op, "error")
		return nil, fmt.Errorf("%w: organization response without id", ErrUpstream)
	}
	c.record(ctx, op, "ok")

	out := &Organization{
		ID:          org.GetID(),
		Name:        org.GetName(),
		DisplayName: org.GetDisplayName(),
	}
	if org.Metadata != nil {
		out.Metadata = make(map[string]any, len(*org.Metadata))
		for k, v := range *org.Metadata {
			out.Metadata[k] = v
		}
	}
	return out, nil
}

// CreateSSOTicket issues a self-service SSO setup link bound to one organization.
func (c *Client) CreateSSOTicket(ctx context.Context, req SSOTicketRequest) (*SSOTicket, error) {
	const op = "create_sso_ticket"

	if c.ssoProfileID == "" {
		return nil, fmt.Errorf("%w: self-service profile is not configured", ErrUpstream)
	}

	verification := "none"
	if req.DomainVerification {
		verification = "required"
	}
	conn := connectionConfig{
		Name:               ConnectionName(req.OrganizationName),
		DisplayName:        req.OrganizationName,
		IsDomainConnection: false,
	}
	if req.AcceptIdPInitSAML {
		conn.Options = map[string]any{
			"idpinitiated": map[string]any{"enabled": true},
		}
	}
	body := &ssoTicketBody{
		EnabledOrganizations: []enabledOrganization{{
			OrganizationID:          req.OrganizationID,
			AssignMembershipOnLogin: true,
			ShowAsButton:            true,
		}},
		TTLSec:              req.TTLSeconds,
		DomainAliasesConfig: domainAliasesConfig{DomainVerification: verification},
		ConnectionConfig:    conn,
	}
	if c.businessClientID != "" {
		body.EnabledClients = []string{c.businessClientID}
	}

	uri := c.api.URI("self-service-profiles", c.ssoProfileID, "sso-ticket")
	if err := c.api.Request(ctx, http.MethodPost, uri, body); err != nil {
		return nil, c.fail(ctx, op, err)
	}
	if body.Ticket == "" {
		c.record(ctx, op, "error")
		return nil, fmt.Errorf("%w: sso ticket response without link", ErrUpstream)
	}
	c.record(ctx, op, "ok")
	return &SSOTicket{Ticket: body.Ticket, ConnectionName: conn.Name}, nil
}

// fail maps an SDK error onto ErrConflict or ErrUpstream.
func (c *Client) fail(ctx context.Context, op string, err error) error {
	var apiErr auth0mgmt.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status() == http.StatusConflict {
			c.record(ctx, op, "conflict")
			return fmt.Errorf("%w: %s", ErrConflict, op)
		}
		c.record(ctx, op, "error")
		c.log.Warn("management call rejected",
			zap.String("operation", op),
			zap.Int("status_code", apiErr.Status()),
		)
		return fmt.Errorf("%w: %s returned %d", ErrUpstream, op, apiErr.Status())
	}

	c.record(ctx, op, "error")
	c.log.Warn("management call failed", zap.String("operation", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}

func (c *Client) record(ctx context.Context, op, outcome string) {
	c.metrics.RecordManagementCall(ctx, op, outcome)
}

var _ Service = (*Client)(nil)
