package management

import (
	"context"
	"errors"
	"net/http"
	"time"

	auth0mgmt "github.com/auth0/go-auth0/management"
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/observability/metrics"
	"github.com/smallbiznis/replate/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("management",
	fx.Provide(NewFromConfig),
	fx.Provide(func(c *Client) Service { return c }),
)

// NewFromConfig builds a Client whose SDK handle fetches client-credentials
// tokens for the management audience.
func NewFromConfig(cfg config.Config, m *metrics.Metrics, log *zap.Logger) (*Client, error) {
	if cfg.Auth0.ManagementURL == "" {
		return nil, errors.New("auth0 management url is required")
	}

	hc := &http.Client{
		Timeout:   15 * time.Second,
		Transport: tracing.NewTransport(http.DefaultTransport),
	}
	api, err := auth0mgmt.New(cfg.Auth0.ManagementURL,
		auth0mgmt.WithClient(hc),
		auth0mgmt.WithClientCredentialsAndAudience(
			context.Background(),
			cfg.Auth0.ClientID,
			cfg.Auth0.ClientSecret,
			cfg.Auth0.ManagementAudience,
		),
	)
	if err != nil {
		return nil, err
	}

	return NewClient(api,
		WithLogger(log),
		WithMetrics(m),
		WithSSOProfile(cfg.Auth0.SSOProfileID, cfg.Auth0.BusinessClientID),
	), nil
}
