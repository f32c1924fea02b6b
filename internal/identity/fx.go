package identity

import (
	"context"
	"errors"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("identity",
	fx.Provide(NewJWKSVerifier),
)

// NewJWKSVerifier builds a Verifier backed by the provider's JWKS endpoint.
// Keys are cached and refreshed in the background until the app stops.
func NewJWKSVerifier(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, log *zap.Logger) (*Verifier, error) {
	if cfg.Auth0.JWKSURL == "" {
		return nil, errors.New("auth0 jwks url is required")
	}
	if cfg.Auth0.Issuer == "" {
		return nil, errors.New("auth0 issuer is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.Auth0.JWKSURL})
	if err != nil {
		cancel()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})

	log.Info("jwks verifier configured",
		zap.String("issuer", cfg.Auth0.Issuer),
		zap.String("jwks_url", cfg.Auth0.JWKSURL),
	)
	return NewVerifier(cfg.Auth0.Issuer, jwks.Keyfunc, clk), nil
}
