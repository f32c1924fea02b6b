package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/replate/internal/clock"
)

// Verifier validates access tokens minted by the identity provider.
type Verifier struct {
	issuer  string
	keyFunc jwt.Keyfunc
	clock   clock.Clock
	leeway  time.Duration
}

func NewVerifier(issuer string, keyFunc jwt.Keyfunc, clk clock.Clock) *Verifier {
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &Verifier{
		issuer:  strings.TrimSpace(issuer),
		keyFunc: keyFunc,
		clock:   clk,
		leeway:  30 * time.Second,
	}
}

// Verify checks the RS256 signature, issuer, audience and expiry of raw.
func (v *Verifier) Verify(ctx context.Context, raw, audience string) (*Claims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingToken
	}
	audience = strings.TrimSpace(audience)
	if v.issuer == "" || audience == "" {
		return nil, fmt.Errorf("%w: issuer and audience must be configured", ErrInvalidToken)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.clock.Now),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(audience),
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, v.keyFunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
