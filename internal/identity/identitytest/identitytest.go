// Package identitytest mints signed access tokens for handler tests.
package identitytest

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/replate/internal/identity"
)

// TestIssuer signs tokens with an in-memory RSA key for handler tests.
type TestIssuer struct {
	Issuer string
	key    *rsa.PrivateKey
}

func NewTestIssuer(t testing.TB, issuer string) *TestIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return &TestIssuer{Issuer: issuer, key: key}
}

func (ti *TestIssuer) Keyfunc(*jwt.Token) (any, error) {
	return &ti.key.PublicKey, nil
}

func (ti *TestIssuer) Verifier() *identity.Verifier {
	return identity.NewVerifier(ti.Issuer, ti.Keyfunc, nil)
}

// Sign mints an RS256 token for sub with the given audience, org and permissions.
func (ti *TestIssuer) Sign(t testing.TB, sub, audience, orgID string, perms ...string) string {
	t.Helper()
	now := time.Now()
	claims := identity.Claims{
		Permissions: perms,
		OrgID:       orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.Issuer,
			Subject:   sub,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	return ti.SignClaims(t, claims)
}

// SignClaims signs arbitrary claims, e.g. an expired or foreign-audience token.
func (ti *TestIssuer) SignClaims(t testing.TB, claims identity.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(ti.key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}
