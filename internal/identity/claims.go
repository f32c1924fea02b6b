package identity

import (
	"errors"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing_bearer_token")
	ErrInvalidToken = errors.New("invalid_token")
)

// Claims is the subset of an access token the APIs act on.
type Claims struct {
	Permissions []string `json:"permissions,omitempty"`
	OrgID       string   `json:"org_id,omitempty"`
	Scope       string   `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// HasAll reports whether every permission in perms was granted.
// A token without a permissions claim satisfies nothing.
func (c *Claims) HasAll(perms ...string) bool {
	if len(perms) == 0 {
		return true
	}
	if c == nil || len(c.Permissions) == 0 {
		return false
	}
	for _, p := range perms {
		if !slices.Contains(c.Permissions, p) {
			return false
		}
	}
	return true
}

func (c *Claims) UserID() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Subject)
}

func (c *Claims) OrganizationID() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.OrgID)
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, error) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
