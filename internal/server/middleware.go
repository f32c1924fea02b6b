package server

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/replate/internal/identity"
	obscontext "github.com/smallbiznis/replate/internal/observability/context"
)

const contextClaimsKey = "identity.claims"

// RequireToken verifies the bearer token for audience and stores its claims.
func RequireToken(v *identity.Verifier, audience string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := identity.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		claims, err := v.Verify(c.Request.Context(), raw, audience)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := obscontext.WithActor(c.Request.Context(), "user", claims.UserID())
		if orgID := claims.OrganizationID(); orgID != "" {
			ctx = obscontext.WithOrgID(ctx, orgID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

// requireAudience fails startup for an API whose token audience is not configured.
func requireAudience(api, audience string) error {
	if strings.TrimSpace(audience) == "" {
		return fmt.Errorf("%s api: auth0 audience is required", api)
	}
	return nil
}

// RequirePermissions rejects callers missing any of perms.
func RequirePermissions(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !claimsFrom(c).HasAll(perms...) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *identity.Claims {
	v, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*identity.Claims)
	return claims
}

// RequireSharedToken checks a static bearer token. An empty token disables the check.
func RequireSharedToken(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		raw, err := identity.BearerToken(c.GetHeader("Authorization"))
		if err != nil || subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
