package management

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// OrgSlug derives the provider-side organization name.
func OrgSlug(input string) string {
	if s := slug.Make(strings.TrimSpace(input)); s != "" {
		return s
	}
	return "org-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// ConnectionName derives the SSO connection name for an organization.
func ConnectionName(orgName string) string {
	return "org-" + slug.Make(strings.TrimSpace(orgName)) + "-cnx"
}
