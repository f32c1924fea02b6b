package actions

import (
	_ "embed"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var modelText string

const (
	OrgRoleDriver = "driver"
	OrgRoleMember = "member"
	OrgRoleAdmin  = "admin"
)

// orgRolePrecedence lists org_role levels from strongest to weakest.
var orgRolePrecedence = []string{OrgRoleAdmin, OrgRoleMember, OrgRoleDriver}

// NewEnforcer builds the role to org_role policy. Policies live in memory only.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{"Logistics Driver", OrgRoleDriver},

		{"Supplier Member", OrgRoleMember},
		{"Community Member", OrgRoleMember},

		{"Supplier Admin", OrgRoleAdmin},
		{"Logistics Admin", OrgRoleAdmin},
		{"Community Admin", OrgRoleAdmin},
	}
	_, err := enforcer.AddPolicies(policies)
	return err
}

// resolveOrgRole returns the strongest org_role granted by any of roles, or "".
func resolveOrgRole(enforcer *casbin.SyncedEnforcer, roles []string) (string, error) {
	for _, level := range orgRolePrecedence {
		for _, role := range roles {
			ok, err := enforcer.Enforce(role, level)
			if err != nil {
				return "", err
			}
			if ok {
				return level, nil
			}
		}
	}
	return "", nil
}
