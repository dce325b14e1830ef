package token

import "github.com/jrsteele09/go-warehouse-client/internal/utils"

// RoleField names the claim a role set was read from.
type RoleField string

const (
	RoleFieldNone     RoleField = ""
	RoleFieldRoles    RoleField = "roles"
	RoleFieldRole     RoleField = "role"
	RoleFieldRoleName RoleField = "role_name"
)

// RoleFieldPriority is the order claims are searched for roles. The first
// field holding at least one non-empty role name wins.
var RoleFieldPriority = []RoleField{RoleFieldRoles, RoleFieldRole, RoleFieldRoleName}

// RoleClaim is the result of looking up roles in a token.
type RoleClaim struct {
	Field RoleField
	Roles []string
}

// Found reports whether any role field was present.
func (r RoleClaim) Found() bool {
	return r.Field != RoleFieldNone
}

// RolesOf extracts the roles of a token. Single-role deployments put one name
// in role or role_name, which becomes a one-element slice.
func RolesOf(raw string) RoleClaim {
	claims, ok := Decode(raw)
	if !ok {
		return RoleClaim{Roles: []string{}}
	}
	return RolesFromClaims(claims)
}

// RolesFromClaims applies RoleFieldPriority to already decoded claims.
func RolesFromClaims(claims Claims) RoleClaim {
	for _, field := range RoleFieldPriority {
		var roles []string
		switch v := claims[string(field)].(type) {
		case string:
			if v != "" {
				roles = []string{v}
			}
		case []any:
			roles = utils.ToStringSlice(v)
		}
		if len(roles) > 0 {
			return RoleClaim{Field: field, Roles: roles}
		}
	}
	return RoleClaim{Roles: []string{}}
}
