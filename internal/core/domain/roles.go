package domain

import "strings"

// Role names
const (
	RoleAdmin             = "Admin"
	RoleWarehouseManager  = "Warehouse Manager"
	RoleApprovalManager   = "Approval Manager"
	RoleRepresentative    = "Representative"
	RoleMember            = "Member"
	roleNameWithoutRoles  = "user"
	defaultRolePriorityCS = RoleAdmin + "," + RoleWarehouseManager + "," + RoleApprovalManager + "," + RoleRepresentative + "," + RoleMember
)

// RolePriority is the ordered list used to derive a user's primary role.
// Earlier entries win.
type RolePriority []string

// DefaultRolePriority returns the stock ordering
func DefaultRolePriority() RolePriority {
	return ParseRolePriority(defaultRolePriorityCS)
}

// ParseRolePriority splits a comma separated list, dropping blanks
func ParseRolePriority(s string) RolePriority {
	var out RolePriority
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// PrimaryRole picks the highest priority role among names.
// No roles yields "user"; roles that are all unknown to the list yield "Member".
func (p RolePriority) PrimaryRole(names []string) string {
	if len(names) == 0 {
		return roleNameWithoutRoles
	}
	for _, candidate := range p {
		for _, name := range names {
			if name == candidate {
				return candidate
			}
		}
	}
	return RoleMember
}
