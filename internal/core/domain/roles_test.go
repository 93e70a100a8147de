package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryRole(t *testing.T) {
	p := DefaultRolePriority()

	tests := []struct {
		name  string
		roles []string
		want  string
	}{
		{"no roles", nil, "user"},
		{"single member", []string{RoleMember}, RoleMember},
		{"admin wins", []string{RoleMember, RoleRepresentative, RoleAdmin}, RoleAdmin},
		{"warehouse over approval", []string{RoleApprovalManager, RoleWarehouseManager}, RoleWarehouseManager},
		{"unknown falls back to member", []string{"Guest"}, RoleMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.PrimaryRole(tt.roles))
		})
	}
}

func TestParseRolePriority(t *testing.T) {
	p := ParseRolePriority(" Representative , ,Admin")
	assert.Equal(t, RolePriority{"Representative", "Admin"}, p)

	// custom ordering changes the winner
	assert.Equal(t, RoleRepresentative, p.PrimaryRole([]string{RoleAdmin, RoleRepresentative}))
}
