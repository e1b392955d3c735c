package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

func navIDs(items []NavItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestFilterNavByRole(t *testing.T) {
	items := DefaultNavItems()

	tests := []struct {
		role    types.Role
		wantIDs []string
	}{
		{
			role:    types.RoleAdmin,
			wantIDs: []string{"dashboard", "appointments", "patients", "analytics", "inventory", "settings"},
		},
		{
			role:    types.RoleDoctor,
			wantIDs: []string{"dashboard", "appointments", "patients", "analytics"},
		},
		{
			role:    types.RoleAssistant,
			wantIDs: []string{"dashboard", "appointments", "patients"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := FilterNav(tt.role, items)
			assert.Equal(t, tt.wantIDs, navIDs(got))
		})
	}
}

func TestFilterNavDeniesUnknownRoles(t *testing.T) {
	items := DefaultNavItems()

	for _, role := range []types.Role{"", "superadmin", "ADMIN", "nurse"} {
		t.Run(string(role), func(t *testing.T) {
			assert.Empty(t, FilterNav(role, items))
		})
	}
}

func TestFilterNavIsIdempotentAndOrderPreserving(t *testing.T) {
	items := DefaultNavItems()

	once := FilterNav(types.RoleDoctor, items)
	twice := FilterNav(types.RoleDoctor, once)
	assert.Equal(t, once, twice)

	// The input slice must not be reordered or mutated.
	require.Equal(t, DefaultNavItems(), items)

	allIDs := navIDs(items)
	position := map[string]int{}
	for i, id := range allIDs {
		position[id] = i
	}
	filtered := navIDs(once)
	for i := 1; i < len(filtered); i++ {
		assert.Less(t, position[filtered[i-1]], position[filtered[i]],
			"filtered items must keep input order")
	}
}

func TestIsNavAllowed(t *testing.T) {
	inventory := NavItem{ID: "inventory", Roles: []types.Role{types.RoleAdmin}}

	assert.True(t, IsNavAllowed(types.RoleAdmin, inventory))
	assert.False(t, IsNavAllowed(types.RoleDoctor, inventory))
	assert.False(t, IsNavAllowed("intruder", inventory))

	// An item with no roles is visible to no one.
	empty := NavItem{ID: "hidden"}
	assert.False(t, IsNavAllowed(types.RoleAdmin, empty))
}

func TestMutationPermissions(t *testing.T) {
	tests := []struct {
		role          types.Role
		mutatePatient bool
		manageUsers   bool
		viewAnalytics bool
	}{
		{types.RoleAdmin, true, true, true},
		{types.RoleDoctor, false, false, true},
		{types.RoleAssistant, true, false, false},
		{"", false, false, false},
		{"unknown", false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.mutatePatient, CanMutatePatient(tt.role))
			assert.Equal(t, tt.mutatePatient, CanMutateAppointment(tt.role))
			assert.Equal(t, tt.manageUsers, CanManageUsers(tt.role))
			assert.Equal(t, tt.viewAnalytics, CanViewAnalytics(tt.role))
		})
	}
}
