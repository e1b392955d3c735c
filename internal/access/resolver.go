package access

import (
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// NavItem describes a navigation destination and the roles allowed to
// see it. The list is static configuration; it is never mutated at
// runtime.
type NavItem struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Path  string       `json:"path"`
	Roles []types.Role `json:"roles"`
}

// DefaultNavItems returns the cabinet's navigation destinations with
// their per-role allow-lists.
func DefaultNavItems() []NavItem {
	return []NavItem{
		{
			ID:    "dashboard",
			Label: "Tableau de bord",
			Path:  "/dashboard",
			Roles: []types.Role{types.RoleAdmin, types.RoleDoctor, types.RoleAssistant},
		},
		{
			ID:    "appointments",
			Label: "Rendez-vous",
			Path:  "/appointments",
			Roles: []types.Role{types.RoleAdmin, types.RoleDoctor, types.RoleAssistant},
		},
		{
			ID:    "patients",
			Label: "Patients",
			Path:  "/patients",
			Roles: []types.Role{types.RoleAdmin, types.RoleDoctor, types.RoleAssistant},
		},
		{
			ID:    "analytics",
			Label: "Analyses",
			Path:  "/analytics",
			Roles: []types.Role{types.RoleAdmin, types.RoleDoctor},
		},
		{
			ID:    "inventory",
			Label: "Inventaire",
			Path:  "/inventory",
			Roles: []types.Role{types.RoleAdmin},
		},
		{
			ID:    "settings",
			Label: "Paramètres",
			Path:  "/settings",
			Roles: []types.Role{types.RoleAdmin},
		},
	}
}

// IsNavAllowed reports whether the role may see the navigation item.
// An invalid or unresolved role is allowed nothing.
func IsNavAllowed(role types.Role, item NavItem) bool {
	if !role.Valid() {
		return false
	}
	for _, allowed := range item.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// FilterNav returns the items visible to the role, preserving input
// order. Pure filter: filtering an already-filtered list is a no-op.
func FilterNav(role types.Role, items []NavItem) []NavItem {
	visible := make([]NavItem, 0, len(items))
	for _, item := range items {
		if IsNavAllowed(role, item) {
			visible = append(visible, item)
		}
	}
	return visible
}

// CanMutatePatient reports whether the role may create, edit or delete
// patient records. Doctors consult records but never mutate them;
// any role outside the closed set is denied.
func CanMutatePatient(role types.Role) bool {
	switch role {
	case types.RoleAdmin, types.RoleAssistant:
		return true
	case types.RoleDoctor:
		return false
	}
	return false
}

// CanMutateAppointment reports whether the role may create, edit or
// delete appointments. The rule mirrors patient mutations.
func CanMutateAppointment(role types.Role) bool {
	return CanMutatePatient(role)
}

// CanManageUsers reports whether the role may manage user accounts.
func CanManageUsers(role types.Role) bool {
	return role == types.RoleAdmin
}

// CanViewAnalytics reports whether the role may view practice
// analytics.
func CanViewAnalytics(role types.Role) bool {
	switch role {
	case types.RoleAdmin, types.RoleDoctor:
		return true
	case types.RoleAssistant:
		return false
	}
	return false
}
