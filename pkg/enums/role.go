package enums

import "fmt"

// Role is the capability set attached to a profile.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

var validRoles = []Role{RoleStudent, RoleAdmin}

// Capability names an operation gated by role.
type Capability string

const (
	CapabilityPlaceOrders     Capability = "place_orders"
	CapabilityViewOwnStats    Capability = "view_own_stats"
	CapabilityManageOrders    Capability = "manage_orders"
	CapabilityManageInventory Capability = "manage_inventory"
	CapabilityManageMenu      Capability = "manage_menu"
	CapabilityViewAnalytics   Capability = "view_analytics"
)

var capabilitiesByRole = map[Role][]Capability{
	RoleStudent: {CapabilityPlaceOrders, CapabilityViewOwnStats},
	RoleAdmin:   {CapabilityManageOrders, CapabilityManageInventory, CapabilityManageMenu, CapabilityViewAnalytics},
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(capability Capability) bool {
	for _, c := range capabilitiesByRole[r] {
		if c == capability {
			return true
		}
	}
	return false
}

// Capabilities lists what the role grants, in declaration order.
func (r Role) Capabilities() []Capability {
	return append([]Capability(nil), capabilitiesByRole[r]...)
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
