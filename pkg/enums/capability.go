package enums

// Capability names an action a route requires from the session role.
type Capability string

const (
	CapabilityViewInventory   Capability = "view_inventory"
	CapabilityManageInventory Capability = "manage_inventory"
	CapabilityViewHistory     Capability = "view_history"
	CapabilityManageUsers     Capability = "manage_users"
)

var capabilitiesByRole = map[Role][]Capability{
	RoleAdmin: {
		CapabilityViewInventory,
		CapabilityManageInventory,
		CapabilityViewHistory,
		CapabilityManageUsers,
	},
	RoleSupervisor: {
		CapabilityViewInventory,
	},
}

func (c Capability) String() string {
	return string(c)
}

// Can reports whether the role is granted the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range capabilitiesByRole[r] {
		if granted == c {
			return true
		}
	}
	return false
}
