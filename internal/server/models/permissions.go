package models

// RoleAdmin is the role of the seeded administrator.
const RoleAdmin = "admin"

// Permission strings follow the "action:resource" convention.
const (
	PermReadButtons      = "read:buttons"
	PermWriteButtons     = "write:buttons"
	PermDeleteButtons    = "delete:buttons"
	PermReadCategories   = "read:categories"
	PermWriteCategories  = "write:categories"
	PermDeleteCategories = "delete:categories"
	PermReadUsers        = "read:users"
	PermWriteUsers       = "write:users"
	PermDeleteUsers      = "delete:users"
	PermReadSettings     = "read:settings"
	PermWriteSettings    = "write:settings"
	PermAdminSystem      = "admin:system"
	PermAdminPurge       = "admin:purge"
)

// AllPermissions lists every permission known to the panel.
func AllPermissions() []string {
	return []string{
		PermReadButtons, PermWriteButtons, PermDeleteButtons,
		PermReadCategories, PermWriteCategories, PermDeleteCategories,
		PermReadUsers, PermWriteUsers, PermDeleteUsers,
		PermReadSettings, PermWriteSettings,
		PermAdminSystem, PermAdminPurge,
	}
}
