package rbac

// Role constants
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
)

// Permission constants
const (
	PermViewProducts = "view_products"
	PermEditProducts = "edit_products"
	PermGenerateAds  = "generate_ads"
	PermPublishAds   = "publish_ads"
	PermCleanup      = "cleanup"
	PermEditSettings = "edit_settings"
	PermViewPlatform = "view_platform"
	PermCheckLinks   = "check_links"
	PermWatchEvents  = "watch_events"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermViewProducts, PermEditProducts, PermGenerateAds, PermPublishAds,
		PermCleanup, PermEditSettings, PermViewPlatform, PermCheckLinks, PermWatchEvents,
	},
	RoleAnalyst: {
		PermViewProducts, PermViewPlatform, PermCheckLinks, PermWatchEvents,
		// Analyst CANNOT mutate the catalog or touch the ads platform.
	},
}

func IsValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
