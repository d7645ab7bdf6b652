package auth

// Role is the closed set of back-office roles. Routes declare which roles
// may reach them; there is no implicit hierarchy, so superadmin only
// reaches a route when listed explicitly.
type Role string

const (
	RoleSuperadmin    Role = "superadmin"
	RoleAdminKeuangan Role = "admin_keuangan"
	RoleUser          Role = "user"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleSuperadmin, RoleAdminKeuangan, RoleUser:
		return true
	}
	return false
}

// Route-level required-role sets, mirrored by the router.
var (
	AdminRoles      = []Role{RoleAdminKeuangan, RoleSuperadmin}
	SuperadminRoles = []Role{RoleSuperadmin}
	AllRoles        = []Role{RoleUser, RoleAdminKeuangan, RoleSuperadmin}
)

// Allow is the role policy: an empty required set admits any authenticated
// identity, otherwise the actual role must be a member of the set.
func Allow(required []Role, actual Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if r == actual {
			return true
		}
	}
	return false
}
