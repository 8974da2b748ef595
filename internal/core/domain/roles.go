package domain

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleSalesRep = "sales_rep"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSalesRep:
		return true
	}
	return false
}
