package user

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleHRManager  Role = "HR_MANAGER"
	RoleManager    Role = "MANAGER"
	RoleEmployee   Role = "EMPLOYEE"
	RoleTrial      Role = "TRIAL" // Trial accounts only see read-only data
)

// IsValid checks the role is one of the known roles
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}
