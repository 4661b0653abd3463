package user

type Permission string

const (
	// Attendance
	PermissionAttendancePreview Permission = "attendance.preview"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Shifts
	PermissionShiftView    Permission = "shift.view"
	PermissionShiftPreview Permission = "shift.preview"
	PermissionShiftManage  Permission = "shift.manage"
	PermissionShiftAssign  Permission = "shift.assign"
)

var basePermissions = []Permission{
	PermissionAttendancePreview,
	PermissionShiftView,
	PermissionShiftPreview,
}

var hrPermissions = append([]Permission{
	PermissionAttendanceViewAll,
	PermissionAttendanceManage,
	PermissionShiftAssign,
}, basePermissions...)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: append([]Permission{PermissionShiftManage}, hrPermissions...),
	RoleAdmin:      append([]Permission{PermissionShiftManage}, hrPermissions...),
	RoleHRManager:  hrPermissions,
	RoleManager:    basePermissions,
	RoleEmployee:   basePermissions,
	RoleTrial:      basePermissions,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
