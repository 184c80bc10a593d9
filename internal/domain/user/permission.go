package user

type Permission string

const (
	// Self
	PermissionViewOwnProfile    Permission = "profile.view_own"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"

	// Administration
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionEmployeeManage    Permission = "employee.manage"
	PermissionReportsView       Permission = "reports.view"
	PermissionSecurityLogView   Permission = "security_log.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionEmployeeManage,
		PermissionReportsView,
		PermissionSecurityLogView,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
