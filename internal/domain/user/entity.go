package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Manages employees, views reports and security logs
	RoleEmployee Role = "employee" // Records own attendance
)

type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	EmployeeID *string
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsValidRole reports whether r is a known role.
func IsValidRole(r string) bool {
	return r == string(RoleAdmin) || r == string(RoleEmployee)
}
