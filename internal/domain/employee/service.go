package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetMyProfile returns the profile of the authenticated user
	GetMyProfile(ctx context.Context) (EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID (admin only)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee creates the user account and its profile (admin only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee updates profile fields and role (admin only)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes the profile and its account. Admins cannot delete themselves.
	DeleteEmployee(ctx context.Context, id string) error

	// ListEmployees lists employees with search and department filters (admin only)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// ListDepartments returns the distinct departments in use
	ListDepartments(ctx context.Context) ([]string, error)
}
