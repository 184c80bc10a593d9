package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (Employee, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	ListDepartments(ctx context.Context) ([]string, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
	Delete(ctx context.Context, id string) error
}
