package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/user"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/jwt"
	"github.com/diskominfo-klu/absensi-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

// generatedIDAttempts bounds retries when a generated employee id collides.
const generatedIDAttempts = 5

type EmployeeServiceImpl struct {
	tx           postgresql.Transactor
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	now          func() time.Time
}

func NewEmployeeService(
	tx postgresql.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:         emp.ID,
		UserID:     emp.UserID,
		EmployeeID: emp.EmployeeID,
		Name:       emp.Name,
		Email:      emp.Email,
		Department: emp.Department,
		Position:   emp.Position,
		Role:       string(emp.Role),
		CreatedAt:  emp.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  emp.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// GetMyProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMyProfile(ctx context.Context) (employee.EmployeeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrProfileNotLinked
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return mapEmployeeToResponse(emp), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	if req.EmployeeID == "" {
		generated, err := s.generateEmployeeID(ctx)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		req.EmployeeID = generated
	} else {
		exists, err := s.employeeRepo.ExistsByEmployeeID(ctx, req.EmployeeID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee id: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	var created employee.Employee
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		newUser, err := s.userRepo.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: &passwordHash,
			Role:         user.Role(req.Role),
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return employee.ErrEmailExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		created, err = s.employeeRepo.Create(txCtx, employee.Employee{
			UserID:     newUser.ID,
			EmployeeID: req.EmployeeID,
			Name:       req.Name,
			Department: req.Department,
			Position:   req.Position,
		})
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeIDExists) {
				return err
			}
			return fmt.Errorf("failed to create employee: %w", err)
		}
		created.Email = &newUser.Email
		created.Role = newUser.Role
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "id", created.ID, "employee_id", created.EmployeeID, "role", created.Role)
	return mapEmployeeToResponse(created), nil
}

// generateEmployeeID builds EMP + the last six digits of the unix millisecond
// clock + three random digits, retrying on collision.
func (s *EmployeeServiceImpl) generateEmployeeID(ctx context.Context) (string, error) {
	for i := 0; i < generatedIDAttempts; i++ {
		candidate := fmt.Sprintf("EMP%06d%03d", s.now().UnixMilli()%1_000_000, rand.IntN(1000))
		exists, err := s.employeeRepo.ExistsByEmployeeID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check employee id: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", employee.ErrEmployeeIDConflict
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Update(txCtx, req.ID, req); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		if user.Role(req.Role) != existing.Role {
			if err := s.userRepo.UpdateRole(txCtx, existing.UserID, user.Role(req.Role)); err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get updated employee: %w", err)
	}

	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Prevent self-deletion
	if existing.UserID == claims.UserID {
		return employee.ErrCannotDeleteSelf
	}

	// Attendance rows keep their employee_id and drop out of reports.
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Delete(txCtx, id); err != nil {
			return err
		}
		if err := s.userRepo.Delete(txCtx, existing.UserID); err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Employee deleted", "id", id, "employee_id", existing.EmployeeID, "deleted_by", claims.UserID)
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}
	return responses, nil
}

// ListDepartments implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListDepartments(ctx context.Context) ([]string, error) {
	return s.employeeRepo.ListDepartments(ctx)
}
