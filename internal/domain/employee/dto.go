package employee

import (
	"strings"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/user"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Role       string  `json:"role"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Search != nil {
		s := strings.TrimSpace(*f.Search)
		if s == "" {
			f.Search = nil
		} else if len(s) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "search",
				Message: "search must not exceed 100 characters",
			})
		} else {
			f.Search = &s
		}
	}
	if f.Department != nil && validator.IsEmpty(*f.Department) {
		f.Department = nil
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateEmployeeRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	} else if len(r.Password) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 72 characters",
		})
	}

	// Empty employee_id is generated by the service.
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if r.EmployeeID != "" && !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be 3-32 letters, digits, dots or dashes",
		})
	}

	errs = append(errs, validateProfile(r.Name, r.Department, r.Position)...)

	if validator.IsEmpty(r.Role) {
		r.Role = string(user.RoleEmployee)
	} else if !user.IsValidRole(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be admin or employee",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest edits profile fields and role. The employee id is
// fixed once attendance has been recorded against it.
type UpdateEmployeeRequest struct {
	ID         string `json:"-"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	errs = append(errs, validateProfile(r.Name, r.Department, r.Position)...)

	if !user.IsValidRole(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be admin or employee",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateProfile(name, department, position string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	fields := []struct {
		field string
		value string
	}{
		{"name", name},
		{"department", department},
		{"position", position},
	}
	for _, f := range fields {
		if validator.IsEmpty(f.value) {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " is required",
			})
		} else if len(f.value) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " must not exceed 255 characters",
			})
		}
	}

	return errs
}
