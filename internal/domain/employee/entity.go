package employee

import (
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/user"
)

// Employee is the profile attached to a user account. EmployeeID is the
// business identifier (NIP or generated code) stored on attendance records.
type Employee struct {
	ID         string
	UserID     string
	EmployeeID string
	Name       string
	Department string
	Position   string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Join
	Email *string
	Role  user.Role
}

// Display fallbacks when a record has no matching profile.
const (
	UnknownName       = "Unknown Employee"
	UnknownDepartment = "Unknown Department"
	UnknownPosition   = "Unknown Position"
)
