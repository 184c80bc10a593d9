package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/auth"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/geofence"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/report"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/user"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/jwt"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/oauth"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence rejections carry the measured distance
	var rejection *geofence.RejectionError
	if errors.As(err, &rejection) {
		LocationRejected(w, geofenceCode(rejection.Reason), err.Error(), map[string]string{
			"distance_meters": strconv.Itoa(rejection.DistanceMeters),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrGoogleAccountDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrInvalidOAuthState):
		BadRequest(w, "Invalid or expired login session, please try again", nil)
	case errors.Is(err, oauth.ErrEmailNotVerified):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Geofence errors without distance
	case errors.Is(err, geofence.ErrLocationUnavailable):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, geofence.ErrOutOfRange),
		errors.Is(err, geofence.ErrSuspiciousLocation),
		errors.Is(err, geofence.ErrLocationIPMismatch):
		LocationRejected(w, geofenceCode(err), err.Error(), nil)

	// Attendance time window errors
	case errors.Is(err, attendance.ErrCheckInWindowClosed),
		errors.Is(err, attendance.ErrCheckOutWindowClosed),
		errors.Is(err, attendance.ErrAlreadyCheckedIn):
		UnprocessableEntity(w, "OUTSIDE_TIME_WINDOW", err.Error())

	// Attendance state conflicts
	case errors.Is(err, attendance.ErrAttendanceComplete),
		errors.Is(err, attendance.ErrAlreadyLateCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrConcurrentWrite):
		Conflict(w, "Attendance was recorded by another request, please refresh")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrProfileNotLinked):
		NotFound(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee id already exists")
	case errors.Is(err, employee.ErrEmailExists), errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrEmployeeIDConflict):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrCannotDeleteSelf):
		Forbidden(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrInvalidMonth):
		UnprocessableEntity(w, "INVALID_MONTH", err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "Something went wrong, please try again")
	}
}

func geofenceCode(reason error) string {
	switch {
	case errors.Is(reason, geofence.ErrSuspiciousLocation):
		return "SUSPICIOUS_LOCATION"
	case errors.Is(reason, geofence.ErrLocationIPMismatch):
		return "LOCATION_IP_MISMATCH"
	default:
		return "OUT_OF_RANGE"
	}
}
