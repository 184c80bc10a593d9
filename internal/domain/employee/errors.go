package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeIDExists   = errors.New("employee id already exists")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmployeeID  = errors.New("invalid employee id format")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own employee record")
	ErrProfileNotLinked   = errors.New("your account has no employee profile")
	ErrEmployeeIDConflict = errors.New("could not generate a unique employee id")
)
