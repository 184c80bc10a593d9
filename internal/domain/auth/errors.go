package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrGoogleAccountDenied = errors.New("this Google account is not registered; ask an administrator to create your account")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
)
