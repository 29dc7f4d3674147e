package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Attendance errors
var (
	ErrDuplicateSignIn = errors.New("duplicate attendance signIn")
	ErrSignOutExpired  = errors.New("signOut time expired")
)

// Auth errors
var (
	ErrPlatformDenied = errors.New("user type is not allowed on this platform")
	ErrAccountLocked  = errors.New("account temporarily locked due to too many failed login attempts")
)

// LocationError is a policy rejection carrying the geofence reason that
// blocked a sign-in/sign-out. Only hard reasons are ever wrapped in it.
type LocationError struct {
	Reason LocationReason
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("location rejected: %s", e.Reason)
}

// IsLocationRejected reports whether err is a geofence rejection and, if
// so, returns the reason.
func IsLocationRejected(err error) (LocationReason, bool) {
	var le *LocationError
	if errors.As(err, &le) {
		return le.Reason, true
	}
	return "", false
}
