package errors

import (
	"errors"
	"fmt"
)

// Common error types for the ConnectEXE client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotVerified    = errors.New("user is not verified")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrNoToken      = errors.New("no access token")

	// Request errors
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnexpectedReply = errors.New("unexpected response from server")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrSealedStore        = errors.New("cannot open sealed store")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
