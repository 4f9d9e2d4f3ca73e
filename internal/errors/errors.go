package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the portal session controller
var (
	// Token errors
	ErrMalformedToken = errors.New("malformed identity token")
	ErrMissingToken   = errors.New("no id_token in login fragment")
	ErrTokenExpired   = errors.New("identity token expired")

	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAlreadyStarted   = errors.New("already started")
	ErrSessionChanged   = errors.New("session changed during credential exchange")

	// Outbound call errors
	ErrCredentialRefresh = errors.New("credential refresh failed")
	ErrNotification      = errors.New("sign-in notification failed")
	ErrNoCredentials     = errors.New("no backend credentials")

	// Storage errors
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
