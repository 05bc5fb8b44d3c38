// Package services defines the business logic for authentication and user
// account management. This file centralizes service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// Login outcomes are plain sentinels because the login handler renders them
// itself. Everything else a service returns for a predictable condition is a
// classified *failure.Error and is rendered by the error translator.
package services

import "errors"

// Login errors.
var (
	// ErrInvalidCredentials indicates that no user matches the given email and
	// password.
	ErrInvalidCredentials = errors.New("Invalid Credentials")

	// ErrAccountDeactivated indicates that the credentials are valid but the
	// account has been deactivated by an administrator.
	ErrAccountDeactivated = errors.New("Your user account has been deactivated.")
)

// User resource messages.
const (
	// ResourceUser labels failed user lookups.
	ResourceUser = "User"
	// ResourceWallet labels failed wallet lookups.
	ResourceWallet = "Wallet"

	msgNotFound        = "Not found."
	msgEmailTaken      = "user with this email already exists."
	msgPasswordTooLong = "Ensure this field has no more than 72 bytes."
	msgToggleOwnActive = "You cannot change the activation of your own account."
)
