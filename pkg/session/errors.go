package session

import "errors"

var (
	// ErrInvalidEmail is returned before any network call when the email
	// field is malformed. Message is intended for end users.
	ErrInvalidEmail = errors.New("Please enter a valid email address")

	// ErrPasswordTooShort is returned before any network call when the
	// password fails the minimum length check.
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")

	ErrFieldsRequired = errors.New("email and password required")
)
