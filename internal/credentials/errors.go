// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package credentials

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected registration.
type Kind string

const (
	EmptyUsername     Kind = "empty_username"
	DuplicateUsername Kind = "duplicate_username"
	PasswordTooShort  Kind = "password_too_short"
	PasswordTooLong   Kind = "password_too_long"
	InvalidRole       Kind = "invalid_role"
	PasswordMismatch  Kind = "password_mismatch"
)

// CredentialError reports why an account could not be registered.
type CredentialError struct {
	Kind     Kind
	Username string
}

func (e *CredentialError) Error() string {
	switch e.Kind {
	case DuplicateUsername:
		return fmt.Sprintf("username %q already exists", e.Username)
	case PasswordTooShort:
		return fmt.Sprintf("password must be at least %d characters long", MinPasswordLength)
	case PasswordTooLong:
		return fmt.Sprintf("password must be at most %d bytes long", MaxPasswordLength)
	case InvalidRole:
		return "role must be either 'admin' or 'employee'"
	case PasswordMismatch:
		return "passwords do not match"
	case EmptyUsername:
		return "username cannot be empty"
	}
	return string(e.Kind)
}

// Is matches any *CredentialError with the same Kind.
func (e *CredentialError) Is(target error) bool {
	t, ok := target.(*CredentialError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyUsername     = &CredentialError{Kind: EmptyUsername}
	ErrDuplicateUsername = &CredentialError{Kind: DuplicateUsername}
	ErrPasswordTooShort  = &CredentialError{Kind: PasswordTooShort}
	ErrPasswordTooLong   = &CredentialError{Kind: PasswordTooLong}
	ErrInvalidRole       = &CredentialError{Kind: InvalidRole}
	ErrPasswordMismatch  = &CredentialError{Kind: PasswordMismatch}
)

// Authentication failures. Exactly one of them is returned for a failed login.
var (
	ErrUnknownUser   = errors.New("username not found")
	ErrWrongPassword = errors.New("incorrect password")
)

// ErrAlreadyBootstrapped is returned by Bootstrap when accounts already exist.
var ErrAlreadyBootstrapped = errors.New("an account already exists")
