// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package validate

import (
	"fmt"

	"github.com/softwhere/softwhere/internal/model"
)

// Kind classifies a rejected license value.
type Kind string

const (
	EmptyField            Kind = "empty_field"
	UnknownUser           Kind = "unknown_user"
	BadDateFormat         Kind = "bad_date_format"
	ExpiryNotAfterInstall Kind = "expiry_not_after_install"
	NotANumber            Kind = "not_a_number"
	DuplicateLicenseKey   Kind = "duplicate_license_key"
	InvalidStatus         Kind = "invalid_status"
	UnknownField          Kind = "unknown_field"
)

// ValidationError reports the first rule a license value broke.
type ValidationError struct {
	Kind  Kind
	Field model.Field
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyField:
		return fmt.Sprintf("%s cannot be empty", e.Field)
	case UnknownUser:
		return fmt.Sprintf("user %q does not exist", e.Value)
	case BadDateFormat:
		return fmt.Sprintf("%s %q is not a YYYY-MM-DD date", e.Field, e.Value)
	case ExpiryNotAfterInstall:
		return fmt.Sprintf("expiry date %q must be after the install date", e.Value)
	case NotANumber:
		return fmt.Sprintf("%s %q is not a non-negative whole number", e.Field, e.Value)
	case DuplicateLicenseKey:
		return fmt.Sprintf("license key %q already exists", e.Value)
	case InvalidStatus:
		return fmt.Sprintf("status %q must be 'active' or 'expired'", e.Value)
	case UnknownField:
		return fmt.Sprintf("unknown field %q", e.Field)
	}
	return string(e.Kind)
}

// Is matches any *ValidationError with the same Kind.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyField            = &ValidationError{Kind: EmptyField}
	ErrUnknownUser           = &ValidationError{Kind: UnknownUser}
	ErrBadDateFormat         = &ValidationError{Kind: BadDateFormat}
	ErrExpiryNotAfterInstall = &ValidationError{Kind: ExpiryNotAfterInstall}
	ErrNotANumber            = &ValidationError{Kind: NotANumber}
	ErrDuplicateLicenseKey   = &ValidationError{Kind: DuplicateLicenseKey}
	ErrInvalidStatus         = &ValidationError{Kind: InvalidStatus}
	ErrUnknownField          = &ValidationError{Kind: UnknownField}
)
