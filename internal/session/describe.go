// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"errors"
	"strings"

	"github.com/softwhere/softwhere/internal/credentials"
	"github.com/softwhere/softwhere/internal/i18n"
	"github.com/softwhere/softwhere/internal/licenses"
	"github.com/softwhere/softwhere/internal/store"
	"github.com/softwhere/softwhere/internal/validate"
)

// describe turns an error into a translated message for the console.
func describe(err error) string {
	var ve *validate.ValidationError
	var ce *credentials.CredentialError
	var se *store.StorageError

	switch {
	case errors.As(err, &ve):
		return describeValidation(ve)
	case errors.As(err, &ce):
		switch ce.Kind {
		case credentials.DuplicateUsername:
			return i18n.T("error.duplicate_username", ce.Username)
		case credentials.PasswordTooShort:
			return i18n.T("error.password_too_short", credentials.MinPasswordLength)
		case credentials.PasswordTooLong:
			return i18n.T("error.password_too_long", credentials.MaxPasswordLength)
		default:
			return i18n.T("error." + string(ce.Kind))
		}
	case errors.Is(err, credentials.ErrUnknownUser):
		return i18n.T("error.login_unknown_user")
	case errors.Is(err, credentials.ErrWrongPassword):
		return i18n.T("error.login_wrong_password")
	case errors.Is(err, credentials.ErrAlreadyBootstrapped):
		return i18n.T("error.already_bootstrapped")
	case errors.Is(err, licenses.ErrNotFound):
		return i18n.T("error.not_found")
	case errors.As(err, &se):
		return i18n.T("error.storage", se.Error())
	}
	return i18n.T("error.generic", err.Error())
}

func describeValidation(ve *validate.ValidationError) string {
	switch ve.Kind {
	case validate.EmptyField, validate.BadDateFormat, validate.NotANumber:
		return i18n.T("error."+string(ve.Kind), ve.Field.Label())
	case validate.UnknownUser, validate.DuplicateLicenseKey, validate.InvalidStatus:
		return i18n.T("error."+string(ve.Kind), ve.Value)
	case validate.UnknownField:
		return i18n.T("error.unknown_field", string(ve.Field))
	}
	return i18n.T("error." + string(ve.Kind))
}

func isYes(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return false
	}
	for _, y := range strings.Split(i18n.T("prompt.yes_answers"), ",") {
		if a == strings.TrimSpace(y) {
			return true
		}
	}
	return false
}
