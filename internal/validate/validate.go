// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package validate holds the rules a license must satisfy when it is created
// and when one of its fields is edited.
package validate // import "github.com/softwhere/softwhere/internal/validate"

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/model"
)

// LicenseInput is the raw text of a license form, before parsing.
type LicenseInput struct {
	Software       string `json:"software" validate:"required"`
	LicenseKey     string `json:"license_key" validate:"required"`
	User           string `json:"user" validate:"required"`
	AssignedDevice string `json:"assigned_device" validate:"required"`
	InstallDate    string `json:"install_date" validate:"required"`
	ExpiryDate     string `json:"expiry_date" validate:"required"`
	UsageLimit     string `json:"usage_limit" validate:"required"`
	CurrentUsage   string `json:"current_usage" validate:"required"`
}

// InputFields lists the fields collected by the add form, in prompt order.
var InputFields = []model.Field{
	model.FieldSoftware,
	model.FieldLicenseKey,
	model.FieldUser,
	model.FieldAssignedDevice,
	model.FieldInstallDate,
	model.FieldExpiryDate,
	model.FieldUsageLimit,
	model.FieldCurrentUsage,
}

// Get returns the raw value of f.
func (in LicenseInput) Get(f model.Field) string {
	switch f {
	case model.FieldSoftware:
		return in.Software
	case model.FieldLicenseKey:
		return in.LicenseKey
	case model.FieldUser:
		return in.User
	case model.FieldAssignedDevice:
		return in.AssignedDevice
	case model.FieldInstallDate:
		return in.InstallDate
	case model.FieldExpiryDate:
		return in.ExpiryDate
	case model.FieldUsageLimit:
		return in.UsageLimit
	case model.FieldCurrentUsage:
		return in.CurrentUsage
	}
	return ""
}

// Set stores the trimmed raw value of f.
func (in *LicenseInput) Set(f model.Field, raw string) {
	raw = strings.TrimSpace(raw)
	switch f {
	case model.FieldSoftware:
		in.Software = raw
	case model.FieldLicenseKey:
		in.LicenseKey = raw
	case model.FieldUser:
		in.User = raw
	case model.FieldAssignedDevice:
		in.AssignedDevice = raw
	case model.FieldInstallDate:
		in.InstallDate = raw
	case model.FieldExpiryDate:
		in.ExpiryDate = raw
	case model.FieldUsageLimit:
		in.UsageLimit = raw
	case model.FieldCurrentUsage:
		in.CurrentUsage = raw
	}
}

func (in LicenseInput) trimmed() LicenseInput {
	out := LicenseInput{}
	for _, f := range InputFields {
		out.Set(f, in.Get(f))
	}
	return out
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their serialized names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validator checks licenses against a snapshot of the known users and licenses.
type Validator struct {
	users    []model.User
	licenses []model.License
}

// New returns a Validator for the given collections.
func New(users []model.User, licenses []model.License) *Validator {
	return &Validator{users: users, licenses: licenses}
}

// NewLicense validates a complete form and returns the license to store.
// Checks run in a fixed order and stop at the first failure: required
// fields, user reference, date format, date order, counters, key uniqueness.
func (v *Validator) NewLicense(in LicenseInput) (model.License, error) {
	in = in.trimmed()

	if err := checkRequired(in); err != nil {
		return model.License{}, err
	}
	if err := v.checkUser(in.User); err != nil {
		return model.License{}, err
	}
	install, err := parseDate(model.FieldInstallDate, in.InstallDate)
	if err != nil {
		return model.License{}, err
	}
	expiry, err := parseDate(model.FieldExpiryDate, in.ExpiryDate)
	if err != nil {
		return model.License{}, err
	}
	if err := checkOrder(install, expiry, in.ExpiryDate); err != nil {
		return model.License{}, err
	}
	limit, err := parseCount(model.FieldUsageLimit, in.UsageLimit)
	if err != nil {
		return model.License{}, err
	}
	usage, err := parseCount(model.FieldCurrentUsage, in.CurrentUsage)
	if err != nil {
		return model.License{}, err
	}
	if err := v.checkKey(in.LicenseKey, ""); err != nil {
		return model.License{}, err
	}

	return model.License{
		Software:       in.Software,
		LicenseKey:     in.LicenseKey,
		User:           in.User,
		AssignedDevice: in.AssignedDevice,
		InstallDate:    in.InstallDate,
		ExpiryDate:     in.ExpiryDate,
		UsageLimit:     limit,
		CurrentUsage:   usage,
		Status:         model.StatusActive,
	}, nil
}

// CheckField validates a single field of a partially filled form so that a
// form can re-prompt only the offending field. The expiry date is checked
// against the install date when one has already been entered.
func (v *Validator) CheckField(in LicenseInput, f model.Field) error {
	raw := strings.TrimSpace(in.Get(f))
	if !isInputField(f) {
		return &ValidationError{Kind: UnknownField, Field: f}
	}
	if raw == "" {
		return &ValidationError{Kind: EmptyField, Field: f}
	}
	switch f {
	case model.FieldUser:
		return v.checkUser(raw)
	case model.FieldLicenseKey:
		return v.checkKey(raw, "")
	case model.FieldInstallDate:
		_, err := parseDate(f, raw)
		return err
	case model.FieldExpiryDate:
		expiry, err := parseDate(f, raw)
		if err != nil {
			return err
		}
		if install, err := model.ParseDate(in.InstallDate); err == nil {
			return checkOrder(install, expiry, raw)
		}
	case model.FieldUsageLimit, model.FieldCurrentUsage:
		_, err := parseCount(f, raw)
		return err
	}
	return nil
}

// FieldEdit applies raw to field f of rec and returns the updated copy.
// Date order is not re-checked here; a single-field edit may leave the
// expiry on or before the install date.
func (v *Validator) FieldEdit(rec model.License, f model.Field, raw string) (model.License, error) {
	raw = strings.TrimSpace(raw)
	if _, ok := model.ParseField(string(f)); !ok {
		return rec, &ValidationError{Kind: UnknownField, Field: f}
	}
	if raw == "" {
		return rec, &ValidationError{Kind: EmptyField, Field: f}
	}

	out := rec
	switch f {
	case model.FieldSoftware:
		out.Software = raw
	case model.FieldAssignedDevice:
		out.AssignedDevice = raw
	case model.FieldUser:
		if err := v.checkUser(raw); err != nil {
			return rec, err
		}
		out.User = raw
	case model.FieldLicenseKey:
		if raw == rec.LicenseKey {
			return rec, nil
		}
		if err := v.checkKey(raw, rec.LicenseKey); err != nil {
			return rec, err
		}
		out.LicenseKey = raw
	case model.FieldInstallDate, model.FieldExpiryDate:
		if _, err := parseDate(f, raw); err != nil {
			return rec, err
		}
		if f == model.FieldInstallDate {
			out.InstallDate = raw
		} else {
			out.ExpiryDate = raw
		}
		warnOrder(out)
	case model.FieldUsageLimit, model.FieldCurrentUsage:
		n, err := parseCount(f, raw)
		if err != nil {
			return rec, err
		}
		if f == model.FieldUsageLimit {
			out.UsageLimit = n
		} else {
			out.CurrentUsage = n
		}
	case model.FieldStatus:
		st, ok := model.ParseStatus(raw)
		if !ok {
			return rec, &ValidationError{Kind: InvalidStatus, Field: f, Value: raw}
		}
		out.Status = st
	}
	return out, nil
}

// ParseCount parses a non-negative whole number typed by a user.
func ParseCount(f model.Field, raw string) (int, error) {
	return parseCount(f, strings.TrimSpace(raw))
}

func checkRequired(in LicenseInput) error {
	err := structValidator.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Kind: EmptyField, Field: model.Field(verrs[0].Field())}
	}
	return err
}

func (v *Validator) checkUser(name string) error {
	for _, u := range v.users {
		if u.Username == name {
			return nil
		}
	}
	return &ValidationError{Kind: UnknownUser, Field: model.FieldUser, Value: name}
}

// checkKey rejects key if another license already uses it. own is the key of
// the record being edited, which is allowed to collide with itself.
func (v *Validator) checkKey(key, own string) error {
	for _, l := range v.licenses {
		if l.LicenseKey == key && (own == "" || l.LicenseKey != own) {
			return &ValidationError{Kind: DuplicateLicenseKey, Field: model.FieldLicenseKey, Value: key}
		}
	}
	return nil
}

func parseDate(f model.Field, raw string) (time.Time, error) {
	t, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, &ValidationError{Kind: BadDateFormat, Field: f, Value: raw}
	}
	return t, nil
}

func checkOrder(install, expiry time.Time, raw string) error {
	if !expiry.After(install) {
		return &ValidationError{Kind: ExpiryNotAfterInstall, Field: model.FieldExpiryDate, Value: raw}
	}
	return nil
}

func parseCount(f model.Field, raw string) (int, error) {
	bad := &ValidationError{Kind: NotANumber, Field: f, Value: raw}
	if raw == "" {
		return 0, bad
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, bad
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, bad
	}
	return n, nil
}

func warnOrder(l model.License) {
	install, err1 := model.ParseDate(l.InstallDate)
	expiry, err2 := model.ParseDate(l.ExpiryDate)
	if err1 == nil && err2 == nil && !expiry.After(install) {
		logging.Warnf("license %s: expiry date %s is not after install date %s", l.LicenseKey, l.ExpiryDate, l.InstallDate)
	}
}

func isInputField(f model.Field) bool {
	for _, x := range InputFields {
		if x == f {
			return true
		}
	}
	return false
}
