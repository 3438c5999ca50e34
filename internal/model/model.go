// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the records Softwhere keeps: user accounts and the
// software licenses assigned to them.
package model // import "github.com/softwhere/softwhere/internal/model"

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk format of install and expiry dates.
const DateLayout = "2006-01-02"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEmployee:
		return RoleEmployee, true
	}
	return "", false
}

// Status is the lifecycle state of a license.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// ParseStatus accepts a status in any letter case and normalises it to lowercase.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusExpired:
		return StatusExpired, true
	}
	return "", false
}

// User is an account that can log in. Password holds a one-way hash.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// License is a tracked software license assignment.
//
// Dates stay strings so records written by older tools with malformed dates
// survive a load/save cycle; use ParseDate to interpret them.
type License struct {
	Software       string `json:"software"`
	LicenseKey     string `json:"license_key"`
	User           string `json:"user"`
	AssignedDevice string `json:"assigned_device"`
	InstallDate    string `json:"install_date"`
	ExpiryDate     string `json:"expiry_date"`
	UsageLimit     int    `json:"usage_limit"`
	CurrentUsage   int    `json:"current_usage"`
	Status         Status `json:"status"`
}

// String returns a one-line summary used in selection lists.
func (l License) String() string {
	return fmt.Sprintf("%s - Key: %s (User: %s)", l.Software, l.LicenseKey, l.User)
}

// Get returns the textual value of a single field.
func (l License) Get(f Field) string {
	switch f {
	case FieldSoftware:
		return l.Software
	case FieldLicenseKey:
		return l.LicenseKey
	case FieldUser:
		return l.User
	case FieldAssignedDevice:
		return l.AssignedDevice
	case FieldInstallDate:
		return l.InstallDate
	case FieldExpiryDate:
		return l.ExpiryDate
	case FieldUsageLimit:
		return fmt.Sprint(l.UsageLimit)
	case FieldCurrentUsage:
		return fmt.Sprint(l.CurrentUsage)
	case FieldStatus:
		return string(l.Status)
	}
	return ""
}

// Values returns every field value in Fields() order.
func (l License) Values() []string {
	out := make([]string, 0, len(allFields))
	for _, f := range allFields {
		out = append(out, l.Get(f))
	}
	return out
}

// Field names a license attribute by its serialized name.
type Field string

const (
	FieldSoftware       Field = "software"
	FieldLicenseKey     Field = "license_key"
	FieldUser           Field = "user"
	FieldAssignedDevice Field = "assigned_device"
	FieldInstallDate    Field = "install_date"
	FieldExpiryDate     Field = "expiry_date"
	FieldUsageLimit     Field = "usage_limit"
	FieldCurrentUsage   Field = "current_usage"
	FieldStatus         Field = "status"
)

var allFields = []Field{
	FieldSoftware,
	FieldLicenseKey,
	FieldUser,
	FieldAssignedDevice,
	FieldInstallDate,
	FieldExpiryDate,
	FieldUsageLimit,
	FieldCurrentUsage,
	FieldStatus,
}

// Fields returns all license fields in record order.
func Fields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// ParseField resolves a serialized field name.
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range allFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Label turns a field name into a display label, e.g. "license_key" -> "License key".
func (f Field) Label() string {
	s := strings.ReplaceAll(string(f), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// BackupData is a full snapshot of both collections.
type BackupData struct {
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	Users         []User    `json:"users"`
	Licenses      []License `json:"licenses"`
}
