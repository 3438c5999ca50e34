// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package licenses implements the operations on the license collection.
// Each operation loads the collection, changes it in memory and, when it
// commits, writes the whole collection back before returning.
package licenses // import "github.com/softwhere/softwhere/internal/licenses"

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/model"
	"github.com/softwhere/softwhere/internal/store"
	"github.com/softwhere/softwhere/internal/validate"
)

// ErrNotFound is returned when no license matches a search, update or edit target.
var ErrNotFound = errors.New("no matching license found")

// Repository operates on the persisted license collection.
type Repository struct {
	licenses store.LicenseStore
	users    store.UserStore
}

// New returns a Repository. Users are read for reference checks only.
func New(licenses store.LicenseStore, users store.UserStore) *Repository {
	return &Repository{licenses: licenses, users: users}
}

// Validator returns a validator over the current users and licenses.
func (r *Repository) Validator(ctx context.Context) (*validate.Validator, error) {
	users, err := r.users.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	all, err := r.licenses.LoadLicenses(ctx)
	if err != nil {
		return nil, err
	}
	return validate.New(users, all), nil
}

// Add validates in and appends the resulting license. Nothing is written when
// validation fails.
func (r *Repository) Add(ctx context.Context, in validate.LicenseInput) (model.License, error) {
	users, err := r.users.LoadUsers(ctx)
	if err != nil {
		return model.License{}, err
	}
	all, err := r.licenses.LoadLicenses(ctx)
	if err != nil {
		return model.License{}, err
	}
	lic, err := validate.New(users, all).NewLicense(in)
	if err != nil {
		return model.License{}, err
	}
	if err := r.licenses.SaveLicenses(ctx, append(all, lic)); err != nil {
		return model.License{}, err
	}
	logging.Infof("added license %s for %s", lic.LicenseKey, lic.Software)
	return lic, nil
}

// List returns every license in insertion order.
func (r *Repository) List(ctx context.Context) ([]model.License, error) {
	return r.licenses.LoadLicenses(ctx)
}

// Search returns the licenses whose software name contains keyword, ignoring case.
func (r *Repository) Search(ctx context.Context, keyword string) ([]model.License, error) {
	all, err := r.licenses.LoadLicenses(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.License
	for _, i := range matchIndexes(all, keyword) {
		out = append(out, all[i])
	}
	return out, nil
}

// SweepResult lists what an expiry sweep found.
type SweepResult struct {
	// Expired holds every license whose expiry date is before today, after
	// its status was set to expired.
	Expired []model.License
	// Invalid holds licenses whose expiry date could not be parsed. They are
	// left unchanged.
	Invalid []model.License
}

// SweepExpired marks every license that expired before today and saves the
// collection once, whether or not anything changed.
func (r *Repository) SweepExpired(ctx context.Context, today time.Time) (SweepResult, error) {
	var res SweepResult
	all, err := r.licenses.LoadLicenses(ctx)
	if err != nil {
		return res, err
	}
	day := truncateDay(today)
	for i := range all {
		expiry, err := model.ParseDate(all[i].ExpiryDate)
		if err != nil {
			logging.Warnf("license %s has an invalid expiry date %q", all[i].LicenseKey, all[i].ExpiryDate)
			res.Invalid = append(res.Invalid, all[i])
			continue
		}
		if expiry.Before(day) {
			all[i].Status = model.StatusExpired
			res.Expired = append(res.Expired, all[i])
		}
	}
	if err := r.licenses.SaveLicenses(ctx, all); err != nil {
		return res, err
	}
	logging.Debugf("expiry sweep: %d expired, %d invalid", len(res.Expired), len(res.Invalid))
	return res, nil
}

// FirstMatch returns the first license, in collection order, whose software
// name contains keyword.
func (r *Repository) FirstMatch(ctx context.Context, keyword string) (model.License, error) {
	all, err := r.licenses.LoadLicenses(ctx)
	if err != nil {
		return model.License{}, err
	}
	idx := matchIndexes(all, keyword)
	if len(idx) == 0 {
		return model.License{}, ErrNotFound
	}
	return all[idx[0]], nil
}

// UpdateUsage sets the current usage of the first license matching keyword.
func (r *Repository) UpdateUsage(ctx context.Context, keyword string, usage int) (model.License, error) {
	if usage < 0 {
		return model.License{}, &validate.ValidationError{Kind: validate.NotANumber, Field: model.FieldCurrentUsage}
	}
	all, err := r.licenses.LoadLicenses(ctx)
	if err != nil {
		return model.License{}, err
	}
	idx := matchIndexes(all, keyword)
	if len(idx) == 0 {
		return model.License{}, ErrNotFound
	}
	i := idx[0]
	all[i].CurrentUsage = usage
	if err := r.licenses.SaveLicenses(ctx, all); err != nil {
		return model.License{}, err
	}
	logging.Infof("usage of %s set to %d", all[i].LicenseKey, usage)
	return all[i], nil
}

// EditField changes one field of the license identified by licenseKey.
func (r *Repository) EditField(ctx context.Context, licenseKey string, f model.Field, raw string) (model.License, error) {
	users, err := r.users.LoadUsers(ctx)
	if err != nil {
		return model.License{}, err
	}
	all, err := r.licenses.LoadLicenses(ctx)
	if err != nil {
		return model.License{}, err
	}
	i := indexOfKey(all, licenseKey)
	if i < 0 {
		return model.License{}, ErrNotFound
	}
	updated, err := validate.New(users, all).FieldEdit(all[i], f, raw)
	if err != nil {
		return model.License{}, err
	}
	all[i] = updated
	if err := r.licenses.SaveLicenses(ctx, all); err != nil {
		return model.License{}, err
	}
	logging.Infof("license %s: %s updated", licenseKey, f)
	return updated, nil
}

func matchIndexes(all []model.License, keyword string) []int {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	var out []int
	for i, l := range all {
		if strings.Contains(strings.ToLower(l.Software), kw) {
			out = append(out, i)
		}
	}
	return out
}

func indexOfKey(all []model.License, key string) int {
	for i, l := range all {
		if l.LicenseKey == key {
			return i
		}
	}
	return -1
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
