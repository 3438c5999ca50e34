// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"context"
	"errors"
	"strings"

	"github.com/softwhere/softwhere/internal/credentials"
	"github.com/softwhere/softwhere/internal/export"
	"github.com/softwhere/softwhere/internal/i18n"
	"github.com/softwhere/softwhere/internal/licenses"
	"github.com/softwhere/softwhere/internal/model"
	"github.com/softwhere/softwhere/internal/validate"
)

func (c *Controller) register(ctx context.Context) error {
	c.con.Info(i18n.T("register.title"))
	users, err := c.creds.Users(ctx)
	if err != nil {
		return err
	}
	username, err := c.ask(i18n.T("register.username"), func(s string) error {
		if err := credentials.CheckUsername(s); err != nil {
			return err
		}
		for _, u := range users {
			if u.Username == strings.TrimSpace(s) {
				return &credentials.CredentialError{Kind: credentials.DuplicateUsername, Username: s}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	password, err := c.askNewPassword(i18n.T("register.password", credentials.MinPasswordLength))
	if err != nil {
		return err
	}
	role, err := c.ask(i18n.T("register.role"), func(s string) error {
		if _, ok := model.ParseRole(s); !ok {
			return credentials.ErrInvalidRole
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := c.creds.Register(ctx, username, password, role); err != nil {
		return err
	}
	c.con.Success(i18n.T("register.success", username))
	return nil
}

// addLicenses runs the add form until the user declines to add another.
func (c *Controller) addLicenses(ctx context.Context) error {
	for {
		if err := c.addLicense(ctx); err != nil {
			return err
		}
		again, err := c.confirm(i18n.T("add.another"))
		if err != nil || !again {
			return err
		}
	}
}

func (c *Controller) addLicense(ctx context.Context) error {
	c.con.Info(i18n.T("add.title"))
	v, err := c.repo.Validator(ctx)
	if err != nil {
		return err
	}
	var in validate.LicenseInput
	for _, f := range validate.InputFields {
		if _, err := c.ask(i18n.T("field.prompt."+string(f)), func(s string) error {
			in.Set(f, s)
			return v.CheckField(in, f)
		}); err != nil {
			return err
		}
	}
	preview, err := v.NewLicense(in)
	if err != nil {
		return err
	}
	c.con.Info(i18n.T("add.details"))
	c.con.ShowLicense(preview)

	save, err := c.confirm(i18n.T("add.confirm"))
	if err != nil {
		return err
	}
	if !save {
		c.con.Info(i18n.T("add.not_saved"))
		return nil
	}
	if _, err := c.repo.Add(ctx, in); err != nil {
		c.report(err)
		return nil
	}
	c.con.Success(i18n.T("add.success"))
	return nil
}

func (c *Controller) viewAll(ctx context.Context) error {
	all, err := c.repo.List(ctx)
	if err != nil {
		return err
	}
	c.con.ShowLicenses(i18n.T("view.title"), all)
	return nil
}

func (c *Controller) search(ctx context.Context) error {
	keyword, err := c.con.Prompt(i18n.T("search.prompt"))
	if err != nil {
		return err
	}
	found, err := c.repo.Search(ctx, keyword)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		c.con.Info(i18n.T("search.none"))
		return nil
	}
	c.con.ShowLicenses(i18n.T("search.results", len(found)), found)
	return nil
}

func (c *Controller) sweep(ctx context.Context) error {
	res, err := c.repo.SweepExpired(ctx, c.opts.Now())
	if err != nil {
		return err
	}
	for _, l := range res.Invalid {
		c.con.Warn(i18n.T("sweep.invalid_date", l.Software, l.ExpiryDate))
	}
	if len(res.Expired) == 0 {
		c.con.Info(i18n.T("sweep.none"))
		return nil
	}
	for _, l := range res.Expired {
		c.con.Warn(i18n.T("sweep.expired", l.Software, l.ExpiryDate))
	}
	c.con.ShowLicenses(i18n.T("sweep.title"), res.Expired)
	return nil
}

func (c *Controller) updateUsage(ctx context.Context) error {
	keyword, err := c.con.Prompt(i18n.T("usage.prompt"))
	if err != nil {
		return err
	}
	target, err := c.repo.FirstMatch(ctx, keyword)
	if err != nil {
		return err
	}
	c.con.Info(i18n.T("usage.current", target.String(), target.CurrentUsage, target.UsageLimit))
	raw, err := c.ask(i18n.T("usage.new"), func(s string) error {
		_, err := validate.ParseCount(model.FieldCurrentUsage, s)
		return err
	})
	if err != nil {
		return err
	}
	n, _ := validate.ParseCount(model.FieldCurrentUsage, raw)
	updated, err := c.repo.UpdateUsage(ctx, keyword, n)
	if err != nil {
		return err
	}
	c.con.Success(i18n.T("usage.success", updated.LicenseKey, updated.CurrentUsage))
	if updated.CurrentUsage > updated.UsageLimit {
		c.con.Warn(i18n.T("usage.over_limit", updated.UsageLimit))
	}
	return nil
}

func (c *Controller) edit(ctx context.Context) error {
	keyword, err := c.con.Prompt(i18n.T("edit.prompt"))
	if err != nil {
		return err
	}
	found, err := c.repo.Search(ctx, keyword)
	if err != nil {
		return err
	}
	target, ok, err := c.pickLicense(i18n.T("edit.select"), found)
	if err != nil || !ok {
		return err
	}

	fields := model.Fields()
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = i18n.T("edit.field_option", f.Label(), target.Get(f))
	}
	idx, err := c.con.Choose(i18n.T("edit.field"), labels)
	if err != nil {
		return err
	}
	if idx < 0 {
		c.con.Info(i18n.T("edit.cancelled"))
		return nil
	}
	f := fields[idx]

	v, err := c.repo.Validator(ctx)
	if err != nil {
		return err
	}
	raw, err := c.ask(i18n.T("edit.new_value", f.Label()), func(s string) error {
		_, err := v.FieldEdit(target, f, s)
		return err
	})
	if err != nil {
		return err
	}
	updated, err := c.repo.EditField(ctx, target.LicenseKey, f, raw)
	if err != nil {
		return err
	}
	c.con.Success(i18n.T("edit.success", f.Label(), updated.LicenseKey))
	return nil
}

// pickLicense narrows found down to one license. ok is false when nothing
// matched or the user cancelled.
func (c *Controller) pickLicense(title string, found []model.License) (model.License, bool, error) {
	switch len(found) {
	case 0:
		return model.License{}, false, licenses.ErrNotFound
	case 1:
		return found[0], true, nil
	}
	idx, err := c.con.Choose(title, summaries(found))
	if err != nil {
		return model.License{}, false, err
	}
	if idx < 0 || idx >= len(found) {
		c.con.Info(i18n.T("edit.cancelled"))
		return model.License{}, false, nil
	}
	return found[idx], true, nil
}

func (c *Controller) delete(ctx context.Context) error {
	keyword, err := c.con.Prompt(i18n.T("delete.prompt"))
	if err != nil {
		return err
	}
	res, err := c.repo.Delete(ctx, keyword, consoleSelector{c})
	if err != nil {
		return err
	}
	switch res.Outcome {
	case licenses.DeleteNotFound:
		c.con.Error(describe(licenses.ErrNotFound))
	case licenses.DeleteCancelled:
		c.con.Info(i18n.T("delete.cancelled"))
	case licenses.DeleteRemoved:
		c.con.Success(i18n.T("delete.success", res.Removed.String()))
	}
	return nil
}

// consoleSelector asks the user which license a delete removes.
type consoleSelector struct {
	c *Controller
}

func (s consoleSelector) Confirm(l model.License) (bool, error) {
	s.c.con.ShowLicense(l)
	return s.c.confirm(i18n.T("delete.confirm", l.String()))
}

func (s consoleSelector) Choose(candidates []model.License) (int, error) {
	return s.c.con.Choose(i18n.T("delete.select"), summaries(candidates))
}

func (c *Controller) export(ctx context.Context) error {
	all, err := c.repo.List(ctx)
	if err != nil {
		return err
	}
	err = export.ToFile(c.opts.ExportPath, all)
	if errors.Is(err, export.ErrNothingToExport) {
		c.con.Info(i18n.T("export.empty"))
		return nil
	}
	if err != nil {
		return err
	}
	c.con.Success(i18n.T("export.success", len(all), c.opts.ExportPath))
	return nil
}

func summaries(ls []model.License) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.String()
	}
	return out
}
