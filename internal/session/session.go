// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package session drives one interactive session: first-run setup, login,
// and the role-specific command menus. The controller is a small state
// machine; every command reports its own errors and returns to the menu.
package session // import "github.com/softwhere/softwhere/internal/session"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/softwhere/softwhere/internal/credentials"
	"github.com/softwhere/softwhere/internal/i18n"
	"github.com/softwhere/softwhere/internal/licenses"
	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/model"
)

// Console is the terminal the session talks to.
type Console interface {
	Banner()
	Info(msg string)
	Success(msg string)
	Error(msg string)
	Warn(msg string)
	Prompt(label string) (string, error)
	PromptSecret(label string) (string, error)
	// Choose returns the 0-based index of the chosen option, or -1 on cancel.
	Choose(title string, options []string) (int, error)
	ShowLicenses(title string, ls []model.License)
	ShowLicense(l model.License)
}

// State is a controller state.
type State int

const (
	LoggedOut State = iota
	AdminMenu
	EmployeeMenu
	Exit
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case AdminMenu:
		return "admin_menu"
	case EmployeeMenu:
		return "employee_menu"
	case Exit:
		return "exit"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options tune a Controller.
type Options struct {
	// ExportPath is where the export command writes. Defaults to licenses_export.csv.
	ExportPath string
	// Now returns the current time for the expiry sweep. Defaults to time.Now.
	Now func() time.Time
}

// Controller runs the interactive menus.
type Controller struct {
	con   Console
	creds *credentials.Service
	repo  *licenses.Repository
	opts  Options

	state State
	user  string
	role  model.Role
}

// New returns a Controller in the LoggedOut state.
func New(con Console, creds *credentials.Service, repo *licenses.Repository, opts Options) *Controller {
	if opts.ExportPath == "" {
		opts.ExportPath = "licenses_export.csv"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{con: con, creds: creds, repo: repo, opts: opts, state: LoggedOut}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// User returns the logged in username, or "" when logged out.
func (c *Controller) User() string { return c.user }

// Run performs first-run setup if needed and then loops until the user
// exits or input ends. Only a failure to read the user collection before
// setup is returned; every other error is reported and the loop continues.
func (c *Controller) Run(ctx context.Context) error {
	c.con.Banner()
	if err := c.bootstrap(ctx); err != nil {
		if errors.Is(err, io.EOF) {
			c.state = Exit
			return nil
		}
		return err
	}

	for c.state != Exit {
		var err error
		switch c.state {
		case LoggedOut:
			err = c.loggedOut(ctx)
		case AdminMenu:
			err = c.menu(ctx, i18n.T("menu.admin_title", c.user), adminCommands)
		case EmployeeMenu:
			err = c.menu(ctx, i18n.T("menu.employee_title", c.user), employeeCommands)
		}
		if errors.Is(err, io.EOF) {
			logging.Debugf("input closed in state %s", c.state)
			c.state = Exit
			break
		}
		if err != nil {
			c.report(err)
		}
	}
	c.con.Info(i18n.T("session.goodbye"))
	return nil
}

// bootstrap forces creation of the first admin account on an empty system.
func (c *Controller) bootstrap(ctx context.Context) error {
	need, err := c.creds.NeedsBootstrap(ctx)
	if err != nil {
		c.report(err)
		return err
	}
	if !need {
		return nil
	}
	c.con.Info(i18n.T("bootstrap.title"))
	c.con.Info(i18n.T("bootstrap.intro"))
	for {
		username, err := c.ask(i18n.T("bootstrap.username"), credentials.CheckUsername)
		if err != nil {
			return err
		}
		password, err := c.askNewPassword(i18n.T("bootstrap.password", credentials.MinPasswordLength))
		if err != nil {
			return err
		}
		if err := c.creds.Bootstrap(ctx, username, password); err != nil {
			c.report(err)
			continue
		}
		c.con.Success(i18n.T("bootstrap.success"))
		return nil
	}
}

func (c *Controller) loggedOut(ctx context.Context) error {
	idx, err := c.con.Choose(i18n.T("menu.main_title"), []string{i18n.T("menu.login"), i18n.T("menu.exit")})
	if err != nil {
		return err
	}
	if idx == 0 {
		return c.login(ctx)
	}
	// Exit or a cancelled menu ends the session.
	c.state = Exit
	return nil
}

func (c *Controller) login(ctx context.Context) error {
	c.con.Info(i18n.T("login.title"))
	username, err := c.con.Prompt(i18n.T("login.username"))
	if err != nil {
		return err
	}
	password, err := c.con.PromptSecret(i18n.T("login.password"))
	if err != nil {
		return err
	}
	role, err := c.creds.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	c.user, c.role = strings.TrimSpace(username), role
	if role == model.RoleAdmin {
		c.state = AdminMenu
	} else {
		c.state = EmployeeMenu
	}
	logging.Infof("user %s logged in as %s", username, role)
	c.con.Success(i18n.T("login.success", username, role))
	return nil
}

func (c *Controller) logout(context.Context) error {
	logging.Infof("user %s logged out", c.user)
	c.user, c.role = "", ""
	c.state = LoggedOut
	c.con.Info(i18n.T("session.logout"))
	return nil
}

// command is one menu entry.
type command struct {
	label string
	run   func(*Controller, context.Context) error
}

var adminCommands = []command{
	{"menu.register", (*Controller).register},
	{"menu.add", (*Controller).addLicenses},
	{"menu.view", (*Controller).viewAll},
	{"menu.search", (*Controller).search},
	{"menu.sweep", (*Controller).sweep},
	{"menu.usage", (*Controller).updateUsage},
	{"menu.edit", (*Controller).edit},
	{"menu.delete", (*Controller).delete},
	{"menu.export", (*Controller).export},
	{"menu.logout", (*Controller).logout},
}

var employeeCommands = []command{
	{"menu.view", (*Controller).viewAll},
	{"menu.search", (*Controller).search},
	{"menu.sweep", (*Controller).sweep},
	{"menu.usage", (*Controller).updateUsage},
	{"menu.logout", (*Controller).logout},
}

func (c *Controller) menu(ctx context.Context, title string, cmds []command) error {
	labels := make([]string, len(cmds))
	for i, cmd := range cmds {
		labels[i] = i18n.T(cmd.label)
	}
	idx, err := c.con.Choose(title, labels)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(cmds) {
		return nil
	}
	logging.Debugf("%s: %s", c.user, cmds[idx].label)
	return cmds[idx].run(c, ctx)
}

// ask prompts until check accepts the answer. A nil check accepts anything.
func (c *Controller) ask(label string, check func(string) error) (string, error) {
	for {
		raw, err := c.con.Prompt(label)
		if err != nil {
			return "", err
		}
		if check == nil {
			return raw, nil
		}
		if err := check(raw); err != nil {
			c.report(err)
			continue
		}
		return raw, nil
	}
}

// askNewPassword reads a password and its confirmation until both are valid
// and equal.
func (c *Controller) askNewPassword(label string) (string, error) {
	for {
		password, err := c.con.PromptSecret(label)
		if err != nil {
			return "", err
		}
		if err := credentials.CheckPassword(password); err != nil {
			c.report(err)
			continue
		}
		confirmation, err := c.con.PromptSecret(i18n.T("prompt.confirm_password"))
		if err != nil {
			return "", err
		}
		if err := credentials.ConfirmPassword(password, confirmation); err != nil {
			c.report(err)
			continue
		}
		return password, nil
	}
}

// confirm asks a yes/no question. Anything but a yes answer is no.
func (c *Controller) confirm(question string) (bool, error) {
	raw, err := c.con.Prompt(i18n.T("prompt.yes_no", question))
	if err != nil {
		return false, err
	}
	return isYes(raw), nil
}

func (c *Controller) report(err error) {
	logging.Debugf("reported error: %v", err)
	c.con.Error(describe(err))
}
