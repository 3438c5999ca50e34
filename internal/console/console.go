// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package console is the line-oriented terminal used by the interactive
// session: prompts, masked password entry, styled messages, license tables
// and numbered menus (or the bubbletea picker on a real terminal).
package console // import "github.com/softwhere/softwhere/internal/console"

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/softwhere/softwhere/internal/i18n"
	"github.com/softwhere/softwhere/internal/model"
	"github.com/softwhere/softwhere/internal/tui"
	"golang.org/x/term"
)

// Console reads answers from in and writes everything to out.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	// secret reads a password without echo. Nil means plain line input.
	secret func() (string, error)
	// pick runs the interactive menu picker. Nil means numbered prompts.
	pick func(title string, options []string) (int, error)
}

// Option configures a Console.
type Option func(*Console, *os.File)

// WithTUI enables the bubbletea menu picker when in is a terminal.
func WithTUI(enabled bool) Option {
	return func(c *Console, f *os.File) {
		if !enabled || f == nil {
			return
		}
		out := c.out
		c.pick = func(title string, options []string) (int, error) {
			return tui.Pick(title, options, f, out)
		}
	}
}

// New returns a Console. When in is a terminal, passwords are read without echo.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{in: bufio.NewReader(in), out: out}
	var tty *os.File
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tty = f
		c.secret = func() (string, error) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(out)
			return strings.TrimSpace(string(b)), err
		}
	}
	for _, o := range opts {
		o(c, tty)
	}
	return c
}

// Banner prints the application banner.
func (c *Console) Banner() {
	fmt.Fprintln(c.out, tui.BannerStyle.Render(i18n.T("app.banner")))
}

// Info prints a neutral message.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, msg)
}

// Success prints a confirmation.
func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, tui.SuccessStyle.Render(msg))
}

// Error prints a failure.
func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, tui.ErrorStyle.Render(msg))
}

// Warn prints something that needs attention but is not a failure.
func (c *Console) Warn(msg string) {
	fmt.Fprintln(c.out, tui.SpecialStyle.Render(msg))
}

// Prompt prints label and returns the next input line with surrounding
// whitespace removed. io.EOF is returned once input is exhausted.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptSecret is Prompt without echo when running on a terminal.
func (c *Console) PromptSecret(label string) (string, error) {
	if c.secret == nil {
		return c.Prompt(label)
	}
	fmt.Fprint(c.out, label)
	return c.secret()
}

// Choose asks for one of options and returns its 0-based index, or -1 when
// the user cancelled by entering 0.
func (c *Console) Choose(title string, options []string) (int, error) {
	if c.pick != nil {
		return c.pick(title, options)
	}
	fmt.Fprintln(c.out, tui.TitleStyle.Render(title))
	for i, o := range options {
		fmt.Fprintf(c.out, "[%d] %s\n", i+1, o)
	}
	for {
		raw, err := c.Prompt(i18n.T("console.choice_prompt", len(options)))
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			c.Error(i18n.T("console.choice_not_a_number"))
		case n == 0:
			return -1, nil
		case n < 1 || n > len(options):
			c.Error(i18n.T("console.choice_out_of_range", len(options)))
		default:
			return n - 1, nil
		}
	}
}

// ShowLicenses renders licenses as a table under title.
func (c *Console) ShowLicenses(title string, licenses []model.License) {
	fmt.Fprintln(c.out, tui.TitleStyle.Render(title))
	if len(licenses) == 0 {
		fmt.Fprintln(c.out, tui.HelpStyle.Render(i18n.T("console.no_licenses")))
		return
	}
	fmt.Fprintln(c.out, licenseTable(licenses))
}

// ShowLicense prints every field of one license, one per line.
func (c *Console) ShowLicense(l model.License) {
	width := 0
	fields := model.Fields()
	for _, f := range fields {
		width = max(width, len(f.Label()))
	}
	for _, f := range fields {
		label := tui.TitleStyle.Render(fmt.Sprintf("%-*s", width, f.Label()))
		fmt.Fprintf(c.out, "%s  %s\n", label, l.Get(f))
	}
}

func licenseTable(licenses []model.License) string {
	fields := model.Fields()
	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = f.Label()
	}
	rows := make([][]string, len(licenses))
	for i, l := range licenses {
		rows[i] = l.Values()
	}
	statusCol := len(fields) - 1

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.BorderColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderStyle
			}
			if col == statusCol && row >= 0 && row < len(rows) && rows[row][col] == string(model.StatusExpired) {
				return tui.CellStyle.Foreground(tui.SpecialStyle.GetForeground())
			}
			return tui.CellStyle
		}).
		String()
}
