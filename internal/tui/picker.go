// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/softwhere/softwhere/internal/i18n"
)

// Picker is a single-choice list. It quits once a choice is made or cancelled.
type Picker struct {
	title   string
	choices []string
	cursor  int
	chosen  int
	done    bool
	copied  bool
	keys    KeyMap
	help    help.Model

	// copyFn writes the highlighted choice to the system clipboard.
	copyFn func(string) error
}

// NewPicker returns a picker over choices with the first entry highlighted.
func NewPicker(title string, choices []string) Picker {
	return Picker{
		title:   title,
		choices: choices,
		chosen:  -1,
		keys:    DefaultKeyMap,
		help:    help.New(),
		copyFn:  clipboard.WriteAll,
	}
}

func (p Picker) Init() tea.Cmd {
	return nil
}

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.help.Width = msg.Width
	case tea.KeyMsg:
		p.copied = false
		switch {
		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.choices)-1 {
				p.cursor++
			}
		case key.Matches(msg, p.keys.Select):
			if len(p.choices) > 0 {
				p.chosen = p.cursor
			}
			p.done = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Cancel):
			p.chosen = -1
			p.done = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Copy):
			if len(p.choices) > 0 && p.copyFn != nil {
				p.copied = p.copyFn(p.choices[p.cursor]) == nil
			}
		case key.Matches(msg, p.keys.Help):
			p.help.ShowAll = !p.help.ShowAll
		default:
			// Digits jump straight to a numbered entry.
			if n, ok := digit(msg); ok && n >= 1 && n <= len(p.choices) {
				p.cursor = n - 1
				p.chosen = p.cursor
				p.done = true
				return p, tea.Quit
			}
		}
	}
	return p, nil
}

func (p Picker) View() string {
	if p.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render(p.title))
	b.WriteString("\n\n")
	for i, c := range p.choices {
		line := fmt.Sprintf("%d. %s", i+1, c)
		if i == p.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if p.copied {
		b.WriteString(SuccessStyle.Render(i18n.T("picker.copied")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(p.help.View(p.keys)))
	return b.String()
}

// Choice returns the selected index, or -1 if the picker was cancelled.
func (p Picker) Choice() int {
	return p.chosen
}

func digit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// Pick runs a picker on the given terminal streams and returns the chosen
// index, or -1 when the user cancelled.
func Pick(title string, choices []string, in io.Reader, out io.Writer) (int, error) {
	final, err := tea.NewProgram(NewPicker(title, choices), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return -1, err
	}
	p, ok := final.(Picker)
	if !ok {
		return -1, fmt.Errorf("unexpected picker model %T", final)
	}
	return p.Choice(), nil
}
