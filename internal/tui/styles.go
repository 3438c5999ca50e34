// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal widgets for Softwhere.
// This file defines the shared lipgloss styles used by the menu picker and
// the line-oriented console so both look the same.
package tui // import "github.com/softwhere/softwhere/internal/tui"

import "github.com/charmbracelet/lipgloss"

// colorPalette defines the core colors.
const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal/cyan
	colorSpecial   = lipgloss.Color("208") // Orange for special attention
	colorError     = lipgloss.Color("196") // Bright red
	colorSuccess   = lipgloss.Color("40")  // Green
)

var (
	// HelpStyle renders key hints and secondary text.
	HelpStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	// ErrorStyle renders failures.
	ErrorStyle = lipgloss.NewStyle().Foreground(colorError)

	// SuccessStyle renders completed operations.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	// SpecialStyle renders warnings such as expired licenses.
	SpecialStyle = lipgloss.NewStyle().Foreground(colorSpecial)

	// TitleStyle renders menu and section titles.
	TitleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	// BannerStyle frames the application banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHighlight).
			Padding(0, 3)

	// HeaderStyle renders table headers.
	HeaderStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true).Padding(0, 1)

	// CellStyle renders table cells.
	CellStyle = lipgloss.NewStyle().Padding(0, 1)

	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorHighlight).PaddingLeft(0)
	BorderColor       = colorSubtle
)
