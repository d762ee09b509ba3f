// Package tui provides the interactive terminal UI for kanjicard.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/tui/components"
)

// Sidebar styles
var (
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(components.ColorBorder).
			Padding(1, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(components.ColorPrimary).
				Background(components.ColorBg).
				Padding(0, 1).
				MarginBottom(1)

	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(components.ColorMuted).
				Padding(0, 1)

	SidebarItemActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(components.ColorAccent).
				Background(components.ColorBgAlt).
				Padding(0, 1)

	SidebarHelpStyle = lipgloss.NewStyle().
				Foreground(components.ColorMuted).
				MarginTop(1).
				Padding(0, 1)
)

// Footer styles
var (
	StatusStyle = lipgloss.NewStyle().
			Foreground(components.ColorSuccess)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(components.ColorPrimary).
				Bold(true)

	SpeakingStyle = lipgloss.NewStyle().
			Foreground(components.ColorAccent).
			Italic(true)
)

// Help overlay styles
var (
	HelpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(components.ColorPrimary).
			MarginBottom(1)

	HelpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(components.ColorSecondary).
				MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(components.ColorAccent).
			Width(12)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(components.ColorText)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(components.ColorSecondary).
			Padding(1, 2).
			Width(54)
)

// Content area style
var ContentStyle = lipgloss.NewStyle().
	Padding(1, 2)
