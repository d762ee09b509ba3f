// Package components renders the reusable pieces of the kanjicard UI: card
// faces, example and phrase cards, conversation bubbles, tag buttons and
// speech-highlighted text.
package components

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles, errors
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - readings, partner bubbles
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - kanji, spoken word
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - favorites, user bubbles
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorLabel     = lipgloss.Color("#a8dadc") // Label color
	ColorBg        = lipgloss.Color("#1a1a2e") // Dark background
	ColorBgAlt     = lipgloss.Color("#2d3436") // Alt background
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

// Typography. Terminals have a single font size, so the scale is expressed
// through weight, color and spacing.
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Background(ColorBg).
		Padding(0, 1)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	Body = lipgloss.NewStyle().
		Foreground(ColorText)

	Caption = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(ColorLabel).
		Bold(true).
		Width(10)

	Japanese = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	Reading = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Italic(true)

	Translation = lipgloss.NewStyle().
			Foreground(ColorLabel)
)

// Speech highlight styles.
var (
	HighlightNormal = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	HighlightActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBg).
			Background(ColorAccent)
)

// Card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	CardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorAccent).
				Padding(1, 2)

	BigCharStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Background(ColorBg).
			Padding(3, 10).
			Align(lipgloss.Center)

	BigCharArtStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	FavoriteStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)

// Tag button styles
var (
	TagStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TagActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
)

// Conversation bubble styles
var (
	UserBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(0, 1)

	PartnerBubbleStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSecondary).
				Padding(0, 1)

	BubbleSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(ColorAccent).
				Padding(0, 1)
)
