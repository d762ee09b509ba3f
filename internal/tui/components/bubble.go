package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/speech"
	"github.com/mattn/go-runewidth"
)

// minBubble keeps very short lines from rendering as slivers.
const minBubble = 6

// Bubble renders one conversation line as a chat bubble. User lines sit on
// the right of width, partner lines on the left. A bubble is at most three
// quarters of width wide.
func Bubble(line card.ConversationLine, st speech.State, selected bool, opts Options) string {
	plain := []string{line.Text}
	lines := []string{Sentence(line.Text, st)}
	if opts.ShowRomaji && line.Romaji != "" {
		plain = append(plain, line.Romaji)
		lines = append(lines, Caption.Render(line.Romaji))
	}
	if line.Translation != "" {
		plain = append(plain, line.Translation)
		lines = append(lines, Translation.Render(line.Translation))
	}

	style := PartnerBubbleStyle
	if line.IsUserLine {
		style = UserBubbleStyle
	}
	if selected {
		style = BubbleSelectedStyle
	}

	inner := 0
	for _, s := range plain {
		inner = max(inner, runewidth.StringWidth(s))
	}
	inner = max(inner, minBubble)
	if opts.Width > 0 {
		// border and padding take four columns
		inner = max(min(inner, opts.Width*3/4-4), 1)
	}

	bubble := style.Width(inner + 2).Render(strings.Join(lines, "\n"))
	if opts.Width <= 0 {
		return bubble
	}

	pos := lipgloss.Left
	if line.IsUserLine {
		pos = lipgloss.Right
	}
	return lipgloss.PlaceHorizontal(opts.Width, pos, bubble)
}
