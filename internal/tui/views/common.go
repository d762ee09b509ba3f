// Package views holds the screens of the kanjicard TUI. Each view is a
// value-type model with Update, View and SetSize, composed by the app model.
package views

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/f3rmion/kanjicard/internal/tui/components"
	"github.com/mattn/go-runewidth"
)

// Shared view styles
var (
	titleStyle = components.Title.MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(components.ColorSecondary)

	helpStyle = lipgloss.NewStyle().
			Foreground(components.ColorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(components.ColorPrimary).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(components.ColorAccent).
			Bold(true).
			Italic(true)

	copiedStyle = lipgloss.NewStyle().
			Foreground(components.ColorSuccess).
			Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(components.ColorBorder)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(components.ColorAccent).
				Background(components.ColorBgAlt)

	rowStyle = lipgloss.NewStyle().
			Foreground(components.ColorText)

	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(components.ColorAccent).
			Padding(0, 1)

	llmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(components.ColorPrimary).
			Padding(1, 2).
			Margin(1, 0)
)

// Source is the read side of the card store used by the views.
type Source interface {
	ListKanji(ctx context.Context, f store.KanjiFilter) ([]*card.Kanji, error)
	ExamplesForKanji(ctx context.Context, kanjiID int64) ([]*card.KanjiExample, error)
	ListPhrases(ctx context.Context, favoritesOnly bool) ([]*card.JapanesePhrase, error)
	ListConversations(ctx context.Context) ([]*card.Conversation, error)
}

// SpeakMsg asks the app to narrate Text.
type SpeakMsg struct {
	Text string
}

// StopSpeechMsg asks the app to stop narrating.
type StopSpeechMsg struct{}

// SpeechDoneMsg tells the active view that narration of Text finished.
type SpeechDoneMsg struct {
	Text string
}

// FavoriteSettledMsg carries a persisted favorite toggle back to the UI
// loop, where it is settled.
type FavoriteSettledMsg struct {
	Target  favorite.Target
	Pending favorite.Pending
	Err     error
}

// StatusMsg shows a line in the app footer.
type StatusMsg struct {
	Text string
	Err  bool
}

// OpenKanjiMsg asks the app to study Deck in the learn view, starting at
// Index.
type OpenKanjiMsg struct {
	Deck  []*card.Kanji
	Index int
}

// DataChangedMsg tells every view to reload from the store.
type DataChangedMsg struct{}

type clearCopiedMsg struct{}

func speak(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg { return SpeakMsg{Text: text} }
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, Err: isErr} }
}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// toggleFavorite flips the flag now and persists it in the background.
func toggleFavorite(t *favorite.Toggler, target favorite.Target) tea.Cmd {
	if t == nil {
		return nil
	}
	p := t.Apply(target)
	return func() tea.Msg {
		err := t.Persist(context.Background(), p)
		return FavoriteSettledMsg{Target: target, Pending: p, Err: err}
	}
}

func divider(width int) string {
	return dividerStyle.Render(strings.Repeat("─", max(min(width-4, 60), 1)))
}

// wordWrap wraps s at width display columns. Words are split on spaces;
// runs without spaces, as in Japanese, break at any character.
func wordWrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var out []string
	for _, para := range strings.Split(s, "\n") {
		var line strings.Builder
		lineWidth := 0

		flush := func() {
			out = append(out, strings.TrimRight(line.String(), " "))
			line.Reset()
			lineWidth = 0
		}

		for _, word := range strings.Split(para, " ") {
			w := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+w > width {
				flush()
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if lineWidth+rw > width && lineWidth > 0 {
					flush()
				}
				line.WriteRune(r)
				lineWidth += rw
			}
		}
		flush()
	}
	return strings.Join(out, "\n")
}
