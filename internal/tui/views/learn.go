package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/clipboard"
	"github.com/f3rmion/kanjicard/internal/decomp"
	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/f3rmion/kanjicard/internal/speech"
	"github.com/f3rmion/kanjicard/internal/tui/bigchar"
	"github.com/f3rmion/kanjicard/internal/tui/components"
)

var (
	learnProgressStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888"))

	learnEmptyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(components.ColorBorder).
			Padding(2, 4).
			Align(lipgloss.Center)
)

// MnemonicGenerator writes and saves a mnemonic for a kanji.
type MnemonicGenerator interface {
	Generate(ctx context.Context, k *card.Kanji) (string, error)
}

// LearnDeps are the collaborators of the learn view. Everything except
// Source may be nil.
type LearnDeps struct {
	Source    Source
	Toggler   *favorite.Toggler
	Speech    speech.State
	Art       *bigchar.Renderer
	Dict      *decomp.Dictionary
	Pinyin    func(char string) []string
	Mnemonics MnemonicGenerator
}

type examplesLoadedMsg struct {
	kanjiID  int64
	examples []*card.KanjiExample
	err      error
}

type mnemonicResultMsg struct {
	kanji *card.Kanji
	text  string
	err   error
}

// LearnModel is the flashcard view: a kanji front, and a back with readings
// and example sentences that highlight while spoken.
type LearnModel struct {
	deps LearnDeps
	opts components.Options

	// Card state
	deck    []*card.Kanji
	current int
	flipped bool

	// Examples of the current card
	examples    []*card.KanjiExample
	example     int
	examplesErr error

	// Mnemonic
	generating  bool
	mnemonicErr error

	copied bool

	width  int
	height int
}

// NewLearnModel creates a learn view.
func NewLearnModel(deps LearnDeps, opts components.Options) LearnModel {
	return LearnModel{deps: deps, opts: opts}
}

// SetSize updates the view dimensions.
func (m *LearnModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.opts.Width = max(min(width-4, 70), 20)
}

// SetOptions changes which optional lines the cards show.
func (m *LearnModel) SetOptions(opts components.Options) {
	opts.Width = m.opts.Width
	m.opts = opts
}

// SetDeck starts studying deck at index and loads the card's examples.
func (m *LearnModel) SetDeck(deck []*card.Kanji, index int) tea.Cmd {
	m.deck = deck
	m.current = max(min(index, len(deck)-1), 0)
	return m.showCard()
}

// Current returns the kanji on screen, or nil.
func (m LearnModel) Current() *card.Kanji {
	if m.current < 0 || m.current >= len(m.deck) {
		return nil
	}
	return m.deck[m.current]
}

// SelectedExample returns the highlighted example, or nil.
func (m LearnModel) SelectedExample() *card.KanjiExample {
	if m.example < 0 || m.example >= len(m.examples) {
		return nil
	}
	return m.examples[m.example]
}

func (m *LearnModel) showCard() tea.Cmd {
	m.flipped = false
	m.examples = nil
	m.example = 0
	m.examplesErr = nil
	m.mnemonicErr = nil

	k := m.Current()
	if k == nil || m.deps.Source == nil {
		return nil
	}
	source := m.deps.Source
	id := k.ID
	return func() tea.Msg {
		examples, err := source.ExamplesForKanji(context.Background(), id)
		return examplesLoadedMsg{kanjiID: id, examples: examples, err: err}
	}
}

// Update handles messages.
func (m LearnModel) Update(msg tea.Msg) (LearnModel, tea.Cmd) {
	switch msg := msg.(type) {
	case examplesLoadedMsg:
		if k := m.Current(); k == nil || k.ID != msg.kanjiID {
			return m, nil
		}
		m.examples = msg.examples
		m.examplesErr = msg.err
		return m, nil

	case mnemonicResultMsg:
		m.generating = false
		if msg.err != nil {
			m.mnemonicErr = msg.err
			return m, nil
		}
		msg.kanji.Mnemonic = msg.text
		return m, status("Mnemonic saved for "+msg.kanji.Character, false)

	case clearCopiedMsg:
		m.copied = false
		return m, nil

	case DataChangedMsg:
		flipped := m.flipped
		cmd := m.showCard()
		m.flipped = flipped
		return m, cmd

	case tea.KeyMsg:
		if len(m.deck) == 0 {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m LearnModel) handleKey(msg tea.KeyMsg) (LearnModel, tea.Cmd) {
	k := m.Current()

	switch msg.String() {
	case " ", "enter":
		m.flipped = !m.flipped
	case "right", "l", "n":
		if m.current < len(m.deck)-1 {
			m.current++
			cmd := m.showCard()
			return m, cmd
		}
	case "left", "h", "p":
		if m.current > 0 {
			m.current--
			cmd := m.showCard()
			return m, cmd
		}
	case "r":
		m.current = 0
		cmd := m.showCard()
		return m, cmd
	case "j", "down":
		if m.flipped && m.example < len(m.examples)-1 {
			m.example++
		}
	case "k", "up":
		if m.flipped && m.example > 0 {
			m.example--
		}
	case "s":
		return m, speak(m.speakable())
	case "x":
		return m, func() tea.Msg { return StopSpeechMsg{} }
	case "f":
		return m, toggleFavorite(m.deps.Toggler, k)
	case "y":
		text := m.speakable()
		if err := clipboard.Write(text); err != nil {
			return m, status("Copy failed: "+err.Error(), true)
		}
		m.copied = true
		return m, clearCopiedAfter(2 * time.Second)
	case "m":
		if !m.flipped || m.generating {
			return m, nil
		}
		if m.deps.Mnemonics == nil {
			m.mnemonicErr = errors.New("mnemonics need ANTHROPIC_API_KEY")
			return m, nil
		}
		m.generating = true
		m.mnemonicErr = nil
		return m, m.generateMnemonic(k)
	}

	return m, nil
}

// speakable is the selected example on the back, or the character itself.
func (m LearnModel) speakable() string {
	if m.flipped {
		if e := m.SelectedExample(); e != nil {
			return e.Japanese
		}
	}
	if k := m.Current(); k != nil {
		return k.Character
	}
	return ""
}

func (m LearnModel) generateMnemonic(k *card.Kanji) tea.Cmd {
	gen := m.deps.Mnemonics
	scratch := *k
	return func() tea.Msg {
		text, err := gen.Generate(context.Background(), &scratch)
		return mnemonicResultMsg{kanji: k, text: text, err: err}
	}
}

// View renders the learn view.
func (m LearnModel) View() string {
	k := m.Current()
	if k == nil {
		content := titleStyle.Render("No kanji selected") + "\n\n" +
			helpStyle.Render("Pick a card in Browse and press enter")
		return "\n\n" + learnEmptyStyle.Render(content)
	}

	var b strings.Builder

	progress := fmt.Sprintf("Card %d of %d", m.current+1, len(m.deck))
	if m.copied {
		progress += "  " + copiedStyle.Render("Copied!")
	}
	b.WriteString(learnProgressStyle.Render(progress))
	b.WriteString("\n\n")

	if m.flipped {
		b.WriteString(m.renderBack(k))
	} else {
		b.WriteString(m.renderFront(k))
	}

	b.WriteString("\n\n")
	if m.flipped {
		b.WriteString(helpStyle.Render("space: flip • ←/→: cards • j/k: example • s: speak • x: stop • f: ★ • y: copy • m: mnemonic"))
	} else {
		b.WriteString(helpStyle.Render("space: flip • ←/→: prev/next • s: speak • f: ★ • r: reset"))
	}

	return b.String()
}

func (m LearnModel) renderFront(k *card.Kanji) string {
	var art string
	if m.deps.Art.Available() {
		cols := max(min(m.width-8, 32), 8)
		art = m.deps.Art.Render(k.Character, cols, cols/2)
	}
	return components.KanjiFront(k, art, m.width-4)
}

func (m LearnModel) renderBack(k *card.Kanji) string {
	var b strings.Builder

	var details components.BackDetails
	if m.deps.Pinyin != nil {
		details.Pinyin = m.deps.Pinyin(k.Character)
	}
	if m.deps.Dict != nil {
		details.Breakdown = m.deps.Dict.Breakdown(k.Character)
	}
	b.WriteString(components.KanjiBack(k, details, m.opts.Width))
	b.WriteString("\n")

	switch {
	case m.generating:
		b.WriteString(loadingStyle.Render("Writing mnemonic..."))
		b.WriteString("\n")
	case m.mnemonicErr != nil:
		b.WriteString(errorStyle.Render(wordWrap(m.mnemonicErr.Error(), m.opts.Width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Examples"))
	b.WriteString("\n")

	switch {
	case m.examplesErr != nil:
		b.WriteString(errorStyle.Render("Error: " + m.examplesErr.Error()))
	case len(m.examples) == 0:
		b.WriteString(helpStyle.Render("No example sentences"))
	default:
		cards := make([]string, 0, len(m.examples))
		for i, e := range m.examples {
			cards = append(cards, components.ExampleCard(e, m.deps.Speech, i == m.example, m.opts))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	}

	return b.String()
}
