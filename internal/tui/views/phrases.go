package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/clipboard"
	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/f3rmion/kanjicard/internal/speech"
	"github.com/f3rmion/kanjicard/internal/tui/components"
)

// allTag is the grammar filter that shows every phrase.
const allTag = "All"

// phraseCardHeight approximates a rendered phrase card for scrolling.
const phraseCardHeight = 8

type phrasesLoadedMsg struct {
	phrases []*card.JapanesePhrase
	err     error
}

// PhrasesModel shows phrase cards filtered by grammar tag.
type PhrasesModel struct {
	source  Source
	toggler *favorite.Toggler
	speech  speech.State
	opts    components.Options

	phrases []*card.JapanesePhrase
	err     error
	loading bool

	tags          []string
	tag           int
	favoritesOnly bool

	selected int
	offset   int
	copied   bool

	width  int
	height int
}

// NewPhrasesModel creates a phrases view.
func NewPhrasesModel(source Source, toggler *favorite.Toggler, st speech.State, opts components.Options) PhrasesModel {
	return PhrasesModel{
		source:  source,
		toggler: toggler,
		speech:  st,
		opts:    opts,
		tags:    []string{allTag},
		loading: source != nil,
	}
}

// Init loads the phrases.
func (m PhrasesModel) Init() tea.Cmd {
	if m.source == nil {
		return nil
	}
	source := m.source
	return func() tea.Msg {
		phrases, err := source.ListPhrases(context.Background(), false)
		return phrasesLoadedMsg{phrases: phrases, err: err}
	}
}

// SetSize updates the view dimensions.
func (m *PhrasesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.opts.Width = max(min(width-4, 70), 20)
}

// SetOptions changes which optional lines the cards show.
func (m *PhrasesModel) SetOptions(opts components.Options) {
	opts.Width = m.opts.Width
	m.opts = opts
}

// Visible returns the phrases that pass the current filters.
func (m PhrasesModel) Visible() []*card.JapanesePhrase {
	tag := m.tags[m.tag]
	var out []*card.JapanesePhrase
	for _, p := range m.phrases {
		if m.favoritesOnly && !p.IsFavorite {
			continue
		}
		if tag != allTag && !hasTag(p, tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Selected returns the highlighted phrase, or nil.
func (m PhrasesModel) Selected() *card.JapanesePhrase {
	visible := m.Visible()
	if m.selected < 0 || m.selected >= len(visible) {
		return nil
	}
	return visible[m.selected]
}

func hasTag(p *card.JapanesePhrase, tag string) bool {
	for _, t := range p.GrammarTags() {
		if t == tag {
			return true
		}
	}
	return false
}

// grammarTags collects tags in order of first appearance.
func grammarTags(phrases []*card.JapanesePhrase) []string {
	tags := []string{allTag}
	seen := make(map[string]bool)
	for _, p := range phrases {
		for _, t := range p.GrammarTags() {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// Update handles messages.
func (m PhrasesModel) Update(msg tea.Msg) (PhrasesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case phrasesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			current := m.tags[m.tag]
			m.phrases = msg.phrases
			m.tags = grammarTags(msg.phrases)
			m.tag = 0
			for i, t := range m.tags {
				if t == current {
					m.tag = i
				}
			}
		}
		m.clampSelection()
		return m, nil

	case DataChangedMsg:
		return m, m.Init()

	case clearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.Visible())-1 {
				m.selected++
				m.adjustScroll()
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
				m.adjustScroll()
			}
		case "]", "t":
			m.tag = (m.tag + 1) % len(m.tags)
			m.selected, m.offset = 0, 0
		case "[":
			m.tag = (m.tag + len(m.tags) - 1) % len(m.tags)
			m.selected, m.offset = 0, 0
		case "F":
			m.favoritesOnly = !m.favoritesOnly
			m.selected, m.offset = 0, 0
		case "f":
			if p := m.Selected(); p != nil {
				return m, toggleFavorite(m.toggler, p)
			}
		case "s", "enter":
			if p := m.Selected(); p != nil {
				return m, speak(p.JapaneseSentence)
			}
		case "x":
			return m, func() tea.Msg { return StopSpeechMsg{} }
		case "y":
			if p := m.Selected(); p != nil {
				if err := clipboard.Write(p.JapaneseSentence); err != nil {
					return m, status("Copy failed: "+err.Error(), true)
				}
				m.copied = true
				return m, clearCopiedAfter(2 * time.Second)
			}
		}
	}

	return m, nil
}

func (m *PhrasesModel) clampSelection() {
	if n := len(m.Visible()); m.selected >= n {
		m.selected = max(n-1, 0)
	}
	m.adjustScroll()
}

func (m *PhrasesModel) visibleCards() int {
	return max((m.height-8)/phraseCardHeight, 1)
}

func (m *PhrasesModel) adjustScroll() {
	visible := m.visibleCards()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}
}

// View renders the phrases view.
func (m PhrasesModel) View() string {
	var b strings.Builder

	visible := m.Visible()
	header := titleStyle.Render("Phrases") + helpStyle.Render(fmt.Sprintf(" %d of %d", len(visible), len(m.phrases)))
	if m.favoritesOnly {
		header += " " + components.FavoriteStyle.Render("★ only")
	}
	if m.copied {
		header += "  " + copiedStyle.Render("Copied!")
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(components.TagButtons(m.tags, m.tag, m.width))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.loading:
		b.WriteString(loadingStyle.Render("Loading..."))
	case len(visible) == 0:
		b.WriteString(helpStyle.Render("No phrases match"))
	default:
		end := min(m.offset+m.visibleCards(), len(visible))
		cards := make([]string, 0, end-m.offset)
		for i := m.offset; i < end; i++ {
			cards = append(cards, components.PhraseCard(visible[i], m.speech, i == m.selected, m.opts))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("j/k: select • t: grammar • F: favorites • f: ★ • s: speak • x: stop • y: copy"))
	return b.String()
}
