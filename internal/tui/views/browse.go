package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/f3rmion/kanjicard/internal/tui/components"
	"github.com/mattn/go-runewidth"
)

// LevelTags are the JLPT filter buttons. The first shows every level.
var LevelTags = []string{"All", "N5", "N4", "N3", "N2", "N1"}

var browseCountStyle = lipgloss.NewStyle().
	Foreground(components.ColorMuted).
	Padding(0, 1)

type kanjiLoadedMsg struct {
	seq   int
	kanji []*card.Kanji
	err   error
}

// BrowseModel lists the kanji collection with search and filters.
type BrowseModel struct {
	source  Source
	toggler *favorite.Toggler

	kanji    []*card.Kanji
	selected int
	offset   int
	seq      int
	loading  bool
	err      error

	// Filters
	search        textinput.Model
	searching     bool
	level         int
	favoritesOnly bool

	width  int
	height int
}

// NewBrowseModel creates a browse view reading from source.
func NewBrowseModel(source Source, toggler *favorite.Toggler) BrowseModel {
	si := textinput.New()
	si.Placeholder = "kanji, meaning or reading"
	si.CharLimit = 50
	si.Width = 30
	si.PromptStyle = lipgloss.NewStyle().Foreground(components.ColorSecondary)
	si.TextStyle = lipgloss.NewStyle().Foreground(components.ColorAccent)

	return BrowseModel{
		source:  source,
		toggler: toggler,
		search:  si,
		loading: source != nil,
	}
}

// Init loads the collection.
func (m BrowseModel) Init() tea.Cmd {
	return m.load()
}

// SetSize updates the view dimensions.
func (m *BrowseModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focused reports whether the search box has the keyboard.
func (m BrowseModel) Focused() bool {
	return m.searching
}

// Filter is the current store filter.
func (m BrowseModel) Filter() store.KanjiFilter {
	f := store.KanjiFilter{
		FavoritesOnly: m.favoritesOnly,
		Query:         strings.TrimSpace(m.search.Value()),
	}
	if m.level > 0 {
		f.JLPTLevel = len(LevelTags) - m.level
	}
	return f
}

// Selected returns the highlighted kanji, or nil.
func (m BrowseModel) Selected() *card.Kanji {
	if m.selected < 0 || m.selected >= len(m.kanji) {
		return nil
	}
	return m.kanji[m.selected]
}

func (m *BrowseModel) reload() tea.Cmd {
	m.seq++
	return m.load()
}

func (m *BrowseModel) load() tea.Cmd {
	if m.source == nil {
		return nil
	}
	m.loading = true

	seq := m.seq
	source := m.source
	filter := m.Filter()
	return func() tea.Msg {
		kanji, err := source.ListKanji(context.Background(), filter)
		return kanjiLoadedMsg{seq: seq, kanji: kanji, err: err}
	}
}

// Update handles messages.
func (m BrowseModel) Update(msg tea.Msg) (BrowseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case kanjiLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.kanji = msg.kanji
		}
		if m.selected >= len(m.kanji) {
			m.selected = max(len(m.kanji)-1, 0)
		}
		m.adjustScroll()
		return m, nil

	case DataChangedMsg:
		cmd := m.reload()
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.kanji)-1 {
				m.selected++
				m.adjustScroll()
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
				m.adjustScroll()
			}
		case "g":
			m.selected, m.offset = 0, 0
		case "G":
			m.selected = max(len(m.kanji)-1, 0)
			m.adjustScroll()
		case "/":
			m.searching = true
			m.search.Focus()
			return m, textinput.Blink
		case "c":
			if m.search.Value() != "" {
				m.search.SetValue("")
				cmd := m.reload()
				return m, cmd
			}
		case "]", "t":
			m.level = (m.level + 1) % len(LevelTags)
			cmd := m.reload()
			return m, cmd
		case "[":
			m.level = (m.level + len(LevelTags) - 1) % len(LevelTags)
			cmd := m.reload()
			return m, cmd
		case "F":
			m.favoritesOnly = !m.favoritesOnly
			cmd := m.reload()
			return m, cmd
		case "f":
			if k := m.Selected(); k != nil {
				return m, toggleFavorite(m.toggler, k)
			}
		case "s":
			if k := m.Selected(); k != nil {
				return m, speak(k.Character)
			}
		case "enter", "l", "right":
			if len(m.kanji) > 0 {
				deck, index := m.kanji, m.selected
				return m, func() tea.Msg { return OpenKanjiMsg{Deck: deck, Index: index} }
			}
		}
	}

	return m, nil
}

func (m BrowseModel) updateSearch(msg tea.KeyMsg) (BrowseModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		cmd := m.reload()
		return m, cmd
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		reload := m.reload()
		return m, tea.Batch(cmd, reload)
	}
	return m, cmd
}

func (m *BrowseModel) visibleRows() int {
	// title, search, tags, dividers and help
	return max(m.height-12, 5)
}

func (m *BrowseModel) adjustScroll() {
	visible := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}
}

// View renders the browse view.
func (m BrowseModel) View() string {
	var b strings.Builder

	header := titleStyle.Render("Kanji") + browseCountStyle.Render(fmt.Sprintf("%d cards", len(m.kanji)))
	if m.favoritesOnly {
		header += " " + components.FavoriteStyle.Render("★ only")
	}
	b.WriteString(header)
	b.WriteString("\n")

	if m.searching {
		b.WriteString(searchBoxStyle.Render("Search: " + m.search.View()))
		b.WriteString("\n")
	} else if q := m.search.Value(); q != "" {
		b.WriteString(helpStyle.Render(fmt.Sprintf("Filter: %q (press 'c' to clear)", q)))
		b.WriteString("\n")
	}

	b.WriteString(components.TagButtons(LevelTags, m.level, m.width))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.loading && len(m.kanji) == 0:
		b.WriteString(loadingStyle.Render("Loading..."))
		b.WriteString("\n")
	case len(m.kanji) == 0:
		b.WriteString(helpStyle.Render("No kanji match. Seed a deck with `kanjicard seed` or import one."))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visibleRows(), len(m.kanji))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.kanji[i], i == m.selected))
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: study • /: search • t: level • F: favorites • f: ★ • s: speak"))

	return b.String()
}

func (m BrowseModel) renderRow(k *card.Kanji, selected bool) string {
	meaning := strings.Join(k.Meanings, ", ")
	readings := k.Readings()

	line := fmt.Sprintf("%s %s  %s  %s", k.Character, k.JLPTLabel(), meaning, readings)
	if m.width > 8 {
		line = runewidth.Truncate(line, m.width-8, "…")
	}

	prefix := "  "
	style := rowStyle
	if selected {
		prefix = "> "
		style = selectedRowStyle
	}
	return prefix + components.FavoriteMark(k.IsFavorite) + " " + style.Render(line)
}
