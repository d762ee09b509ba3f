package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/clipboard"
	"github.com/f3rmion/kanjicard/internal/speech"
	"github.com/f3rmion/kanjicard/internal/tui/components"
)

// bubbleHeight approximates a rendered bubble for scrolling.
const bubbleHeight = 5

type conversationsLoadedMsg struct {
	conversations []*card.Conversation
	err           error
}

// ConversationModel plays dialogues as chat bubbles, narrating line by
// line.
type ConversationModel struct {
	source Source
	speech speech.State
	opts   components.Options

	conversations []*card.Conversation
	err           error
	loading       bool

	current  int
	line     int
	offset   int
	autoplay bool
	copied   bool

	width  int
	height int
}

// NewConversationModel creates a conversation view.
func NewConversationModel(source Source, st speech.State, opts components.Options) ConversationModel {
	return ConversationModel{
		source:  source,
		speech:  st,
		opts:    opts,
		loading: source != nil,
	}
}

// Init loads the conversations.
func (m ConversationModel) Init() tea.Cmd {
	if m.source == nil {
		return nil
	}
	source := m.source
	return func() tea.Msg {
		convs, err := source.ListConversations(context.Background())
		return conversationsLoadedMsg{conversations: convs, err: err}
	}
}

// SetSize updates the view dimensions.
func (m *ConversationModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.opts.Width = max(width-4, 20)
}

// SetOptions changes which optional lines the bubbles show.
func (m *ConversationModel) SetOptions(opts components.Options) {
	opts.Width = m.opts.Width
	m.opts = opts
}

// Current returns the conversation on screen, or nil.
func (m ConversationModel) Current() *card.Conversation {
	if m.current < 0 || m.current >= len(m.conversations) {
		return nil
	}
	return m.conversations[m.current]
}

// Line returns the selected line, or nil.
func (m ConversationModel) Line() *card.ConversationLine {
	c := m.Current()
	if c == nil || m.line < 0 || m.line >= len(c.Lines) {
		return nil
	}
	return &c.Lines[m.line]
}

// Autoplay reports whether the view is narrating the whole dialogue.
func (m ConversationModel) Autoplay() bool {
	return m.autoplay
}

// Update handles messages.
func (m ConversationModel) Update(msg tea.Msg) (ConversationModel, tea.Cmd) {
	switch msg := msg.(type) {
	case conversationsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.conversations = msg.conversations
		}
		if m.current >= len(m.conversations) {
			m.current = 0
			m.line, m.offset = 0, 0
		}
		return m, nil

	case DataChangedMsg:
		return m, m.Init()

	case SpeechDoneMsg:
		if !m.autoplay {
			return m, nil
		}
		l := m.Line()
		if l == nil || l.Text != msg.Text {
			m.autoplay = false
			return m, nil
		}
		c := m.Current()
		if m.line >= len(c.Lines)-1 {
			m.autoplay = false
			return m, nil
		}
		m.line++
		m.adjustScroll()
		return m, speak(m.Line().Text)

	case clearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ConversationModel) handleKey(msg tea.KeyMsg) (ConversationModel, tea.Cmd) {
	c := m.Current()
	if c == nil {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.line < len(c.Lines)-1 {
			m.line++
			m.adjustScroll()
		}
	case "k", "up":
		if m.line > 0 {
			m.line--
			m.adjustScroll()
		}
	case "]", "n", "right", "l":
		if m.current < len(m.conversations)-1 {
			m.current++
			m.line, m.offset, m.autoplay = 0, 0, false
		}
	case "[", "p", "left", "h":
		if m.current > 0 {
			m.current--
			m.line, m.offset, m.autoplay = 0, 0, false
		}
	case "s", "enter":
		if l := m.Line(); l != nil {
			m.autoplay = false
			return m, speak(l.Text)
		}
	case "a":
		if l := m.Line(); l != nil {
			m.autoplay = true
			return m, speak(l.Text)
		}
	case "x":
		m.autoplay = false
		return m, func() tea.Msg { return StopSpeechMsg{} }
	case "y":
		if l := m.Line(); l != nil {
			if err := clipboard.Write(l.Text); err != nil {
				return m, status("Copy failed: "+err.Error(), true)
			}
			m.copied = true
			return m, clearCopiedAfter(2 * time.Second)
		}
	}

	return m, nil
}

func (m *ConversationModel) visibleBubbles() int {
	return max((m.height-6)/bubbleHeight, 1)
}

func (m *ConversationModel) adjustScroll() {
	visible := m.visibleBubbles()
	if m.line < m.offset {
		m.offset = m.line
	}
	if m.line >= m.offset+visible {
		m.offset = m.line - visible + 1
	}
}

// View renders the conversation view.
func (m ConversationModel) View() string {
	var b strings.Builder

	c := m.Current()
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: " + m.err.Error())
	case m.loading:
		return loadingStyle.Render("Loading...")
	case c == nil:
		return titleStyle.Render("Conversations") + "\n" + helpStyle.Render("No conversations yet")
	}

	header := titleStyle.Render(c.Title) +
		helpStyle.Render(fmt.Sprintf(" %d/%d", m.current+1, len(m.conversations)))
	if m.autoplay {
		header += "  " + loadingStyle.Render("▶ playing")
	}
	if m.copied {
		header += "  " + copiedStyle.Render("Copied!")
	}
	b.WriteString(header)
	b.WriteString("\n")

	end := min(m.offset+m.visibleBubbles(), len(c.Lines))
	for i := m.offset; i < end; i++ {
		b.WriteString(components.Bubble(c.Lines[i], m.speech, i == m.line, m.opts))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: line • [/]: conversation • s: speak • a: play all • x: stop • y: copy"))
	return b.String()
}
