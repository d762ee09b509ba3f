package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/config"
	"github.com/f3rmion/kanjicard/internal/decomp"
	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/f3rmion/kanjicard/internal/seed"
	"github.com/f3rmion/kanjicard/internal/speech"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/f3rmion/kanjicard/internal/tui/bigchar"
	"github.com/f3rmion/kanjicard/internal/tui/components"
	"github.com/f3rmion/kanjicard/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewBrowse ViewType = iota
	ViewLearn
	ViewPhrases
	ViewConversations
	ViewImport
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	Icon     string
	View     ViewType
	Shortcut string
}

// ViewSwitchMsg requests a view change
type ViewSwitchMsg struct {
	View ViewType
}

type narrateTickMsg struct {
	session int
	text    string
}

// Store is everything the app reads from and writes to.
type Store interface {
	views.Source
	views.StatsSource
	seed.Lookup
	SaveBatch(ctx context.Context, b *store.Batch) error
}

// Deps are the collaborators the app is assembled from. Store is required;
// a missing narrator is replaced by a silent one.
type Deps struct {
	Store     Store
	Narrator  *speech.Narrator
	Toggler   *favorite.Toggler
	Seeder    *seed.Seeder
	Dict      *decomp.Dictionary
	Art       *bigchar.Renderer
	Pinyin    func(char string) []string
	Mnemonics views.MnemonicGenerator
	Settings  config.Settings
	ConfigDir string
	Logger    *slog.Logger
}

// AppModel is the main TUI model
type AppModel struct {
	store    Store
	narrator *speech.Narrator
	toggler  *favorite.Toggler
	logger   *slog.Logger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	browseView       views.BrowseModel
	learnView        views.LearnModel
	phrasesView      views.PhrasesModel
	conversationView views.ConversationModel
	importView       views.FilePickerModel
	settingsView     views.SettingsModel

	status    string
	statusErr bool
	showHelp  bool
}

// NewApp creates the TUI application.
func NewApp(deps Deps) AppModel {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	narrator := deps.Narrator
	if narrator == nil {
		narrator = speech.NewNarrator(nil, nil, deps.Settings.Speech.WordsPerMinute, logger)
	}
	seeder := deps.Seeder
	if seeder == nil {
		seeder = seed.NewSeeder(nil, deps.Dict, logger)
	}

	opts := cardOptions(deps.Settings)

	menuItems := []MenuItem{
		{Label: "Browse", Icon: "字", View: ViewBrowse, Shortcut: "1"},
		{Label: "Learn", Icon: "学", View: ViewLearn, Shortcut: "2"},
		{Label: "Phrases", Icon: "句", View: ViewPhrases, Shortcut: "3"},
		{Label: "Conversations", Icon: "話", View: ViewConversations, Shortcut: "4"},
		{Label: "Import", Icon: "入", View: ViewImport, Shortcut: "5"},
		{Label: "Settings", Icon: "設", View: ViewSettings, Shortcut: "6"},
	}

	st := deps.Store
	importer := func(ctx context.Context, path string) (int, error) {
		b, err := seeder.ImportFile(ctx, path, st)
		if err != nil {
			return 0, err
		}
		if err := st.SaveBatch(ctx, b); err != nil {
			return 0, err
		}
		return b.Len(), nil
	}

	return AppModel{
		store:        st,
		narrator:     narrator,
		toggler:      deps.Toggler,
		logger:       logger.With(slog.String("component", "tui")),
		sidebarWidth: 20,
		currentView:  ViewBrowse,
		menuItems:    menuItems,

		browseView: views.NewBrowseModel(st, deps.Toggler),
		learnView: views.NewLearnModel(views.LearnDeps{
			Source:    st,
			Toggler:   deps.Toggler,
			Speech:    narrator,
			Art:       deps.Art,
			Dict:      deps.Dict,
			Pinyin:    deps.Pinyin,
			Mnemonics: deps.Mnemonics,
		}, opts),
		phrasesView:      views.NewPhrasesModel(st, deps.Toggler, narrator, opts),
		conversationView: views.NewConversationModel(st, narrator, opts),
		importView:       views.NewFilePickerModel("", seed.Extensions, importer),
		settingsView:     views.NewSettingsModel(deps.Settings, deps.ConfigDir, st),
	}
}

func cardOptions(s config.Settings) components.Options {
	return components.Options{
		ShowRomaji:        s.UI.ShowRomaji,
		ShowPronunciation: s.UI.ShowPronunciation,
	}
}

// Init loads every view's data.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.browseView.Init(),
		m.phrasesView.Init(),
		m.conversationView.Init(),
		m.settingsView.Init(),
	)
}

// CurrentView returns the active view.
func (m AppModel) CurrentView() ViewType {
	return m.currentView
}

// Status returns the footer message.
func (m AppModel) Status() (string, bool) {
	return m.status, m.statusErr
}

func (m *AppModel) switchTo(v ViewType) {
	if m.currentView != v {
		m.logger.Debug("view switched", slog.Int("view", int(v)))
	}
	m.currentView = v
	m.sidebarActive = false
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
}

// inputFocused reports whether the active view is capturing text.
func (m AppModel) inputFocused() bool {
	return m.currentView == ViewBrowse && m.browseView.Focused()
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 3

		m.browseView.SetSize(contentWidth, contentHeight)
		m.learnView.SetSize(contentWidth, contentHeight)
		m.phrasesView.SetSize(contentWidth, contentHeight)
		m.conversationView.SetSize(contentWidth, contentHeight)
		m.importView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		return m, nil

	case ViewSwitchMsg:
		m.switchTo(msg.View)
		return m, nil

	case views.SpeakMsg:
		return m, m.startSpeech(msg.Text)

	case views.StopSpeechMsg:
		m.narrator.Stop()
		return m, nil

	case narrateTickMsg:
		if msg.session != m.narrator.Session() || !m.narrator.IsSpeaking() {
			return m, nil
		}
		if m.narrator.Advance() {
			return m, m.tick(msg.session, msg.text)
		}
		return m.updateActive(views.SpeechDoneMsg{Text: msg.text})

	case views.FavoriteSettledMsg:
		if m.toggler == nil {
			return m, nil
		}
		if res := m.toggler.Settle(msg.Target, msg.Pending, msg.Err); res == favorite.RolledBack {
			m.status = "Couldn't save favorite, change undone"
			m.statusErr = true
		}
		return m, nil

	case views.StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.Err
		return m, nil

	case views.OpenKanjiMsg:
		cmd := m.learnView.SetDeck(msg.Deck, msg.Index)
		m.switchTo(ViewLearn)
		return m, cmd

	case views.SettingsChangedMsg:
		opts := cardOptions(msg.Settings)
		m.learnView.SetOptions(opts)
		m.phrasesView.SetOptions(opts)
		m.conversationView.SetOptions(opts)
		m.narrator.SetWordsPerMinute(msg.Settings.Speech.WordsPerMinute)
		return m, nil
	}

	return m.broadcast(msg)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		m.narrator.Stop()
		return m, tea.Quit
	}
	if m.inputFocused() {
		return m.updateActive(msg)
	}

	switch msg.String() {
	case "q":
		m.narrator.Stop()
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "esc":
		if m.sidebarActive {
			m.narrator.Stop()
			return m, tea.Quit
		}
		m.sidebarActive = true
		return m, nil
	case "tab":
		m.sidebarActive = !m.sidebarActive
		return m, nil
	}

	for _, item := range m.menuItems {
		if msg.String() == item.Shortcut {
			m.switchTo(item.View)
			return m, nil
		}
	}

	if m.sidebarActive {
		switch msg.String() {
		case "j", "down":
			if m.selectedMenu < len(m.menuItems)-1 {
				m.selectedMenu++
			}
		case "k", "up":
			if m.selectedMenu > 0 {
				m.selectedMenu--
			}
		case "enter", "l", "right":
			m.switchTo(m.menuItems[m.selectedMenu].View)
		}
		return m, nil
	}

	return m.updateActive(msg)
}

func (m AppModel) startSpeech(text string) tea.Cmd {
	session, err := m.narrator.Start(context.Background(), text)
	if err != nil {
		if !errors.Is(err, speech.ErrEmptyText) {
			m.logger.Warn("narration failed", slog.String("error", err.Error()))
		}
		return nil
	}
	return m.tick(session, text)
}

func (m AppModel) tick(session int, text string) tea.Cmd {
	return tea.Tick(m.narrator.Interval(), func(time.Time) tea.Msg {
		return narrateTickMsg{session: session, text: text}
	})
}

// updateActive sends msg to the active view only.
func (m AppModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewBrowse:
		m.browseView, cmd = m.browseView.Update(msg)
	case ViewLearn:
		m.learnView, cmd = m.learnView.Update(msg)
	case ViewPhrases:
		m.phrasesView, cmd = m.phrasesView.Update(msg)
	case ViewConversations:
		m.conversationView, cmd = m.conversationView.Update(msg)
	case ViewImport:
		m.importView, cmd = m.importView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

// broadcast sends msg to every view. Results of background work arrive
// here, whichever view is showing.
func (m AppModel) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 6)
	m.browseView, cmds[0] = m.browseView.Update(msg)
	m.learnView, cmds[1] = m.learnView.Update(msg)
	m.phrasesView, cmds[2] = m.phrasesView.Update(msg)
	m.conversationView, cmds[3] = m.conversationView.Update(msg)
	m.importView, cmds[4] = m.importView.Update(msg)
	m.settingsView, cmds[5] = m.settingsView.Update(msg)
	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewBrowse:
		content = m.browseView.View()
	case ViewLearn:
		content = m.learnView.View()
	case ViewPhrases:
		content = m.phrasesView.View()
	case ViewConversations:
		content = m.conversationView.View()
	case ViewImport:
		content = m.importView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 3).
		Render(content)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m AppModel) renderFooter() string {
	var parts []string
	if text, ok := m.narrator.CurrentText(); ok {
		parts = append(parts, SpeakingStyle.Render("♪ "+text))
	}
	if m.status != "" {
		style := StatusStyle
		if m.statusErr {
			style = StatusErrorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	return " " + strings.Join(parts, "  ")
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render(" 漢字 kanjicard "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Icon + " " + item.Label

		style := SidebarItemStyle
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(components.ColorSecondary)
			}
		}
		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-3; i++ {
		items = append(items, "")
	}
	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 3).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	var b strings.Builder
	key := func(k, desc string) {
		b.WriteString(HelpKeyStyle.Render(k) + HelpDescStyle.Render(desc) + "\n")
	}

	b.WriteString(HelpTitleStyle.Render("kanjicard") + "\n\n")

	b.WriteString(HelpSectionStyle.Render("Global Keys") + "\n")
	key("1-6", "Switch views")
	key("tab", "Toggle sidebar focus")
	key("?", "Show this help")
	key("q", "Quit")

	b.WriteString(HelpSectionStyle.Render("Cards") + "\n")
	key("f", "Toggle favorite")
	key("s", "Speak with highlight")
	key("x", "Stop speaking")
	key("y", "Copy to clipboard")

	b.WriteString(HelpSectionStyle.Render("Browse") + "\n")
	key("/", "Search")
	key("t / [ ]", "Cycle JLPT level")
	key("F", "Favorites only")
	key("enter", "Study from here")

	b.WriteString(HelpSectionStyle.Render("Learn") + "\n")
	key("space", "Flip card")
	key("←/→", "Prev/next card")
	key("j/k", "Select example")
	key("m", "Write a mnemonic")

	b.WriteString(HelpSectionStyle.Render("Conversations") + "\n")
	key("[ ]", "Prev/next dialogue")
	key("a", "Play all lines")

	b.WriteString("\n" + components.Caption.Render("Press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(b.String()))
}
