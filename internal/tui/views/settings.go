package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/config"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/f3rmion/kanjicard/internal/tui/components"
)

// Settings view styles
var (
	settingsPathStyle = lipgloss.NewStyle().
				Foreground(components.ColorMuted).
				Italic(true).
				MarginBottom(1)

	settingsTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Padding(0, 2)

	settingsTabActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(components.ColorAccent).
				Background(components.ColorBgAlt).
				Padding(0, 2)

	settingsKeyStyle = lipgloss.NewStyle().
				Foreground(components.ColorLabel).
				Bold(true).
				Width(22)

	settingsValueStyle = lipgloss.NewStyle().
				Foreground(components.ColorText)
)

var settingsTabs = []string{"Display", "Speech", "Storage"}

const (
	tabDisplay = iota
	tabSpeech
	tabStorage
)

// wpmStep is how much +/- changes the narration pace.
const wpmStep = 10

// StatsSource reports collection sizes.
type StatsSource interface {
	Stats(ctx context.Context) (store.Stats, error)
}

// SettingsChangedMsg carries edited settings to the rest of the app.
type SettingsChangedMsg struct {
	Settings config.Settings
}

type statsLoadedMsg struct {
	stats store.Stats
	err   error
}

// SettingsModel shows the effective configuration and edits the display
// and speech settings.
type SettingsModel struct {
	settings  config.Settings
	configDir string
	source    StatsSource

	stats    store.Stats
	statsErr error

	tab     int
	dirty   bool
	saved   bool
	saveErr error

	width  int
	height int
}

// NewSettingsModel creates a settings view for s, saved into configDir.
func NewSettingsModel(s config.Settings, configDir string, source StatsSource) SettingsModel {
	return SettingsModel{
		settings:  s,
		configDir: configDir,
		source:    source,
	}
}

// Init loads collection sizes.
func (m SettingsModel) Init() tea.Cmd {
	if m.source == nil {
		return nil
	}
	source := m.source
	return func() tea.Msg {
		st, err := source.Stats(context.Background())
		return statsLoadedMsg{stats: st, err: err}
	}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Settings returns the edited settings.
func (m SettingsModel) Settings() config.Settings {
	return m.settings
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.stats, m.statsErr = msg.stats, msg.err
		return m, nil

	case DataChangedMsg:
		return m, m.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "right", "l":
			m.tab = (m.tab + 1) % len(settingsTabs)
			return m, nil
		case "left", "h":
			m.tab = (m.tab + len(settingsTabs) - 1) % len(settingsTabs)
			return m, nil
		case "w":
			m.saveErr = config.Save(m.configDir, &m.settings)
			m.saved = m.saveErr == nil
			if m.saved {
				m.dirty = false
				return m, status("Settings saved to "+m.configDir, false)
			}
			return m, nil
		}

		if m.edit(msg.String()) {
			m.dirty = true
			m.saved = false
			s := m.settings
			return m, func() tea.Msg { return SettingsChangedMsg{Settings: s} }
		}
	}
	return m, nil
}

// edit applies a key to the current tab and reports whether anything
// changed.
func (m *SettingsModel) edit(key string) bool {
	switch m.tab {
	case tabDisplay:
		switch key {
		case "r":
			m.settings.UI.ShowRomaji = !m.settings.UI.ShowRomaji
			return true
		case "p":
			m.settings.UI.ShowPronunciation = !m.settings.UI.ShowPronunciation
			return true
		}
	case tabSpeech:
		wpm := m.settings.Speech.WordsPerMinute
		switch key {
		case "+", "=":
			wpm = min(wpm+wpmStep, 600)
		case "-":
			wpm = max(wpm-wpmStep, wpmStep)
		default:
			return false
		}
		if wpm == m.settings.Speech.WordsPerMinute {
			return false
		}
		m.settings.Speech.WordsPerMinute = wpm
		return true
	}
	return false
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(settingsPathStyle.Render(m.configDir))
	b.WriteString("\n")

	var tabs []string
	for i, name := range settingsTabs {
		if i == m.tab {
			tabs = append(tabs, settingsTabActiveStyle.Render(name))
		} else {
			tabs = append(tabs, settingsTabStyle.Render(name))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	row := func(key, value string) {
		b.WriteString(settingsKeyStyle.Render(key))
		b.WriteString(settingsValueStyle.Render(value))
		b.WriteString("\n")
	}

	var help string
	switch m.tab {
	case tabDisplay:
		row("ui.show_romaji", onOff(m.settings.UI.ShowRomaji))
		row("ui.show_pronunciation", onOff(m.settings.UI.ShowPronunciation))
		help = "r: romaji • p: pronunciation"
	case tabSpeech:
		row("speech.words_per_minute", fmt.Sprintf("%d", m.settings.Speech.WordsPerMinute))
		row("speech.voice", onOff(m.settings.Speech.Voice))
		voice := m.settings.Speech.VoiceCommand
		if voice == "" {
			voice = "(autodetect)"
		}
		row("speech.voice_command", voice)
		help = "+/-: pace"
	case tabStorage:
		row("database.driver", m.settings.Database.Driver)
		row("database.path", m.settings.Database.Path)
		row("log.level", m.settings.Log.Level)
		row("llm.model", m.settings.LLM.Model)
		b.WriteString("\n")
		if m.statsErr != nil {
			b.WriteString(errorStyle.Render("Error: " + m.statsErr.Error()))
			b.WriteString("\n")
		} else {
			row("kanji", fmt.Sprintf("%d", m.stats.Kanji))
			row("examples", fmt.Sprintf("%d", m.stats.Examples))
			row("phrases", fmt.Sprintf("%d", m.stats.Phrases))
			row("conversations", fmt.Sprintf("%d", m.stats.Conversations))
			row("favorites", fmt.Sprintf("%d", m.stats.Favorites))
		}
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")
	switch {
	case m.saveErr != nil:
		b.WriteString(errorStyle.Render(m.saveErr.Error()))
		b.WriteString("\n")
	case m.dirty:
		b.WriteString(loadingStyle.Render("unsaved changes"))
		b.WriteString("\n")
	}

	if help != "" {
		help += " • "
	}
	b.WriteString(helpStyle.Render(help + "←/→: tabs • w: save"))
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
