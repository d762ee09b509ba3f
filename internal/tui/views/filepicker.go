package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/tui/components"
)

// File picker styles
var (
	fpPathStyle = lipgloss.NewStyle().
			Foreground(components.ColorMuted).
			Italic(true).
			MarginBottom(1)

	fpDirStyle = lipgloss.NewStyle().
			Foreground(components.ColorSecondary).
			Bold(true)

	fpFileStyle = lipgloss.NewStyle().
			Foreground(components.ColorText)
)

// ImportFunc imports a deck or package file and returns the number of
// records written.
type ImportFunc func(ctx context.Context, path string) (int, error)

type importDoneMsg struct {
	path  string
	count int
	err   error
}

// FileEntry represents a file or directory
type FileEntry struct {
	Name  string
	IsDir bool
	Path  string
}

// FilePickerModel browses the filesystem for deck files and imports the
// one selected.
type FilePickerModel struct {
	currentDir string
	entries    []FileEntry
	selected   int
	offset     int

	extensions []string
	importer   ImportFunc

	importing string
	result    string
	err       error

	width  int
	height int
}

// NewFilePickerModel creates a picker starting in startDir that lists
// files with the given extensions.
func NewFilePickerModel(startDir string, extensions []string, importer ImportFunc) FilePickerModel {
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	if _, err := os.Stat(startDir); err != nil {
		startDir, _ = os.UserHomeDir()
	}
	if startDir == "" {
		startDir = "/"
	}

	m := FilePickerModel{
		currentDir: startDir,
		extensions: extensions,
		importer:   importer,
	}
	m.loadDir()
	return m
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Dir is the directory being listed.
func (m FilePickerModel) Dir() string {
	return m.currentDir
}

// Entries are the listed directories and files.
func (m FilePickerModel) Entries() []FileEntry {
	return m.entries
}

func (m *FilePickerModel) loadDir() {
	m.entries = nil
	m.selected = 0
	m.offset = 0
	m.err = nil

	entries, err := os.ReadDir(m.currentDir)
	if err != nil {
		m.err = err
		return
	}

	if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
		m.entries = append(m.entries, FileEntry{Name: "..", IsDir: true, Path: parent})
	}

	var dirs, files []FileEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		fe := FileEntry{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
			Path:  filepath.Join(m.currentDir, entry.Name()),
		}
		if entry.IsDir() {
			dirs = append(dirs, fe)
		} else if m.matchesExtension(entry.Name()) {
			files = append(files, fe)
		}
	}

	byName := func(s []FileEntry) {
		sort.Slice(s, func(i, j int) bool {
			return strings.ToLower(s[i].Name) < strings.ToLower(s[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m *FilePickerModel) matchesExtension(name string) bool {
	if len(m.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Update handles messages.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case importDoneMsg:
		m.importing = ""
		if msg.err != nil {
			m.err = msg.err
			m.result = ""
			return m, status("Import failed: "+msg.err.Error(), true)
		}
		m.err = nil
		m.result = fmt.Sprintf("Imported %d records from %s", msg.count, filepath.Base(msg.path))
		result := m.result
		return m, tea.Batch(
			func() tea.Msg { return DataChangedMsg{} },
			status(result, false),
		)

	case tea.KeyMsg:
		if m.importing != "" {
			return m, nil
		}

		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.entries)-1 {
				m.selected++
				m.adjustScroll()
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
				m.adjustScroll()
			}
		case "enter", "l", "right":
			if m.selected < len(m.entries) {
				entry := m.entries[m.selected]
				if entry.IsDir {
					m.currentDir = entry.Path
					m.loadDir()
					return m, nil
				}
				cmd := m.startImport(entry.Path)
				return m, cmd
			}
		case "backspace", "h":
			if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
				m.currentDir = parent
				m.loadDir()
			}
		case "~":
			if home, _ := os.UserHomeDir(); home != "" {
				m.currentDir = home
				m.loadDir()
			}
		case "g":
			m.selected, m.offset = 0, 0
		case "G":
			m.selected = max(len(m.entries)-1, 0)
			m.adjustScroll()
		case "ctrl+d":
			m.selected = min(m.selected+m.getVisibleHeight()/2, max(len(m.entries)-1, 0))
			m.adjustScroll()
		case "ctrl+u":
			m.selected = max(m.selected-m.getVisibleHeight()/2, 0)
			m.adjustScroll()
		}
	}

	return m, nil
}

func (m *FilePickerModel) startImport(path string) tea.Cmd {
	if m.importer == nil {
		m.err = fmt.Errorf("importing is not available")
		return nil
	}
	m.importing = path
	m.result = ""
	importer := m.importer
	return func() tea.Msg {
		n, err := importer(context.Background(), path)
		return importDoneMsg{path: path, count: n, err: err}
	}
}

func (m *FilePickerModel) getVisibleHeight() int {
	return max(m.height-10, 5)
}

func (m *FilePickerModel) adjustScroll() {
	visibleHeight := m.getVisibleHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visibleHeight {
		m.offset = m.selected - visibleHeight + 1
	}
}

// View renders the file picker.
func (m FilePickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Import (" + strings.Join(m.extensions, ", ") + ")"))
	b.WriteString("\n")
	b.WriteString(fpPathStyle.Render(m.currentDir))
	b.WriteString("\n")

	switch {
	case m.importing != "":
		b.WriteString(loadingStyle.Render("Importing " + filepath.Base(m.importing) + "..."))
		b.WriteString("\n\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(wordWrap("Error: "+m.err.Error(), max(m.width-4, 20))))
		b.WriteString("\n\n")
	case m.result != "":
		b.WriteString(copiedStyle.Render(m.result))
		b.WriteString("\n\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(helpStyle.Render("  (no deck files found)"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.getVisibleHeight(), len(m.entries))
	for i := m.offset; i < end; i++ {
		entry := m.entries[i]

		line := "[FILE] " + entry.Name
		style := fpFileStyle
		if entry.IsDir {
			line = "[DIR]  " + entry.Name
			style = fpDirStyle
		}

		prefix := "  "
		if i == m.selected {
			prefix = "> "
			style = selectedRowStyle
		}

		b.WriteString(prefix)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if len(m.entries) > m.getVisibleHeight() {
		b.WriteString(helpStyle.Render(strings.Repeat(" ", 50) + "↕ scroll"))
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: import/open • backspace: parent • ~: home"))

	return b.String()
}
