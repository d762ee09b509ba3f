package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/config"
	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/f3rmion/kanjicard/internal/seed"
	"github.com/f3rmion/kanjicard/internal/speech"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/f3rmion/kanjicard/internal/tui/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(store.DriverPure, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	d, err := seed.Sample()
	require.NoError(t, err)
	b, err := seed.NewSeeder(nil, nil, nil).Build(d)
	require.NoError(t, err)
	require.NoError(t, st.SaveBatch(context.Background(), b))
	return st
}

type brokenFavorites struct{}

func (brokenFavorites) SetFavorite(context.Context, card.Key, bool) error {
	return errors.New("disk full")
}

type harness struct {
	app      AppModel
	narrator *speech.Narrator
	store    *store.Store
}

func newHarness(t *testing.T, favStore favorite.Store) *harness {
	t.Helper()
	st := sampleStore(t)
	if favStore == nil {
		favStore = st
	}
	n := speech.NewNarrator(nil, nil, 600, nil)
	dir := t.TempDir()
	app := NewApp(Deps{
		Store:     st,
		Narrator:  n,
		Toggler:   favorite.NewToggler(favStore, nil),
		Settings:  *config.Default(dir),
		ConfigDir: dir,
	})

	h := &harness{app: app, narrator: n, store: st}
	h.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(t, app.Init())
	return h
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := h.app.Update(msg)
	app, ok := model.(AppModel)
	require.True(t, ok)
	h.app = app
	return cmd
}

// run executes cmd and feeds its messages back until nothing is left.
// Commands must not wait on timers.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			h.run(t, c)
		}
		return
	}
	if msg != nil {
		h.run(t, h.send(t, msg))
	}
}

func key(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestAppLoadsSample(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, ViewBrowse, h.app.CurrentView())
	view := h.app.View()
	assert.Contains(t, view, "kanjicard")
	assert.Contains(t, view, "日")
	assert.Contains(t, view, "議")

	h.send(t, key("3"))
	assert.Equal(t, ViewPhrases, h.app.CurrentView())
	assert.NotEmpty(t, h.app.phrasesView.Visible())

	h.send(t, key("4"))
	require.NotNil(t, h.app.conversationView.Current())
}

func TestAppNavigation(t *testing.T) {
	h := newHarness(t, nil)

	h.send(t, key("6"))
	assert.Equal(t, ViewSettings, h.app.CurrentView())

	h.send(t, key("tab"))
	h.send(t, key("k"))
	h.send(t, key("enter"))
	assert.Equal(t, ViewImport, h.app.CurrentView())

	h.send(t, key("?"))
	assert.Contains(t, h.app.View(), "Press any key to close")
	h.send(t, key("x"))
	assert.NotContains(t, h.app.View(), "Press any key to close")

	h.send(t, key("esc"))
	cmd := h.send(t, key("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppSearchCapturesShortcuts(t *testing.T) {
	h := newHarness(t, nil)

	h.send(t, key("/"))
	h.send(t, key("2"))
	assert.Equal(t, ViewBrowse, h.app.CurrentView(), "digits go to the search box")
	assert.Equal(t, "2", h.app.browseView.Filter().Query)

	h.send(t, key("enter"))
	h.send(t, key("2"))
	assert.Equal(t, ViewLearn, h.app.CurrentView())
}

func TestAppOpenKanji(t *testing.T) {
	h := newHarness(t, nil)

	h.run(t, h.send(t, key("enter")))
	assert.Equal(t, ViewLearn, h.app.CurrentView())
	require.NotNil(t, h.app.learnView.Current())
	assert.Equal(t, "日", h.app.learnView.Current().Character)

	h.send(t, key(" "))
	require.NotNil(t, h.app.learnView.SelectedExample())
	assert.Contains(t, h.app.View(), "日本語を話す")
}

func TestAppNarration(t *testing.T) {
	h := newHarness(t, nil)

	cmd := h.send(t, views.SpeakMsg{Text: "日本"})
	require.NotNil(t, cmd)
	assert.True(t, h.narrator.IsSpeaking())
	session := h.narrator.Session()

	r, ok := h.narrator.CurrentRange()
	require.True(t, ok)
	assert.Equal(t, speech.Range{Location: 0, Length: 1}, r)
	assert.Contains(t, h.app.View(), "♪ 日本")

	// A tick from an older session is ignored.
	assert.Nil(t, h.send(t, narrateTickMsg{session: session - 1, text: "old"}))

	assert.NotNil(t, h.send(t, narrateTickMsg{session: session, text: "日本"}))
	r, _ = h.narrator.CurrentRange()
	assert.Equal(t, 1, r.Location)

	h.send(t, narrateTickMsg{session: session, text: "日本"})
	assert.False(t, h.narrator.IsSpeaking())
	assert.NotContains(t, h.app.View(), "♪")
}

func TestAppConversationAutoplayFollowsNarration(t *testing.T) {
	h := newHarness(t, nil)
	h.send(t, key("4"))

	conv := h.app.conversationView.Current()
	require.NotNil(t, conv)
	require.Greater(t, len(conv.Lines), 1)

	// Autoplay asks for the first line; deliver it as the runtime would.
	speak := h.send(t, key("a"))
	require.NotNil(t, speak)
	first := speak().(views.SpeakMsg)
	h.send(t, first)

	// Finish the line by ticking until the narrator is done.
	var next tea.Cmd
	for i := 0; i < 200 && h.narrator.IsSpeaking(); i++ {
		next = h.send(t, narrateTickMsg{session: h.narrator.Session(), text: first.Text})
	}
	require.False(t, h.narrator.IsSpeaking())
	require.NotNil(t, next)
	assert.Equal(t, views.SpeakMsg{Text: conv.Lines[1].Text}, next())
}

func TestAppStopSpeech(t *testing.T) {
	h := newHarness(t, nil)

	h.send(t, views.SpeakMsg{Text: "日本語"})
	h.send(t, views.StopSpeechMsg{})
	assert.False(t, h.narrator.IsSpeaking())
}

func TestAppFavoriteRollback(t *testing.T) {
	h := newHarness(t, brokenFavorites{})

	k := h.app.browseView.Selected()
	require.NotNil(t, k)
	require.False(t, k.IsFavorite)

	h.run(t, h.send(t, key("f")))

	assert.False(t, k.IsFavorite)
	text, isErr := h.app.Status()
	assert.True(t, isErr)
	assert.Contains(t, text, "favorite")
}

func TestAppFavoritePersists(t *testing.T) {
	h := newHarness(t, nil)

	k := h.app.browseView.Selected()
	require.NotNil(t, k)
	h.run(t, h.send(t, key("f")))
	assert.True(t, k.IsFavorite)

	stored, err := h.store.GetKanjiByCharacter(context.Background(), k.Character)
	require.NoError(t, err)
	assert.True(t, stored.IsFavorite)

	_, isErr := h.app.Status()
	assert.False(t, isErr)
}

func TestAppSettingsChangePace(t *testing.T) {
	h := newHarness(t, nil)
	before := h.narrator.Interval()

	s := config.Default(t.TempDir())
	s.Speech.WordsPerMinute = 60
	h.send(t, views.SettingsChangedMsg{Settings: *s})

	assert.Equal(t, time.Second, h.narrator.Interval())
	assert.NotEqual(t, before, h.narrator.Interval())
}
