package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/decomp"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader map[string]string

func (f fakeReader) Hiragana(text string) string { return f[text] }

func TestSampleDeck(t *testing.T) {
	d, err := Sample()
	require.NoError(t, err)

	require.NotEmpty(t, d.Kanji)
	assert.Equal(t, "日", d.Kanji[0].Character)
	assert.Equal(t, "日本語を話す", d.Kanji[0].Examples[0].Japanese)
	assert.NotEmpty(t, d.Phrases)
	assert.NotEmpty(t, d.Conversations)
}

func TestBuildFillsDerivedFields(t *testing.T) {
	d, err := Sample()
	require.NoError(t, err)

	s := NewSeeder(fakeReader{"水を飲む": "みずをのむ"}, nil, nil)
	b, err := s.Build(d)
	require.NoError(t, err)

	for _, e := range b.Examples {
		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.NotZero(t, e.KanjiID)
		if e.Japanese == "水を飲む" {
			assert.Equal(t, "みずをのむ", e.Hiragana)
		}
	}
	for _, p := range b.Phrases {
		assert.NotEqual(t, uuid.Nil, p.ID)
	}
}

func TestBuildIDsAreStable(t *testing.T) {
	d1, err := Sample()
	require.NoError(t, err)
	d2, err := Sample()
	require.NoError(t, err)

	s := NewSeeder(nil, nil, nil)
	b1, err := s.Build(d1)
	require.NoError(t, err)
	b2, err := s.Build(d2)
	require.NoError(t, err)

	assert.Equal(t, b1.Examples[0].ID, b2.Examples[0].ID)
	assert.Equal(t, b1.Phrases[0].ID, b2.Phrases[0].ID)
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	d := &Deck{Kanji: []KanjiEntry{
		{Kanji: card.Kanji{ID: 1, Character: "日"}},
		{Kanji: card.Kanji{ID: 1, Character: "月"}},
	}}
	_, err := NewSeeder(nil, nil, nil).Build(d)
	assert.ErrorIs(t, err, card.ErrInvalid)
}

func TestBuildRejectsInvalidKanji(t *testing.T) {
	d := &Deck{Kanji: []KanjiEntry{{Kanji: card.Kanji{ID: 1, Character: "日", JLPTLevel: 7}}}}
	_, err := NewSeeder(nil, nil, nil).Build(d)
	assert.ErrorIs(t, err, card.ErrInvalid)
}

func TestBuildEnrichesRadical(t *testing.T) {
	dict := decomp.NewDictionary()
	require.NoError(t, dict.Load(strings.NewReader(
		`{"character":"月","definition":"moon, month","radical":"月","decomposition":"？"}`+"\n")))

	d := &Deck{Kanji: []KanjiEntry{{Kanji: card.Kanji{ID: 8, Character: "月"}}}}
	b, err := NewSeeder(nil, dict, nil).Build(d)
	require.NoError(t, err)
	assert.Equal(t, "月", b.Kanji[0].Bushu)
	assert.Equal(t, "moon", b.Kanji[0].BushuMeaning)
	assert.Equal(t, card.DefaultJLPTLevel, b.Kanji[0].JLPTLevel)
}

func TestLoadDirMergesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("kanji:\n  - id: 1\n    character: 日\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("phrases:\n  - japanese_sentence: はい\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	d, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, d.Kanji, 1)
	assert.Len(t, d.Phrases, 1)
}

func TestSaveDeckRoundTrip(t *testing.T) {
	d, err := Sample()
	require.NoError(t, err)
	b, err := NewSeeder(nil, nil, nil).Build(d)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, SaveDeck(path, FromBatch(b)))

	got, err := LoadDeck(path)
	require.NoError(t, err)
	assert.Len(t, got.Kanji, len(d.Kanji))
	assert.Equal(t, b.Examples[0].ID, got.Kanji[0].Examples[0].ID)
}

func TestSeedIntoStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(store.DriverPure, ":memory:", nil)
	require.NoError(t, err)
	defer st.Close()

	for i := 0; i < 2; i++ {
		d, err := Sample()
		require.NoError(t, err)
		b, err := NewSeeder(nil, nil, nil).Build(d)
		require.NoError(t, err)
		require.NoError(t, st.SaveBatch(ctx, b))
	}

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	d, _ := Sample()
	assert.Equal(t, len(d.Kanji), stats.Kanji)
	assert.Equal(t, len(d.Phrases), stats.Phrases)
}
