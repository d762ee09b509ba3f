package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(store.DriverPure, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	d, err := Sample()
	require.NoError(t, err)
	b, err := NewSeeder(nil, nil, nil).Build(d)
	require.NoError(t, err)
	require.NoError(t, st.SaveBatch(context.Background(), b))
	return st
}

func TestImportFileKeepsStoredIDs(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)

	path := filepath.Join(t.TempDir(), "extra.yaml")
	deck := "kanji:\n" +
		"  - id: 900\n    character: 日\n    meanings: [\"해\"]\n    examples:\n      - japanese: 日曜日\n" +
		"  - id: 901\n    character: 月\n    meanings: [\"달\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(deck), 0644))

	b, err := NewSeeder(nil, nil, nil).ImportFile(ctx, path, st)
	require.NoError(t, err)
	require.Len(t, b.Kanji, 2)
	assert.Equal(t, int64(1), b.Kanji[0].ID)
	assert.Equal(t, int64(901), b.Kanji[1].ID)
	assert.Equal(t, int64(1), b.Examples[0].KanjiID)

	require.NoError(t, st.SaveBatch(ctx, b))
	k, err := st.GetKanjiByCharacter(ctx, "日")
	require.NoError(t, err)
	assert.Equal(t, []string{"해"}, k.Meanings)
}

func TestImportFileRejectsUnknownType(t *testing.T) {
	_, err := NewSeeder(nil, nil, nil).ImportFile(context.Background(), "deck.csv", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestFillEmptyKeepsStoredValues(t *testing.T) {
	stored := &card.Kanji{ID: 1, Character: "日", Meanings: []string{"날 일"}, Mnemonic: "해", IsFavorite: true}
	imported := &card.Kanji{ID: 77, Character: "日", Meanings: []string{"sun"}, Onyomi: []string{"ニチ"}, StrokeCount: 4}

	got := fillEmpty(stored, imported)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, []string{"날 일"}, got.Meanings)
	assert.Equal(t, []string{"ニチ"}, got.Onyomi)
	assert.Equal(t, 4, got.StrokeCount)
	assert.True(t, got.IsFavorite)
	assert.Equal(t, "해", got.Mnemonic)
	assert.Empty(t, stored.Onyomi)
}
