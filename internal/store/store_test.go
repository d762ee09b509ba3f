package store

import (
	"context"
	"testing"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverPure, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleKanji(id int64, ch string, level int) *card.Kanji {
	return &card.Kanji{
		ID:          id,
		Character:   ch,
		Meanings:    []string{"meaning of " + ch},
		Onyomi:      []string{"ニチ"},
		Kunyomi:     []string{"ひ"},
		StrokeCount: 4,
		JLPTLevel:   level,
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", ":memory:", nil)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.migrate())
}

func TestKanjiRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	k := sampleKanji(1, "日", 0)
	k.Bushu = "日"
	k.Mnemonic = "a window with the sun"
	require.NoError(t, s.UpsertKanji(ctx, k))

	got, err := s.GetKanji(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "日", got.Character)
	assert.Equal(t, []string{"ニチ"}, got.Onyomi)
	assert.Equal(t, card.DefaultJLPTLevel, got.JLPTLevel)
	assert.Equal(t, "a window with the sun", got.Mnemonic)
	assert.False(t, got.IsFavorite)

	byChar, err := s.GetKanjiByCharacter(ctx, "日")
	require.NoError(t, err)
	assert.Equal(t, int64(1), byChar.ID)
}

func TestGetKanjiNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetKanji(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertKanjiRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	k := sampleKanji(1, "日", 9)
	assert.ErrorIs(t, s.UpsertKanji(context.Background(), k), card.ErrInvalid)
}

func TestUpsertKeepsFavorite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	k := sampleKanji(1, "日", 5)
	require.NoError(t, s.UpsertKanji(ctx, k))
	require.NoError(t, s.SetFavorite(ctx, k.FavoriteKey(), true))

	k.Meanings = []string{"sun", "day"}
	k.IsFavorite = false
	require.NoError(t, s.UpsertKanji(ctx, k))

	got, err := s.GetKanji(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	assert.Equal(t, []string{"sun", "day"}, got.Meanings)
}

func TestListKanjiFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.UpsertKanji(ctx, sampleKanji(1, "日", 5)))
	require.NoError(t, s.UpsertKanji(ctx, sampleKanji(2, "語", 5)))
	require.NoError(t, s.UpsertKanji(ctx, sampleKanji(3, "議", 2)))
	require.NoError(t, s.SetFavorite(ctx, card.Key{Kind: card.KindKanji, ID: "2"}, true))

	all, err := s.ListKanji(ctx, KanjiFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "議", all[2].Character, "harder levels come last")

	n5, err := s.ListKanji(ctx, KanjiFilter{JLPTLevel: 5})
	require.NoError(t, err)
	assert.Len(t, n5, 2)

	favs, err := s.ListKanji(ctx, KanjiFilter{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "語", favs[0].Character)

	q, err := s.ListKanji(ctx, KanjiFilter{Query: "議"})
	require.NoError(t, err)
	require.Len(t, q, 1)
	assert.Equal(t, int64(3), q[0].ID)
}

func TestUpdateMnemonic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.UpsertKanji(ctx, sampleKanji(1, "日", 5)))

	require.NoError(t, s.UpdateMnemonic(ctx, 1, "sun through a window"))
	got, err := s.GetKanji(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "sun through a window", got.Mnemonic)

	assert.ErrorIs(t, s.UpdateMnemonic(ctx, 99, "x"), ErrNotFound)
}

func TestExamplesAndOrphans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.UpsertKanji(ctx, sampleKanji(1, "日", 5)))

	e1, err := card.NewKanjiExample(1, "日本語を話す")
	require.NoError(t, err)
	e2, err := card.NewKanjiExample(7, "七日")
	require.NoError(t, err)
	require.NoError(t, s.InsertExample(ctx, e1))
	require.NoError(t, s.InsertExample(ctx, e2))

	got, err := s.ExamplesForKanji(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e1.ID, got[0].ID)

	orphans, err := s.OrphanExamples(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, int64(7), orphans[0].KanjiID)
}

func TestInsertExampleAssignsID(t *testing.T) {
	s := newTestStore(t)
	e := &card.KanjiExample{KanjiID: 1, Japanese: "日曜日"}
	require.NoError(t, s.InsertExample(context.Background(), e))
	assert.NotEqual(t, uuid.Nil, e.ID)
}

func TestPhrases(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := &card.JapanesePhrase{JapaneseSentence: "おはようございます", Grammar: "挨拶"}
	require.NoError(t, s.UpsertPhrase(ctx, p))
	require.NoError(t, s.UpsertPhrase(ctx, &card.JapanesePhrase{JapaneseSentence: "ありがとう"}))
	require.NoError(t, s.SetFavorite(ctx, p.FavoriteKey(), true))

	all, err := s.ListPhrases(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	favs, err := s.ListPhrases(ctx, true)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, p.ID, favs[0].ID)

	got, err := s.GetPhrase(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)

	_, err = s.GetPhrase(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversationsReplaceLines(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c := &card.Conversation{ID: 1, Title: "At the station", Lines: []card.ConversationLine{
		{Text: "すみません"},
		{IsUserLine: true, Text: "はい"},
		{Text: "駅はどこですか"},
	}}
	require.NoError(t, s.UpsertConversation(ctx, c))

	c.Lines = c.Lines[:2]
	require.NoError(t, s.UpsertConversation(ctx, c))
	require.NoError(t, s.UpsertConversation(ctx, &card.Conversation{ID: 2, Title: "Empty"}))

	got, err := s.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Len(t, got[0].Lines, 2)
	assert.True(t, got[0].Lines[1].IsUserLine)
	assert.Equal(t, "はい", got[0].Lines[1].Text)
	assert.Empty(t, got[1].Lines)
}

func TestSetFavoriteErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	assert.ErrorIs(t, s.SetFavorite(ctx, card.Key{Kind: card.KindKanji, ID: "5"}, true), ErrNotFound)
	assert.Error(t, s.SetFavorite(ctx, card.Key{Kind: card.KindKanji, ID: "x"}, true))
	assert.Error(t, s.SetFavorite(ctx, card.Key{Kind: "deck", ID: "1"}, true))
}

func TestSaveBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := &Batch{Kanji: []*card.Kanji{sampleKanji(1, "日", 5), sampleKanji(2, "日", 5)}}
	assert.Error(t, s.SaveBatch(ctx, b), "duplicate character violates UNIQUE")

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Kanji)

	b = &Batch{
		Kanji:         []*card.Kanji{sampleKanji(1, "日", 5)},
		Examples:      []*card.KanjiExample{{KanjiID: 1, Japanese: "日本"}},
		Phrases:       []*card.JapanesePhrase{{JapaneseSentence: "こんにちは"}},
		Conversations: []*card.Conversation{{ID: 1, Title: "Hi", Lines: []card.ConversationLine{{Text: "やあ"}}}},
	}
	require.NoError(t, s.SaveBatch(ctx, b))
	assert.Equal(t, 4, b.Len())

	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Kanji: 1, Examples: 1, Phrases: 1, Conversations: 1}, st)
}

func TestToggleThroughStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	k := sampleKanji(1, "日", 5)
	require.NoError(t, s.UpsertKanji(ctx, k))

	tg := favorite.NewToggler(s, nil)
	res, err := tg.Toggle(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, favorite.Applied, res)

	got, err := s.GetKanji(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)

	// Missing row: the write fails and the flag is restored.
	ghost := sampleKanji(9, "無", 5)
	res, err = tg.Toggle(ctx, ghost)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, favorite.RolledBack, res)
	assert.False(t, ghost.IsFavorite)
}
