package mnemonic

import (
	"context"
	"errors"
	"testing"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeCompleter) Complete(_ context.Context, p string) (string, error) {
	f.prompt = p
	return f.reply, f.err
}

func setup(t *testing.T) (*store.Store, *card.Kanji) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(store.DriverPure, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	k := &card.Kanji{ID: 1, Character: "日", Meanings: []string{"해"}, JLPTLevel: 5}
	require.NoError(t, st.UpsertKanji(ctx, k))
	require.NoError(t, st.InsertExample(ctx, &card.KanjiExample{KanjiID: 1, Japanese: "日本語を話す"}))
	return st, k
}

func TestGenerateSaves(t *testing.T) {
	ctx := context.Background()
	st, k := setup(t)
	fc := &fakeCompleter{reply: "창문 속의 해"}

	svc := NewService(st, fc, nil, nil, func(string) []string { return []string{"rì"} }, nil)
	text, err := svc.Generate(ctx, k)
	require.NoError(t, err)

	assert.Equal(t, "창문 속의 해", text)
	assert.Equal(t, text, k.Mnemonic)
	assert.Contains(t, fc.prompt, "日本語を話す")
	assert.Contains(t, fc.prompt, "Mandarin: rì")

	got, err := st.GetKanji(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, text, got.Mnemonic)
}

func TestGenerateFailureKeepsMnemonic(t *testing.T) {
	ctx := context.Background()
	st, k := setup(t)
	k.Mnemonic = "old"

	svc := NewService(st, &fakeCompleter{err: errors.New("rate limited")}, nil, nil, nil, nil)
	_, err := svc.Generate(ctx, k)
	assert.ErrorContains(t, err, "rate limited")
	assert.Equal(t, "old", k.Mnemonic)
}
