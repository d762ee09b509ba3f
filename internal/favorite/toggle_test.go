package favorite

import (
	"context"
	"errors"
	"testing"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDisk = errors.New("disk full")

type fakeStore struct {
	values map[card.Key]bool
	fail   bool
	reject func(v bool) bool
	calls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[card.Key]bool)}
}

func (s *fakeStore) SetFavorite(_ context.Context, key card.Key, v bool) error {
	s.calls++
	if s.fail || (s.reject != nil && s.reject(v)) {
		return errDisk
	}
	s.values[key] = v
	return nil
}

func TestToggleApplied(t *testing.T) {
	store := newFakeStore()
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 1, Character: "日"}

	res, err := tg.Toggle(context.Background(), k)
	require.NoError(t, err)
	assert.Equal(t, Applied, res)
	assert.True(t, k.IsFavorite)
	assert.True(t, store.values[k.FavoriteKey()])

	res, err = tg.Toggle(context.Background(), k)
	require.NoError(t, err)
	assert.Equal(t, Applied, res)
	assert.False(t, k.IsFavorite)
	assert.False(t, store.values[k.FavoriteKey()])
}

func TestToggleRollsBackOnFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 7, Character: "月"}

	p := tg.Apply(k)
	assert.True(t, k.IsFavorite, "flag flips before persistence")
	assert.False(t, p.Prior)
	assert.True(t, p.Next)

	err := tg.Persist(context.Background(), p)
	require.ErrorIs(t, err, errDisk)

	res := tg.Settle(k, p, err)
	assert.Equal(t, RolledBack, res)
	assert.False(t, k.IsFavorite)
}

func TestToggleConvenienceRollsBack(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	tg := NewToggler(store, nil)
	p := &card.JapanesePhrase{IsFavorite: true}

	res, err := tg.Toggle(context.Background(), p)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, RolledBack, res)
	assert.True(t, p.IsFavorite)
}

func TestStaleFailureIsSuperseded(t *testing.T) {
	store := newFakeStore()
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 3, Character: "火"}

	first := tg.Apply(k)  // false -> true
	second := tg.Apply(k) // true -> false
	assert.False(t, k.IsFavorite)

	assert.Equal(t, Superseded, tg.Settle(k, first, errDisk))
	assert.False(t, k.IsFavorite, "stale failure must not touch the flag")

	require.NoError(t, tg.Persist(context.Background(), second))
	assert.Equal(t, Applied, tg.Settle(k, second, nil))
	assert.False(t, k.IsFavorite)
}

func TestLatestFailureRestoresLastPersisted(t *testing.T) {
	store := newFakeStore()
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 4, Character: "水"}

	first := tg.Apply(k)  // false -> true
	second := tg.Apply(k) // true -> false

	assert.Equal(t, Superseded, tg.Settle(k, first, errDisk))
	assert.Equal(t, RolledBack, tg.Settle(k, second, errDisk))

	// Neither write landed, so the original value is restored.
	assert.False(t, k.IsFavorite)
	assert.Zero(t, store.calls)
}

func TestRollbackAfterEarlierSuccess(t *testing.T) {
	store := newFakeStore()
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 5, Character: "木"}

	_, err := tg.Toggle(context.Background(), k)
	require.NoError(t, err)
	require.True(t, k.IsFavorite)

	store.fail = true
	res, err := tg.Toggle(context.Background(), k)
	assert.Error(t, err)
	assert.Equal(t, RolledBack, res)
	assert.True(t, k.IsFavorite)
}

func TestOutOfOrderPersistKeepsNewestValue(t *testing.T) {
	store := newFakeStore()
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 6, Character: "金"}

	first := tg.Apply(k)  // false -> true
	second := tg.Apply(k) // true -> false

	// The newer write reaches the store first.
	require.NoError(t, tg.Persist(context.Background(), second))
	err := tg.Persist(context.Background(), first)
	require.ErrorIs(t, err, ErrStale)
	assert.Equal(t, 1, store.calls)
	assert.False(t, store.values[k.FavoriteKey()])

	assert.Equal(t, Applied, tg.Settle(k, second, nil))
	assert.Equal(t, Superseded, tg.Settle(k, first, err))

	// A later failure restores the newest persisted value, not the stale one.
	third := tg.Apply(k)
	assert.Equal(t, RolledBack, tg.Settle(k, third, errDisk))
	assert.False(t, k.IsFavorite)
}

func TestOlderWriteSkippedAfterNewerFailure(t *testing.T) {
	store := newFakeStore()
	store.reject = func(v bool) bool { return !v }
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 8, Character: "土"}
	key := k.FavoriteKey()

	first := tg.Apply(k)  // false -> true
	second := tg.Apply(k) // true -> false

	errSecond := tg.Persist(context.Background(), second)
	require.ErrorIs(t, errSecond, errDisk)
	errFirst := tg.Persist(context.Background(), first)
	require.ErrorIs(t, errFirst, ErrStale)
	assert.Equal(t, 1, store.calls)

	assert.Equal(t, RolledBack, tg.Settle(k, second, errSecond))
	assert.Equal(t, Superseded, tg.Settle(k, first, errFirst))
	assert.Equal(t, store.values[key], k.IsFavorite)
	assert.False(t, k.IsFavorite)
}

func TestRollbackSeesEarlierUnsettledWrite(t *testing.T) {
	store := newFakeStore()
	store.reject = func(v bool) bool { return !v }
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 9, Character: "曜"}
	key := k.FavoriteKey()

	first := tg.Apply(k)  // false -> true
	second := tg.Apply(k) // true -> false

	errFirst := tg.Persist(context.Background(), first)
	require.NoError(t, errFirst)
	errSecond := tg.Persist(context.Background(), second)
	require.ErrorIs(t, errSecond, errDisk)

	// The newer toggle settles before the older success arrives.
	assert.Equal(t, RolledBack, tg.Settle(k, second, errSecond))
	assert.True(t, k.IsFavorite)
	assert.Equal(t, Applied, tg.Settle(k, first, errFirst))
	assert.True(t, k.IsFavorite)
	assert.True(t, store.values[key])
}

func TestRollbackUsesReloadedValue(t *testing.T) {
	store := newFakeStore()
	tg := NewToggler(store, nil)
	k := &card.Kanji{ID: 10, Character: "年"}

	_, err := tg.Toggle(context.Background(), k)
	require.NoError(t, err)
	require.True(t, k.IsFavorite)

	// Changed elsewhere, then reloaded into a fresh value.
	store.values[k.FavoriteKey()] = false
	fresh := &card.Kanji{ID: 10, Character: "年"}

	store.fail = true
	res, err := tg.Toggle(context.Background(), fresh)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, RolledBack, res)
	assert.False(t, fresh.IsFavorite)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "rolled back", RolledBack.String())
	assert.Equal(t, "superseded", Superseded.String())
	assert.Equal(t, "Result(9)", Result(9).String())
}
