// Package favorite implements optimistic favorite toggling: the in-memory flag
// flips immediately, persistence happens afterwards, and a failed write is
// compensated by restoring the value the store holds.
//
// Apply and Settle must be called from the goroutine that owns the targets
// (the UI loop). Persist may run anywhere; writes are serialized and land in
// the order the toggles were applied.
package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/f3rmion/kanjicard/internal/card"
)

// Result describes how a toggle ended.
type Result int

const (
	// Applied means the new value was persisted.
	Applied Result = iota
	// RolledBack means persistence failed and the flag was restored.
	RolledBack
	// Superseded means the write failed or was skipped and a newer toggle owns
	// the flag.
	Superseded
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case RolledBack:
		return "rolled back"
	case Superseded:
		return "superseded"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// ErrStale is returned by Persist for a write that was skipped because a
// newer toggle of the same entity had already been sent to the store.
var ErrStale = errors.New("favorite write superseded")

// Target is an entity with a favorite flag.
type Target interface {
	FavoriteKey() card.Key
	Favorite() bool
	SetFavorite(bool)
}

// Store persists favorite flags.
type Store interface {
	SetFavorite(ctx context.Context, key card.Key, favorite bool) error
}

// Pending is a toggle that has been applied locally but not yet settled.
type Pending struct {
	Key   card.Key
	Prior bool
	Next  bool
	gen   uint64
}

// Toggler coordinates optimistic toggles for many entities.
type Toggler struct {
	store  Store
	logger *slog.Logger

	writeMu   sync.Mutex
	attempted map[card.Key]uint64 // guarded by writeMu
	stored    map[card.Key]bool   // guarded by writeMu

	gens     map[card.Key]uint64
	inflight map[card.Key]int
}

// NewToggler creates a toggler writing through store.
func NewToggler(store Store, logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toggler{
		store:     store,
		logger:    logger.With(slog.String("component", "favorite")),
		attempted: make(map[card.Key]uint64),
		stored:    make(map[card.Key]bool),
		gens:      make(map[card.Key]uint64),
		inflight:  make(map[card.Key]int),
	}
}

// Apply flips the target's flag in memory and returns the pending write.
// With nothing in flight for the entity, its current flag is taken as the
// stored value, so reloaded entities roll back to what they were loaded with.
func (t *Toggler) Apply(target Target) Pending {
	key := target.FavoriteKey()
	prior := target.Favorite()

	if t.inflight[key] == 0 {
		t.writeMu.Lock()
		t.stored[key] = prior
		t.writeMu.Unlock()
	}
	t.gens[key]++
	t.inflight[key]++

	target.SetFavorite(!prior)

	return Pending{Key: key, Prior: prior, Next: !prior, gen: t.gens[key]}
}

// Persist writes the pending value. It may run on any goroutine. A write
// older than one already sent to the store is skipped with ErrStale.
func (t *Toggler) Persist(ctx context.Context, p Pending) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if p.gen < t.attempted[p.Key] {
		return ErrStale
	}
	t.attempted[p.Key] = p.gen
	if err := t.store.SetFavorite(ctx, p.Key, p.Next); err != nil {
		return fmt.Errorf("persisting favorite %s: %w", p.Key, err)
	}
	t.stored[p.Key] = p.Next
	return nil
}

// Settle records the outcome of Persist. On failure the flag is restored to
// the stored value, unless a newer toggle has been applied since.
func (t *Toggler) Settle(target Target, p Pending, err error) Result {
	if t.inflight[p.Key] > 0 {
		t.inflight[p.Key]--
	}

	switch {
	case err == nil:
		t.logger.Debug("favorite persisted",
			slog.String("key", p.Key.String()),
			slog.Bool("favorite", p.Next))
		return Applied
	case errors.Is(err, ErrStale):
		t.logger.Debug("favorite write skipped, newer write sent",
			slog.String("key", p.Key.String()))
		return Superseded
	case t.gens[p.Key] != p.gen:
		t.logger.Warn("favorite write failed, newer toggle pending",
			slog.String("key", p.Key.String()),
			slog.String("error", err.Error()))
		return Superseded
	}

	t.writeMu.Lock()
	restored := t.stored[p.Key]
	t.writeMu.Unlock()
	target.SetFavorite(restored)

	t.logger.Warn("favorite write failed, rolled back",
		slog.String("key", p.Key.String()),
		slog.Bool("restored", restored),
		slog.String("error", err.Error()))
	return RolledBack
}

// Toggle applies, persists and settles in one call.
func (t *Toggler) Toggle(ctx context.Context, target Target) (Result, error) {
	p := t.Apply(target)
	err := t.Persist(ctx, p)
	return t.Settle(target, p, err), err
}
