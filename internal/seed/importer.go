package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/f3rmion/kanjicard/internal/anki"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/store"
)

// ErrUnsupportedFile is returned for files that are neither decks nor Anki
// packages.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Extensions lists the file types ImportFile understands.
var Extensions = []string{".apkg", ".yaml", ".yml"}

// Lookup finds stored kanji by character.
type Lookup interface {
	GetKanjiByCharacter(ctx context.Context, char string) (*card.Kanji, error)
}

// FromAnki converts the kanji notes of an Anki package into a deck.
func FromAnki(pkg *anki.Package, m anki.FieldMap) *Deck {
	d := &Deck{}
	for _, k := range pkg.Kanji(m) {
		d.Kanji = append(d.Kanji, KanjiEntry{Kanji: *k})
	}
	return d
}

// ImportFile reads a deck or Anki package and prepares it for saving.
// Kanji already stored under the same character keep their id. Deck files
// replace stored fields; Anki notes only fill fields that are still empty.
func (s *Seeder) ImportFile(ctx context.Context, path string, lookup Lookup) (*store.Batch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".apkg":
		return s.ImportAnki(ctx, path, anki.DefaultFieldMap, lookup)
	case ".yaml", ".yml":
		d, err := LoadDeck(path)
		if err != nil {
			return nil, err
		}
		return s.importDeck(ctx, path, d, lookup, false)
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFile)
	}
}

// ImportAnki reads the kanji notes of an Anki package, finding the
// character in the fields m names.
func (s *Seeder) ImportAnki(ctx context.Context, path string, m anki.FieldMap, lookup Lookup) (*store.Batch, error) {
	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()
	return s.importDeck(ctx, path, FromAnki(pkg, m), lookup, true)
}

func (s *Seeder) importDeck(ctx context.Context, path string, d *Deck, lookup Lookup, merge bool) (*store.Batch, error) {
	if lookup != nil {
		if err := s.resolve(ctx, d, lookup, merge); err != nil {
			return nil, err
		}
	}

	s.logger.Info("importing file",
		slog.String("path", path),
		slog.Int("kanji", len(d.Kanji)),
		slog.Bool("merge", merge))
	return s.Build(d)
}

func (s *Seeder) resolve(ctx context.Context, d *Deck, lookup Lookup, merge bool) error {
	for i := range d.Kanji {
		k := &d.Kanji[i].Kanji
		existing, err := lookup.GetKanjiByCharacter(ctx, k.Character)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("looking up %s: %w", k.Character, err)
		}
		if merge {
			*k = *fillEmpty(existing, k)
			continue
		}
		k.ID = existing.ID
	}
	return nil
}

// fillEmpty returns a copy of dst with its empty fields taken from src.
func fillEmpty(dst, src *card.Kanji) *card.Kanji {
	out := *dst
	if len(out.Meanings) == 0 {
		out.Meanings = src.Meanings
	}
	if len(out.Onyomi) == 0 {
		out.Onyomi = src.Onyomi
	}
	if len(out.Kunyomi) == 0 {
		out.Kunyomi = src.Kunyomi
	}
	if out.StrokeCount == 0 {
		out.StrokeCount = src.StrokeCount
	}
	return &out
}
