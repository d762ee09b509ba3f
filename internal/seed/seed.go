// Package seed loads card decks from YAML and prepares them for the store:
// missing ids are derived, hiragana is filled from the morphological
// analyzer and radicals from the decomposition dictionary.
package seed

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/decomp"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed data/sample.yaml
var sampleDeck []byte

// Namespace derives stable ids for examples and phrases that have none.
var Namespace = uuid.MustParse("6f1c8f0e-3b9a-4c55-9a57-4b8d2f0a7e21")

// Deck is the YAML layout of a seed file.
type Deck struct {
	Kanji         []KanjiEntry          `yaml:"kanji"`
	Phrases       []card.JapanesePhrase `yaml:"phrases"`
	Conversations []card.Conversation   `yaml:"conversations"`
}

// KanjiEntry is a kanji with its examples nested underneath.
type KanjiEntry struct {
	card.Kanji `yaml:",inline"`
	Examples   []card.KanjiExample `yaml:"examples,omitempty"`
}

// Reader produces hiragana for Japanese text.
type Reader interface {
	Hiragana(text string) string
}

// Sample returns the embedded sample deck.
func Sample() (*Deck, error) {
	return Parse(sampleDeck)
}

// Parse decodes a deck.
func Parse(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing deck: %w", err)
	}
	return &d, nil
}

// LoadDeck loads a deck from a YAML file.
func LoadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadDir loads and merges every *.yaml and *.yml file in dir, in name order.
func LoadDir(dir string) (*Deck, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("listing deck files: %w", err)
		}
		paths = append(paths, m...)
	}
	sort.Strings(paths)

	merged := &Deck{}
	for _, p := range paths {
		d, err := LoadDeck(p)
		if err != nil {
			return nil, err
		}
		merged.Merge(d)
	}
	return merged, nil
}

// Merge appends other's records to d.
func (d *Deck) Merge(other *Deck) {
	d.Kanji = append(d.Kanji, other.Kanji...)
	d.Phrases = append(d.Phrases, other.Phrases...)
	d.Conversations = append(d.Conversations, other.Conversations...)
}

// SaveDeck writes a deck as YAML.
func SaveDeck(path string, d *Deck) error {
	out, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling deck: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing deck file: %w", err)
	}

	return nil
}

// Seeder turns decks into store batches.
type Seeder struct {
	reader Reader
	dict   *decomp.Dictionary
	logger *slog.Logger
}

// NewSeeder creates a seeder. reader and dict may be nil, which disables
// the corresponding enrichment.
func NewSeeder(reader Reader, dict *decomp.Dictionary, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		reader: reader,
		dict:   dict,
		logger: logger.With(slog.String("component", "seed")),
	}
}

// Build validates the deck and converts it into a batch. Kanji ids must be
// unique within the deck; examples are attached to their enclosing kanji.
func (s *Seeder) Build(d *Deck) (*store.Batch, error) {
	b := &store.Batch{}
	seen := make(map[int64]string)

	for i := range d.Kanji {
		entry := &d.Kanji[i]
		k := entry.Kanji
		k.ApplyDefaults()

		if prev, ok := seen[k.ID]; ok {
			return nil, fmt.Errorf("kanji %s: id %d already used by %s: %w", k.Character, k.ID, prev, card.ErrInvalid)
		}
		seen[k.ID] = k.Character

		if s.dict != nil && s.dict.Enrich(&k) {
			s.logger.Debug("radical filled", slog.String("kanji", k.Character), slog.String("bushu", k.Bushu))
		}
		if err := k.Validate(); err != nil {
			return nil, fmt.Errorf("kanji %q: %w", k.Character, err)
		}
		b.Kanji = append(b.Kanji, &k)

		for j := range entry.Examples {
			e := entry.Examples[j]
			e.KanjiID = k.ID
			if e.ID == uuid.Nil {
				e.ID = uuid.NewSHA1(Namespace, []byte(strconv.FormatInt(k.ID, 10)+"/"+e.Japanese))
			}
			if e.Hiragana == "" {
				e.Hiragana = s.hiragana(e.Japanese)
			}
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("example %d of %s: %w", j+1, k.Character, err)
			}
			b.Examples = append(b.Examples, &e)
		}
	}

	for i := range d.Phrases {
		p := d.Phrases[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.NewSHA1(Namespace, []byte("phrase/"+p.JapaneseSentence))
		}
		if p.Hiragana == "" {
			p.Hiragana = s.hiragana(p.JapaneseSentence)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("phrase %d: %w", i+1, err)
		}
		b.Phrases = append(b.Phrases, &p)
	}

	for i := range d.Conversations {
		c := d.Conversations[i]
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("conversation %q: %w", c.Title, err)
		}
		b.Conversations = append(b.Conversations, &c)
	}

	s.logger.Info("deck prepared", slog.Int("records", b.Len()))
	return b, nil
}

func (s *Seeder) hiragana(text string) string {
	if s.reader == nil {
		return ""
	}
	return s.reader.Hiragana(text)
}

// FromBatch converts stored cards back into a deck, e.g. for export.
func FromBatch(b *store.Batch) *Deck {
	d := &Deck{}
	index := make(map[int64]int)
	for _, k := range b.Kanji {
		index[k.ID] = len(d.Kanji)
		d.Kanji = append(d.Kanji, KanjiEntry{Kanji: *k})
	}
	for _, e := range b.Examples {
		if i, ok := index[e.KanjiID]; ok {
			d.Kanji[i].Examples = append(d.Kanji[i].Examples, *e)
		}
	}
	for _, p := range b.Phrases {
		d.Phrases = append(d.Phrases, *p)
	}
	for _, c := range b.Conversations {
		d.Conversations = append(d.Conversations, *c)
	}
	return d
}
