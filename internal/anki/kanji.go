package anki

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/reading"
)

// FieldMap names the note fields that hold kanji data. Each entry lists
// accepted names, compared case-insensitively; the first present wins.
type FieldMap struct {
	Character []string
	Meaning   []string
	Onyomi    []string
	Kunyomi   []string
	Strokes   []string
	JLPT      []string
}

// DefaultFieldMap covers common shared kanji decks.
var DefaultFieldMap = FieldMap{
	Character: []string{"Kanji", "Character", "漢字", "Front"},
	Meaning:   []string{"Meaning", "Meanings", "Korean", "English", "Back"},
	Onyomi:    []string{"Onyomi", "On", "音読み", "On'yomi"},
	Kunyomi:   []string{"Kunyomi", "Kun", "訓読み", "Kun'yomi"},
	Strokes:   []string{"Strokes", "Stroke Count", "StrokeCount"},
	JLPT:      []string{"JLPT", "JLPT Level"},
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	digitPattern = regexp.MustCompile(`\d+`)
)

func stripHTML(s string) string {
	s = strings.ReplaceAll(s, "<br>", " ")
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}

func (p *Package) first(n *Note, names []string) string {
	for _, name := range names {
		if v := stripHTML(p.Field(n, name)); v != "" {
			return v
		}
	}
	return ""
}

// NoteCharacter returns the single kanji a note is about, or "".
func (p *Package) NoteCharacter(n *Note, m FieldMap) string {
	ch := p.first(n, m.Character)
	if utf8.RuneCountInString(ch) != 1 {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(ch)
	if !reading.IsKanji(r) {
		return ""
	}
	return ch
}

// Kanji converts every note that carries a single kanji. The note id
// becomes the kanji id; callers merging into an existing collection should
// remap ids by character.
func (p *Package) Kanji(m FieldMap) []*card.Kanji {
	var out []*card.Kanji
	seen := make(map[string]bool)

	for _, n := range p.Notes {
		ch := p.NoteCharacter(n, m)
		if ch == "" || seen[ch] {
			continue
		}
		seen[ch] = true

		k := &card.Kanji{
			ID:        n.ID,
			Character: ch,
			Meanings:  splitList(p.first(n, m.Meaning)),
			Onyomi:    splitList(p.first(n, m.Onyomi)),
			Kunyomi:   splitList(p.first(n, m.Kunyomi)),
		}
		k.StrokeCount = firstNumber(p.first(n, m.Strokes))
		if lvl := firstNumber(p.first(n, m.JLPT)); lvl >= 1 && lvl <= 5 {
			k.JLPTLevel = lvl
		}
		k.ApplyDefaults()
		out = append(out, k)
	}
	return out
}

// Augment adds KanjiFields to every note type used by a kanji note and
// fills them from lookup. It returns the number of notes updated.
func (p *Package) Augment(m FieldMap, lookup func(char string) *card.Kanji) (int, error) {
	updated := 0
	prepared := make(map[int64]bool)

	for _, n := range p.Notes {
		ch := p.NoteCharacter(n, m)
		if ch == "" {
			continue
		}
		k := lookup(ch)
		if k == nil {
			continue
		}

		if !prepared[n.ModelID] {
			if err := p.AddKanjiFields(n.ModelID); err != nil {
				return updated, err
			}
			prepared[n.ModelID] = true
		}
		if err := p.SetKanjiData(n, k); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、' || r == ';' || r == '・'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func firstNumber(s string) int {
	n, _ := strconv.Atoi(digitPattern.FindString(s))
	return n
}
