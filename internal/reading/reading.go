// Package reading segments Japanese text into words with kana readings and
// looks up Mandarin readings for kanji.
package reading

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	gopinyin "github.com/mozillazg/go-pinyin"
)

// Word is a segmented unit of text. Start and End are byte offsets into the
// analyzed string.
type Word struct {
	Surface string
	Start   int
	End     int
	Reading string // hiragana; empty when the dictionary has none
}

// Analyzer wraps the morphological tokenizer and the pinyin converter.
type Analyzer struct {
	t    *tokenizer.Tokenizer
	args gopinyin.Args
}

// NewAnalyzer creates an analyzer backed by the IPA dictionary.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("creating tokenizer: %w", err)
	}

	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone // zhōng
	args.Heteronym = true

	return &Analyzer{t: t, args: args}, nil
}

// Words splits text into words. Whitespace-only tokens are dropped; offsets
// always refer to the original text.
func (a *Analyzer) Words(text string) []Word {
	var words []Word
	cursor := 0

	for _, tok := range a.t.Tokenize(text) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}

		idx := strings.Index(text[cursor:], tok.Surface)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(tok.Surface)
		cursor = end

		// IPA features: 6 = base form, 7 = reading (katakana)
		var reading string
		if features := tok.Features(); len(features) > 7 && features[7] != "*" {
			reading = KatakanaToHiragana(features[7])
		}

		words = append(words, Word{
			Surface: tok.Surface,
			Start:   start,
			End:     end,
			Reading: reading,
		})
	}

	return words
}

// Hiragana returns the full reading of text in hiragana. Words without a
// dictionary reading keep their surface form, and text between words, such
// as spaces, is copied through.
func (a *Analyzer) Hiragana(text string) string {
	var sb strings.Builder
	cursor := 0
	for _, w := range a.Words(text) {
		sb.WriteString(text[cursor:w.Start])
		if w.Reading != "" {
			sb.WriteString(w.Reading)
		} else {
			sb.WriteString(w.Surface)
		}
		cursor = w.End
	}
	sb.WriteString(text[cursor:])
	return sb.String()
}

// Pinyin returns all Mandarin readings for a single character.
func (a *Analyzer) Pinyin(char string) []string {
	result := gopinyin.Pinyin(char, a.args)
	if len(result) == 0 {
		return nil
	}
	return result[0]
}

// Characters splits text into one word per rune. It is the fallback when no
// dictionary is available.
func Characters(text string) []Word {
	words := make([]Word, 0, utf8.RuneCountInString(text))
	for i, r := range text {
		end := i + utf8.RuneLen(r)
		if r == utf8.RuneError {
			end = i + 1
		}
		if strings.TrimSpace(string(r)) == "" {
			continue
		}
		words = append(words, Word{Surface: text[i:end], Start: i, End: end})
	}
	return words
}

// KatakanaToHiragana maps the katakana block onto hiragana. Other runes,
// including the prolonged sound mark, pass through unchanged.
func KatakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

// IsKanji reports whether r is a CJK unified ideograph.
func IsKanji(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}

// ContainsKanji reports whether s has at least one kanji.
func ContainsKanji(s string) bool {
	for _, r := range s {
		if IsKanji(r) {
			return true
		}
	}
	return false
}
