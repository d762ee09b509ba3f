// Package card provides the core data model for kanjicard: kanji, their example
// sentences, phrases and conversations.
package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Defaults applied to newly created kanji.
const (
	DefaultJLPTLevel = 5
	DefaultFrequency = 0
)

var (
	// ErrInvalid is wrapped by every validation failure in this package.
	ErrInvalid = errors.New("invalid card data")

	validate = validator.New()
)

// Kanji is a single character card.
type Kanji struct {
	ID           int64    `yaml:"id" json:"id" validate:"gt=0"`
	Character    string   `yaml:"character" json:"character" validate:"required"`
	Meanings     []string `yaml:"meanings" json:"meanings"`
	Onyomi       []string `yaml:"onyomi" json:"onyomi"`
	Kunyomi      []string `yaml:"kunyomi" json:"kunyomi"`
	Bushu        string   `yaml:"bushu,omitempty" json:"bushu,omitempty"`               // Radical
	BushuMeaning string   `yaml:"bushu_meaning,omitempty" json:"bushu_meaning,omitempty"` // Radical meaning
	Mnemonic     string   `yaml:"mnemonic,omitempty" json:"mnemonic,omitempty"`
	StrokeCount  int      `yaml:"stroke_count" json:"stroke_count" validate:"gte=0"`
	JLPTLevel    int      `yaml:"jlpt_level" json:"jlpt_level" validate:"gte=1,lte=5"`
	Frequency    int      `yaml:"frequency" json:"frequency" validate:"gte=0"`
	IsFavorite   bool     `yaml:"is_favorite" json:"is_favorite"`
}

// KanjiExample is an example sentence grouped under a kanji. KanjiID is an
// advisory reference; nothing guarantees the kanji exists.
type KanjiExample struct {
	ID                  uuid.UUID `yaml:"id" json:"id"`
	KanjiID             int64     `yaml:"kanji_id" json:"kanji_id"`
	Japanese            string    `yaml:"japanese" json:"japanese" validate:"required"`
	Hiragana            string    `yaml:"hiragana" json:"hiragana"`
	Korean              string    `yaml:"korean" json:"korean"`
	Romaji              string    `yaml:"romaji" json:"romaji"`
	KoreanPronunciation string    `yaml:"korean_pronunciation" json:"korean_pronunciation"`
}

// JapanesePhrase is a standalone phrase card.
type JapanesePhrase struct {
	ID                  uuid.UUID `yaml:"id" json:"id"`
	JapaneseSentence    string    `yaml:"japanese_sentence" json:"japanese_sentence" validate:"required"`
	Hiragana            string    `yaml:"hiragana" json:"hiragana"`
	KoreanSentence      string    `yaml:"korean_sentence" json:"korean_sentence"`
	KoreanPronunciation string    `yaml:"korean_pronunciation" json:"korean_pronunciation"`
	Romaji              string    `yaml:"romaji" json:"romaji"`
	Grammar             string    `yaml:"grammar" json:"grammar"`
	IsFavorite          bool      `yaml:"is_favorite" json:"is_favorite"`
}

// ConversationLine is one bubble in a conversation.
type ConversationLine struct {
	IsUserLine  bool   `yaml:"is_user_line" json:"is_user_line"`
	Text        string `yaml:"text" json:"text" validate:"required"`
	Romaji      string `yaml:"romaji" json:"romaji"`
	Translation string `yaml:"translation" json:"translation"`
}

// Conversation is an ordered dialogue.
type Conversation struct {
	ID    int64              `yaml:"id" json:"id" validate:"gt=0"`
	Title string             `yaml:"title" json:"title" validate:"required"`
	Lines []ConversationLine `yaml:"lines" json:"lines" validate:"dive"`
}

// NewKanji creates a kanji with default JLPT level and frequency.
func NewKanji(id int64, character string) (*Kanji, error) {
	k := &Kanji{
		ID:        id,
		Character: character,
		JLPTLevel: DefaultJLPTLevel,
		Frequency: DefaultFrequency,
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// NewKanjiExample creates an example with a freshly generated ID.
func NewKanjiExample(kanjiID int64, japanese string) (*KanjiExample, error) {
	e := &KanjiExample{
		ID:       uuid.New(),
		KanjiID:  kanjiID,
		Japanese: japanese,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// ApplyDefaults fills zero-valued fields that have a non-zero default.
func (k *Kanji) ApplyDefaults() {
	if k.JLPTLevel == 0 {
		k.JLPTLevel = DefaultJLPTLevel
	}
}

// Validate checks the kanji's field constraints.
func (k *Kanji) Validate() error {
	return check(k)
}

// Validate checks the example's field constraints.
func (e *KanjiExample) Validate() error {
	return check(e)
}

// Validate checks the phrase's field constraints.
func (p *JapanesePhrase) Validate() error {
	return check(p)
}

// Validate checks the conversation and each of its lines.
func (c *Conversation) Validate() error {
	return check(c)
}

// JLPTLabel returns the conventional label, e.g. "N5".
func (k *Kanji) JLPTLabel() string {
	return JLPTLabel(k.JLPTLevel)
}

// JLPTLabel formats a JLPT level as "N<level>".
func JLPTLabel(level int) string {
	return fmt.Sprintf("N%d", level)
}

// Readings joins on'yomi and kun'yomi for compact display.
func (k *Kanji) Readings() string {
	parts := make([]string, 0, len(k.Onyomi)+len(k.Kunyomi))
	parts = append(parts, k.Onyomi...)
	parts = append(parts, k.Kunyomi...)
	return strings.Join(parts, "・")
}

// GrammarTags splits the grammar note into tags. Tags are separated by
// commas or the Japanese list separator.
func (p *JapanesePhrase) GrammarTags() []string {
	fields := strings.FieldsFunc(p.Grammar, func(r rune) bool {
		return r == ',' || r == '、' || r == '/'
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
