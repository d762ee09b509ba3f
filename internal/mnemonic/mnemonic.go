// Package mnemonic generates kanji mnemonics with an LLM and saves them on
// the kanji.
package mnemonic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/decomp"
	"github.com/f3rmion/kanjicard/internal/prompt"
)

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Store is the part of the card store the service needs.
type Store interface {
	ExamplesForKanji(ctx context.Context, kanjiID int64) ([]*card.KanjiExample, error)
	UpdateMnemonic(ctx context.Context, id int64, mnemonic string) error
}

// PinyinFunc returns Mandarin readings for a character.
type PinyinFunc func(char string) []string

// Service writes and stores mnemonics.
type Service struct {
	store     Store
	completer Completer
	prompts   *prompt.Generator
	dict      *decomp.Dictionary
	pinyin    PinyinFunc
	logger    *slog.Logger
}

// NewService creates a service. dict and pinyin are optional.
func NewService(store Store, completer Completer, prompts *prompt.Generator, dict *decomp.Dictionary, pinyin PinyinFunc, logger *slog.Logger) *Service {
	if prompts == nil {
		prompts = prompt.NewGenerator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		completer: completer,
		prompts:   prompts,
		dict:      dict,
		pinyin:    pinyin,
		logger:    logger.With(slog.String("component", "mnemonic")),
	}
}

// Prompt renders the prompt for k without calling the model.
func (s *Service) Prompt(ctx context.Context, k *card.Kanji) (string, error) {
	examples, err := s.store.ExamplesForKanji(ctx, k.ID)
	if err != nil {
		return "", err
	}

	var (
		breakdown *decomp.Breakdown
		pinyin    []string
	)
	if s.dict != nil {
		breakdown = s.dict.Breakdown(k.Character)
	}
	if s.pinyin != nil {
		pinyin = s.pinyin(k.Character)
	}

	return s.prompts.Generate(s.prompts.Build(k, pinyin, breakdown, examples))
}

// Generate asks the model for a mnemonic, saves it and updates k.
func (s *Service) Generate(ctx context.Context, k *card.Kanji) (string, error) {
	p, err := s.Prompt(ctx, k)
	if err != nil {
		return "", err
	}

	text, err := s.completer.Complete(ctx, p)
	if err != nil {
		return "", fmt.Errorf("generating mnemonic for %s: %w", k.Character, err)
	}

	if err := s.store.UpdateMnemonic(ctx, k.ID, text); err != nil {
		return "", err
	}
	k.Mnemonic = text

	s.logger.Info("mnemonic generated", slog.String("kanji", k.Character), slog.Int("length", len(text)))
	return text, nil
}
