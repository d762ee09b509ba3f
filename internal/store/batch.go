package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/f3rmion/kanjicard/internal/card"
)

// Batch is a set of cards saved together, typically a seed deck.
type Batch struct {
	Kanji         []*card.Kanji
	Examples      []*card.KanjiExample
	Phrases       []*card.JapanesePhrase
	Conversations []*card.Conversation
}

// Len returns the total number of records in the batch.
func (b *Batch) Len() int {
	return len(b.Kanji) + len(b.Examples) + len(b.Phrases) + len(b.Conversations)
}

// SaveBatch writes every record in one transaction. Nothing is written if any
// record fails validation.
func (s *Store) SaveBatch(ctx context.Context, b *Batch) error {
	for _, c := range b.Conversations {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	err := s.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, k := range b.Kanji {
			if err := upsertKanji(ctx, tx, k); err != nil {
				return err
			}
		}
		for _, e := range b.Examples {
			if err := insertExample(ctx, tx, e); err != nil {
				return err
			}
		}
		for _, p := range b.Phrases {
			if err := upsertPhrase(ctx, tx, p); err != nil {
				return err
			}
		}
		for _, c := range b.Conversations {
			if err := upsertConversation(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("batch saved",
		slog.Int("kanji", len(b.Kanji)),
		slog.Int("examples", len(b.Examples)),
		slog.Int("phrases", len(b.Phrases)),
		slog.Int("conversations", len(b.Conversations)))
	return nil
}
