package store

import (
	"context"
	"fmt"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/google/uuid"
)

// InsertExample stores an example sentence. A zero ID is replaced with a new
// one. The kanji reference is not checked.
func (s *Store) InsertExample(ctx context.Context, e *card.KanjiExample) error {
	return insertExample(ctx, s.db, e)
}

func insertExample(ctx context.Context, db execer, e *card.KanjiExample) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if err := e.Validate(); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO kanji_examples (id, kanji_id, japanese, hiragana, korean, romaji, korean_pronunciation)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, e.ID.String(), e.KanjiID, e.Japanese, e.Hiragana, e.Korean, e.Romaji, e.KoreanPronunciation)
	if err != nil {
		return fmt.Errorf("inserting example %q: %w", e.Japanese, err)
	}
	return nil
}

// ExamplesForKanji returns the examples grouped under a kanji in insertion order.
func (s *Store) ExamplesForKanji(ctx context.Context, kanjiID int64) ([]*card.KanjiExample, error) {
	return s.queryExamples(ctx, `
		SELECT id, kanji_id, japanese, hiragana, korean, romaji, korean_pronunciation
		FROM kanji_examples WHERE kanji_id = ? ORDER BY rowid
	`, kanjiID)
}

// OrphanExamples returns examples whose kanji does not exist. References are
// advisory, so these are reported rather than rejected.
func (s *Store) OrphanExamples(ctx context.Context) ([]*card.KanjiExample, error) {
	return s.queryExamples(ctx, `
		SELECT e.id, e.kanji_id, e.japanese, e.hiragana, e.korean, e.romaji, e.korean_pronunciation
		FROM kanji_examples e LEFT JOIN kanji k ON k.id = e.kanji_id
		WHERE k.id IS NULL ORDER BY e.rowid
	`)
}

func (s *Store) queryExamples(ctx context.Context, query string, args ...any) ([]*card.KanjiExample, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying examples: %w", err)
	}
	defer rows.Close()

	var out []*card.KanjiExample
	for rows.Next() {
		var (
			e  card.KanjiExample
			id string
		)
		if err := rows.Scan(&id, &e.KanjiID, &e.Japanese, &e.Hiragana, &e.Korean, &e.Romaji, &e.KoreanPronunciation); err != nil {
			return nil, fmt.Errorf("scanning example: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing example id %q: %w", id, err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
