package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/google/uuid"
)

// UpsertPhrase inserts or updates a phrase. The favorite flag of an existing
// row is kept.
func (s *Store) UpsertPhrase(ctx context.Context, p *card.JapanesePhrase) error {
	return upsertPhrase(ctx, s.db, p)
}

func upsertPhrase(ctx context.Context, db execer, p *card.JapanesePhrase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO phrases (id, japanese_sentence, hiragana, korean_sentence, korean_pronunciation, romaji, grammar, is_favorite)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			japanese_sentence = excluded.japanese_sentence,
			hiragana = excluded.hiragana,
			korean_sentence = excluded.korean_sentence,
			korean_pronunciation = excluded.korean_pronunciation,
			romaji = excluded.romaji,
			grammar = excluded.grammar
	`, p.ID.String(), p.JapaneseSentence, p.Hiragana, p.KoreanSentence, p.KoreanPronunciation,
		p.Romaji, p.Grammar, p.IsFavorite)
	if err != nil {
		return fmt.Errorf("upserting phrase %q: %w", p.JapaneseSentence, err)
	}
	return nil
}

// ListPhrases returns phrases in insertion order.
func (s *Store) ListPhrases(ctx context.Context, favoritesOnly bool) ([]*card.JapanesePhrase, error) {
	query := `SELECT id, japanese_sentence, hiragana, korean_sentence, korean_pronunciation,
		romaji, grammar, is_favorite FROM phrases`
	if favoritesOnly {
		query += " WHERE is_favorite = 1"
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying phrases: %w", err)
	}
	defer rows.Close()

	var out []*card.JapanesePhrase
	for rows.Next() {
		var (
			p  card.JapanesePhrase
			id string
		)
		if err := rows.Scan(&id, &p.JapaneseSentence, &p.Hiragana, &p.KoreanSentence,
			&p.KoreanPronunciation, &p.Romaji, &p.Grammar, &p.IsFavorite); err != nil {
			return nil, fmt.Errorf("scanning phrase: %w", err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing phrase id %q: %w", id, err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// GetPhrase returns the phrase with the given id.
func (s *Store) GetPhrase(ctx context.Context, id uuid.UUID) (*card.JapanesePhrase, error) {
	var p card.JapanesePhrase
	err := s.db.QueryRowContext(ctx, `SELECT japanese_sentence, hiragana, korean_sentence,
		korean_pronunciation, romaji, grammar, is_favorite FROM phrases WHERE id = ?`, id.String()).
		Scan(&p.JapaneseSentence, &p.Hiragana, &p.KoreanSentence, &p.KoreanPronunciation,
			&p.Romaji, &p.Grammar, &p.IsFavorite)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("phrase %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting phrase %s: %w", id, err)
	}
	p.ID = id
	return &p, nil
}
