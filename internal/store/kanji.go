package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/kanjicard/internal/card"
)

const kanjiColumns = `id, character, meanings, onyomi, kunyomi, bushu, bushu_meaning,
	mnemonic, stroke_count, jlpt_level, frequency, is_favorite`

// KanjiFilter narrows ListKanji. Zero values match everything.
type KanjiFilter struct {
	JLPTLevel     int
	FavoritesOnly bool
	Query         string // matches character, readings or meanings
}

// UpsertKanji inserts the kanji or replaces an existing row with the same id.
// The favorite flag of an existing row is kept.
func (s *Store) UpsertKanji(ctx context.Context, k *card.Kanji) error {
	return upsertKanji(ctx, s.db, k)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertKanji(ctx context.Context, db execer, k *card.Kanji) error {
	k.ApplyDefaults()
	if err := k.Validate(); err != nil {
		return err
	}

	meanings, onyomi, kunyomi, err := encodeLists(k.Meanings, k.Onyomi, k.Kunyomi)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO kanji (`+kanjiColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			character = excluded.character,
			meanings = excluded.meanings,
			onyomi = excluded.onyomi,
			kunyomi = excluded.kunyomi,
			bushu = excluded.bushu,
			bushu_meaning = excluded.bushu_meaning,
			mnemonic = excluded.mnemonic,
			stroke_count = excluded.stroke_count,
			jlpt_level = excluded.jlpt_level,
			frequency = excluded.frequency
	`, k.ID, k.Character, meanings, onyomi, kunyomi, k.Bushu, k.BushuMeaning,
		k.Mnemonic, k.StrokeCount, k.JLPTLevel, k.Frequency, k.IsFavorite)
	if err != nil {
		return fmt.Errorf("upserting kanji %s: %w", k.Character, err)
	}
	return nil
}

// GetKanji returns the kanji with the given id.
func (s *Store) GetKanji(ctx context.Context, id int64) (*card.Kanji, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+kanjiColumns+` FROM kanji WHERE id = ?`, id)
	k, err := scanKanji(row)
	if err != nil {
		return nil, fmt.Errorf("getting kanji %d: %w", id, err)
	}
	return k, nil
}

// GetKanjiByCharacter returns the kanji for a character.
func (s *Store) GetKanjiByCharacter(ctx context.Context, char string) (*card.Kanji, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+kanjiColumns+` FROM kanji WHERE character = ?`, char)
	k, err := scanKanji(row)
	if err != nil {
		return nil, fmt.Errorf("getting kanji %s: %w", char, err)
	}
	return k, nil
}

// ListKanji returns kanji ordered by JLPT level (easiest first), then
// frequency rank, then id.
func (s *Store) ListKanji(ctx context.Context, f KanjiFilter) ([]*card.Kanji, error) {
	var (
		where []string
		args  []any
	)
	if f.JLPTLevel > 0 {
		where = append(where, "jlpt_level = ?")
		args = append(args, f.JLPTLevel)
	}
	if f.FavoritesOnly {
		where = append(where, "is_favorite = 1")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, "(character = ? OR meanings LIKE ? OR onyomi LIKE ? OR kunyomi LIKE ?)")
		like := "%" + q + "%"
		args = append(args, q, like, like, like)
	}

	query := `SELECT ` + kanjiColumns + ` FROM kanji`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY jlpt_level DESC, CASE WHEN frequency = 0 THEN 1 ELSE 0 END, frequency, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying kanji: %w", err)
	}
	defer rows.Close()

	var out []*card.Kanji
	for rows.Next() {
		k, err := scanKanji(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning kanji: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// UpdateMnemonic replaces a kanji's mnemonic.
func (s *Store) UpdateMnemonic(ctx context.Context, id int64, mnemonic string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE kanji SET mnemonic = ? WHERE id = ?`, mnemonic, id)
	if err != nil {
		return fmt.Errorf("updating mnemonic: %w", err)
	}
	return requireRow(res, fmt.Sprintf("kanji %d", id))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKanji(row scanner) (*card.Kanji, error) {
	var (
		k                         card.Kanji
		meanings, onyomi, kunyomi string
	)
	err := row.Scan(&k.ID, &k.Character, &meanings, &onyomi, &kunyomi, &k.Bushu,
		&k.BushuMeaning, &k.Mnemonic, &k.StrokeCount, &k.JLPTLevel, &k.Frequency, &k.IsFavorite)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(meanings), &k.Meanings); err != nil {
		return nil, fmt.Errorf("parsing meanings: %w", err)
	}
	if err := json.Unmarshal([]byte(onyomi), &k.Onyomi); err != nil {
		return nil, fmt.Errorf("parsing onyomi: %w", err)
	}
	if err := json.Unmarshal([]byte(kunyomi), &k.Kunyomi); err != nil {
		return nil, fmt.Errorf("parsing kunyomi: %w", err)
	}
	return &k, nil
}

func encodeLists(lists ...[]string) (string, string, string, error) {
	var out [3]string
	for i, l := range lists {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return "", "", "", fmt.Errorf("encoding list: %w", err)
		}
		out[i] = string(b)
	}
	return out[0], out[1], out[2], nil
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
