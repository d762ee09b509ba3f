package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/f3rmion/kanjicard/internal/card"
)

// SetFavorite writes an absolute favorite value for a kanji or phrase.
func (s *Store) SetFavorite(ctx context.Context, key card.Key, favorite bool) error {
	var (
		query string
		id    any
	)
	switch key.Kind {
	case card.KindKanji:
		n, err := strconv.ParseInt(key.ID, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing kanji id %q: %w", key.ID, err)
		}
		query, id = `UPDATE kanji SET is_favorite = ? WHERE id = ?`, n
	case card.KindPhrase:
		query, id = `UPDATE phrases SET is_favorite = ? WHERE id = ?`, key.ID
	default:
		return fmt.Errorf("unknown favorite kind %q", key.Kind)
	}

	res, err := s.db.ExecContext(ctx, query, favorite, id)
	if err != nil {
		return fmt.Errorf("setting favorite %s: %w", key, err)
	}
	if err := requireRow(res, key.String()); err != nil {
		return err
	}

	s.logger.Debug("favorite set", slog.String("key", key.String()), slog.Bool("favorite", favorite))
	return nil
}
